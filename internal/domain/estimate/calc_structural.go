package estimate

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

type structuralMeasurements struct {
	SubfloorSqft     decimal.Decimal `json:"subfloor_sqft"`
	JoistSisterCount int             `json:"joist_sister_count"`
	WallFramingLF    decimal.Decimal `json:"wall_framing_lf"`
	BlockingCount    int             `json:"blocking_count"`
}

func calculateStructural(in Input) ([]GeneratedItem, error) {
	var m structuralMeasurements
	if err := decodeSections(in.Sections, &m, nil, nil); err != nil {
		return nil, err
	}

	b := newBuilder(project.CategoryStructural, in.HourlyRate)
	subfloor := positive(m.SubfloorSqft)
	joists := count(m.JoistSisterCount)
	framing := positive(m.WallFramingLF)
	blocking := count(m.BlockingCount)

	b.material("subfloor", "Subfloor plywood", "sheet", ceilDiv(subfloor, dec("32")), in.Prices.Price(PricePlywoodSheet))
	b.material("joists", "Joist lumber", "ea", joists, in.Prices.Price(PriceJoistLumber))
	if framing.IsPositive() {
		studs := framing.Mul(dec("0.75")).Ceil().Add(one)
		b.material("studs", "Framing studs", "ea", studs, in.Prices.Price(PriceStud))
	}
	b.material("blocking", "Blocking", "ea", blocking, in.Prices.Price(PriceBlocking))

	b.labor("subfloor", "Replace subfloor", subfloor.Div(dec("16")))
	b.labor("joists", "Sister joists", joists.Mul(dec("1.5")))
	b.labor("framing", "Frame walls", framing.Div(dec("4")))
	b.labor("blocking", "Install blocking", blocking.Mul(dec("0.25")))

	return b.result(), nil
}
