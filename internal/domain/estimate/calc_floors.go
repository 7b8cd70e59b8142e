package estimate

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

type floorMeasurements struct {
	LengthFt       decimal.Decimal `json:"length_ft"`
	WidthFt        decimal.Decimal `json:"width_ft"`
	DeductionsSqft decimal.Decimal `json:"deductions_sqft"`
}

type floorConstruction struct {
	UncouplingMembrane bool `json:"uncoupling_membrane"`
	HeatedFloor        bool `json:"heated_floor"`
	SelfLeveler        bool `json:"self_leveler"`
}

// FloorArea returns length × width less deductions, never negative
func FloorArea(length, width, deductions decimal.Decimal) decimal.Decimal {
	return positive(positive(length).Mul(positive(width)).Sub(positive(deductions)))
}

func calculateFloors(in Input) ([]GeneratedItem, error) {
	var m floorMeasurements
	var d tileDesign
	var c floorConstruction
	if err := decodeSections(in.Sections, &m, &d, &c); err != nil {
		return nil, err
	}

	b := newBuilder(project.CategoryFloors, in.HourlyRate)
	area := FloorArea(m.LengthFt, m.WidthFt, m.DeductionsSqft)
	if !area.IsPositive() {
		return b.result(), nil
	}

	b.material("tile", "Floor tile", "sqft", TileArea(area, d.waste()), in.Prices.PriceOr(d.TilePricePerSqft, PriceTileSqft))
	b.material("thinset", "Thinset mortar", "bag", ceilDiv(area, dec("50")), in.Prices.Price(PriceThinsetBag))
	b.material("grout", "Grout", "bag", ceilDiv(area, dec("100")), in.Prices.Price(PriceGroutBag))
	if c.UncouplingMembrane {
		b.material("membrane", "Uncoupling membrane", "sqft", area.Mul(dec("1.10")).Round(2), in.Prices.Price(PriceUncouplingMembraneSqft))
	}
	if c.HeatedFloor {
		b.material("heated_mat", "Heated floor mat", "sqft", area.Mul(dec("0.8")).Round(2), in.Prices.Price(PriceHeatedMatSqft))
		b.material("thermostat", "Floor heat thermostat", "ea", one, in.Prices.Price(PriceThermostat))
	}
	if c.SelfLeveler {
		b.material("self_leveler", "Self-leveler", "bag", ceilDiv(area, dec("25")), in.Prices.Price(PriceSelfLevelerBag))
	}

	b.labor("tile", "Install floor tile", area.Div(Productivity(d.pattern())))
	if c.UncouplingMembrane {
		b.labor("membrane", "Install uncoupling membrane", area.Div(dec("40")))
	}
	if c.HeatedFloor {
		b.labor("heated_mat", "Install heated floor", dec("4").Add(area.Div(dec("30"))))
	}
	if c.SelfLeveler {
		b.labor("self_leveler", "Pour self-leveler", one.Add(area.Div(dec("50"))))
	}
	b.labor("grout", "Grout floor", area.Div(dec("40")))

	return b.result(), nil
}
