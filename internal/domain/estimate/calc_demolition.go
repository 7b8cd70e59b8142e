package estimate

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

type demolitionMeasurements struct {
	FloorTileSqft decimal.Decimal `json:"floor_tile_sqft"`
	WallTileSqft  decimal.Decimal `json:"wall_tile_sqft"`
	DrywallSqft   decimal.Decimal `json:"drywall_sqft"`
}

type demolitionConstruction struct {
	RemoveVanity    bool `json:"remove_vanity"`
	RemoveToilet    bool `json:"remove_toilet"`
	RemoveTub       bool `json:"remove_tub"`
	RemoveShowerPan bool `json:"remove_shower_pan"`
	Dumpster        bool `json:"dumpster"`
}

func calculateDemolition(in Input) ([]GeneratedItem, error) {
	var m demolitionMeasurements
	var c demolitionConstruction
	if err := decodeSections(in.Sections, &m, nil, &c); err != nil {
		return nil, err
	}

	floor, wall, drywall := positive(m.FloorTileSqft), positive(m.WallTileSqft), positive(m.DrywallSqft)
	b := newBuilder(project.CategoryDemolition, in.HourlyRate)

	b.labor("floor_tile", "Remove floor tile", floor.Div(dec("25")))
	b.labor("wall_tile", "Remove wall tile", wall.Div(dec("20")))
	b.labor("drywall", "Remove drywall", drywall.Div(dec("50")))
	if c.RemoveVanity {
		b.labor("vanity", "Remove vanity", one)
	}
	if c.RemoveToilet {
		b.labor("toilet", "Remove toilet", dec("0.5"))
	}
	if c.RemoveTub {
		b.labor("tub", "Remove tub", dec("3"))
	}
	if c.RemoveShowerPan {
		b.labor("shower_pan", "Remove shower pan", dec("2"))
	}

	if c.Dumpster {
		b.material("dumpster", "Dumpster rental", "ea", one, in.Prices.Price(PriceDumpster))
	}
	bags := ceilDiv(floor.Add(wall).Add(drywall), dec("50"))
	b.material("contractor_bags", "Contractor bags", "ea", bags, in.Prices.Price(PriceContractorBag))

	return b.result(), nil
}
