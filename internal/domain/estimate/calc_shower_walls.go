package estimate

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

type showerWallsMeasurements struct {
	BackWallWidthFt  decimal.Decimal `json:"back_wall_width_ft"`
	LeftWallWidthFt  decimal.Decimal `json:"left_wall_width_ft"`
	RightWallWidthFt decimal.Decimal `json:"right_wall_width_ft"`
	WallHeightFt     decimal.Decimal `json:"wall_height_ft"`
	OpeningsSqft     decimal.Decimal `json:"openings_sqft"`
	NicheCount       int             `json:"niche_count"`
}

type showerWallsConstruction struct {
	BackerBoard   string `json:"backer_board"`
	Waterproofing string `json:"waterproofing"`
}

// WallArea returns the tiled wall area of a three-wall shower
func WallArea(back, left, right, height, openings decimal.Decimal) decimal.Decimal {
	width := positive(back).Add(positive(left)).Add(positive(right))
	return positive(width.Mul(positive(height)).Sub(positive(openings)))
}

func calculateShowerWalls(in Input) ([]GeneratedItem, error) {
	var m showerWallsMeasurements
	var d tileDesign
	var c showerWallsConstruction
	if err := decodeSections(in.Sections, &m, &d, &c); err != nil {
		return nil, err
	}

	b := newBuilder(project.CategoryShowerWalls, in.HourlyRate)
	area := WallArea(m.BackWallWidthFt, m.LeftWallWidthFt, m.RightWallWidthFt, m.WallHeightFt, m.OpeningsSqft)
	niches := count(m.NicheCount)

	if area.IsPositive() {
		b.material("tile", "Wall tile", "sqft", TileArea(area, d.waste()), in.Prices.PriceOr(d.TilePricePerSqft, PriceTileSqft))

		sheets := ceilDiv(area, dec("15"))
		if c.BackerBoard == "foam_board" {
			b.material("backer_board", "Foam backer board", "sheet", sheets, in.Prices.Price(PriceFoamBoardSheet))
		} else {
			b.material("backer_board", "Cement backer board", "sheet", sheets, in.Prices.Price(PriceCementBoardSheet))
		}

		switch c.Waterproofing {
		case "none":
		case "sheet":
			b.material("waterproofing", "Sheet waterproofing membrane", "sqft", area.Mul(dec("1.10")).Round(2), in.Prices.Price(PriceSheetMembraneSqft))
		default:
			b.material("waterproofing", "Liquid waterproofing membrane", "gal", ceilDiv(area, dec("50")), in.Prices.Price(PriceLiquidMembraneGallon))
		}

		b.material("thinset", "Thinset mortar", "bag", ceilDiv(area, dec("40")), in.Prices.Price(PriceThinsetBag))
		b.material("grout", "Grout", "bag", ceilDiv(area, dec("100")), in.Prices.Price(PriceGroutBag))
	}
	b.material("niche", "Shower niche kit", "ea", niches, in.Prices.Price(PriceNicheKit))

	if area.IsPositive() {
		// walls set slower than floors
		wallRate := Productivity(d.pattern()).Mul(dec("0.8"))
		b.labor("tile", "Install wall tile", area.Div(wallRate))
		b.labor("backer_board", "Install backer board", area.Div(dec("20")))
		if c.Waterproofing != "none" {
			b.labor("waterproofing", "Waterproof shower walls", area.Div(dec("30")))
		}
	}
	b.labor("niche", "Build shower niches", niches.Mul(dec("3")))

	return b.result(), nil
}
