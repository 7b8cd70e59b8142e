package estimate

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

// Shower base types
const (
	BaseTypeTile    = "tile"
	BaseTypePrefab  = "prefab"
	BaseTypeAcrylic = "acrylic"
)

type showerBaseMeasurements struct {
	LengthFt decimal.Decimal `json:"length_ft"`
	WidthFt  decimal.Decimal `json:"width_ft"`
}

type showerBaseDesign struct {
	tileDesign
	BaseType  string          `json:"base_type"`
	DrainType string          `json:"drain_type"`
	PanPrice  decimal.Decimal `json:"pan_price"`
}

type showerBaseConstruction struct {
	Curb bool `json:"curb"`
}

func calculateShowerBase(in Input) ([]GeneratedItem, error) {
	var m showerBaseMeasurements
	var d showerBaseDesign
	var c showerBaseConstruction
	if err := decodeSections(in.Sections, &m, &d, &c); err != nil {
		return nil, err
	}

	b := newBuilder(project.CategoryShowerBase, in.HourlyRate)
	length, width := positive(m.LengthFt), positive(m.WidthFt)
	area := length.Mul(width)
	if !area.IsPositive() {
		return b.result(), nil
	}

	linear := d.DrainType == "linear"
	drainPrice := in.Prices.Price(PriceDrainCenter)
	drainName := "Center drain kit"
	if linear {
		drainPrice = in.Prices.Price(PriceDrainLinear)
		drainName = "Linear drain kit"
	}

	switch d.BaseType {
	case BaseTypePrefab, BaseTypeAcrylic:
		b.material("pan", "Shower pan", "ea", one, in.Prices.PriceOr(d.PanPrice, PriceShowerPan))
		b.material("drain", drainName, "ea", one, drainPrice)
		b.labor("pan", "Install shower pan", dec("4"))
	default:
		b.material("tile", "Shower floor tile", "sqft", TileArea(area, d.waste()), in.Prices.PriceOr(d.TilePricePerSqft, PriceMosaicTileSqft))
		b.material("mortar", "Mortar bed mix", "bag", ceilDiv(area, dec("3")), in.Prices.Price(PriceMortarBag))
		liner := length.Add(dec("2")).Mul(width.Add(dec("2")))
		b.material("liner", "Shower pan liner", "sqft", liner, in.Prices.Price(PriceShowerLinerSqft))
		b.material("drain", drainName, "ea", one, drainPrice)
		if c.Curb {
			b.material("curb", "Curb kit", "ea", one, in.Prices.Price(PriceCurbKit))
		}

		b.labor("mortar_bed", "Float mortar bed", dec("4").Add(area.Div(dec("4"))))
		b.labor("liner", "Install pan liner", dec("2"))
		b.labor("tile", "Tile shower floor", area.Div(dec("3")))
		if linear {
			b.labor("drain", "Install linear drain", dec("3"))
		} else {
			b.labor("drain", "Install drain", dec("1.5"))
		}
	}

	return b.result(), nil
}
