package estimate

import (
	"strings"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

type finishingsMeasurements struct {
	AccessoriesCount int             `json:"accessories_count"`
	PaintSqft        decimal.Decimal `json:"paint_sqft"`
}

type finishingsDesign struct {
	VanityPrice    decimal.Decimal `json:"vanity_price"`
	ToiletPrice    decimal.Decimal `json:"toilet_price"`
	FaucetPrice    decimal.Decimal `json:"faucet_price"`
	MirrorPrice    decimal.Decimal `json:"mirror_price"`
	GlassDoorPrice decimal.Decimal `json:"glass_door_price"`
	AccessoryPrice decimal.Decimal `json:"accessory_price"`
}

type finishingsConstruction struct {
	InstallVanity    bool `json:"install_vanity"`
	InstallToilet    bool `json:"install_toilet"`
	InstallFaucet    bool `json:"install_faucet"`
	InstallMirror    bool `json:"install_mirror"`
	InstallGlassDoor bool `json:"install_glass_door"`
}

func calculateFinishings(in Input) ([]GeneratedItem, error) {
	var m finishingsMeasurements
	var d finishingsDesign
	var c finishingsConstruction
	if err := decodeSections(in.Sections, &m, &d, &c); err != nil {
		return nil, err
	}

	b := newBuilder(project.CategoryFinishings, in.HourlyRate)
	fixtures := []struct {
		install  bool
		key      string
		name     string
		price    decimal.Decimal
		priceKey string
		hours    string
	}{
		{c.InstallVanity, "vanity", "Vanity", d.VanityPrice, PriceVanity, "3"},
		{c.InstallToilet, "toilet", "Toilet", d.ToiletPrice, PriceToilet, "1.5"},
		{c.InstallFaucet, "faucet", "Faucet", d.FaucetPrice, PriceFaucet, "1"},
		{c.InstallMirror, "mirror", "Mirror", d.MirrorPrice, PriceMirror, "0.5"},
		{c.InstallGlassDoor, "glass_door", "Glass shower door", d.GlassDoorPrice, PriceGlassDoor, "4"},
	}

	for _, f := range fixtures {
		if f.install {
			b.material(f.key, f.name, "ea", one, in.Prices.PriceOr(f.price, f.priceKey))
		}
	}
	accessories := count(m.AccessoriesCount)
	b.material("accessories", "Bath accessories", "ea", accessories, in.Prices.PriceOr(d.AccessoryPrice, PriceAccessory))
	paint := positive(m.PaintSqft)
	b.material("paint", "Paint", "gal", ceilDiv(paint, dec("350")), in.Prices.Price(PricePaintGallon))

	for _, f := range fixtures {
		if f.install {
			b.labor(f.key, "Install "+lowerFirst(f.name), dec(f.hours))
		}
	}
	b.labor("accessories", "Install accessories", accessories.Mul(dec("0.5")))
	b.labor("paint", "Paint walls and ceiling", paint.Div(dec("100")))

	return b.result(), nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
