package estimate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Price catalogue keys
const (
	PriceTileSqft               = "tile_sqft"
	PriceMosaicTileSqft         = "mosaic_tile_sqft"
	PriceThinsetBag             = "thinset_bag"
	PriceGroutBag               = "grout_bag"
	PriceCementBoardSheet       = "cement_board_sheet"
	PriceFoamBoardSheet         = "foam_board_sheet"
	PriceLiquidMembraneGallon   = "liquid_membrane_gallon"
	PriceSheetMembraneSqft      = "sheet_membrane_sqft"
	PriceUncouplingMembraneSqft = "uncoupling_membrane_sqft"
	PriceHeatedMatSqft          = "heated_mat_sqft"
	PriceThermostat             = "thermostat"
	PriceSelfLevelerBag         = "self_leveler_bag"
	PriceNicheKit               = "niche_kit"
	PriceMortarBag              = "mortar_bag"
	PriceShowerLinerSqft        = "shower_liner_sqft"
	PriceDrainCenter            = "drain_center"
	PriceDrainLinear            = "drain_linear"
	PriceCurbKit                = "curb_kit"
	PriceShowerPan              = "shower_pan"
	PriceDumpster               = "dumpster"
	PriceContractorBag          = "contractor_bag"
	PricePlywoodSheet           = "plywood_sheet"
	PriceJoistLumber            = "joist_lumber"
	PriceStud                   = "stud"
	PriceBlocking               = "blocking"
	PriceDrainRelocation        = "drain_relocation"
	PriceMixingValve            = "mixing_valve"
	PriceSupplyLines            = "supply_lines"
	PriceToiletFlange           = "toilet_flange"
	PriceCircuit                = "circuit"
	PriceGFCIOutlet             = "gfci_outlet"
	PriceExhaustFan             = "exhaust_fan"
	PriceLightFixture           = "light_fixture"
	PriceVanity                 = "vanity"
	PriceToilet                 = "toilet"
	PriceFaucet                 = "faucet"
	PriceMirror                 = "mirror"
	PriceGlassDoor              = "glass_door"
	PriceAccessory              = "accessory"
	PricePaintGallon            = "paint_gallon"
)

var defaultPrices = map[string]string{
	PriceTileSqft:               "4.50",
	PriceMosaicTileSqft:         "12.00",
	PriceThinsetBag:             "28.00",
	PriceGroutBag:               "24.00",
	PriceCementBoardSheet:       "16.00",
	PriceFoamBoardSheet:         "75.00",
	PriceLiquidMembraneGallon:   "65.00",
	PriceSheetMembraneSqft:      "2.50",
	PriceUncouplingMembraneSqft: "1.75",
	PriceHeatedMatSqft:          "14.00",
	PriceThermostat:             "180.00",
	PriceSelfLevelerBag:         "42.00",
	PriceNicheKit:               "95.00",
	PriceMortarBag:              "9.00",
	PriceShowerLinerSqft:        "1.40",
	PriceDrainCenter:            "65.00",
	PriceDrainLinear:            "320.00",
	PriceCurbKit:                "45.00",
	PriceShowerPan:              "350.00",
	PriceDumpster:               "450.00",
	PriceContractorBag:          "1.25",
	PricePlywoodSheet:           "55.00",
	PriceJoistLumber:            "28.00",
	PriceStud:                   "6.00",
	PriceBlocking:               "4.00",
	PriceDrainRelocation:        "120.00",
	PriceMixingValve:            "225.00",
	PriceSupplyLines:            "35.00",
	PriceToiletFlange:           "25.00",
	PriceCircuit:                "140.00",
	PriceGFCIOutlet:             "32.00",
	PriceExhaustFan:             "160.00",
	PriceLightFixture:           "90.00",
	PriceVanity:                 "650.00",
	PriceToilet:                 "320.00",
	PriceFaucet:                 "180.00",
	PriceMirror:                 "120.00",
	PriceGlassDoor:              "900.00",
	PriceAccessory:              "35.00",
	PricePaintGallon:            "48.00",
}

// PriceCatalog holds material unit prices used when a screen does not give one
type PriceCatalog struct {
	prices map[string]decimal.Decimal
}

// DefaultPriceCatalog returns the built-in prices
func DefaultPriceCatalog() PriceCatalog {
	c := PriceCatalog{prices: make(map[string]decimal.Decimal, len(defaultPrices))}
	for k, v := range defaultPrices {
		c.prices[k] = decimal.RequireFromString(v)
	}
	return c
}

// NewPriceCatalog returns the built-in prices with overrides applied.
// Overrides must be known keys with non-negative decimal values.
func NewPriceCatalog(overrides map[string]string) (PriceCatalog, error) {
	c := DefaultPriceCatalog()
	for k, v := range overrides {
		if _, ok := c.prices[k]; !ok {
			return PriceCatalog{}, fmt.Errorf("unknown price key %q", k)
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return PriceCatalog{}, fmt.Errorf("invalid price for %q: %w", k, err)
		}
		if d.IsNegative() {
			return PriceCatalog{}, fmt.Errorf("price for %q cannot be negative", k)
		}
		c.prices[k] = d
	}
	return c, nil
}

// Price returns the catalogue price for key, or zero when unknown
func (c PriceCatalog) Price(key string) decimal.Decimal {
	return c.prices[key]
}

// PriceOr returns override when it is positive, otherwise the catalogue price
func (c PriceCatalog) PriceOr(override decimal.Decimal, key string) decimal.Decimal {
	if override.IsPositive() {
		return override
	}
	return c.Price(key)
}
