package estimate

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
)

type tradesMeasurements struct {
	DrainRelocation int `json:"drain_relocation"`
	MixingValve     int `json:"mixing_valve"`
	SupplyLines     int `json:"supply_lines"`
	ToiletFlange    int `json:"toilet_flange"`
	Circuits        int `json:"circuits"`
	GFCIOutlets     int `json:"gfci_outlets"`
	ExhaustFans     int `json:"exhaust_fans"`
	LightFixtures   int `json:"light_fixtures"`
}

type tradeTask struct {
	key      string
	name     string
	hours    string
	priceKey string
	count    func(m tradesMeasurements) int
}

var tradeTasks = []tradeTask{
	{"drain_relocation", "Relocate drain", "6", PriceDrainRelocation, func(m tradesMeasurements) int { return m.DrainRelocation }},
	{"mixing_valve", "Install mixing valve", "4", PriceMixingValve, func(m tradesMeasurements) int { return m.MixingValve }},
	{"supply_lines", "Run supply lines", "1", PriceSupplyLines, func(m tradesMeasurements) int { return m.SupplyLines }},
	{"toilet_flange", "Replace toilet flange", "1", PriceToiletFlange, func(m tradesMeasurements) int { return m.ToiletFlange }},
	{"circuit", "Add circuit", "3", PriceCircuit, func(m tradesMeasurements) int { return m.Circuits }},
	{"gfci_outlet", "Install GFCI outlet", "0.75", PriceGFCIOutlet, func(m tradesMeasurements) int { return m.GFCIOutlets }},
	{"exhaust_fan", "Install exhaust fan", "2.5", PriceExhaustFan, func(m tradesMeasurements) int { return m.ExhaustFans }},
	{"light_fixture", "Install light fixture", "1", PriceLightFixture, func(m tradesMeasurements) int { return m.LightFixtures }},
}

func calculateTrades(in Input) ([]GeneratedItem, error) {
	var m tradesMeasurements
	if err := decodeSections(in.Sections, &m, nil, nil); err != nil {
		return nil, err
	}

	b := newBuilder(project.CategoryTrades, in.HourlyRate)
	for _, t := range tradeTasks {
		b.material(t.key, t.name+" materials", "ea", count(t.count(m)), in.Prices.Price(t.priceKey))
	}
	for _, t := range tradeTasks {
		b.labor(t.key, t.name, count(t.count(m)).Mul(dec(t.hours)))
	}
	return b.result(), nil
}
