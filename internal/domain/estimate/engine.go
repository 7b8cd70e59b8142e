// Package estimate turns wizard screen answers into priced labor and material
// line items and reconciles them with what the user already has.
// Everything here is deterministic and free of I/O.
package estimate

import (
	"encoding/json"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GeneratedItem is a line item proposed by a calculator.
// Key is stable across recalculations and identifies the row during reconciliation.
type GeneratedItem struct {
	Key       string
	Type      project.LineItemType
	Name      string
	Unit      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Total is quantity × unit price rounded to cents
func (g GeneratedItem) Total() decimal.Decimal {
	return g.Quantity.Mul(g.UnitPrice).Round(2)
}

// Values converts the item into line item values
func (g GeneratedItem) Values() project.LineItemValues {
	return project.LineItemValues{
		Name:      g.Name,
		Unit:      g.Unit,
		Quantity:  g.Quantity,
		UnitPrice: g.UnitPrice,
	}
}

// Input is what a calculator works from
type Input struct {
	Sections   project.ScreenSections
	HourlyRate decimal.Decimal
	Prices     PriceCatalog
}

type calculator func(in Input) ([]GeneratedItem, error)

// Engine dispatches screens to the calculator of their category
type Engine struct {
	prices      PriceCatalog
	calculators map[project.Category]calculator
}

// NewEngine creates an engine using the given price catalogue
func NewEngine(prices PriceCatalog) *Engine {
	return &Engine{
		prices: prices,
		calculators: map[project.Category]calculator{
			project.CategoryDemolition:  calculateDemolition,
			project.CategoryShowerWalls: calculateShowerWalls,
			project.CategoryShowerBase:  calculateShowerBase,
			project.CategoryFloors:      calculateFloors,
			project.CategoryStructural:  calculateStructural,
			project.CategoryTrades:      calculateTrades,
			project.CategoryFinishings:  calculateFinishings,
		},
	}
}

// Prices returns the catalogue the engine prices materials with
func (e *Engine) Prices() PriceCatalog {
	return e.prices
}

// Generate calculates the line items for one screen
func (e *Engine) Generate(screen *project.WorkflowScreen, hourlyRate decimal.Decimal) ([]GeneratedItem, error) {
	calc, ok := e.calculators[screen.Category]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "No calculator for category: "+string(screen.Category))
	}
	if hourlyRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_HOURLY_RATE", "Hourly rate cannot be negative")
	}

	sections, err := screen.Sections()
	if err != nil {
		return nil, err
	}
	return calc(Input{Sections: sections, HourlyRate: hourlyRate, Prices: e.prices})
}

// decodeSections unmarshals the three standard sections into typed targets.
// Absent sections leave the target at its zero value.
func decodeSections(s project.ScreenSections, measurements, design, construction any) error {
	parts := []struct {
		name   string
		raw    json.RawMessage
		target any
	}{
		{"measurements", s.Measurements, measurements},
		{"design", s.Design, design},
		{"construction", s.Construction, construction},
	}
	for _, p := range parts {
		if p.target == nil || len(p.raw) == 0 || string(p.raw) == "null" {
			continue
		}
		if err := json.Unmarshal(p.raw, p.target); err != nil {
			return shared.WrapDomainError("INVALID_SCREEN_DATA", "Invalid "+p.name+" section", err)
		}
	}
	return nil
}

// tileDesign is the design block shared by every tiled surface
type tileDesign struct {
	TileLengthIn     decimal.Decimal  `json:"tile_length_in"`
	TileWidthIn      decimal.Decimal  `json:"tile_width_in"`
	Pattern          string           `json:"pattern"`
	WasteFactor      *decimal.Decimal `json:"waste_factor"`
	TilePricePerSqft decimal.Decimal  `json:"tile_price_per_sqft"`
}

func (d tileDesign) pattern() Pattern {
	return ParsePattern(d.Pattern)
}

func (d tileDesign) waste() decimal.Decimal {
	return WasteFactor(d.pattern(), d.TileLengthIn, d.TileWidthIn, d.WasteFactor)
}

// builder accumulates generated items for one category
type builder struct {
	prefix string
	rate   decimal.Decimal
	items  []GeneratedItem
}

func newBuilder(category project.Category, rate decimal.Decimal) *builder {
	return &builder{prefix: string(category) + ".", rate: rate}
}

// material adds a material row; zero quantities are skipped
func (b *builder) material(key, name, unit string, qty, unitPrice decimal.Decimal) {
	qty = qty.Round(2)
	if !qty.IsPositive() {
		return
	}
	b.items = append(b.items, GeneratedItem{
		Key:       b.prefix + "material." + key,
		Type:      project.LineItemTypeMaterial,
		Name:      name,
		Unit:      unit,
		Quantity:  qty,
		UnitPrice: unitPrice.Round(2),
	})
}

// labor adds a labor row priced at the hourly rate; zero hours are skipped
func (b *builder) labor(key, name string, hours decimal.Decimal) {
	hours = hours.Round(2)
	if !hours.IsPositive() {
		return
	}
	b.items = append(b.items, GeneratedItem{
		Key:       b.prefix + "labor." + key,
		Type:      project.LineItemTypeLabor,
		Name:      name,
		Unit:      "hr",
		Quantity:  hours,
		UnitPrice: b.rate.Round(2),
	})
}

func (b *builder) result() []GeneratedItem {
	if b.items == nil {
		return []GeneratedItem{}
	}
	return b.items
}

var one = decimal.NewFromInt(1)

// ceilDiv returns ⌈a / b⌉ for positive a, zero otherwise
func ceilDiv(a, b decimal.Decimal) decimal.Decimal {
	if !a.IsPositive() || !b.IsPositive() {
		return decimal.Zero
	}
	return a.Div(b).Ceil()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func count(n int) decimal.Decimal {
	if n < 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n))
}

func positive(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
