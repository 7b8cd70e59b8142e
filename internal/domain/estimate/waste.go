package estimate

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Pattern is the tile layout pattern
type Pattern string

const (
	PatternStraight    Pattern = "straight"
	PatternOffset      Pattern = "offset"
	PatternDiagonal    Pattern = "diagonal"
	PatternHerringbone Pattern = "herringbone"
	PatternChevron     Pattern = "chevron"
)

var (
	baseWaste = map[Pattern]decimal.Decimal{
		PatternStraight:    decimal.RequireFromString("0.10"),
		PatternOffset:      decimal.RequireFromString("0.12"),
		PatternDiagonal:    decimal.RequireFromString("0.15"),
		PatternHerringbone: decimal.RequireFromString("0.20"),
		PatternChevron:     decimal.RequireFromString("0.20"),
	}

	// square feet a tile setter lays per hour on a floor
	setterProductivity = map[Pattern]decimal.Decimal{
		PatternStraight:    decimal.NewFromInt(8),
		PatternOffset:      decimal.NewFromInt(7),
		PatternDiagonal:    decimal.NewFromInt(6),
		PatternHerringbone: decimal.NewFromInt(4),
		PatternChevron:     decimal.NewFromInt(4),
	}

	largeFormatEdge  = decimal.NewFromInt(24)
	mosaicEdge       = decimal.NewFromInt(2)
	sizeWasteAdjust  = decimal.RequireFromString("0.05")
	maxWasteOverride = decimal.RequireFromString("0.5")
)

// ParsePattern maps free text to a known pattern. Unknown values fall back to straight.
func ParsePattern(s string) Pattern {
	p := Pattern(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := baseWaste[p]; ok {
		return p
	}
	return PatternStraight
}

// WasteFactor returns the fractional overage to order for a tile layout.
// A valid override (0 to 0.5) wins over the computed value.
func WasteFactor(pattern Pattern, tileLengthIn, tileWidthIn decimal.Decimal, override *decimal.Decimal) decimal.Decimal {
	if override != nil && !override.IsNegative() && override.LessThanOrEqual(maxWasteOverride) {
		return *override
	}

	waste, ok := baseWaste[pattern]
	if !ok {
		waste = baseWaste[PatternStraight]
	}

	longest := decimal.Max(tileLengthIn, tileWidthIn)
	switch {
	case longest.GreaterThanOrEqual(largeFormatEdge):
		waste = waste.Add(sizeWasteAdjust)
	case longest.IsPositive() && longest.LessThanOrEqual(mosaicEdge):
		waste = waste.Add(sizeWasteAdjust)
	}
	return waste
}

// TileArea is the area to order: area × (1 + waste), to the hundredth
func TileArea(area, waste decimal.Decimal) decimal.Decimal {
	return area.Mul(decimal.NewFromInt(1).Add(waste)).Round(2)
}

// Productivity returns square feet per labor hour for a pattern
func Productivity(pattern Pattern) decimal.Decimal {
	if p, ok := setterProductivity[pattern]; ok {
		return p
	}
	return setterProductivity[PatternStraight]
}
