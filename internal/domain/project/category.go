package project

import "github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"

// Category is one step of the estimation wizard
type Category string

const (
	CategoryDemolition  Category = "demolition"
	CategoryShowerWalls Category = "shower_walls"
	CategoryShowerBase  Category = "shower_base"
	CategoryFloors      Category = "floors"
	CategoryStructural  Category = "structural"
	CategoryTrades      Category = "trades"
	CategoryFinishings  Category = "finishings"
)

// AllCategories returns the categories in wizard order
func AllCategories() []Category {
	return []Category{
		CategoryDemolition,
		CategoryShowerWalls,
		CategoryShowerBase,
		CategoryFloors,
		CategoryStructural,
		CategoryTrades,
		CategoryFinishings,
	}
}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Position returns the wizard position of the category, or -1
func (c Category) Position() int {
	for i, known := range AllCategories() {
		if c == known {
			return i
		}
	}
	return -1
}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", shared.NewDomainError("INVALID_CATEGORY", "Unknown category: "+s)
	}
	return c, nil
}
