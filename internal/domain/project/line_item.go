package project

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItemType distinguishes labor rows from material rows
type LineItemType string

const (
	LineItemTypeLabor    LineItemType = "labor"
	LineItemTypeMaterial LineItemType = "material"
)

// IsValid reports whether the type is known
func (t LineItemType) IsValid() bool {
	return t == LineItemTypeLabor || t == LineItemTypeMaterial
}

// LineItem is one priced row of an estimate.
// For labor rows Quantity is hours and UnitPrice the hourly rate.
//
// Rows produced by the calculators carry a SourceKey and IsAutoGenerated.
// Once the user changes such a row it is flagged IsUserEdited and
// regeneration leaves it alone.
type LineItem struct {
	shared.OwnedAggregateRoot
	ProjectID       uuid.UUID
	Category        Category
	Type            LineItemType
	SourceKey       string
	Name            string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	Notes           string
	SortOrder       int
	IsAutoGenerated bool
	IsUserEdited    bool
}

// LineItemValues are the priced fields of a row
type LineItemValues struct {
	Name      string
	Unit      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Notes     string
}

// NewManualLineItem creates a row typed in by the user
func NewManualLineItem(ownerID, projectID uuid.UUID, category Category, itemType LineItemType, values LineItemValues) (*LineItem, error) {
	if err := validateLineItem(projectID, category, itemType, values); err != nil {
		return nil, err
	}
	item := &LineItem{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ProjectID:          projectID,
		Category:           category,
		Type:               itemType,
		SortOrder:          1000,
	}
	item.applyValues(values)
	return item, nil
}

// NewGeneratedLineItem creates a row produced by a calculator
func NewGeneratedLineItem(ownerID, projectID uuid.UUID, category Category, itemType LineItemType, sourceKey string, values LineItemValues, sortOrder int) (*LineItem, error) {
	if strings.TrimSpace(sourceKey) == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_KEY", "Generated line items need a source key")
	}
	if err := validateLineItem(projectID, category, itemType, values); err != nil {
		return nil, err
	}
	item := &LineItem{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ProjectID:          projectID,
		Category:           category,
		Type:               itemType,
		SourceKey:          sourceKey,
		SortOrder:          sortOrder,
		IsAutoGenerated:    true,
	}
	item.applyValues(values)
	return item, nil
}

// Total is quantity × unit price rounded to cents
func (li *LineItem) Total() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice).Round(2)
}

// IsManual reports whether the row was typed in by the user
func (li *LineItem) IsManual() bool {
	return !li.IsAutoGenerated || li.SourceKey == ""
}

// Edit applies user changes. Editing a generated row marks it user-edited.
func (li *LineItem) Edit(values LineItemValues) error {
	if err := validateValues(values); err != nil {
		return err
	}
	li.applyValues(values)
	if li.IsAutoGenerated {
		li.IsUserEdited = true
	}
	li.touch()
	return nil
}

// ApplyGenerated overwrites the row with freshly calculated values.
// Returns false when nothing changed.
func (li *LineItem) ApplyGenerated(values LineItemValues, sortOrder int) bool {
	values.Notes = li.Notes
	if li.Name == values.Name &&
		li.Unit == values.Unit &&
		li.Quantity.Equal(values.Quantity) &&
		li.UnitPrice.Equal(values.UnitPrice) &&
		li.SortOrder == sortOrder {
		return false
	}
	li.applyValues(values)
	li.SortOrder = sortOrder
	li.touch()
	return true
}

// ClearUserEdit makes a generated row follow the calculators again
func (li *LineItem) ClearUserEdit() error {
	if !li.IsAutoGenerated {
		return shared.NewDomainError("NOT_GENERATED", "Only generated line items can be reset")
	}
	li.IsUserEdited = false
	li.touch()
	return nil
}

// CopyTo clones the row into another project
func (li *LineItem) CopyTo(projectID uuid.UUID) *LineItem {
	clone := *li
	clone.OwnedAggregateRoot = shared.NewOwnedAggregateRoot(li.OwnerID)
	clone.ProjectID = projectID
	return &clone
}

func (li *LineItem) applyValues(v LineItemValues) {
	li.Name = strings.TrimSpace(v.Name)
	li.Unit = strings.TrimSpace(v.Unit)
	li.Quantity = v.Quantity
	li.UnitPrice = v.UnitPrice
	li.Notes = v.Notes
}

func (li *LineItem) touch() {
	li.Touch()
	li.IncrementVersion()
}

func validateLineItem(projectID uuid.UUID, category Category, itemType LineItemType, values LineItemValues) error {
	if projectID == uuid.Nil {
		return shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown category: "+string(category))
	}
	if !itemType.IsValid() {
		return shared.NewDomainError("INVALID_LINE_ITEM_TYPE", "Line item type must be labor or material")
	}
	return validateValues(values)
}

func validateValues(v LineItemValues) error {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Line item name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Line item name cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(v.Unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	if v.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if v.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}
	return nil
}
