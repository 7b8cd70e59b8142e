package estimate

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

// CategoryTotals sums one category's rows
type CategoryTotals struct {
	Category      project.Category
	LaborHours    decimal.Decimal
	LaborTotal    decimal.Decimal
	MaterialTotal decimal.Decimal
	ItemCount     int
}

// Total is labor plus material
func (c CategoryTotals) Total() decimal.Decimal {
	return c.LaborTotal.Add(c.MaterialTotal)
}

// Summary is the priced estimate of a project
type Summary struct {
	Categories       []CategoryTotals
	LaborHours       decimal.Decimal
	LaborSubtotal    decimal.Decimal
	MaterialSubtotal decimal.Decimal
	Subtotal         decimal.Decimal
	MarkupPercent    decimal.Decimal
	Markup           decimal.Decimal
	TaxRatePercent   decimal.Decimal
	Tax              decimal.Decimal
	GrandTotal       decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Summarize totals line items per category in wizard order.
// Markup applies to labor and material, tax to material only.
// Categories without rows are omitted.
func Summarize(items []project.LineItem, markupPercent, taxRatePercent decimal.Decimal) Summary {
	totals := make(map[project.Category]*CategoryTotals)
	for i := range items {
		item := &items[i]
		t, ok := totals[item.Category]
		if !ok {
			t = &CategoryTotals{Category: item.Category}
			totals[item.Category] = t
		}
		t.ItemCount++
		switch item.Type {
		case project.LineItemTypeLabor:
			t.LaborHours = t.LaborHours.Add(item.Quantity)
			t.LaborTotal = t.LaborTotal.Add(item.Total())
		case project.LineItemTypeMaterial:
			t.MaterialTotal = t.MaterialTotal.Add(item.Total())
		}
	}

	s := Summary{
		Categories:     []CategoryTotals{},
		MarkupPercent:  markupPercent,
		TaxRatePercent: taxRatePercent,
	}
	for _, c := range project.AllCategories() {
		t, ok := totals[c]
		if !ok {
			continue
		}
		t.LaborHours = t.LaborHours.Round(2)
		s.Categories = append(s.Categories, *t)
		s.LaborHours = s.LaborHours.Add(t.LaborHours)
		s.LaborSubtotal = s.LaborSubtotal.Add(t.LaborTotal)
		s.MaterialSubtotal = s.MaterialSubtotal.Add(t.MaterialTotal)
	}

	s.Subtotal = s.LaborSubtotal.Add(s.MaterialSubtotal)
	s.Markup = s.Subtotal.Mul(markupPercent).Div(hundred).Round(2)
	s.Tax = s.MaterialSubtotal.Mul(taxRatePercent).Div(hundred).Round(2)
	s.GrandTotal = s.Subtotal.Add(s.Markup).Add(s.Tax)
	return s
}
