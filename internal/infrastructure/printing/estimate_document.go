package printing

import (
	"sort"
	"time"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/estimate"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
)

// EstimateDocument is everything printed on an estimate
type EstimateDocument struct {
	Contractor *contractor.Contractor
	Project    *project.Project
	// LogoURL is a short-lived download URL for the contractor logo, if any
	LogoURL  string
	Sections []EstimateSection
	Summary  estimate.Summary
	IssuedAt time.Time
}

// EstimateSection is one category of the estimate
type EstimateSection struct {
	Category  project.Category
	Labor     []project.LineItem
	Materials []project.LineItem
	Totals    estimate.CategoryTotals
}

// NewEstimateDocument groups items into sections in wizard order, each sorted by sort order
func NewEstimateDocument(c *contractor.Contractor, p *project.Project, items []project.LineItem, logoURL string, issuedAt time.Time) *EstimateDocument {
	summary := estimate.Summarize(items, c.MarkupPercent, c.TaxRatePercent)

	byCategory := make(map[project.Category][]project.LineItem)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	doc := &EstimateDocument{
		Contractor: c,
		Project:    p,
		LogoURL:    logoURL,
		Summary:    summary,
		IssuedAt:   issuedAt,
	}
	for _, totals := range summary.Categories {
		rows := byCategory[totals.Category]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].SortOrder < rows[j].SortOrder })

		section := EstimateSection{Category: totals.Category, Totals: totals}
		for _, row := range rows {
			if row.Type == project.LineItemTypeLabor {
				section.Labor = append(section.Labor, row)
			} else {
				section.Materials = append(section.Materials, row)
			}
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}
