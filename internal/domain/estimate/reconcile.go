package estimate

import (
	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
)

// PlannedItem is a generated item with the sort order it will be stored at
type PlannedItem struct {
	GeneratedItem
	SortOrder int
}

// Plan describes the writes needed to bring one category's line items in line
// with freshly generated items.
type Plan struct {
	Create []PlannedItem
	// Update holds existing rows already carrying their new values
	Update    []*project.LineItem
	Delete    []uuid.UUID
	Preserved []uuid.UUID
}

// IsEmpty reports whether the plan writes nothing
func (p Plan) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// SortOrderFor returns the stored sort order of the i-th generated item
func SortOrderFor(i int) int {
	return (i + 1) * 10
}

// Reconcile compares the existing rows of one category with the generated items.
//
// Manual rows are never touched. User-edited rows keep their values, even when
// their key is no longer generated. Other generated rows follow the calculators:
// they are updated, created or deleted as needed. When several rows share a key
// the first one wins and the rest are deleted.
func Reconcile(existing []project.LineItem, generated []GeneratedItem) Plan {
	var plan Plan

	byKey := make(map[string]*project.LineItem, len(existing))
	var order []string
	for i := range existing {
		item := &existing[i]
		if item.IsManual() {
			continue
		}
		if _, dup := byKey[item.SourceKey]; dup {
			plan.Delete = append(plan.Delete, item.ID)
			continue
		}
		byKey[item.SourceKey] = item
		order = append(order, item.SourceKey)
	}

	seen := make(map[string]bool, len(generated))
	for i, g := range generated {
		if seen[g.Key] {
			continue
		}
		seen[g.Key] = true
		sortOrder := SortOrderFor(i)

		item, ok := byKey[g.Key]
		switch {
		case !ok:
			plan.Create = append(plan.Create, PlannedItem{GeneratedItem: g, SortOrder: sortOrder})
		case item.IsUserEdited:
			plan.Preserved = append(plan.Preserved, item.ID)
		default:
			if item.ApplyGenerated(g.Values(), sortOrder) {
				plan.Update = append(plan.Update, item)
			}
		}
	}

	for _, key := range order {
		if seen[key] {
			continue
		}
		item := byKey[key]
		if item.IsUserEdited {
			plan.Preserved = append(plan.Preserved, item.ID)
		} else {
			plan.Delete = append(plan.Delete, item.ID)
		}
	}

	return plan
}

// Changes turns the plan into repository writes for the given project and category
func (p Plan) Changes(ownerID, projectID uuid.UUID, category project.Category) (project.LineItemChanges, error) {
	changes := project.LineItemChanges{
		Update: p.Update,
		Delete: p.Delete,
	}
	for _, c := range p.Create {
		item, err := project.NewGeneratedLineItem(ownerID, projectID, category, c.Type, c.Key, c.Values(), c.SortOrder)
		if err != nil {
			return project.LineItemChanges{}, err
		}
		changes.Create = append(changes.Create, item)
	}
	return changes, nil
}
