package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T, ownerID uuid.UUID, name, client string) *project.Project {
	t.Helper()
	p, err := project.NewProject(ownerID, project.Details{Name: name, ClientName: client, Address: "12 Elm St"})
	require.NoError(t, err)
	return p
}

func TestGormProjectRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	p := newTestProject(t, ownerID, "Master bath", "Lee")
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByIDForOwner(ctx, ownerID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Master bath", found.Name)
	assert.Equal(t, project.ProjectStatusDraft, found.Status)

	t.Run("other owner cannot see it", func(t *testing.T) {
		_, err := repo.FindByIDForOwner(ctx, uuid.New(), p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save updates existing row", func(t *testing.T) {
		require.NoError(t, found.ChangeStatus(project.ProjectStatusInProgress))
		require.NoError(t, repo.Save(ctx, found))

		again, err := repo.FindByIDForOwner(ctx, ownerID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ProjectStatusInProgress, again.Status)
	})
}

func TestGormProjectRepository_FindAllForOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	names := []struct{ name, client string }{
		{"Alpha bath", "Morgan"},
		{"Beta bath", "Casey"},
		{"Guest powder room", "Morgan"},
	}
	for _, n := range names {
		require.NoError(t, repo.Save(ctx, newTestProject(t, ownerID, n.name, n.client)))
	}
	archived := newTestProject(t, ownerID, "Old job", "Pat")
	require.NoError(t, archived.ChangeStatus(project.ProjectStatusArchived))
	require.NoError(t, repo.Save(ctx, archived))
	require.NoError(t, repo.Save(ctx, newTestProject(t, uuid.New(), "Someone else", "Morgan")))

	t.Run("all projects of owner", func(t *testing.T) {
		items, total, err := repo.FindAllForOwner(ctx, ownerID, shared.Filter{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, items, 4)
	})

	t.Run("search matches client name case-insensitively", func(t *testing.T) {
		items, total, err := repo.FindAllForOwner(ctx, ownerID, shared.Filter{Search: "MORGAN", PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		items, total, err := repo.FindAllForOwner(ctx, ownerID, shared.Filter{
			PageSize: 20,
			Filters:  map[string]interface{}{"status": "archived"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "Old job", items[0].Name)
	})

	t.Run("sort by name with pagination", func(t *testing.T) {
		items, total, err := repo.FindAllForOwner(ctx, ownerID, shared.Filter{
			Page: 2, PageSize: 2, OrderBy: "name", OrderDir: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, items, 2)
		assert.Equal(t, "Guest powder room", items[0].Name)
		assert.Equal(t, "Old job", items[1].Name)
	})

	t.Run("unknown sort field falls back", func(t *testing.T) {
		_, _, err := repo.FindAllForOwner(ctx, ownerID, shared.Filter{OrderBy: "owner_id; DROP TABLE projects", PageSize: 5})
		require.NoError(t, err)
	})

	t.Run("active count excludes archived", func(t *testing.T) {
		count, err := repo.CountActiveForOwner(ctx, ownerID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormProjectRepository_DeleteForOwner(t *testing.T) {
	db := setupTestDB(t)
	projects := NewGormProjectRepository(db)
	screens := NewGormWorkflowScreenRepository(db)
	items := NewGormLineItemRepository(db)
	photos := NewGormPhotoRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	p := newTestProject(t, ownerID, "To delete", "Kim")
	require.NoError(t, projects.Save(ctx, p))

	screen, err := project.NewWorkflowScreen(ownerID, p.ID, project.CategoryFloors)
	require.NoError(t, err)
	require.NoError(t, screen.Save(json.RawMessage(`{"measurements":{"length_ft":5,"width_ft":8}}`), false))
	require.NoError(t, screens.Upsert(ctx, screen))

	item, err := project.NewManualLineItem(ownerID, p.ID, project.CategoryFloors, project.LineItemTypeMaterial, project.LineItemValues{
		Name: "Tile", Unit: "sqft", Quantity: decimal.NewFromInt(40), UnitPrice: decimal.RequireFromString("4.50"),
	})
	require.NoError(t, err)
	require.NoError(t, items.Save(ctx, item))

	photo, err := project.NewPhoto(ownerID, p.ID, "before.jpg", "image/jpeg", "")
	require.NoError(t, err)
	require.NoError(t, photos.Create(ctx, photo))

	t.Run("other owner gets not found", func(t *testing.T) {
		assert.ErrorIs(t, projects.DeleteForOwner(ctx, uuid.New(), p.ID), shared.ErrNotFound)
	})

	require.NoError(t, projects.DeleteForOwner(ctx, ownerID, p.ID))

	_, err = projects.FindByIDForOwner(ctx, ownerID, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	remainingScreens, err := screens.FindByProject(ctx, ownerID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, remainingScreens)

	remainingItems, err := items.FindByProject(ctx, ownerID, p.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, remainingItems)

	remainingPhotos, err := photos.FindByProject(ctx, ownerID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, remainingPhotos)
}

func TestGormProjectRepository_CreateCopy(t *testing.T) {
	db := setupTestDB(t)
	projects := NewGormProjectRepository(db)
	screens := NewGormWorkflowScreenRepository(db)
	items := NewGormLineItemRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	newScreen := func(projectID uuid.UUID, category project.Category) *project.WorkflowScreen {
		s, err := project.NewWorkflowScreen(ownerID, projectID, category)
		require.NoError(t, err)
		require.NoError(t, s.Save(json.RawMessage(`{"measurements":{"length_ft":5,"width_ft":8}}`), true))
		return s
	}
	newItem := func(projectID uuid.UUID) *project.LineItem {
		item, err := project.NewManualLineItem(ownerID, projectID, project.CategoryFloors, project.LineItemTypeMaterial, project.LineItemValues{
			Name: "Tile", Unit: "sqft", Quantity: decimal.NewFromInt(40), UnitPrice: decimal.RequireFromString("4.50"),
		})
		require.NoError(t, err)
		return item
	}

	t.Run("writes project, screens and items", func(t *testing.T) {
		p := newTestProject(t, ownerID, "Copy", "Kim")
		require.NoError(t, projects.CreateCopy(ctx, p,
			[]*project.WorkflowScreen{newScreen(p.ID, project.CategoryFloors), newScreen(p.ID, project.CategoryDemolition)},
			[]*project.LineItem{newItem(p.ID)}))

		_, err := projects.FindByIDForOwner(ctx, ownerID, p.ID)
		require.NoError(t, err)
		storedScreens, err := screens.FindByProject(ctx, ownerID, p.ID)
		require.NoError(t, err)
		assert.Len(t, storedScreens, 2)
		storedItems, err := items.FindByProject(ctx, ownerID, p.ID, nil)
		require.NoError(t, err)
		assert.Len(t, storedItems, 1)
	})

	t.Run("failed insert leaves nothing behind", func(t *testing.T) {
		p := newTestProject(t, ownerID, "Broken copy", "Kim")
		err := projects.CreateCopy(ctx, p,
			[]*project.WorkflowScreen{newScreen(p.ID, project.CategoryFloors), newScreen(p.ID, project.CategoryFloors)},
			[]*project.LineItem{newItem(p.ID)})
		require.Error(t, err)

		_, err = projects.FindByIDForOwner(ctx, ownerID, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		storedScreens, err := screens.FindByProject(ctx, ownerID, p.ID)
		require.NoError(t, err)
		assert.Empty(t, storedScreens)
		storedItems, err := items.FindByProject(ctx, ownerID, p.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, storedItems)
	})
}
