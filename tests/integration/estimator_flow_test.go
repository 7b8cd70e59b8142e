//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectData struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

type lineItemData struct {
	ID              uuid.UUID       `json:"id"`
	Category        string          `json:"category"`
	Type            string          `json:"type"`
	SourceKey       string          `json:"source_key"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	IsAutoGenerated bool            `json:"is_auto_generated"`
	IsUserEdited    bool            `json:"is_user_edited"`
}

type estimateData struct {
	LaborHours    decimal.Decimal `json:"labor_hours"`
	LaborSubtotal decimal.Decimal `json:"labor_subtotal"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Markup        decimal.Decimal `json:"markup"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Categories    []struct {
		Category  string `json:"category"`
		ItemCount int    `json:"item_count"`
	} `json:"categories"`
}

func findItem(items []lineItemData, sourceKey string) *lineItemData {
	for i := range items {
		if items[i].SourceKey == sourceKey {
			return &items[i]
		}
	}
	return nil
}

func TestEstimator_FullFlow(t *testing.T) {
	ts := NewTestServer(t, 0)
	client, _ := ts.Register(t, "owner@bath.test")

	w := client.Do(t, http.MethodPost, "/api/v1/contractor", map[string]any{
		"company_name":   "Tile & Tub Co",
		"hourly_rate":    "100",
		"markup_percent": "10",
	})
	testutil.RequireStatus(t, w, http.StatusCreated)

	w = client.Do(t, http.MethodPost, "/api/v1/projects", map[string]string{
		"name":        "Hall bath",
		"client_name": "Jordan",
	})
	testutil.RequireStatus(t, w, http.StatusCreated)
	p := testutil.Decode[projectData](t, w).Data
	assert.Equal(t, "draft", p.Status)
	base := "/api/v1/projects/" + p.ID.String()

	// every screen exists before anything is saved
	w = client.Do(t, http.MethodGet, base+"/screens", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	screens := testutil.Decode[[]map[string]any](t, w).Data
	require.Len(t, screens, 7)
	assert.Equal(t, "demolition", screens[0]["category"])
	assert.Equal(t, false, screens[0]["saved"])

	w = client.Do(t, http.MethodPut, base+"/screens/demolition", map[string]any{
		"data": map[string]any{
			"measurements": map[string]any{"floor_tile_sqft": 50},
			"construction": map[string]any{"remove_toilet": true},
		},
		"completed": true,
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	saved := testutil.Decode[struct {
		LineItems []lineItemData `json:"line_items"`
	}](t, w).Data

	floor := findItem(saved.LineItems, "floor_tile")
	require.NotNil(t, floor)
	assert.True(t, floor.Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, floor.UnitPrice.Equal(decimal.NewFromInt(100)), "labor priced at the profile rate")
	require.NotNil(t, findItem(saved.LineItems, "toilet"))

	// a user edit survives regeneration
	w = client.Do(t, http.MethodPut, base+"/line-items/"+floor.ID.String(), map[string]any{"quantity": "3"})
	testutil.RequireStatus(t, w, http.StatusOK)

	w = client.Do(t, http.MethodPut, base+"/screens/demolition", map[string]any{
		"data": map[string]any{
			"measurements": map[string]any{"floor_tile_sqft": 100},
		},
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	regenerated := testutil.Decode[struct {
		LineItems []lineItemData `json:"line_items"`
	}](t, w).Data
	edited := findItem(regenerated.LineItems, "floor_tile")
	require.NotNil(t, edited)
	assert.True(t, edited.IsUserEdited)
	assert.True(t, edited.Quantity.Equal(decimal.NewFromInt(3)))
	assert.Nil(t, findItem(regenerated.LineItems, "toilet"), "unchecked removal is dropped")

	// reset hands the item back to the calculator
	w = client.Do(t, http.MethodPost, base+"/line-items/"+edited.ID.String()+"/reset", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	reset := testutil.Decode[lineItemData](t, w).Data
	assert.False(t, reset.IsUserEdited)
	assert.True(t, reset.Quantity.Equal(decimal.NewFromInt(4)))

	w = client.Do(t, http.MethodPost, base+"/line-items", map[string]any{
		"category":   "demolition",
		"type":       "labor",
		"name":       "Haul old vanity",
		"quantity":   "1",
		"unit_price": "100",
	})
	testutil.RequireStatus(t, w, http.StatusCreated)

	w = client.Do(t, http.MethodGet, base+"/estimate", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	est := testutil.Decode[estimateData](t, w).Data
	assert.True(t, est.LaborHours.Equal(decimal.NewFromInt(5)), "4h generated plus 1h manual, got %s", est.LaborHours)
	assert.True(t, est.LaborSubtotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, est.Markup.Equal(est.Subtotal.Mul(decimal.RequireFromString("0.1")).Round(2)))
	assert.True(t, est.GrandTotal.GreaterThan(est.Subtotal))

	// PDF export is not configured in this stack
	w = client.Do(t, http.MethodGet, base+"/estimate/pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	testutil.Eventually(t, func() bool {
		for _, typ := range ts.Events.Types() {
			if typ == "LineItemsReconciled" {
				return true
			}
		}
		return false
	}, 2*time.Second, "reconciliation event published")
}

func TestEstimator_DuplicateCopiesScreensAndItems(t *testing.T) {
	ts := NewTestServer(t, 0)
	client, _ := ts.Register(t, "dup@bath.test")

	w := client.Do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": "Primary bath"})
	testutil.RequireStatus(t, w, http.StatusCreated)
	src := testutil.Decode[projectData](t, w).Data

	w = client.Do(t, http.MethodPut, "/api/v1/projects/"+src.ID.String()+"/screens/demolition", map[string]any{
		"data": map[string]any{"construction": map[string]any{"remove_vanity": true}},
	})
	testutil.RequireStatus(t, w, http.StatusOK)

	w = client.Do(t, http.MethodPost, "/api/v1/projects/"+src.ID.String()+"/duplicate", map[string]string{"name": "Primary bath v2"})
	testutil.RequireStatus(t, w, http.StatusCreated)
	dup := testutil.Decode[projectData](t, w).Data
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Primary bath v2", dup.Name)

	w = client.Do(t, http.MethodGet, "/api/v1/projects/"+dup.ID.String()+"/line-items", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	items := testutil.Decode[[]lineItemData](t, w).Data
	require.NotNil(t, findItem(items, "vanity"))

	w = client.Do(t, http.MethodGet, "/api/v1/projects/"+dup.ID.String()+"/screens/demolition", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	screen := testutil.Decode[struct {
		Saved bool            `json:"saved"`
		Data  json.RawMessage `json:"data"`
	}](t, w).Data
	assert.True(t, screen.Saved)
	assert.Contains(t, string(screen.Data), "remove_vanity")
}

func TestEstimator_ArchivedProjectIsReadOnly(t *testing.T) {
	ts := NewTestServer(t, 0)
	client, _ := ts.Register(t, "archive@bath.test")

	w := client.Do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": "Guest bath"})
	testutil.RequireStatus(t, w, http.StatusCreated)
	p := testutil.Decode[projectData](t, w).Data
	base := "/api/v1/projects/" + p.ID.String()

	w = client.Do(t, http.MethodPost, base+"/status", map[string]string{"status": "archived"})
	testutil.RequireStatus(t, w, http.StatusOK)

	w = client.Do(t, http.MethodPut, base+"/screens/floors", map[string]any{"data": map[string]any{}})
	assert.GreaterOrEqual(t, w.Code, 400)
	assert.Less(t, w.Code, 500)

	// reads keep working
	w = client.Do(t, http.MethodGet, base+"/estimate", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
}
