package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/api/apitest"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

func newBackend(t *testing.T) (*apitest.Server, *api.Services) {
	t.Helper()
	backend := apitest.NewServer()
	t.Cleanup(backend.Close)
	token := backend.IssueToken()
	services := api.NewServices(newClient(t, backend, api.StaticToken(token)))
	return backend, services
}

func TestListOmitsBlankFilters(t *testing.T) {
	backend, services := newBackend(t)
	ctx := context.Background()

	_, err := services.Supplies.List(ctx, api.ListQuery{
		Size: 10,
		Filters: map[string]string{
			"category": "   ",
			"search":   "maize",
		},
	})
	require.NoError(t, err)

	query := backend.LastListQuery("supplies")
	assert.Equal(t, "maize", query.Get("search"))
	_, hasCategory := query["category"]
	assert.False(t, hasCategory, "blank filters must be omitted, not sent empty")
	_, hasDeleted := query["deleted"]
	assert.False(t, hasDeleted)
}

func TestCreateReturnsServerDerivedFields(t *testing.T) {
	_, services := newBackend(t)

	supplyDate, err := models.ParseDate("2026-08-12")
	require.NoError(t, err)

	created, err := services.Supplies.Create(context.Background(), models.Supply{
		ItemName:   "Layer feed",
		Category:   "FEED",
		Quantity:   40,
		UnitPrice:  300,
		SupplyDate: supplyDate,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 12000.0, created.TotalPrice)
	assert.False(t, created.Deleted)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	backend, services := newBackend(t)
	ctx := context.Background()

	id := backend.Seed("sales", map[string]any{
		"customerName": "Moussa",
		"product":      "Eggs",
		"quantity":     10.0,
		"unitPrice":    50.0,
		"saleDate":     "2026-08-01",
	})

	updated, err := services.Sales.Update(ctx, id, models.Sale{
		CustomerName: "Moussa",
		Product:      "Eggs",
		Quantity:     24,
		UnitPrice:    50,
	})
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, 1200.0, updated.TotalPrice)
}

func TestTrashLifecycle(t *testing.T) {
	backend, services := newBackend(t)
	ctx := context.Background()

	id := backend.Seed("fish-ponds", map[string]any{
		"pondName":  "North pond",
		"species":   "Tilapia",
		"fishCount": 500,
	})

	require.NoError(t, services.Ponds.SoftDelete(ctx, id))
	active, trashed := backend.Count("fish-ponds")
	assert.Equal(t, 0, active)
	assert.Equal(t, 1, trashed)

	// Trashed records only show up when asked for.
	page, err := services.Ponds.List(ctx, api.ListQuery{Size: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = services.Ponds.List(ctx, api.ListQuery{Size: 10, Deleted: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, id, page.Items[0].ID)

	restored, err := services.Ponds.Restore(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, restored.ID)
	assert.False(t, restored.Deleted)

	// Restoring an active record is a conflict.
	_, err = services.Ponds.Restore(ctx, id)
	require.Error(t, err)

	require.NoError(t, services.Ponds.SoftDelete(ctx, id))
	require.NoError(t, services.Ponds.PermanentDelete(ctx, id))

	page, err = services.Ponds.List(ctx, api.ListQuery{Size: 10, Deleted: true})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "permanently deleted records must leave the trash")
	active, trashed = backend.Count("fish-ponds")
	assert.Zero(t, active)
	assert.Zero(t, trashed)
}

func TestPermanentDeleteUnknownIDIsNotFound(t *testing.T) {
	_, services := newBackend(t)
	err := services.Livestock.PermanentDelete(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}

func TestListPagination(t *testing.T) {
	backend, services := newBackend(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		backend.Seed("livestock", map[string]any{
			"batchName":  "Batch",
			"animalType": "POULTRY",
			"quantity":   1,
		})
	}

	first, err := services.Livestock.List(ctx, api.ListQuery{Page: 0, Size: 3})
	require.NoError(t, err)
	assert.Len(t, first.Items, 3)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	last, err := services.Livestock.List(ctx, api.ListQuery{Page: 2, Size: 3})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)
}

func TestSummaryCountsActiveRecordsOnly(t *testing.T) {
	backend, services := newBackend(t)
	ctx := context.Background()

	today := models.DateOf(time.Now())
	backend.Seed("supplies", map[string]any{"itemName": "Feed", "supplyDate": today.String()})
	backend.Seed("supplies", map[string]any{"itemName": "Vitamins", "supplyDate": "2020-01-15"})
	trashed := backend.Seed("supplies", map[string]any{"itemName": "Old", "supplyDate": today.String()})
	require.NoError(t, services.Supplies.SoftDelete(ctx, trashed))

	summary, err := services.Supplies.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, summary.Today)
	assert.Equal(t, 2.0, summary.Total)
}

func TestExportFilenameFromDisposition(t *testing.T) {
	backend, services := newBackend(t)
	ctx := context.Background()
	backend.Seed("sales", map[string]any{"customerName": "Awa", "product": "Milk"})

	download, err := services.Reports.Export(ctx, api.ExportRequest{Type: api.ExportCSV, Category: "sales"})
	require.NoError(t, err)
	assert.Equal(t, "report-sales.csv", download.Filename)
	assert.NotEmpty(t, download.Data)
}

func TestExportFilenameFallback(t *testing.T) {
	backend, services := newBackend(t)
	backend.OmitDisposition = true

	download, err := services.Reports.Export(context.Background(), api.ExportRequest{Type: api.ExportXLSX, Category: "supplies"})
	require.NoError(t, err)
	assert.Equal(t, "supplies.xlsx", download.Filename)
}

func TestExportRequiresCategory(t *testing.T) {
	_, services := newBackend(t)
	_, err := services.Reports.Export(context.Background(), api.ExportRequest{Type: api.ExportCSV})
	require.Error(t, err)
	assert.Equal(t, "category is required", api.UserMessage(err))
}
