package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appproject "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) projectResult(args mock.Arguments) (*appproject.ProjectResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appproject.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, ownerID uuid.UUID, input appproject.ProjectInput) (*appproject.ProjectResponse, error) {
	return m.projectResult(m.Called(ctx, ownerID, input))
}

func (m *MockProjectService) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*appproject.ProjectResponse, error) {
	return m.projectResult(m.Called(ctx, ownerID, projectID))
}

func (m *MockProjectService) List(ctx context.Context, ownerID uuid.UUID, input appproject.ListProjectsInput) (*appproject.ProjectListResponse, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appproject.ProjectListResponse), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, ownerID, projectID uuid.UUID, input appproject.ProjectInput) (*appproject.ProjectResponse, error) {
	return m.projectResult(m.Called(ctx, ownerID, projectID, input))
}

func (m *MockProjectService) ChangeStatus(ctx context.Context, ownerID, projectID uuid.UUID, status string) (*appproject.ProjectResponse, error) {
	return m.projectResult(m.Called(ctx, ownerID, projectID, status))
}

func (m *MockProjectService) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	return m.Called(ctx, ownerID, projectID).Error(0)
}

func (m *MockProjectService) Duplicate(ctx context.Context, ownerID, projectID uuid.UUID, name string) (*appproject.ProjectResponse, error) {
	return m.projectResult(m.Called(ctx, ownerID, projectID, name))
}

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) ListScreens(ctx context.Context, ownerID, projectID uuid.UUID) ([]appproject.ScreenResponse, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appproject.ScreenResponse), args.Error(1)
}

func (m *MockWorkflowService) GetScreen(ctx context.Context, ownerID, projectID uuid.UUID, category string) (*appproject.ScreenResponse, error) {
	args := m.Called(ctx, ownerID, projectID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appproject.ScreenResponse), args.Error(1)
}

func (m *MockWorkflowService) SaveScreen(ctx context.Context, ownerID, projectID uuid.UUID, category string, data json.RawMessage, completed bool) (*appproject.SaveScreenResult, error) {
	args := m.Called(ctx, ownerID, projectID, category, data, completed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appproject.SaveScreenResult), args.Error(1)
}

type MockEstimateService struct {
	mock.Mock
}

func (m *MockEstimateService) GetEstimate(ctx context.Context, ownerID, projectID uuid.UUID) (*appproject.EstimateResponse, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appproject.EstimateResponse), args.Error(1)
}

func (m *MockEstimateService) ExportPDF(ctx context.Context, ownerID, projectID uuid.UUID) (*appproject.PDFExport, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appproject.PDFExport), args.Error(1)
}

func projectRouter(ownerID uuid.UUID, svc ProjectService) *gin.Engine {
	h := NewProjectHandler(svc)
	r := newTestRouter(ownerID)
	r.GET("/projects", h.List)
	r.POST("/projects", h.Create)
	r.GET("/projects/:id", h.Get)
	r.PUT("/projects/:id", h.Update)
	r.POST("/projects/:id/status", h.ChangeStatus)
	r.DELETE("/projects/:id", h.Delete)
	r.POST("/projects/:id/duplicate", h.Duplicate)
	return r
}

func TestProjectHandler_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := new(MockProjectService)
		svc.On("Create", mock.Anything, ownerID, appproject.ProjectInput{Name: "Main bath", ClientName: "Lee"}).
			Return(&appproject.ProjectResponse{ID: uuid.New(), Name: "Main bath", Status: "draft"}, nil)

		w := doJSON(projectRouter(ownerID, svc), http.MethodPost, "/projects", ProjectRequest{Name: "Main bath", ClientName: "Lee"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"draft"`)
	})

	t.Run("name required", func(t *testing.T) {
		svc := new(MockProjectService)
		w := doJSON(projectRouter(ownerID, svc), http.MethodPost, "/projects", ProjectRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("free plan limit", func(t *testing.T) {
		svc := new(MockProjectService)
		svc.On("Create", mock.Anything, ownerID, mock.Anything).
			Return(nil, shared.NewDomainError("PLAN_LIMIT", "The free plan allows 3 active projects"))

		w := doJSON(projectRouter(ownerID, svc), http.MethodPost, "/projects", ProjectRequest{Name: "Fourth"})

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(MockProjectService)
		w := doJSON(projectRouter(uuid.Nil, svc), http.MethodPost, "/projects", ProjectRequest{Name: "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProjectHandler_List(t *testing.T) {
	ownerID := uuid.New()
	svc := new(MockProjectService)
	svc.On("List", mock.Anything, ownerID, appproject.ListProjectsInput{Status: "draft", Search: "lee", Page: 2, PageSize: 5}).
		Return(&appproject.ProjectListResponse{
			Items:    []appproject.ProjectResponse{{Name: "A"}},
			Total:    6,
			Page:     2,
			PageSize: 5,
		}, nil)

	w := doJSON(projectRouter(ownerID, svc), http.MethodGet, "/projects?status=draft&search=lee&page=2&page_size=5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(6), resp.Meta.Total)

	w = doJSON(projectRouter(ownerID, svc), http.MethodGet, "/projects?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_GetNotFound(t *testing.T) {
	ownerID, projectID := uuid.New(), uuid.New()
	svc := new(MockProjectService)
	svc.On("Get", mock.Anything, ownerID, projectID).Return(nil, shared.ErrNotFound)

	w := doJSON(projectRouter(ownerID, svc), http.MethodGet, "/projects/"+projectID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_ChangeStatus(t *testing.T) {
	ownerID, projectID := uuid.New(), uuid.New()
	svc := new(MockProjectService)
	svc.On("ChangeStatus", mock.Anything, ownerID, projectID, "archived").
		Return(&appproject.ProjectResponse{ID: projectID, Status: "archived"}, nil)

	w := doJSON(projectRouter(ownerID, svc), http.MethodPost, "/projects/"+projectID.String()+"/status", ChangeStatusRequest{Status: "archived"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestProjectHandler_Delete(t *testing.T) {
	ownerID, projectID := uuid.New(), uuid.New()
	svc := new(MockProjectService)
	svc.On("Delete", mock.Anything, ownerID, projectID).Return(nil)

	w := doJSON(projectRouter(ownerID, svc), http.MethodDelete, "/projects/"+projectID.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestProjectHandler_Duplicate(t *testing.T) {
	ownerID, projectID := uuid.New(), uuid.New()

	t.Run("without body", func(t *testing.T) {
		svc := new(MockProjectService)
		svc.On("Duplicate", mock.Anything, ownerID, projectID, "").
			Return(&appproject.ProjectResponse{ID: uuid.New(), Name: "Main bath (copy)"}, nil)

		w := doJSON(projectRouter(ownerID, svc), http.MethodPost, "/projects/"+projectID.String()+"/duplicate", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("with name", func(t *testing.T) {
		svc := new(MockProjectService)
		svc.On("Duplicate", mock.Anything, ownerID, projectID, "Guest bath").
			Return(&appproject.ProjectResponse{ID: uuid.New(), Name: "Guest bath"}, nil)

		w := doJSON(projectRouter(ownerID, svc), http.MethodPost, "/projects/"+projectID.String()+"/duplicate", DuplicateRequest{Name: "Guest bath"})

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestWorkflowHandler_SaveScreen(t *testing.T) {
	ownerID, projectID := uuid.New(), uuid.New()
	data := json.RawMessage(`{"length_ft":8,"width_ft":5}`)

	svc := new(MockWorkflowService)
	svc.On("SaveScreen", mock.Anything, ownerID, projectID, "floors", mock.MatchedBy(func(raw json.RawMessage) bool {
		return json.Valid(raw) && len(raw) > 0
	}), true).Return(&appproject.SaveScreenResult{
		Screen:    appproject.ScreenResponse{Category: "floors", Data: data, Completed: true, Saved: true},
		Reconcile: appproject.ReconcileSummary{Created: 3},
	}, nil)

	h := NewWorkflowHandler(svc)
	r := newTestRouter(ownerID)
	r.PUT("/projects/:id/screens/:category", h.SaveScreen)

	w := doJSON(r, http.MethodPut, "/projects/"+projectID.String()+"/screens/floors", map[string]any{
		"data":      data,
		"completed": true,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"floors"`)
	svc.AssertExpectations(t)

	w = doJSON(r, http.MethodPut, "/projects/"+projectID.String()+"/screens/floors", map[string]any{"completed": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkflowHandler_GetScreen_UnknownCategory(t *testing.T) {
	ownerID, projectID := uuid.New(), uuid.New()
	svc := new(MockWorkflowService)
	svc.On("GetScreen", mock.Anything, ownerID, projectID, "garage").
		Return(nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown category: garage"))

	h := NewWorkflowHandler(svc)
	r := newTestRouter(ownerID)
	r.GET("/projects/:id/screens/:category", h.GetScreen)

	w := doJSON(r, http.MethodGet, "/projects/"+projectID.String()+"/screens/garage", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEstimateHandler(t *testing.T) {
	ownerID, projectID := uuid.New(), uuid.New()

	t.Run("summary", func(t *testing.T) {
		svc := new(MockEstimateService)
		svc.On("GetEstimate", mock.Anything, ownerID, projectID).Return(&appproject.EstimateResponse{
			ProjectID:  projectID,
			GrandTotal: decimal.RequireFromString("1234.56"),
		}, nil)

		r := newTestRouter(ownerID)
		r.GET("/projects/:id/estimate", NewEstimateHandler(svc).Get)
		w := doJSON(r, http.MethodGet, "/projects/"+projectID.String()+"/estimate", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"grand_total":"1234.56"`)
	})

	t.Run("pdf attachment", func(t *testing.T) {
		svc := new(MockEstimateService)
		svc.On("ExportPDF", mock.Anything, ownerID, projectID).
			Return(&appproject.PDFExport{FileName: "estimate-main-bath.pdf", Data: []byte("%PDF-1.4")}, nil)

		r := newTestRouter(ownerID)
		r.GET("/projects/:id/estimate/pdf", NewEstimateHandler(svc).ExportPDF)
		w := doJSON(r, http.MethodGet, "/projects/"+projectID.String()+"/estimate/pdf", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "estimate-main-bath.pdf")
		assert.Equal(t, "%PDF-1.4", w.Body.String())
	})

	t.Run("pdf disabled", func(t *testing.T) {
		svc := new(MockEstimateService)
		svc.On("ExportPDF", mock.Anything, ownerID, projectID).
			Return(nil, shared.NewDomainError("PDF_EXPORT_DISABLED", "PDF export is not configured"))

		r := newTestRouter(ownerID)
		r.GET("/projects/:id/estimate/pdf", NewEstimateHandler(svc).ExportPDF)
		w := doJSON(r, http.MethodGet, "/projects/"+projectID.String()+"/estimate/pdf", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("unexpected error", func(t *testing.T) {
		svc := new(MockEstimateService)
		svc.On("GetEstimate", mock.Anything, ownerID, projectID).Return(nil, errors.New("db down"))

		r := newTestRouter(ownerID)
		r.GET("/projects/:id/estimate", NewEstimateHandler(svc).Get)
		w := doJSON(r, http.MethodGet, "/projects/"+projectID.String()+"/estimate", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
