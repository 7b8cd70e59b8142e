package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/dto"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// withUser simulates the JWT middleware for an authenticated request
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func newTestRouter(userID uuid.UUID) *gin.Engine {
	r := gin.New()
	if userID != uuid.Nil {
		r.Use(withUser(userID))
	}
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"plan limit", shared.NewDomainError("PLAN_LIMIT", "limit"), http.StatusPaymentRequired, dto.ErrCodePlanLimit},
		{"archived project", shared.NewDomainError("INVALID_STATE", "read-only"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"invalid field", shared.NewDomainError("INVALID_TAX_RATE", "bad"), http.StatusBadRequest, "INVALID_TAX_RATE"},
		{"invalid credentials", shared.NewDomainError("INVALID_CREDENTIALS", "no"), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"storage", shared.NewDomainError("STORAGE_ERROR", "s3"), http.StatusBadGateway, "STORAGE_ERROR"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := gin.New()
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doJSON(r, http.MethodGet, "/", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleError_HidesInternalMessage(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/", func(c *gin.Context) { h.HandleError(c, errors.New("pq: connection refused")) })

	w := doJSON(r, http.MethodGet, "/", nil)

	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestBaseHandler_BindError(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required"`
	}
	h := &BaseHandler{}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			h.BindError(c, err)
			return
		}
		h.Success(c, b)
	})

	t.Run("validation details", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})
}

func TestBaseHandler_CurrentUser(t *testing.T) {
	h := &BaseHandler{}
	handler := func(c *gin.Context) {
		if id, ok := h.currentUser(c); ok {
			h.Success(c, id)
		}
	}

	t.Run("missing", func(t *testing.T) {
		r := newTestRouter(uuid.Nil)
		r.GET("/", handler)
		w := doJSON(r, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("present", func(t *testing.T) {
		userID := uuid.New()
		r := newTestRouter(userID)
		r.GET("/", handler)
		w := doJSON(r, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})
}

func TestBaseHandler_PathUUID(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/projects/:id", func(c *gin.Context) {
		if id, ok := h.pathUUID(c, "id"); ok {
			h.Success(c, id)
		}
	})

	w := doJSON(r, http.MethodGet, "/projects/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/projects/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
