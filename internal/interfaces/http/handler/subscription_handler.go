package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/nsgarcia11/bathroom-estimator/internal/application/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/middleware"
)

// SubscriptionService is the billing API used by SubscriptionHandler
type SubscriptionService interface {
	GetSubscription(ctx context.Context, ownerID uuid.UUID) (*appbilling.SubscriptionResponse, error)
	CreateCheckoutSession(ctx context.Context, ownerID uuid.UUID, input appbilling.CheckoutInput) (*appbilling.CheckoutResponse, error)
	CreatePortalSession(ctx context.Context, ownerID uuid.UUID) (*appbilling.PortalResponse, error)
}

// CheckoutRequest is the body of POST /billing/checkout
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required,max=50"`
	Name string `json:"name" binding:"max=200"`
}

// SubscriptionHandler serves the user's subscription
type SubscriptionHandler struct {
	BaseHandler
	service SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(service SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Get returns the current subscription; users who never subscribed get status "none"
func (h *SubscriptionHandler) Get(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	sub, err := h.service.GetSubscription(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Checkout starts a hosted checkout for a plan
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	var email string
	if claims := middleware.GetJWTClaims(c); claims != nil {
		email = claims.Email
	}

	session, err := h.service.CreateCheckoutSession(c.Request.Context(), ownerID, appbilling.CheckoutInput{
		Email: email,
		Name:  req.Name,
		Plan:  req.Plan,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Portal opens the billing portal
func (h *SubscriptionHandler) Portal(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	session, err := h.service.CreatePortalSession(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}
