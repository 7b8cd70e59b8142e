package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	appbilling "github.com/nsgarcia11/bathroom-estimator/internal/application/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// maxWebhookPayloadSize bounds a Stripe delivery; real events are a few KB
const maxWebhookPayloadSize = 65536

// WebhookService verifies and applies Stripe deliveries
type WebhookService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*appbilling.WebhookResult, error)
}

// StripeWebhookResponse is the body returned to Stripe
type StripeWebhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Message   string `json:"message,omitempty"`
}

// StripeWebhookHandler receives Stripe webhooks. The route is unauthenticated;
// deliveries are authenticated by their signature.
type StripeWebhookHandler struct {
	BaseHandler
	service WebhookService
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(service WebhookService) *StripeWebhookHandler {
	return &StripeWebhookHandler{service: service}
}

// Handle verifies the signature over the raw body and applies the event.
// Processing failures answer 500 so Stripe redelivers.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{Message: "Failed to read request body"})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{Message: "Payload too large"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, StripeWebhookResponse{Message: "Missing Stripe-Signature header"})
		return
	}

	result, err := h.service.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == appbilling.ErrInvalidSignature.Code {
			c.JSON(http.StatusUnauthorized, StripeWebhookResponse{Message: "Webhook signature verification failed"})
			return
		}
		logger.L(c.Request.Context()).Error("Stripe webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, StripeWebhookResponse{Message: "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Duplicate: result.Duplicate,
		Message:   result.Message,
	})
}
