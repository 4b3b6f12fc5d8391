package billing

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docscan-backend/internal/entitlements"
	"docscan-backend/internal/shared/server/middleware"
	"docscan-backend/internal/shared/server/respond"
	"docscan-backend/internal/shared/telemetry"
)

const (
	eventCheckoutCompleted = "checkout.session.completed"
	maxWebhookBytes        = 1 << 20
)

// Handler wires checkout creation and the payment-completion webhook.
type Handler struct {
	Checkout      *CheckoutClient
	Entitlements  *entitlements.Service
	WebhookSecret string
	now           func() time.Time
}

func NewHandler(checkout *CheckoutClient, ents *entitlements.Service, webhookSecret string) *Handler {
	return &Handler{
		Checkout:      checkout,
		Entitlements:  ents,
		WebhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// RegisterRoutes attaches billing routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/billing/checkout", h.createCheckout)
	rg.POST("/billing/webhook", h.webhook)
}

func (h *Handler) createCheckout(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "sign in before purchasing access", nil)
		return
	}
	if h.Checkout == nil {
		respond.Error(c, http.StatusInternalServerError, "billing_not_configured", "billing is not configured", nil)
		return
	}

	session, err := h.Checkout.CreateSession(c.Request.Context(), userID, middleware.UserEmailFromContext(c))
	if err != nil {
		telemetry.Error("billing.checkout.failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"user_id":    userID,
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusBadGateway, "checkout_failed", "failed to create checkout session", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"url": session.URL})
}

// webhookEvent is the signed payment-completion notification.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Customer string            `json:"customer"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (h *Handler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read payload", nil)
		return
	}

	if err := VerifySignature(payload, c.GetHeader(SignatureHeader), h.WebhookSecret, h.now()); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed", nil)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "malformed event payload", nil)
		return
	}

	// Signature verified: from here the event is acknowledged even when no
	// grant results.
	if event.Type != eventCheckoutCompleted {
		respond.JSON(c, http.StatusOK, gin.H{"received": true})
		return
	}

	userID := event.Data.Object.Metadata["user_id"]
	if userID == "" {
		telemetry.Warn("billing.webhook.missing_user", map[string]any{
			"event_id":   event.ID,
			"session_id": event.Data.Object.ID,
		})
		respond.JSON(c, http.StatusOK, gin.H{"received": true})
		return
	}

	_, created, err := h.Entitlements.Grant(c.Request.Context(), userID, event.Data.Object.ID, event.Data.Object.Customer)
	if err != nil {
		// Storage failure: report it so the provider redelivers.
		telemetry.Error("billing.webhook.grant_failed", map[string]any{
			"event_id":   event.ID,
			"session_id": event.Data.Object.ID,
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record entitlement", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"received": true, "granted": created})
}
