package rest

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/ragment/ragment-api/api/auth"
	"github.com/ragment/ragment-api/api/services/billing/app"
)

// maxWebhookBody caps the webhook payload; protects against a malicious
// client streaming an endless request body.
const maxWebhookBody = int64(65536)

// Handler exposes the billing endpoints over REST.
type Handler struct {
	svc           app.Service
	webhookSecret string
}

// NewHandler returns a Handler using svc for business logic and
// webhookSecret for Stripe signature verification.
func NewHandler(svc app.Service, webhookSecret string) *Handler {
	return &Handler{svc: svc, webhookSecret: webhookSecret}
}

// RegisterRoutes mounts the billing endpoints on rg. The checkout endpoint
// requires an authenticated caller; the webhook is authenticated by its
// Stripe signature instead.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier *auth.Verifier) {
	rg.POST("/create-checkout-session", auth.Middleware(verifier), h.CreateCheckoutSession)
	rg.POST("/webhook", h.Webhook)
}

type checkoutRequest struct {
	PriceID string `json:"price_id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// CreateCheckoutSession handles POST /create-checkout-session.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.svc.CreateCheckoutSession(c.Request.Context(), auth.CallerID(c), app.CheckoutIntent{
		PriceID: req.PriceID,
		Email:   req.Email,
	})
	if err != nil {
		slog.Error("failed to create checkout session", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Webhook handles POST /webhook. Stripe treats any non-2xx as an invitation
// to redeliver, so every outcome is acknowledged with 200: verification
// failures as {"status":"error"}, everything else as {"status":"success"}
// even when reconciliation failed (those are logged for operators instead).
func (h *Handler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		slog.Warn("stripe webhook signature verification failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}

	if err := h.svc.HandleEvent(c.Request.Context(), event); err != nil {
		slog.Error("stripe webhook processing failed", "event_id", event.ID, "type", event.Type, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
