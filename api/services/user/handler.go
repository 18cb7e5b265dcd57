package user

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ragment/ragment-api/api/auth"
	config "github.com/ragment/ragment-api/api/config"
	billingdb "github.com/ragment/ragment-api/api/services/billing/db"
)

// ProfileStore is satisfied by *Store; faked in tests.
type ProfileStore interface {
	GetOrCreate(ctx context.Context, clerkUserID string) (Profile, error)
	Update(ctx context.Context, clerkUserID, email, name string) (Profile, error)
}

// SubscriptionReader exposes the billing store's read side, so the frontend
// can show the caller's plan without touching Stripe.
type SubscriptionReader interface {
	GetSubscription(ctx context.Context, clerkUserID string) (billingdb.SubscriptionRecord, bool, error)
}

type Handler struct {
	store ProfileStore
	subs  SubscriptionReader
}

func NewHandler(store ProfileStore, subs SubscriptionReader) *Handler {
	return &Handler{store: store, subs: subs}
}

// RegisterRoutes mounts the user endpoints on rg; all of them require an
// authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier *auth.Verifier) {
	rg.Use(auth.Middleware(verifier))
	rg.GET("/me", h.Me)
	rg.PUT("/me", h.UpdateMe)
	rg.GET("/subscription", h.Subscription)
}

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	profile, err := h.store.GetOrCreate(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		slog.Error("failed to load profile", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// UpdateMe handles PUT /me.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := h.store.Update(c.Request.Context(), auth.CallerID(c), req.Email, req.Name)
	if err != nil {
		slog.Error("failed to update profile", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type subscriptionResponse struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// Subscription handles GET /subscription. Callers without a subscription row
// are reported as being on the free plan.
func (h *Handler) Subscription(c *gin.Context) {
	rec, found, err := h.subs.GetSubscription(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		slog.Error("failed to load subscription", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscription"})
		return
	}
	if !found {
		c.JSON(http.StatusOK, subscriptionResponse{Plan: config.FreePlan})
		return
	}
	resp := subscriptionResponse{Plan: rec.Plan, Status: rec.Status}
	if !rec.CurrentPeriodEnd.IsZero() {
		end := rec.CurrentPeriodEnd
		resp.CurrentPeriodEnd = &end
	}
	c.JSON(http.StatusOK, resp)
}
