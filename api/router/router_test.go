package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/ragment/ragment-api/api/auth"
	"github.com/ragment/ragment-api/api/config"
	"github.com/ragment/ragment-api/api/services/billing/app"
	billingrest "github.com/ragment/ragment-api/api/services/billing/rest"
	"github.com/ragment/ragment-api/api/services/chat"
	"github.com/ragment/ragment-api/api/services/project"
	"github.com/ragment/ragment-api/api/services/user"
)

type stubBillingService struct{}

func (stubBillingService) CreateCheckoutSession(context.Context, string, app.CheckoutIntent) (string, error) {
	return "https://checkout.stripe.com/c/pay/cs_test", nil
}

func (stubBillingService) HandleEvent(context.Context, stripe.Event) error { return nil }

func newTestRouter() http.Handler {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Domain: "http://localhost:3000"}
	verifier := auth.NewVerifier("http://127.0.0.1:0/jwks")
	return New(Deps{
		Config:   cfg,
		Verifier: verifier,
		Billing:  billingrest.NewHandler(stubBillingService{}, "whsec_test"),
		User:     user.NewHandler(nil, nil),
		Project:  project.NewHandler(project.NewStore(nil)),
		Chat:     chat.NewHandler(chat.NewStore(nil)),
	})
}

func TestHealth_NoAuthRequired(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","version":"1.0.0"}`, w.Body.String())
}

func TestProtectedRoutesRejectAnonymousCallers(t *testing.T) {
	r := newTestRouter()
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/me"},
		{http.MethodGet, "/api/user/subscription"},
		{http.MethodGet, "/api/projects"},
		{http.MethodGet, "/api/chats"},
		{http.MethodPost, "/api/stripe/create-checkout-session"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestWebhook_NoBearerAuthButSoftErrorsOnBadSignature(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/user/me", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
