package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ragment/ragment-api/api/auth"
	"github.com/ragment/ragment-api/api/config"
	billingrest "github.com/ragment/ragment-api/api/services/billing/rest"
	"github.com/ragment/ragment-api/api/services/chat"
	"github.com/ragment/ragment-api/api/services/project"
	"github.com/ragment/ragment-api/api/services/user"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Deps carries the wired components the router mounts. Built by bootstrap in
// production; assembled by hand in tests.
type Deps struct {
	Config   *config.Config
	Verifier *auth.Verifier
	Billing  *billingrest.Handler
	User     *user.Handler
	Project  *project.Handler
	Chat     *chat.Handler
}

// New returns the central HTTP router for the API.
func New(deps Deps) http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": Version})
	})

	deps.User.RegisterRoutes(engine.Group("/api/user"), deps.Verifier)
	deps.Project.RegisterRoutes(engine.Group("/api/projects"), deps.Verifier)
	deps.Chat.RegisterRoutes(engine.Group("/api/chats"), deps.Verifier)
	deps.Billing.RegisterRoutes(engine.Group("/api/stripe"), deps.Verifier)

	return engine
}
