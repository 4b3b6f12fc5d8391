package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "docscan-backend/internal/auth"
	"docscan-backend/internal/billing"
	"docscan-backend/internal/entitlements"
	"docscan-backend/internal/recognize"
	"docscan-backend/internal/services/health"
	"docscan-backend/internal/shared/config"
	"docscan-backend/internal/shared/metrics"
	"docscan-backend/internal/shared/server/middleware"
	"docscan-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config             config.Config
	Health             *health.Service
	GoogleAuth         *googleauth.GoogleService
	UserHandler        *users.Handler
	RecognizeHandler   *recognize.Handler
	EntitlementHandler *entitlements.Handler
	BillingHandler     *billing.Handler
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Health.Status())
	})
	deps.GoogleAuth.RegisterRoutes(api)
	deps.UserHandler.RegisterRoutes(api)
	deps.RecognizeHandler.RegisterRoutes(api)
	deps.EntitlementHandler.RegisterRoutes(api)
	deps.BillingHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
