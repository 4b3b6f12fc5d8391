package entitlements

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docscan-backend/internal/shared/server/middleware"
	"docscan-backend/internal/shared/server/respond"
)

// Handler exposes the access-status endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches entitlement routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/access", h.access)
}

func (h *Handler) access(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.JSON(c, http.StatusOK, gin.H{"entitled": false})
		return
	}

	ent, err := h.Svc.Active(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.JSON(c, http.StatusOK, gin.H{"entitled": false})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check access", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"entitled":  true,
		"expiresAt": ent.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
