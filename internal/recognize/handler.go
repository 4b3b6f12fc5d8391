package recognize

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docscan-backend/internal/entitlements"
	"docscan-backend/internal/shared/metrics"
	"docscan-backend/internal/shared/server/middleware"
	"docscan-backend/internal/shared/server/respond"
	"docscan-backend/internal/shared/telemetry"
	"docscan-backend/internal/shared/util"
)

const maxUploadBytes = 300 << 20 // 300MB

// Handler wires the recognition endpoint to the service.
type Handler struct {
	Svc  *Service
	Gate *entitlements.Gate
}

func NewHandler(svc *Service, gate *entitlements.Gate) *Handler {
	return &Handler{Svc: svc, Gate: gate}
}

// RegisterRoutes attaches recognition routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recognize", h.recognize)
}

func (h *Handler) recognize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	decision, err := h.Gate.Check(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, entitlements.ErrAccessDenied) {
			respond.Error(c, http.StatusForbidden, "access_denied", "no active entitlement, payment required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to check access", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	mediaType := MediaTypeForFile(fileHeader.Header.Get("Content-Type"), fileName)

	metrics.IncRecognitionStarted()
	started := metrics.NowMillis()
	result, err := h.Svc.Recognize(c.Request.Context(), data, mediaType)
	metrics.ObserveRecognitionDurationMs(metrics.NowMillis() - started)
	if err != nil {
		metrics.IncRecognitionFailed()
		var unsupported *UnsupportedMediaTypeError
		switch {
		case errors.As(err, &unsupported):
			respond.Error(c, http.StatusBadRequest, "unsupported_media_type", unsupported.Error(), gin.H{"accepted": AcceptedMediaTypes()})
		default:
			// Upstream protocol breaks, terminal failures and timeouts all
			// surface as processing failures with the proximate cause.
			respond.Error(c, http.StatusInternalServerError, "recognition_failed", err.Error(), nil)
		}
		return
	}

	metrics.IncRecognitionCompleted()
	telemetry.Info("recognize.complete", map[string]any{
		"request_id": c.GetString("requestId"),
		"user_id":    userID,
		"anonymous":  decision.Anonymous,
		"media_type": mediaType,
		"size_bytes": len(data),
		"pages":      result.PageCount,
	})
	respond.JSON(c, http.StatusOK, result)
}
