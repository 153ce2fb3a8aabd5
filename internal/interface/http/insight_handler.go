package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pennyflow/backend/internal/application"
	"github.com/pennyflow/backend/internal/domain/entity"
	"github.com/pennyflow/backend/pkg/response"
)

// InsightHandler serves the insight class catalog to authenticated users.
type InsightHandler struct {
	Svc    *application.SettingsService
	Logger *logrus.Logger
}

func NewInsightHandler(svc *application.SettingsService, logger *logrus.Logger) *InsightHandler {
	return &InsightHandler{Svc: svc, Logger: logger}
}

func classPayload(c *entity.InsightClass) gin.H {
	return gin.H{
		"insight_class_id": c.ID,
		"key":              c.Key,
		"name":             c.Name,
		"is_builtin":       c.IsBuiltin,
	}
}

// ListClasses GET /api/insight-classes
func (h *InsightHandler) ListClasses(c *gin.Context) {
	classes, err := h.Svc.ListInsightClasses(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "failed to load insight classes", nil)
		return
	}

	out := make([]gin.H, 0, len(classes))
	for i := range classes {
		out = append(out, classPayload(&classes[i]))
	}
	response.Success(c, http.StatusOK, "CLASSES_LOADED", out, "insight classes")
}

// GetClass GET /api/insight-classes/:key
func (h *InsightHandler) GetClass(c *gin.Context) {
	cls, err := h.Svc.GetInsightClass(c.Request.Context(), c.Param("key"))
	switch {
	case errors.Is(err, application.ErrInvalidClass):
		response.Error[any](c, http.StatusNotFound, "INVALID_CLASS", "the class does not exist, please use a valid key", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "failed to load insight class", nil)
		return
	}
	response.Success(c, http.StatusOK, "CLASS_LOADED", classPayload(cls), "insight class")
}
