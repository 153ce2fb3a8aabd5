package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pennyflow/backend/internal/application"
	"github.com/pennyflow/backend/internal/interface/middleware"
	"github.com/pennyflow/backend/pkg/response"
	"github.com/pennyflow/backend/pkg/validation"
)

type SettingsHandler struct {
	Svc    *application.SettingsService
	Logger *logrus.Logger
}

func NewSettingsHandler(svc *application.SettingsService, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{Svc: svc, Logger: logger}
}

type updateUserInfoRequest struct {
	Name              string `json:"name"`
	Country           string `json:"country"`
	City              string `json:"city"`
	PreferredCurrency string `json:"preferred_currency" binding:"omitempty,currency"`
}

type insightPrefUpdate struct {
	Key    string `json:"key" binding:"required"`
	Enable bool   `json:"enable"`
}

type updateInsightPrefsRequest struct {
	Updates []insightPrefUpdate `json:"updates"`
}

// UpdateUserInfo PATCH /api/settings/update-user-info
func (h *SettingsHandler) UpdateUserInfo(c *gin.Context) {
	var req updateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Name:              req.Name,
		Country:           req.Country,
		City:              req.City,
		PreferredCurrency: req.PreferredCurrency,
	})
	switch {
	case errors.Is(err, application.ErrNoFieldsUpdated):
		response.Error[any](c, http.StatusBadRequest, "NO_FIELDS_UPDATED", "no profile fields were updated", nil)
		return
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "profile update failed", nil)
		return
	}
	response.Success(c, http.StatusOK, "PROFILE_UPDATED", userPayload(u), "profile updated")
}

// GetInsightPrefs GET /api/settings/user-insight-prefs
func (h *SettingsHandler) GetInsightPrefs(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	prefs, err := h.Svc.ListInsightPrefs(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "failed to load preferences", nil)
		return
	}

	out := make([]gin.H, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, gin.H{
			"insight_class_id": p.InsightClassID,
			"key":              p.Key,
			"name":             p.Name,
			"is_builtin":       p.IsBuiltin,
			"enable":           p.Enable,
		})
	}
	response.Success(c, http.StatusOK, "PREFS_LOADED", out, "insight preferences")
}

// UpdateInsightPrefs PATCH /api/settings/user-insight-prefs
func (h *SettingsHandler) UpdateInsightPrefs(c *gin.Context) {
	var req updateInsightPrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return
	}

	updates := make([]application.InsightPrefUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		updates = append(updates, application.InsightPrefUpdate{Key: u.Key, Enable: u.Enable})
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	err := h.Svc.UpdateInsightPrefs(c.Request.Context(), uid, updates)
	switch {
	case errors.Is(err, application.ErrNoUpdatesProvided):
		response.Error[any](c, http.StatusBadRequest, "NO_UPDATES_PROVIDED", "please provide updates", nil)
		return
	case errors.Is(err, application.ErrInvalidClassKeys):
		response.Error[any](c, http.StatusBadRequest, "INVALID_CLASS_KEYS", "invalid insight class keys are provided", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "INTERNAL", "preference update failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, "PREFS_UPDATED", nil, "insight preferences updated successfully")
}
