package rest

import (
	"net/http"

	"paperScout/business/bandit"
	"paperScout/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ModelAdminHandler struct {
		policy ModelPolicy
	}

	ModelPolicy interface {
		ModelVersion() string
		Loaded() bool
		Reload(inputDim int) error
	}

	ModelInfoResponse struct {
		Loaded  bool   `json:"loaded"`
		Version string `json:"version,omitempty"`
	}
)

func NewModelAdminHandler(policy ModelPolicy) *ModelAdminHandler {
	return &ModelAdminHandler{policy: policy}
}

// GET /api/v1/admin/model
func (h *ModelAdminHandler) ModelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(ModelInfoResponse{
		Loaded:  h.policy.Loaded(),
		Version: h.policy.ModelVersion(),
	}))
}

// POST /api/v1/admin/model/reload
//
// Loads the latest artifact from disk and swaps it in. On failure the
// currently active predictor keeps serving.
func (h *ModelAdminHandler) ReloadModel(c echo.Context) error {
	if err := h.policy.Reload(bandit.FeatureDim); err != nil {
		logger.Error("model reload failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	logger.Info("model reloaded", "version", h.policy.ModelVersion())
	return c.JSON(http.StatusOK, fres.Response.StatusOK(ModelInfoResponse{
		Loaded:  h.policy.Loaded(),
		Version: h.policy.ModelVersion(),
	}))
}
