package rest

import (
	"context"
	"net/http"

	"paperScout/domain"
	"paperScout/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	InteractionHandler struct {
		validate *validator.Validate
		service  InteractionService
	}

	InteractionService interface {
		LogInteraction(ctx context.Context, in domain.Interaction) (domain.Interaction, error)
	}

	// ActionType is deliberately not restricted to the known set: unknown
	// kinds are stored and simply earn no base reward.
	InteractionRequest struct {
		PaperID          string         `json:"paper_id" validate:"required"`
		ActionType       string         `json:"action_type" validate:"required"`
		DwellTime        *float64       `json:"dwell_time,omitempty"`
		RecommendationID *string        `json:"recommendation_id,omitempty"`
		Position         *int           `json:"position,omitempty"`
		Meta             map[string]any `json:"meta,omitempty"`
	}

	InteractionResponse struct {
		InteractionID uint    `json:"interaction_id"`
		Reward        float64 `json:"reward"`
	}
)

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// POST /api/v1/recommendations/interactions
func (h *InteractionHandler) LogInteraction(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	in := domain.Interaction{
		UserID:           userID,
		PaperID:          req.PaperID,
		ActionType:       req.ActionType,
		DwellTime:        req.DwellTime,
		RecommendationID: req.RecommendationID,
		Position:         req.Position,
	}
	if req.Meta != nil {
		in.Meta = datatypes.JSONMap(req.Meta)
	}

	saved, err := h.service.LogInteraction(c.Request().Context(), in)
	if err != nil {
		logger.Error("failed to log interaction", "user_id", userID, "paper_id", req.PaperID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(InteractionResponse{
		InteractionID: saved.ID,
		Reward:        saved.Reward,
	}))
}
