package rest

import (
	"context"
	"net/http"
	"time"

	"paperScout/business/recommend"
	"paperScout/pkg/logger"
	"paperScout/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendHandler struct {
		validate *validator.Validate
		service  RecommendService
	}

	RecommendService interface {
		RecommendForUser(ctx context.Context, userID uint, opts recommend.Options) (recommend.Result, error)
		RecommendSimilar(ctx context.Context, paperID string, topK int) (recommend.Result, error)
	}

	RecommendQuery struct {
		N           int    `query:"n"`
		CandidateK  int    `query:"candidates"`
		BasePaperID string `query:"base_paper_id"`
		Mode        string `query:"mode" validate:"omitempty,oneof=rule hybrid"`
	}

	SimilarQuery struct {
		N int `query:"n"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// GET /api/v1/recommendations?n=6&candidates=100&mode=hybrid&base_paper_id=...
func (h *RecommendHandler) Recommend(c echo.Context) error {
	return h.recommend(c, false)
}

// GET /api/v1/recommendations/debug runs the same pipeline but skips the
// exposure log; meant for inspecting the per-component breakdown.
func (h *RecommendHandler) DebugRecommend(c echo.Context) error {
	return h.recommend(c, true)
}

func (h *RecommendHandler) recommend(c echo.Context, debug bool) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	opts := recommend.Options{
		TopK:        q.N,
		CandidateK:  q.CandidateK,
		BasePaperID: q.BasePaperID,
		RuleOnly:    q.Mode == "rule",
		SkipLog:     debug,
	}

	start := time.Now()
	result, err := h.service.RecommendForUser(c.Request().Context(), userID, opts)
	if err != nil {
		logger.Error("failed to build recommendations", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	metrics.RecommendRequests.WithLabelValues(result.Mode).Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(
		toRecommendationResponse(userID, result.RecommendationID, result.Mode, result.Papers),
	))
}

// GET /api/v1/recommendations/similar/:paper_id?n=6
func (h *RecommendHandler) Similar(c echo.Context) error {
	paperID := c.Param("paper_id")
	if paperID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "paper_id is required"})
	}

	var q SimilarQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	start := time.Now()
	result, err := h.service.RecommendSimilar(c.Request().Context(), paperID, q.N)
	if err != nil {
		logger.Error("failed to build similar papers", "paper_id", paperID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	metrics.RecommendRequests.WithLabelValues("similar").Inc()

	resp := toRecommendationResponse(0, "", result.Mode, result.Papers)
	resp.Mode = "similar"

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}
