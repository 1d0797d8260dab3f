package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/ai"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/khanhtoandng/me-sub001/pkg/response"
)

// AIHandler serves POST /api/ai/enhance.
type AIHandler struct {
	enhancer *ai.Enhancer
}

func NewAIHandler(e *ai.Enhancer) *AIHandler {
	return &AIHandler{enhancer: e}
}

func (h *AIHandler) Register(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/ai/enhance", with(mw, h.Enhance)...)
}

func (h *AIHandler) Enhance(c *gin.Context) {
	var req ai.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := h.enhancer.Enhance(c.Request.Context(), &req)
	if err != nil {
		status, msg, outcome := aiErrorStatus(err)
		action := string(req.Action)
		if outcome == "invalid" {
			action = "invalid"
		}
		metrics.AIRequests.WithLabelValues(action, outcome).Inc()
		if status >= http.StatusInternalServerError {
			logger.Errorf("ai enhance (%s/%s): %v", req.Type, req.Action, err)
		}
		response.Fail(c, status, msg)
		return
	}
	metrics.AIRequests.WithLabelValues(string(req.Action), "ok").Inc()
	response.OK(c, http.StatusOK, res)
}

// aiErrorStatus maps enhancer errors onto HTTP: bad input 400, provider rate
// limit 429, everything else 500 with the provider message.
func aiErrorStatus(err error) (int, string, string) {
	var invalid *ai.InvalidRequestError
	var perr *ai.ProviderError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Message, "invalid"
	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error(), "rate_limited"
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusInternalServerError, err.Error(), "not_configured"
	case errors.As(err, &perr):
		return http.StatusInternalServerError, perr.Message, "provider_error"
	}
	return http.StatusInternalServerError, err.Error(), "error"
}
