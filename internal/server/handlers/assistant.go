package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectavishkar/krishimitra/internal/assistant"
	"github.com/projectavishkar/krishimitra/internal/server/utils"
	"go.uber.org/zap"
)

type AssistantHandler struct {
	responder *assistant.Responder
	logger    *zap.Logger
}

func NewAssistantHandler(responder *assistant.Responder, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		responder: responder,
		logger:    logger,
	}
}

// Ask relays a chat question. Unlike weather and disease detection, the
// assistant may fail visibly: upstream errors map to 502 so the chat screen
// can render a retryable error bubble.
func (h *AssistantHandler) Ask(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLogger.Warn("Invalid ask request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: err.Error(),
		})
		return
	}

	var fctx *assistant.FarmContext
	if req.Context != nil {
		fctx = &assistant.FarmContext{
			CropType: req.Context.CropType,
			Region:   req.Context.Region,
			Season:   req.Context.Season,
			SoilType: req.Context.SoilType,
		}
	}

	reply, err := h.responder.Ask(ctx, req.Question, fctx)
	if err != nil {
		var aerr *assistant.Error
		code := "ASSISTANT_ERROR"
		if errors.As(err, &aerr) && aerr.Kind == assistant.KindEmptyResponse {
			code = "EMPTY_RESPONSE"
		}

		reqLogger.Error("Assistant request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: "The assistant could not answer, please try again",
			Code:  code,
		})
		return
	}

	reqLogger.Info("Assistant request completed",
		zap.Int("suggestions", len(reply.Suggestions)))

	c.JSON(http.StatusOK, reply)
}

// Topics is pure and offline; it always succeeds.
func (h *AssistantHandler) Topics(c *gin.Context) {
	var req TopicsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	topics := assistant.SuggestTopics(&assistant.TopicContext{
		CropType: req.CropType,
		HasIssue: req.HasIssue,
	})

	c.JSON(http.StatusOK, TopicsResponse{Topics: topics})
}

// Tips returns seasonal growing tips; the responder degrades to default tips
// internally, so this endpoint never fails past validation.
func (h *AssistantHandler) Tips(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	var req TipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: err.Error(),
		})
		return
	}

	tips := h.responder.SeasonalTips(ctx, req.CropType, req.Season)
	c.JSON(http.StatusOK, TipsResponse{Tips: tips})
}

// PestAdvice returns pest-management guidance.
func (h *AssistantHandler) PestAdvice(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	var req PestAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: err.Error(),
		})
		return
	}

	advice := h.responder.PestAdvice(ctx, req.PestName, req.CropType)
	c.JSON(http.StatusOK, AdviceResponse{Advice: advice})
}

// Irrigation returns irrigation guidance.
func (h *AssistantHandler) Irrigation(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	var req IrrigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: err.Error(),
		})
		return
	}

	advice := h.responder.IrrigationAdvice(ctx, req.CropType, req.SoilType, req.Season)
	c.JSON(http.StatusOK, AdviceResponse{Advice: advice})
}
