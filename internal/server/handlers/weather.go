package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectavishkar/krishimitra/internal/server/utils"
	"github.com/projectavishkar/krishimitra/internal/weather"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	service *weather.Service
	logger  *zap.Logger
}

func NewWeatherHandler(service *weather.Service, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: service,
		logger:  logger,
	}
}

// GetWeather always answers 200 with a snapshot: the weather service is the
// resilience boundary and substitutes synthetic data for every upstream
// failure. Only malformed coordinates produce an error status.
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		reqLogger.Warn("Invalid coordinates", zap.Any("errors", errs))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid coordinates",
			Code:    "INVALID_COORDINATES",
			Details: errs[0].Message,
		})
		return
	}

	lat, lon := *req.Lat, *req.Lon

	reqLogger.Info("Processing weather request",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon))

	snapshot := h.service.GetWeather(ctx, lat, lon)

	reqLogger.Info("Weather request completed",
		zap.Bool("synthetic", snapshot.IsSynthetic()),
		zap.Int("forecast_days", len(snapshot.Forecast)))

	c.JSON(http.StatusOK, snapshot)
}
