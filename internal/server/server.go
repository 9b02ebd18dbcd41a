package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projectavishkar/krishimitra/internal/assistant"
	"github.com/projectavishkar/krishimitra/internal/config"
	"github.com/projectavishkar/krishimitra/internal/disease"
	"github.com/projectavishkar/krishimitra/internal/server/handlers"
	"github.com/projectavishkar/krishimitra/internal/server/middlewares"
	"github.com/projectavishkar/krishimitra/internal/upstream"
	"github.com/projectavishkar/krishimitra/internal/weather"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine    *gin.Engine
	server    *http.Server
	weather   *weather.Service
	analyzer  *disease.Analyzer
	responder *assistant.Responder
	logger    *zap.Logger
	tele      *telemetry.Telemetry
}

var (
	instance *Server
	once     sync.Once
)

func NewServer(logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	once.Do(func() {
		cfg := config.GetConfig()

		owm := upstream.NewOpenWeatherClientWithConfig(cfg.Weather, logger, tele)
		gemini := upstream.NewGeminiClientWithConfig(cfg.Gemini, logger, tele)

		weatherSvc := weather.NewService(owm, cfg.Weather, logger, tele)

		analyzer := disease.NewAnalyzer(gemini, logger, tele)
		if cfg.LocalModel.Enabled {
			analyzer.SetLocalClassifier(upstream.NewLocalModelClientWithConfig(cfg.LocalModel, logger, tele))
		}

		responder := assistant.NewResponder(gemini, logger, tele)

		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()

		metricsMiddleware, _ := middlewares.NewMetricsMiddleware(logger, tele)

		engine.Use(middlewares.RequestIDMiddleware(logger))
		engine.Use(middlewares.LoggingMiddleware(logger, time.RFC3339, true))
		engine.Use(middlewares.RecoveryMiddleware(logger, true))
		engine.Use(middlewares.TelemetryMiddleware(logger, tele))
		engine.Use(metricsMiddleware.Handler())

		metricsHandler := handlers.NewMetricsHandler(logger)
		metricsHandler.SetHTTPMetricsSource(metricsMiddleware.GetHTTPMetrics())

		weatherSvc.SetMetricsRecorder(metricsHandler)
		analyzer.SetMetricsRecorder(metricsHandler)

		instance = &Server{
			engine:    engine,
			weather:   weatherSvc,
			analyzer:  analyzer,
			responder: responder,
			logger:    logger,
			tele:      tele,
		}

		instance.setupRoutes(metricsHandler)
	})

	return instance
}

func (s *Server) setupRoutes(metricsHandler *handlers.MetricsHandler) {
	// Business endpoints
	s.engine.GET("/weather", handlers.NewWeatherHandler(s.weather, s.logger).GetWeather)
	s.engine.POST("/disease/analyze", handlers.NewDiseaseHandler(s.analyzer, s.logger).Analyze)

	assistantHandler := handlers.NewAssistantHandler(s.responder, s.logger)
	s.engine.POST("/assistant/ask", assistantHandler.Ask)
	s.engine.GET("/assistant/topics", assistantHandler.Topics)
	s.engine.POST("/assistant/tips", assistantHandler.Tips)
	s.engine.POST("/assistant/pest-advice", assistantHandler.PestAdvice)
	s.engine.POST("/assistant/irrigation", assistantHandler.Irrigation)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", handlers.NewHealthHandler(s.logger).Health)
	s.engine.GET("/health/live", handlers.NewHealthHandler(s.logger).Liveness)
	s.engine.GET("/health/ready", handlers.NewHealthHandler(s.logger).Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", metricsHandler.ServeMetrics)
}

func (s *Server) Start() error {
	cfg := config.GetConfig()

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: s.engine,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}
