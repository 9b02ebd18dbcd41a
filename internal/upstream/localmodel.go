package upstream

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/projectavishkar/krishimitra/internal/config"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap"
)

const localModelProvider = "local-model"

// LocalPrediction is the raw verdict of the on-premise classifier.
type LocalPrediction struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// LocalModelClient uploads plant images to the on-premise disease classifier.
// The classifier accepts a multipart file upload and answers with a single
// label plus confidence.
type LocalModelClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewLocalModelClientWithConfig(cfg config.LocalModelConfig, logger *zap.Logger, tele *telemetry.Telemetry) *LocalModelClient {
	return &LocalModelClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
		tele:   tele,
	}
}

func (c *LocalModelClient) Name() string {
	return localModelProvider
}

// Predict classifies a base64-encoded plant image.
func (c *LocalModelClient) Predict(ctx context.Context, imageBase64, mimeType string) (*LocalPrediction, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "localmodel.Predict")
	defer span.End()

	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, &Error{Kind: KindHTTP, Provider: localModelProvider, Message: "invalid base64 image", Err: err}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "plant_image.jpg")
	if err != nil {
		return nil, &Error{Kind: KindHTTP, Provider: localModelProvider, Err: err}
	}
	if _, err := part.Write(raw); err != nil {
		return nil, &Error{Kind: KindHTTP, Provider: localModelProvider, Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindHTTP, Provider: localModelProvider, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &buf)
	if err != nil {
		return nil, &Error{Kind: KindHTTP, Provider: localModelProvider, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Local model request failed", zap.Error(err))
		span.SetAttributes(attribute.Bool("success", false))
		return nil, &Error{Kind: KindNetwork, Provider: localModelProvider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Provider: localModelProvider, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindHTTP, Provider: localModelProvider, Status: resp.StatusCode}
	}

	var out LocalPrediction
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Kind: KindHTTP, Provider: localModelProvider, Message: "malformed response body", Err: err}
	}

	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 100 {
		out.Confidence = 100
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.String("prediction", out.Prediction),
	)
	return &out, nil
}
