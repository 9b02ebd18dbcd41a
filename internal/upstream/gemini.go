package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/projectavishkar/krishimitra/internal/config"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap"
)

const geminiProvider = "gemini"

// GeminiClient talks to the generateContent endpoint of the generative-AI
// provider. Both text-only and image+text requests go through the same
// endpoint; the response envelope carries the completion in the first
// candidate's first content part.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewGeminiClientWithConfig(cfg config.GeminiConfig, logger *zap.Logger, tele *telemetry.Telemetry) *GeminiClient {
	return &GeminiClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
		tele:   tele,
	}
}

func (c *GeminiClient) Name() string {
	return geminiProvider
}

type generatePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *generateInline `json:"inlineData,omitempty"`
}

type generateInline struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents          []generateContent `json:"contents"`
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends a text prompt, with an optional system instruction,
// and returns the raw completion text.
func (c *GeminiClient) GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "gemini.GenerateText")
	defer span.End()

	req := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
	}
	if systemInstruction != "" {
		req.SystemInstruction = &generateContent{
			Parts: []generatePart{{Text: systemInstruction}},
		}
	}

	text, err := c.generate(ctx, req)
	span.SetAttributes(attribute.Bool("success", err == nil))
	return text, err
}

// GenerateVision sends an instruction plus an inline base64 image and
// returns the raw completion text.
func (c *GeminiClient) GenerateVision(ctx context.Context, prompt, imageBase64, mimeType string) (string, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "gemini.GenerateVision")
	defer span.End()

	span.SetAttributes(
		attribute.String("mime_type", mimeType),
		attribute.Int("image_size", len(imageBase64)),
	)

	req := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{
				{Text: prompt},
				{InlineData: &generateInline{MimeType: mimeType, Data: imageBase64}},
			}},
		},
	}

	text, err := c.generate(ctx, req)
	span.SetAttributes(attribute.Bool("success", err == nil))
	return text, err
}

func (c *GeminiClient) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Kind: KindHTTP, Provider: geminiProvider, Err: err}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: KindHTTP, Provider: geminiProvider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Gemini request failed", zap.Error(err))
		return "", &Error{Kind: KindNetwork, Provider: geminiProvider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Provider: geminiProvider, Err: err}
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &Error{Kind: KindHTTP, Provider: geminiProvider, Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.Warn("Gemini rejected API key", zap.Int("status", resp.StatusCode))
		return "", &Error{Kind: KindAuth, Provider: geminiProvider, Status: resp.StatusCode, Message: out.Error.Message}
	case resp.StatusCode != http.StatusOK:
		return "", &Error{Kind: KindHTTP, Provider: geminiProvider, Status: resp.StatusCode, Message: out.Error.Message}
	}

	if len(out.Candidates) == 0 ||
		len(out.Candidates[0].Content.Parts) == 0 ||
		out.Candidates[0].Content.Parts[0].Text == "" {
		return "", &Error{Kind: KindNoContent, Provider: geminiProvider, Message: "empty completion"}
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}
