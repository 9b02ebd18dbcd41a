package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/projectavishkar/krishimitra/internal/upstream"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap"
)

const systemPrompt = `You are an expert agricultural assistant helping Indian farmers with crop management, pest control, irrigation, soil health, and farming best practices.
You provide practical, actionable advice based on local farming conditions.
Keep responses concise, clear, and in simple language.
Always provide 2-3 practical suggestions when relevant.
Focus on sustainable and cost-effective solutions.`

// replyConfidence is the fixed heuristic score attached to every reply.
const replyConfidence = 85

const (
	KindEmptyResponse = "empty_response"
	KindUpstream      = "upstream"
)

// Error is raised when the assistant cannot answer. Unlike weather and
// disease detection, chat is allowed to surface failures: the caller shows a
// retryable error bubble instead of fabricated advice.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assistant: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("assistant: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FarmContext carries the optional farm details embedded in each prompt.
type FarmContext struct {
	CropType string `json:"crop_type,omitempty"`
	Region   string `json:"region,omitempty"`
	Season   string `json:"season,omitempty"`
	SoilType string `json:"soil_type,omitempty"`
}

// Reply is the normalized assistant answer.
type Reply struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Confidence  int      `json:"confidence"`
}

// TextModel is the slice of the generative-AI client the responder uses.
type TextModel interface {
	GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Responder answers free-text farming questions through the text model.
type Responder struct {
	model  TextModel
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

func NewResponder(model TextModel, logger *zap.Logger, tele *telemetry.Telemetry) *Responder {
	return &Responder{
		model:  model,
		logger: logger,
		tele:   tele,
	}
}

// Ask sends the question, with optional farm context, to the text model and
// shapes the prose reply into a Reply. Upstream failures propagate as
// *Error.
func (r *Responder) Ask(ctx context.Context, question string, fctx *FarmContext) (*Reply, error) {
	tracer := r.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "assistant.Ask")
	defer span.End()

	span.SetAttributes(attribute.Int("question_length", len(question)))

	text, err := r.model.GenerateText(ctx, systemPrompt, buildUserPrompt(question, fctx))
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		r.logger.Warn("Assistant upstream failed", zap.Error(err))

		if upstream.KindOf(err) == upstream.KindNoContent {
			return nil, &Error{Kind: KindEmptyResponse, Err: err}
		}
		return nil, &Error{Kind: KindUpstream, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, &Error{Kind: KindEmptyResponse}
	}

	suggestions := extractSuggestions(text)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("suggestions", len(suggestions)),
	)

	return &Reply{
		Message:     text,
		Suggestions: suggestions,
		Confidence:  replyConfidence,
	}, nil
}

func buildUserPrompt(question string, fctx *FarmContext) string {
	var b strings.Builder

	if fctx != nil {
		b.WriteString("Context:\n")
		b.WriteString("- Crop: " + orNotSpecified(fctx.CropType) + "\n")
		b.WriteString("- Region: " + orNotSpecified(fctx.Region) + "\n")
		b.WriteString("- Season: " + orNotSpecified(fctx.Season) + "\n")
		b.WriteString("- Soil Type: " + orNotSpecified(fctx.SoilType) + "\n\n")
	}

	b.WriteString("User Question: " + question + "\n\n")
	b.WriteString("Provide a helpful response with practical advice. If relevant, suggest 2-3 specific actions the farmer can take.")

	return b.String()
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

var suggestionMarker = regexp.MustCompile(`^(\d+[.)]?|[-•*])\s+`)

// extractSuggestions scans the reply line by line for numbered or bulleted
// items, strips the marker, and keeps at most the first three short lines in
// document order.
func extractSuggestions(text string) []string {
	suggestions := make([]string, 0, 3)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		loc := suggestionMarker.FindStringIndex(line)
		if loc == nil {
			continue
		}

		suggestion := strings.TrimSpace(line[loc[1]:])
		if len(suggestion) == 0 || len(suggestion) >= 200 {
			continue
		}

		suggestions = append(suggestions, suggestion)
		if len(suggestions) == 3 {
			break
		}
	}

	return suggestions
}
