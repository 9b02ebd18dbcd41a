package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SeasonalTips asks the model for five numbered, crop- and season-specific
// tips. Any failure falls back to a deterministic default list; this call
// never errors.
func (r *Responder) SeasonalTips(ctx context.Context, cropType, season string) []string {
	tracer := r.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "assistant.SeasonalTips")
	defer span.End()

	prompt := fmt.Sprintf(`As an agricultural expert, provide 5 specific, actionable tips for growing %s during %s season in India.
Format as a numbered list with brief, practical advice.`, cropType, season)

	text, err := r.model.GenerateText(ctx, "", prompt)
	if err != nil {
		r.logger.Warn("Seasonal tips upstream failed, using defaults",
			zap.String("crop", cropType),
			zap.String("season", season),
			zap.Error(err))
		span.SetAttributes(attribute.Bool("fallback", true))
		return defaultTips(cropType, season)
	}

	tips := parseNumberedList(text)
	if len(tips) == 0 {
		span.SetAttributes(attribute.Bool("fallback", true))
		return defaultTips(cropType, season)
	}

	span.SetAttributes(attribute.Int("tips", len(tips)))
	return tips
}

// PestAdvice returns free-text pest-management advice, with a static
// consult-an-expert line when the model is unavailable.
func (r *Responder) PestAdvice(ctx context.Context, pestName, cropType string) string {
	tracer := r.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "assistant.PestAdvice")
	defer span.End()

	prompt := fmt.Sprintf(`As a pest management expert, provide practical advice for controlling %s on %s crops in India.
Include:
1. Identification signs
2. Prevention methods
3. Organic control methods
4. Chemical options (if needed)
5. When to seek professional help

Keep it concise and actionable.`, pestName, cropType)

	text, err := r.model.GenerateText(ctx, "", prompt)
	if err != nil {
		r.logger.Warn("Pest advice upstream failed",
			zap.String("pest", pestName),
			zap.Error(err))
		span.SetAttributes(attribute.Bool("fallback", true))
		return "Please consult a local agricultural expert for pest management."
	}

	return text
}

// IrrigationAdvice returns free-text irrigation guidance for the given crop,
// soil, and season, with a static fallback line when the model is
// unavailable.
func (r *Responder) IrrigationAdvice(ctx context.Context, cropType, soilType, season string) string {
	tracer := r.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "assistant.IrrigationAdvice")
	defer span.End()

	prompt := fmt.Sprintf(`As an irrigation expert, provide specific irrigation recommendations for:
- Crop: %s
- Soil Type: %s
- Season: %s

Include:
1. Optimal watering frequency
2. Water quantity per irrigation
3. Best time of day to irrigate
4. Signs of over/under watering
5. Water conservation tips

Keep it practical and region-specific for India.`, cropType, soilType, season)

	text, err := r.model.GenerateText(ctx, "", prompt)
	if err != nil {
		r.logger.Warn("Irrigation advice upstream failed",
			zap.String("crop", cropType),
			zap.Error(err))
		span.SetAttributes(attribute.Bool("fallback", true))
		return "Please consult local water management resources for irrigation guidance."
	}

	return text
}

var numberedItem = regexp.MustCompile(`^\d+[.)]\s*`)

// parseNumberedList collects the "1. ..." items of a prose reply.
func parseNumberedList(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		loc := numberedItem.FindStringIndex(line)
		if loc == nil {
			continue
		}
		item := strings.TrimSpace(line[loc[1]:])
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func defaultTips(cropType, season string) []string {
	return []string{
		fmt.Sprintf("Prepare soil with adequate organic matter before %s planting", season),
		"Monitor weather patterns and adjust irrigation accordingly",
		fmt.Sprintf("Use quality seeds suited for %s conditions", season),
		"Implement crop rotation to maintain soil health",
		"Regular pest and disease monitoring is essential",
	}
}
