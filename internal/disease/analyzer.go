package disease

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/projectavishkar/krishimitra/internal/upstream"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
	"go.uber.org/zap"
)

const visionPrompt = `You are an expert plant pathologist. Analyze this plant image and provide a detailed disease diagnosis.

IMPORTANT: Respond ONLY with valid JSON in this exact format, no other text:
{
  "disease": "specific disease name (e.g., 'Tomato Early Blight', 'Powdery Mildew', 'Healthy')",
  "confidence": 85,
  "severity": "Moderate",
  "treatment": [
    "First treatment step",
    "Second treatment step",
    "Third treatment step",
    "Fourth treatment step"
  ],
  "prevention": [
    "First prevention tip",
    "Second prevention tip",
    "Third prevention tip",
    "Fourth prevention tip"
  ]
}

Analyze the image for:
1. Specific disease identification (not generic categories)
2. Visual symptoms (spots, discoloration, lesions, wilting)
3. Pest damage or nutrient deficiencies
4. Confidence level (0-100%)
5. Severity assessment
6. Practical treatment recommendations
7. Prevention strategies

Be specific and accurate. If the plant appears healthy, set disease to "Healthy" and confidence to 95.`

// VisionModel is the slice of the generative-AI client the analyzer uses.
type VisionModel interface {
	GenerateVision(ctx context.Context, prompt, imageBase64, mimeType string) (string, error)
}

// LocalClassifier is the optional on-premise detector.
type LocalClassifier interface {
	Predict(ctx context.Context, imageBase64, mimeType string) (*upstream.LocalPrediction, error)
}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordUpstreamCall(ctx context.Context, provider string, success bool)
	RecordFallback(ctx context.Context, component string)
}

// Analyzer is the disease-detection resilience boundary: Analyze never
// fails, every upstream or parse error degrades to the fixed fallback
// verdict.
type Analyzer struct {
	vision  VisionModel
	local   LocalClassifier
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

func NewAnalyzer(vision VisionModel, logger *zap.Logger, tele *telemetry.Telemetry) *Analyzer {
	return &Analyzer{
		vision: vision,
		logger: logger,
		tele:   tele,
	}
}

// SetLocalClassifier enables hybrid detection with the on-premise model.
func (a *Analyzer) SetLocalClassifier(local LocalClassifier) {
	a.local = local
}

// SetMetricsRecorder sets the metrics recorder for the analyzer
func (a *Analyzer) SetMetricsRecorder(metrics MetricsRecorder) {
	a.metrics = metrics
}

// Analyze diagnoses a plant image. When a local classifier is configured,
// both detectors run concurrently and their verdicts are merged; otherwise
// the vision model alone decides. All failures collapse into the fallback
// verdict.
func (a *Analyzer) Analyze(ctx context.Context, imageBase64, mimeType string) *Verdict {
	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "disease.Analyze")
	defer span.End()

	span.SetAttributes(attribute.Bool("hybrid", a.local != nil))

	var (
		wg        sync.WaitGroup
		visionRes *Verdict
		visionErr error
		localRes  *upstream.LocalPrediction
		localErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		visionRes, visionErr = a.analyzeWithVision(ctx, imageBase64, mimeType)
	}()

	if a.local != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			localRes, localErr = a.local.Predict(ctx, imageBase64, mimeType)
		}()
	}
	wg.Wait()

	if a.metrics != nil {
		a.metrics.RecordUpstreamCall(ctx, "gemini", visionErr == nil)
		if a.local != nil {
			a.metrics.RecordUpstreamCall(ctx, "local-model", localErr == nil)
		}
	}

	if visionErr != nil {
		a.logger.Warn("Vision analysis failed",
			zap.String("kind", string(upstream.KindOf(visionErr))),
			zap.Error(visionErr))

		if localErr == nil && localRes != nil {
			span.SetAttributes(attribute.String("source", string(SourceLocalModel)))
			return ConvertLocalPrediction(localRes)
		}

		span.SetAttributes(attribute.String("source", string(SourceFallback)))
		if a.metrics != nil {
			a.metrics.RecordFallback(ctx, "disease")
		}
		return FallbackVerdict()
	}

	if a.local != nil {
		if localErr != nil {
			a.logger.Warn("Local classifier failed, using vision verdict alone", zap.Error(localErr))
		} else if localRes != nil {
			merged := MergeVerdicts(localRes, visionRes)
			span.SetAttributes(
				attribute.String("source", string(merged.Source)),
				attribute.String("disease", merged.Disease),
				attribute.Int("confidence", merged.Confidence),
			)
			return merged
		}
	}

	span.SetAttributes(
		attribute.String("source", string(visionRes.Source)),
		attribute.String("disease", visionRes.Disease),
		attribute.Int("confidence", visionRes.Confidence),
	)
	return visionRes
}

// rawVerdict mirrors the JSON the vision model is asked to produce. Fields
// are loosely typed because the model does not always comply.
type rawVerdict struct {
	Disease    string        `json:"disease"`
	Confidence interface{}   `json:"confidence"`
	Severity   string        `json:"severity"`
	Treatment  []interface{} `json:"treatment"`
	Prevention []interface{} `json:"prevention"`
}

func (a *Analyzer) analyzeWithVision(ctx context.Context, imageBase64, mimeType string) (*Verdict, error) {
	text, err := a.vision.GenerateVision(ctx, visionPrompt, imageBase64, mimeType)
	if err != nil {
		return nil, err
	}

	verdict, err := parseVisionVerdict(text)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Vision analysis complete",
		zap.String("disease", verdict.Disease),
		zap.Int("confidence", verdict.Confidence))

	return verdict, nil
}

// parseVisionVerdict digs the JSON object out of the completion text and
// normalizes it into a Verdict.
func parseVisionVerdict(text string) (*Verdict, error) {
	obj, ok := ExtractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in completion")
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in completion: %w", err)
	}

	disease := strings.TrimSpace(raw.Disease)
	if disease == "" {
		disease = "Unknown Disease"
	}

	return &Verdict{
		Disease:    disease,
		Confidence: clampConfidence(raw.Confidence),
		Severity:   NormalizeSeverity(raw.Severity),
		Treatment:  filterSteps(raw.Treatment, defaultTreatmentStep),
		Prevention: filterSteps(raw.Prevention, defaultPreventionStep),
		Source:     SourceVision,
	}, nil
}

// clampConfidence coerces the model's confidence into [0,100]. Missing or
// non-numeric values count as zero.
func clampConfidence(v interface{}) int {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return roundInt(f)
}

// filterSteps keeps at most four string entries, substituting a single
// default step when the model gave none.
func filterSteps(items []interface{}, fallback string) []string {
	steps := make([]string, 0, 4)
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		steps = append(steps, s)
		if len(steps) == 4 {
			break
		}
	}

	if len(steps) == 0 {
		return []string{fallback}
	}
	return steps
}

func roundInt(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}
