package disease

// Severity grades how far the disease has progressed.
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// NormalizeSeverity maps unrecognized or missing severity strings to the
// middle of the scale.
func NormalizeSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return Severity(s)
	default:
		return SeverityModerate
	}
}

// Source records which detector produced the verdict.
type Source string

const (
	SourceHybrid     Source = "hybrid"
	SourceVision     Source = "ai-vision"
	SourceLocalModel Source = "local-model"
	SourceFallback   Source = "fallback"
)

// Verdict is the normalized disease-detection result for one image.
// Confidence is always in [0,100], Severity is always one of the three
// grades, and both step lists are non-empty.
type Verdict struct {
	Disease    string   `json:"disease"`
	Confidence int      `json:"confidence"`
	Severity   Severity `json:"severity"`
	Treatment  []string `json:"treatment"`
	Prevention []string `json:"prevention"`
	Source     Source   `json:"source"`

	// Component confidences are kept when two detectors were merged.
	ModelConfidence  *int `json:"model_confidence,omitempty"`
	VisionConfidence *int `json:"vision_confidence,omitempty"`
}

const (
	defaultTreatmentStep  = "Consult a local agricultural expert"
	defaultPreventionStep = "Maintain proper plant hygiene"
)

// FallbackVerdict is returned whenever analysis fails outright. It keeps the
// disease screen populated with honest "we could not tell" guidance.
func FallbackVerdict() *Verdict {
	return &Verdict{
		Disease:    "Unable to determine disease",
		Confidence: 45,
		Severity:   SeverityModerate,
		Treatment: []string{
			"Consult a local agricultural expert",
			"Take clear photos of affected areas",
			"Provide plant history and growing conditions",
			"Consider professional plant diagnostics",
		},
		Prevention: []string{
			"Maintain proper plant hygiene",
			"Ensure adequate air circulation",
			"Water at base of plants",
			"Monitor plants regularly for symptoms",
		},
		Source: SourceFallback,
	}
}
