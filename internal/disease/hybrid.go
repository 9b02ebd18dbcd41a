package disease

import (
	"strings"

	"github.com/projectavishkar/krishimitra/internal/upstream"
)

// MergeVerdicts combines the local classifier's prediction with the vision
// model's verdict into a single confidence-scored result. Agreement on the
// disease name (substring overlap, case-insensitive) averages the two
// confidences with a small bonus; disagreement keeps whichever detector was
// more confident. Either way both component confidences are retained.
func MergeVerdicts(local *upstream.LocalPrediction, vision *Verdict) *Verdict {
	localConf := roundInt(local.Confidence)
	visionConf := vision.Confidence

	localName := strings.ToLower(local.Prediction)
	visionName := strings.ToLower(vision.Disease)
	agree := localName != "" && visionName != "" &&
		(strings.Contains(localName, visionName) || strings.Contains(visionName, localName))

	var merged Verdict
	if agree || visionConf >= localConf {
		merged = *vision
	} else {
		merged = *ConvertLocalPrediction(local)
	}

	if agree {
		boosted := (float64(localConf)+float64(visionConf))/2 + 5
		if boosted > 100 {
			boosted = 100
		}
		merged.Confidence = roundInt(boosted)
	}

	merged.Source = SourceHybrid
	merged.ModelConfidence = &localConf
	merged.VisionConfidence = &visionConf
	return &merged
}

type diseaseProfile struct {
	severity   Severity
	treatment  []string
	prevention []string
}

// diseaseProfiles maps the local model's label set to care instructions.
var diseaseProfiles = map[string]diseaseProfile{
	"healthy": {
		severity: SeverityMild,
		treatment: []string{
			"Plant is healthy",
			"Continue regular care",
			"Monitor for any changes",
			"Maintain good hygiene",
		},
		prevention: []string{
			"Keep watering schedule",
			"Ensure proper sunlight",
			"Check soil moisture",
			"Inspect regularly",
		},
	},
	"powdery": {
		severity: SeverityModerate,
		treatment: []string{
			"Apply sulfur-based fungicide",
			"Increase air circulation",
			"Remove infected leaves",
			"Spray every 7-10 days",
		},
		prevention: []string{
			"Avoid overhead watering",
			"Space plants properly",
			"Monitor humidity levels",
			"Use resistant varieties",
		},
	},
	"rust": {
		severity: SeverityModerate,
		treatment: []string{
			"Apply copper fungicide",
			"Remove infected leaves",
			"Improve drainage",
			"Reduce leaf wetness",
		},
		prevention: []string{
			"Ensure good air flow",
			"Water at base only",
			"Rotate crops",
			"Clean tools between plants",
		},
	},
}

// ConvertLocalPrediction lifts a bare label+confidence into a full Verdict,
// borrowing care instructions from the profile table. Unknown labels get the
// healthy profile so the step lists stay non-empty.
func ConvertLocalPrediction(local *upstream.LocalPrediction) *Verdict {
	profile, ok := diseaseProfiles[strings.ToLower(local.Prediction)]
	if !ok {
		profile = diseaseProfiles["healthy"]
	}

	conf := roundInt(local.Confidence)
	return &Verdict{
		Disease:         local.Prediction,
		Confidence:      conf,
		Severity:        profile.severity,
		Treatment:       profile.treatment,
		Prevention:      profile.prevention,
		Source:          SourceLocalModel,
		ModelConfidence: &conf,
	}
}
