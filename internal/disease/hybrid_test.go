package disease

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectavishkar/krishimitra/internal/upstream"
)

func visionVerdict(disease string, confidence int) *Verdict {
	return &Verdict{
		Disease:    disease,
		Confidence: confidence,
		Severity:   SeverityModerate,
		Treatment:  []string{"vision treatment"},
		Prevention: []string{"vision prevention"},
		Source:     SourceVision,
	}
}

func TestMergeVerdictsAgreementBoostsConfidence(t *testing.T) {
	local := &upstream.LocalPrediction{Prediction: "powdery", Confidence: 80}
	vision := visionVerdict("Powdery Mildew", 90)

	merged := MergeVerdicts(local, vision)

	assert.Equal(t, "Powdery Mildew", merged.Disease, "agreement keeps the vision verdict")
	assert.Equal(t, 90, merged.Confidence, "(80+90)/2+5")
	assert.Equal(t, SourceHybrid, merged.Source)
	assert.Equal(t, []string{"vision treatment"}, merged.Treatment)
}

func TestMergeVerdictsAgreementCapsAtHundred(t *testing.T) {
	local := &upstream.LocalPrediction{Prediction: "rust", Confidence: 98}
	vision := visionVerdict("Leaf Rust", 99)

	merged := MergeVerdicts(local, vision)

	assert.Equal(t, 100, merged.Confidence)
}

func TestMergeVerdictsDisagreementVisionWins(t *testing.T) {
	local := &upstream.LocalPrediction{Prediction: "rust", Confidence: 60}
	vision := visionVerdict("Early Blight", 85)

	merged := MergeVerdicts(local, vision)

	assert.Equal(t, "Early Blight", merged.Disease)
	assert.Equal(t, 85, merged.Confidence)
	assert.Equal(t, SourceHybrid, merged.Source)
	require.NotNil(t, merged.ModelConfidence)
	assert.Equal(t, 60, *merged.ModelConfidence)
}

func TestMergeVerdictsDisagreementLocalWins(t *testing.T) {
	local := &upstream.LocalPrediction{Prediction: "rust", Confidence: 92}
	vision := visionVerdict("Early Blight", 40)

	merged := MergeVerdicts(local, vision)

	assert.Equal(t, "rust", merged.Disease)
	assert.Equal(t, 92, merged.Confidence)
	assert.Equal(t, SourceHybrid, merged.Source)
	assert.Equal(t, diseaseProfiles["rust"].treatment, merged.Treatment,
		"local winner carries the profile care instructions")
}

func TestMergeVerdictsTieKeepsVision(t *testing.T) {
	local := &upstream.LocalPrediction{Prediction: "rust", Confidence: 70}
	vision := visionVerdict("Early Blight", 70)

	merged := MergeVerdicts(local, vision)

	assert.Equal(t, "Early Blight", merged.Disease)
}

func TestConvertLocalPrediction(t *testing.T) {
	t.Run("known label", func(t *testing.T) {
		v := ConvertLocalPrediction(&upstream.LocalPrediction{Prediction: "Powdery", Confidence: 77.4})

		assert.Equal(t, "Powdery", v.Disease)
		assert.Equal(t, 77, v.Confidence)
		assert.Equal(t, SeverityModerate, v.Severity)
		assert.Equal(t, diseaseProfiles["powdery"].prevention, v.Prevention)
		assert.Equal(t, SourceLocalModel, v.Source)
	})

	t.Run("unknown label gets healthy profile", func(t *testing.T) {
		v := ConvertLocalPrediction(&upstream.LocalPrediction{Prediction: "mystery blight", Confidence: 50})

		assert.Equal(t, "mystery blight", v.Disease)
		assert.Equal(t, SeverityMild, v.Severity)
		assert.Equal(t, diseaseProfiles["healthy"].treatment, v.Treatment)
	})
}
