package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/projectavishkar/krishimitra/internal/upstream"
	"github.com/projectavishkar/krishimitra/pkg/telemetry"
)

type fakeModel struct {
	text   string
	err    error
	system string
	prompt string
}

func (f *fakeModel) GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	f.system = systemInstruction
	f.prompt = prompt
	return f.text, f.err
}

func newTestResponder(t *testing.T, model TextModel) *Responder {
	return NewResponder(model, zaptest.NewLogger(t), &telemetry.Telemetry{})
}

func TestAskShapesReply(t *testing.T) {
	model := &fakeModel{
		text: "Tomatoes need consistent moisture.\n1. Water every 3 days\n2. Check soil moisture\nSome other text",
	}
	r := newTestResponder(t, model)

	reply, err := r.Ask(context.Background(), "How often should I water tomatoes?", nil)
	require.NoError(t, err)

	assert.Equal(t, model.text, reply.Message)
	assert.Equal(t, []string{"Water every 3 days", "Check soil moisture"}, reply.Suggestions)
	assert.Equal(t, 85, reply.Confidence)
	assert.Equal(t, systemPrompt, model.system)
	assert.Contains(t, model.prompt, "User Question: How often should I water tomatoes?")
}

func TestAskEmbedsFarmContext(t *testing.T) {
	model := &fakeModel{text: "ok"}
	r := newTestResponder(t, model)

	_, err := r.Ask(context.Background(), "q", &FarmContext{CropType: "Cotton", Season: "Kharif"})
	require.NoError(t, err)

	assert.Contains(t, model.prompt, "- Crop: Cotton")
	assert.Contains(t, model.prompt, "- Season: Kharif")
	assert.Contains(t, model.prompt, "- Region: Not specified")
	assert.Contains(t, model.prompt, "- Soil Type: Not specified")
}

func TestAskOmitsContextBlockWhenNil(t *testing.T) {
	model := &fakeModel{text: "ok"}
	r := newTestResponder(t, model)

	_, err := r.Ask(context.Background(), "q", nil)
	require.NoError(t, err)

	assert.NotContains(t, model.prompt, "Context:")
}

func TestAskNoContentBecomesEmptyResponse(t *testing.T) {
	model := &fakeModel{err: &upstream.Error{Kind: upstream.KindNoContent, Provider: "gemini"}}
	r := newTestResponder(t, model)

	_, err := r.Ask(context.Background(), "q", nil)
	require.Error(t, err)

	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindEmptyResponse, aerr.Kind)
}

func TestAskUpstreamErrorPropagates(t *testing.T) {
	model := &fakeModel{err: &upstream.Error{Kind: upstream.KindNetwork, Provider: "gemini", Message: "dial refused"}}
	r := newTestResponder(t, model)

	_, err := r.Ask(context.Background(), "q", nil)
	require.Error(t, err)

	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindUpstream, aerr.Kind)

	var uerr *upstream.Error
	assert.True(t, errors.As(err, &uerr), "the upstream error should stay on the chain")
}

func TestAskBlankCompletionIsEmptyResponse(t *testing.T) {
	model := &fakeModel{text: "   \n\t  "}
	r := newTestResponder(t, model)

	_, err := r.Ask(context.Background(), "q", nil)
	require.Error(t, err)

	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindEmptyResponse, aerr.Kind)
}

func TestExtractSuggestions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "numbered with dot",
			text:     "1. Water every 3 days\n2. Check soil moisture",
			expected: []string{"Water every 3 days", "Check soil moisture"},
		},
		{
			name:     "mixed bullet markers",
			text:     "- dash item\n• bullet item\n* star item\nplain prose",
			expected: []string{"dash item", "bullet item", "star item"},
		},
		{
			name:     "caps at three",
			text:     "1. one\n2. two\n3. three\n4. four",
			expected: []string{"one", "two", "three"},
		},
		{
			name:     "numbered with parenthesis",
			text:     "1) first\n2) second",
			expected: []string{"first", "second"},
		},
		{
			name:     "skips overlong lines",
			text:     "1. " + strings.Repeat("x", 200) + "\n2. short",
			expected: []string{"short"},
		},
		{
			name:     "no markers",
			text:     "Just a plain paragraph of advice without any list.",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSuggestions(tt.text))
		})
	}
}
