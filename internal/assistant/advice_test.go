package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectavishkar/krishimitra/internal/upstream"
)

func TestSeasonalTipsParsesNumberedList(t *testing.T) {
	model := &fakeModel{
		text: "Here are my tips:\n1. Sow after the first rains\n2) Mulch the beds\nSome prose.\n3. Scout for bollworm weekly",
	}
	r := newTestResponder(t, model)

	tips := r.SeasonalTips(context.Background(), "Cotton", "Kharif")

	assert.Equal(t, []string{
		"Sow after the first rains",
		"Mulch the beds",
		"Scout for bollworm weekly",
	}, tips)
	assert.Contains(t, model.prompt, "growing Cotton during Kharif season")
}

func TestSeasonalTipsFallsBackOnError(t *testing.T) {
	model := &fakeModel{err: &upstream.Error{Kind: upstream.KindNetwork, Provider: "gemini"}}
	r := newTestResponder(t, model)

	tips := r.SeasonalTips(context.Background(), "Rice", "Rabi")

	require.Len(t, tips, 5)
	assert.Contains(t, tips[0], "Rabi")
}

func TestSeasonalTipsFallsBackWhenNothingNumbered(t *testing.T) {
	model := &fakeModel{text: "I cannot produce a list right now, sorry."}
	r := newTestResponder(t, model)

	tips := r.SeasonalTips(context.Background(), "Wheat", "Rabi")

	assert.Equal(t, defaultTips("Wheat", "Rabi"), tips)
}

func TestPestAdvice(t *testing.T) {
	t.Run("passes the completion through", func(t *testing.T) {
		model := &fakeModel{text: "Use neem oil spray in the evening."}
		r := newTestResponder(t, model)

		advice := r.PestAdvice(context.Background(), "aphids", "okra")

		assert.Equal(t, "Use neem oil spray in the evening.", advice)
		assert.Contains(t, model.prompt, "controlling aphids on okra crops")
	})

	t.Run("static fallback on error", func(t *testing.T) {
		model := &fakeModel{err: &upstream.Error{Kind: upstream.KindHTTP, Provider: "gemini", Status: 500}}
		r := newTestResponder(t, model)

		advice := r.PestAdvice(context.Background(), "aphids", "okra")

		assert.Equal(t, "Please consult a local agricultural expert for pest management.", advice)
	})
}

func TestIrrigationAdvice(t *testing.T) {
	t.Run("passes the completion through", func(t *testing.T) {
		model := &fakeModel{text: "Irrigate every 5 days in the early morning."}
		r := newTestResponder(t, model)

		advice := r.IrrigationAdvice(context.Background(), "sugarcane", "black", "summer")

		assert.Equal(t, "Irrigate every 5 days in the early morning.", advice)
		assert.Contains(t, model.prompt, "- Crop: sugarcane")
		assert.Contains(t, model.prompt, "- Soil Type: black")
	})

	t.Run("static fallback on error", func(t *testing.T) {
		model := &fakeModel{err: &upstream.Error{Kind: upstream.KindNetwork, Provider: "gemini"}}
		r := newTestResponder(t, model)

		advice := r.IrrigationAdvice(context.Background(), "sugarcane", "black", "summer")

		assert.Equal(t, "Please consult local water management resources for irrigation guidance.", advice)
	})
}

func TestParseNumberedList(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"dot markers", "1. a\n2. b", []string{"a", "b"}},
		{"paren markers", "1) a\n2) b", []string{"a", "b"}},
		{"ignores bullets", "- not numbered\n1. numbered", []string{"numbered"}},
		{"drops empty items", "1.\n2. kept", []string{"kept"}},
		{"nothing numbered", "plain prose", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseNumberedList(tt.text))
		})
	}
}
