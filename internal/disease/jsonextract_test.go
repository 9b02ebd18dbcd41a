package disease

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{
			name:     "bare object",
			text:     `{"disease": "Healthy"}`,
			expected: `{"disease": "Healthy"}`,
			found:    true,
		},
		{
			name:     "object wrapped in prose",
			text:     "Here is my diagnosis:\n{\"disease\": \"Rust\"}\nLet me know if you need more.",
			expected: `{"disease": "Rust"}`,
			found:    true,
		},
		{
			name:     "object inside code fence",
			text:     "```json\n{\"disease\": \"Early Blight\", \"confidence\": 82}\n```",
			expected: `{"disease": "Early Blight", "confidence": 82}`,
			found:    true,
		},
		{
			name:     "nested braces",
			text:     `result: {"outer": {"inner": 1}, "x": 2} trailing`,
			expected: `{"outer": {"inner": 1}, "x": 2}`,
			found:    true,
		},
		{
			name:     "braces inside string values",
			text:     `{"disease": "Leaf spot {severe}", "note": "a \"quoted\" word"}`,
			expected: `{"disease": "Leaf spot {severe}", "note": "a \"quoted\" word"}`,
			found:    true,
		},
		{
			name:  "no object at all",
			text:  "The plant looks healthy to me.",
			found: false,
		},
		{
			name:  "unbalanced braces",
			text:  `{"disease": "Rust"`,
			found: false,
		},
		{
			name:  "empty input",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.text)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, got)
				assert.True(t, json.Valid([]byte(got)), "extracted substring should be valid JSON")
			}
		})
	}
}

func TestExtractJSONObjectReturnsFirstObject(t *testing.T) {
	text := `{"first": 1} and later {"second": 2}`

	got, ok := ExtractJSONObject(text)
	require.True(t, ok)
	assert.Equal(t, `{"first": 1}`, got)
}
