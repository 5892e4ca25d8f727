package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []SuggestedSubtask
		wantErr bool
	}{
		{
			name:    "bare array",
			content: `[{"title": "Buy soil"}, {"title": "Water"}]`,
			want:    []SuggestedSubtask{{Title: "Buy soil"}, {Title: "Water"}},
		},
		{
			name:    "fenced json",
			content: "```json\n[{\"title\": \"Outline\"}]\n```",
			want:    []SuggestedSubtask{{Title: "Outline"}},
		},
		{
			name:    "empty array",
			content: "[]",
			want:    []SuggestedSubtask{},
		},
		{
			name:    "prose",
			content: "Sure! Here are some steps.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestions(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHintLine(t *testing.T) {
	assert.Equal(t, "", hintLine("   "))
	assert.Equal(t, "Context: for a small flat\n", hintLine(" for a small flat "))
}
