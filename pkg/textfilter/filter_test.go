package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "   ", expected: ""},
		{name: "already lower", input: "burn", expected: "burn"},
		{name: "upper snake", input: "BADLY_POISONED", expected: "badly poisoned"},
		{name: "mixed spaces", input: "  Badly   poisoned ", expected: "badly poisoned"},
		{name: "hyphenated", input: "Leech-Seed", expected: "leech seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("SANDSTORM", "Sandstorm"))
	assert.True(t, Equal("badly_poisoned", "Badly poisoned"))
	assert.False(t, Equal("Rain", "Sunny"))
}

func TestTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "calm", expected: "Calm"},
		{input: "LEFTOVERS", expected: "Leftovers"},
		{input: "black   sludge", expected: "Black Sludge"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Title(tt.input))
		})
	}
}
