package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTagger(t *testing.T, dictionary string) *Tagger {
	t.Helper()
	tagger, err := New(strings.NewReader(dictionary))
	require.NoError(t, err)
	return tagger
}

func TestTag(t *testing.T) {
	tagger := newTestTagger(t, "architecture\ntesting\ndesign pattern\n")

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "whole word match",
			text:     "Clean Architecture and Hexagonal Architecture",
			expected: []string{"architecture"},
		},
		{
			name:     "no partial word match",
			text:     "architectures",
			expected: []string{},
		},
		{
			name:     "case insensitive",
			text:     "TESTING, Testing, testing",
			expected: []string{"testing"},
		},
		{
			name:     "multi word term",
			text:     "the observer design pattern in practice",
			expected: []string{"design pattern"},
		},
		{
			name:     "multiple distinct terms",
			text:     "architecture testing architecture",
			expected: []string{"architecture", "testing"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
		{
			name:     "no matches",
			text:     "an unrelated sentence",
			expected: []string{},
		},
		{
			name:     "punctuation is a word boundary",
			text:     "architecture, obviously.",
			expected: []string{"architecture"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tagger.Tag(tt.text))
		})
	}
}

func TestTagOverlappingTerms(t *testing.T) {
	tagger := newTestTagger(t, "architecture\nclean architecture\n")
	assert.Equal(t,
		[]string{"architecture", "clean architecture"},
		tagger.Tag("clean architecture and testing"))
}

func TestNew(t *testing.T) {
	t.Run("empty dictionary is an error", func(t *testing.T) {
		_, err := New(strings.NewReader("\n\n  \n"))
		assert.Error(t, err)
	})

	t.Run("duplicates and case are normalized", func(t *testing.T) {
		tagger := newTestTagger(t, "Architecture\narchitecture\nARCHITECTURE\n")
		assert.Equal(t, []string{"architecture"}, tagger.Terms())
	})
}

func TestDefault(t *testing.T) {
	tagger, err := Default()
	require.NoError(t, err)
	assert.Contains(t, tagger.Terms(), "architecture")
	assert.Equal(t, []string{"architecture"}, tagger.Tag("a lecture on architecture"))
}
