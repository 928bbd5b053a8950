package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text untouched",
			input:    "just words",
			expected: "just words",
		},
		{
			name:     "inline tags removed",
			input:    "some <b>bold</b> and <i>italic</i> text",
			expected: "some bold and italic text",
		},
		{
			name:     "paragraphs become newlines",
			input:    "<p>first</p><p>second</p>",
			expected: "first\nsecond",
		},
		{
			name:     "headings become newlines",
			input:    "<h1>Chapter 1</h1><p>body text</p>",
			expected: "Chapter 1\nbody text",
		},
		{
			name:     "entities decoded",
			input:    "<p>cats &amp; dogs&nbsp;&mdash; both</p>",
			expected: "cats & dogs — both",
		},
		{
			name:     "whitespace collapsed",
			input:    "<p>too    many\t\tspaces</p>",
			expected: "too many spaces",
		},
		{
			name:     "full document",
			input:    `<html><head><title>t</title></head><body><h1>Intro</h1><p>Hello <em>world</em>.</p></body></html>`,
			expected: "tIntro\nHello world.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}
