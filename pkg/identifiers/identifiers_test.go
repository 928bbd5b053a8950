package identifiers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidChecksum(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "valid isbn10 with hyphens",
			input:    "0-7645-7682-8",
			expected: true,
		},
		{
			name:     "valid isbn13 with hyphens",
			input:    "978-0-7645-7682-9",
			expected: true,
		},
		{
			name:     "isbn13 wrong check digit",
			input:    "978-0-7645-7682-8",
			expected: false,
		},
		{
			name:     "isbn10 wrong check digit",
			input:    "0-7645-7682-7",
			expected: false,
		},
		{
			name:     "valid isbn13 without hyphens",
			input:    "9783161484100",
			expected: true,
		},
		{
			name:     "isbn10 with X check digit",
			input:    "080442957X",
			expected: true,
		},
		{
			name:     "lowercase x check character is rejected",
			input:    "080442957x",
			expected: false,
		},
		{
			name:     "wrong length",
			input:    "12345",
			expected: false,
		},
		{
			name:     "empty",
			input:    "",
			expected: false,
		},
		{
			name:     "punctuation other than hyphens",
			input:    "978 3 16 148410 0",
			expected: false,
		},
		{
			name:     "letters in digit positions",
			input:    "97831614841ab",
			expected: false,
		},
		{
			name:     "X in non-final position",
			input:    "08044X9571",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidChecksum(tt.input))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("blank input generates a fresh uuid", func(t *testing.T) {
		a := Classify("")
		b := Classify("   ")
		assert.Equal(t, SchemeUUID, a.Scheme)
		assert.Equal(t, SchemeUUID, b.Scheme)
		assert.NotEqual(t, a, b)
	})

	t.Run("valid isbn", func(t *testing.T) {
		id := Classify("978-3-16-148410-0")
		assert.Equal(t, SchemeISBN, id.Scheme)
		assert.Equal(t, "978-3-16-148410-0", id.Value)
	})

	t.Run("isbn prefix is stripped", func(t *testing.T) {
		id := Classify("ISBN: 978-3-16-148410-0")
		assert.Equal(t, SchemeISBN, id.Scheme)
		assert.Equal(t, "978-3-16-148410-0", id.Value)
	})

	t.Run("absolute url", func(t *testing.T) {
		id := Classify("https://example.com/book")
		assert.Equal(t, SchemeURL, id.Scheme)
		assert.Equal(t, "https://example.com/book", id.Value)
	})

	t.Run("urn uuid", func(t *testing.T) {
		id := Classify("urn:uuid:A1B2C3D4-E5F6-4890-ABCD-EF1234567890")
		assert.Equal(t, SchemeUUID, id.Scheme)
		assert.Equal(t, "a1b2c3d4-e5f6-4890-abcd-ef1234567890", id.Value)
	})

	t.Run("bare uri is not trusted as identity", func(t *testing.T) {
		a := Classify("calibre:12345")
		b := Classify("calibre:12345")
		assert.Equal(t, SchemeUUID, a.Scheme)
		assert.NotEqual(t, a, b)
	})

	t.Run("garbage generates a fresh uuid", func(t *testing.T) {
		id := Classify("not anything in particular")
		assert.Equal(t, SchemeUUID, id.Scheme)
		_, err := uuid.Parse(id.Value)
		assert.NoError(t, err)
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		value   string
		wantErr bool
	}{
		{"valid isbn", SchemeISBN, "978-3-16-148410-0", false},
		{"invalid isbn", SchemeISBN, "978-3-16-148410-1", true},
		{"valid uuid", SchemeUUID, "a1b2c3d4-e5f6-4890-abcd-ef1234567890", false},
		{"invalid uuid", SchemeUUID, "nope", true},
		{"valid url", SchemeURL, "https://example.com/x", false},
		{"relative url", SchemeURL, "/just/a/path", true},
		{"valid uri", SchemeURI, "calibre:123", false},
		{"schemeless uri", SchemeURI, "no-scheme-here", true},
		{"unknown scheme", Scheme("asin"), "B000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := New(tt.scheme, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, id.Scheme)
			assert.Equal(t, tt.value, id.Value)
		})
	}
}
