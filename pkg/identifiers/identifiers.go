// Package identifiers implements ISBN check-digit validation and the
// cascading classification of raw identifier strings into typed book IDs.
package identifiers

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Scheme identifies how an ID's value should be interpreted.
type Scheme string

const (
	SchemeUUID Scheme = "uuid"
	SchemeISBN Scheme = "isbn"
	SchemeURL  Scheme = "url"
	SchemeURI  Scheme = "uri"
)

// ID is a typed book identifier. Equality is structural on (Scheme, Value).
type ID struct {
	Scheme Scheme
	Value  string
}

// New constructs an ID, validating that the value satisfies the syntax of the
// scheme.
func New(scheme Scheme, value string) (ID, error) {
	switch scheme {
	case SchemeISBN:
		if !IsValidChecksum(value) {
			return ID{}, errors.Errorf("invalid isbn checksum: %q", value)
		}
	case SchemeUUID:
		if _, err := uuid.Parse(value); err != nil {
			return ID{}, errors.Wrapf(err, "invalid uuid: %q", value)
		}
	case SchemeURL:
		if !isAbsoluteURL(value) {
			return ID{}, errors.Errorf("not an absolute url: %q", value)
		}
	case SchemeURI:
		if !isURI(value) {
			return ID{}, errors.Errorf("not a uri: %q", value)
		}
	default:
		return ID{}, errors.Errorf("unknown identifier scheme: %q", scheme)
	}
	return ID{Scheme: scheme, Value: value}, nil
}

// NewRandom returns a fresh UUID-scheme ID.
func NewRandom() ID {
	return ID{Scheme: SchemeUUID, Value: uuid.NewString()}
}

func (id ID) String() string {
	return fmt.Sprintf("%s:%s", id.Scheme, id.Value)
}

// IsValidChecksum reports whether a 10- or 13-digit identifier has a valid
// check digit. Hyphens are stripped first; any other punctuation invalidates.
func IsValidChecksum(digits string) bool {
	s := strings.ReplaceAll(digits, "-", "")
	switch len(s) {
	case 10:
		return validChecksum10(s)
	case 13:
		return validChecksum13(s)
	}
	return false
}

// validChecksum13 validates the weighted {1,3} alternating sum over the first
// 12 digits. A computed check digit of 10 is encoded as 0.
func validChecksum13(s string) bool {
	sum := 0
	for i, r := range s[:12] {
		if !unicode.IsDigit(r) {
			return false
		}
		d := int(r - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	last := rune(s[12])
	if !unicode.IsDigit(last) {
		return false
	}
	check := 10 - sum%10
	return int(last-'0') == check || (check == 10 && last == '0')
}

// validChecksum10 validates the weighted 10..2 sum over the first 9 digits.
// A computed check digit of 10 is encoded as 'X', 11 as 0.
func validChecksum10(s string) bool {
	sum := 0
	for i, r := range s[:9] {
		if !unicode.IsDigit(r) {
			return false
		}
		sum += int(r-'0') * (10 - i)
	}
	check := 11 - sum%11
	last := rune(s[9])
	switch {
	case check == 10:
		return last == 'X'
	case check == 11:
		return last == '0'
	case unicode.IsDigit(last):
		return int(last-'0') == check
	}
	return false
}

func isAbsoluteURL(value string) bool {
	u, err := url.Parse(value)
	return err == nil && u.IsAbs() && u.Host != ""
}

func isURI(value string) bool {
	u, err := url.Parse(value)
	return err == nil && u.Scheme != ""
}
