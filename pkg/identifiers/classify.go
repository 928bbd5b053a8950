package identifiers

import "strings"

// classifyRule pairs a predicate with the scheme it produces. Rules are
// evaluated top to bottom and the first match wins. A failed parse only
// disqualifies that rule; it is never propagated.
type classifyRule struct {
	matches func(value string) bool
	scheme  Scheme
}

var classifyRules = []classifyRule{
	{matches: IsValidChecksum, scheme: SchemeISBN},
	{matches: isAbsoluteURL, scheme: SchemeURL},
	{matches: isUUID, scheme: SchemeUUID},
}

var strippedPrefixes = []string{"urn:", "uuid:", "isbn:", "isbn"}

// Classify assigns a typed ID to a raw identifier string. A blank input, an
// untrusted bare URI, or an unclassifiable value all yield a fresh random
// UUID-scheme ID, so the result is always usable as a map key.
func Classify(raw string) ID {
	if strings.TrimSpace(raw) == "" {
		return NewRandom()
	}

	value := Normalize(raw)
	for _, rule := range classifyRules {
		if rule.matches(value) {
			return ID{Scheme: rule.scheme, Value: value}
		}
	}

	// Bare URIs (e.g. calibre:123) collide across sources too often to serve
	// as stable identity, so they are replaced with a random UUID just like
	// values that match nothing at all.
	return NewRandom()
}

// Normalize lowercases a raw identifier, strips the urn/uuid/isbn prefixes,
// trims whitespace, and replaces interior spaces with hyphens.
func Normalize(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range strippedPrefixes {
		value = strings.TrimPrefix(value, prefix)
	}
	value = strings.TrimSpace(value)
	return strings.ReplaceAll(value, " ", "-")
}

func isUUID(value string) bool {
	_, err := New(SchemeUUID, value)
	return err == nil
}
