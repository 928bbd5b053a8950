// Package authorname turns free-text creator strings from book metadata into
// normalized individual names in "Last, First" form.
package authorname

import (
	"strings"
)

// Separators are the multi-author delimiters replaced with the canonical
// ", " delimiter before splitting. Metadata in the wild mixes English and
// Dutch conjunctions.
var Separators = []string{
	" and ",
	" & ",
	" - ",
	" en ",
	" met ",
	"\n",
}

// Split parses a creator field into unique, order-preserving normalized
// names. Blank input yields an empty slice.
func Split(creator string) []string {
	if strings.TrimSpace(creator) == "" {
		return []string{}
	}

	canonical := creator
	for _, sep := range Separators {
		canonical = strings.ReplaceAll(canonical, sep, ", ")
	}

	names := make([]string, 0)
	seen := make(map[string]struct{})
	for _, segment := range strings.Split(canonical, ", ") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		name := Normalize(segment)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Normalize converts a single display name into "Last, First" form. A name
// without spaces is returned as-is. Generational and parenthetical suffixes
// ("John Smith Jr", "John Smith (Editor)") stay attached to the last name.
func Normalize(name string) string {
	name = strings.TrimSpace(name)

	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name
	}

	firstName := name[:idx]
	lastName := name[idx+1:]

	if (strings.HasPrefix(strings.ToLower(lastName), "jr") || strings.HasSuffix(lastName, ")")) &&
		strings.Contains(firstName, " ") {
		split := strings.LastIndex(firstName, " ")
		lastName = firstName[split+1:] + " " + lastName
		firstName = firstName[:split]
	}

	return lastName + ", " + firstName
}
