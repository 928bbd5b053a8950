// Package keywords tags free text against a fixed dictionary of terms using
// a multi-pattern automaton with case-insensitive whole-word matching.
package keywords

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"os"
	"sort"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"github.com/pkg/errors"
)

//go:embed dictionary.txt
var defaultDictionary []byte

// Tagger is an immutable multi-pattern matcher built once from a dictionary.
// It is safe for concurrent use.
type Tagger struct {
	terms []string
	ac    ahocorasick.AhoCorasick
}

// New builds a Tagger from a newline-delimited dictionary. Terms are
// lowercased; blank lines and duplicates are dropped.
func New(dictionary io.Reader) (*Tagger, error) {
	seen := make(map[string]struct{})
	terms := make([]string, 0)

	scanner := bufio.NewScanner(dictionary)
	for scanner.Scan() {
		term := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(terms) == 0 {
		return nil, errors.New("keyword dictionary is empty")
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})

	return &Tagger{
		terms: terms,
		ac:    builder.Build(terms),
	}, nil
}

// Default builds a Tagger from the bundled dictionary.
func Default() (*Tagger, error) {
	return New(bytes.NewReader(defaultDictionary))
}

// NewFromFile builds a Tagger from a dictionary file on disk.
func NewFromFile(path string) (*Tagger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return New(f)
}

// Tag returns the distinct dictionary terms that occur in text as whole
// words, sorted for stable output. Substrings inside longer words never
// match.
func (t *Tagger) Tag(text string) []string {
	if text == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	for _, match := range t.ac.FindAll(text) {
		seen[t.terms[match.Pattern()]] = struct{}{}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Terms returns the dictionary terms the tagger was built from.
func (t *Tagger) Terms() []string {
	terms := make([]string, len(t.terms))
	copy(terms, t.terms)
	return terms
}
