// Package catalog holds the in-memory book/author entities produced by a
// folder scan and the read-only catalog built from them.
package catalog

import (
	"github.com/librisbooks/libris/pkg/identifiers"
	"github.com/pkg/errors"
)

// Book is an immutable book entity. The Add methods return a new Book and
// reject duplicates rather than silently ignoring them.
type Book struct {
	ID       identifiers.ID
	Title    string
	Authors  []Author
	Keywords []string
	Formats  []string
}

// NewBook constructs a Book with no authors, keywords, or formats. The title
// must be non-blank.
func NewBook(id identifiers.ID, title string) (Book, error) {
	if title == "" {
		return Book{}, errors.New("book title can't be blank")
	}
	return Book{
		ID:       id,
		Title:    title,
		Authors:  []Author{},
		Keywords: []string{},
		Formats:  []string{},
	}, nil
}

// WithID returns a copy of the book carrying a different identifier. Used by
// the catalog reduce step to remap duplicate identities.
func (b Book) WithID(id identifiers.ID) Book {
	b.ID = id
	return b
}

// AddAuthor returns a new Book with the author appended. Adding an author
// whose ID is already present is an error.
func (b Book) AddAuthor(author Author) (Book, error) {
	for _, a := range b.Authors {
		if a.ID == author.ID {
			return Book{}, errors.Errorf("book %s already has author %s", b.ID, author.ID)
		}
	}
	authors := make([]Author, len(b.Authors), len(b.Authors)+1)
	copy(authors, b.Authors)
	b.Authors = append(authors, author)
	return b, nil
}

// AddKeyword returns a new Book with the keyword appended. Duplicates are an
// error.
func (b Book) AddKeyword(keyword string) (Book, error) {
	keywords, err := appendUnique(b.Keywords, keyword, "keyword")
	if err != nil {
		return Book{}, errors.Wrapf(err, "book %s", b.ID)
	}
	b.Keywords = keywords
	return b, nil
}

// AddFormat returns a new Book with the mime-type-like format appended.
// Duplicates are an error.
func (b Book) AddFormat(format string) (Book, error) {
	formats, err := appendUnique(b.Formats, format, "format")
	if err != nil {
		return Book{}, errors.Wrapf(err, "book %s", b.ID)
	}
	b.Formats = formats
	return b, nil
}

// HasAuthor reports whether the book's author set contains the given ID.
func (b Book) HasAuthor(id AuthorID) bool {
	for _, a := range b.Authors {
		if a.ID == id {
			return true
		}
	}
	return false
}

func appendUnique(values []string, value, kind string) ([]string, error) {
	for _, v := range values {
		if v == value {
			return nil, errors.Errorf("duplicate %s %q", kind, value)
		}
	}
	out := make([]string, len(values), len(values)+1)
	copy(out, values)
	return append(out, value), nil
}
