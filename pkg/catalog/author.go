package catalog

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AuthorID is an opaque unique author identifier. A fresh one is generated
// per author instance encountered during loading; there is no cross-file
// identity resolution.
type AuthorID string

// NewAuthorID returns a fresh random AuthorID.
func NewAuthorID() AuthorID {
	return AuthorID(uuid.NewString())
}

// Author is an immutable author entity. Sites maps a site-type label to a
// URL and is always empty at load time.
type Author struct {
	ID    AuthorID
	Name  string
	Sites map[string]string
}

// NewAuthor constructs an Author with a fresh ID and no sites. The name must
// be non-blank.
func NewAuthor(name string) (Author, error) {
	if name == "" {
		return Author{}, errors.New("author name can't be blank")
	}
	return Author{
		ID:    NewAuthorID(),
		Name:  name,
		Sites: map[string]string{},
	}, nil
}
