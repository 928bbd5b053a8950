// Package mediafile defines the boundary between the indexing pipeline and
// the content extractors that read raw archive bytes.
package mediafile

import (
	"context"
	"fmt"
)

// Metadata is what a content extractor yields for one archive. Identifier,
// Creator, and Text may be empty when the archive doesn't carry them; an
// empty Title is logged by the loader and replaced with a placeholder.
type Metadata struct {
	MimeType   string
	Identifier string
	Title      string
	Creator    string
	Text       string
}

func (m *Metadata) String() string {
	return fmt.Sprintf("Title:      %s\nCreator:    %s\nIdentifier: %s\nMime Type:  %s\nText Bytes: %d", m.Title, m.Creator, m.Identifier, m.MimeType, len(m.Text))
}

// Extractor reads metadata and free text out of a book archive. An error
// signals a malformed or unreadable container; the loader may attempt one
// archive repair and retry.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Metadata, error)
}
