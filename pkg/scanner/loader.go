package scanner

import (
	"context"
	"os"
	"strings"

	"github.com/librisbooks/libris/pkg/authorname"
	"github.com/librisbooks/libris/pkg/catalog"
	"github.com/librisbooks/libris/pkg/epubfix"
	"github.com/librisbooks/libris/pkg/identifiers"
	"github.com/librisbooks/libris/pkg/keywords"
	"github.com/librisbooks/libris/pkg/mediafile"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// placeholderTitle stands in for archives whose metadata carries no title.
// A missing title is logged, never fatal.
const placeholderTitle = "Untitled"

// Loader builds one Book from one archive file, with a single
// repair-and-retry fallback for malformed containers.
type Loader struct {
	extractor mediafile.Extractor
	repairer  *epubfix.Repairer
	tagger    *keywords.Tagger
}

// NewLoader wires a Loader from its collaborators.
func NewLoader(extractor mediafile.Extractor, repairer *epubfix.Repairer, tagger *keywords.Tagger) *Loader {
	return &Loader{
		extractor: extractor,
		repairer:  repairer,
		tagger:    tagger,
	}
}

// Load extracts metadata from the archive at path and assembles a Book. When
// extraction fails and allowRepair is set, the archive is repackaged once
// and the load retried on the repaired copy; a second failure is fatal for
// this file.
func (l *Loader) Load(ctx context.Context, path string, allowRepair bool) (catalog.Book, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"path": path})

	md, err := l.extractor.Extract(ctx, path)
	if err != nil {
		if !allowRepair {
			return catalog.Book{}, errors.Wrap(err, "extract failed")
		}

		log.Err(err).Warn("extraction failed; attempting archive repair")
		repaired, repairErr := l.repairer.Repackage(path)
		if repairErr != nil {
			return catalog.Book{}, errors.Wrap(repairErr, "archive repair failed")
		}
		defer os.Remove(repaired)

		book, err := l.Load(ctx, repaired, false)
		if err != nil {
			return catalog.Book{}, err
		}
		return book, nil
	}

	return l.assemble(log, md)
}

func (l *Loader) assemble(log logger.Logger, md *mediafile.Metadata) (catalog.Book, error) {
	title := md.Title
	if title == "" {
		log.Warn("archive metadata has no title; using placeholder")
		title = placeholderTitle
	}

	id := identifiers.Classify(md.Identifier)
	if strings.TrimSpace(md.Identifier) != "" && id.Scheme == identifiers.SchemeUUID && id.Value != identifiers.Normalize(md.Identifier) {
		log.Warn("identifier not classifiable; assigned a random id", logger.Data{"identifier": md.Identifier})
	}

	book, err := catalog.NewBook(id, title)
	if err != nil {
		return catalog.Book{}, errors.WithStack(err)
	}

	for _, name := range authorname.Split(md.Creator) {
		author, err := catalog.NewAuthor(name)
		if err != nil {
			return catalog.Book{}, errors.WithStack(err)
		}
		book, err = book.AddAuthor(author)
		if err != nil {
			return catalog.Book{}, errors.WithStack(err)
		}
	}

	if md.Text != "" {
		for _, keyword := range l.tagger.Tag(md.Text) {
			book, err = book.AddKeyword(keyword)
			if err != nil {
				return catalog.Book{}, errors.WithStack(err)
			}
		}
	}

	book, err = book.AddFormat(md.MimeType)
	if err != nil {
		return catalog.Book{}, errors.WithStack(err)
	}
	return book, nil
}
