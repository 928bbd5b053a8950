// Package epub extracts metadata and free text from EPUB containers by
// reading the OPF package document and the XHTML content documents.
package epub

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/librisbooks/libris/pkg/errcodes"
	"github.com/librisbooks/libris/pkg/htmlutil"
	"github.com/librisbooks/libris/pkg/mediafile"
	"github.com/pkg/errors"
)

// MimeType is the canonical EPUB media type.
const MimeType = "application/epub+zip"

// DefaultMaxTextBytes bounds how much content-document text is read from one
// archive, protecting against pathological containers.
const DefaultMaxTextBytes = 1 << 20

// Package is the OPF package document, trimmed to the metadata the indexing
// pipeline consumes.
type Package struct {
	XMLName          xml.Name `xml:"package"`
	UniqueIdentifier string   `xml:"unique-identifier,attr"`
	Metadata         struct {
		Title []struct {
			Text string `xml:",chardata"`
			ID   string `xml:"id,attr"`
		} `xml:"title"`
		Creator []struct {
			Text string `xml:",chardata"`
			ID   string `xml:"id,attr"`
			Role string `xml:"role,attr"`
		} `xml:"creator"`
		Identifier []struct {
			Text   string `xml:",chardata"`
			ID     string `xml:"id,attr"`
			Scheme string `xml:"scheme,attr"`
		} `xml:"identifier"`
	} `xml:"metadata"`
}

// Extractor implements mediafile.Extractor for EPUB archives.
type Extractor struct {
	maxTextBytes int64
}

// NewExtractor returns an Extractor reading at most maxTextBytes of content
// text per archive. A non-positive limit uses DefaultMaxTextBytes.
func NewExtractor(maxTextBytes int64) *Extractor {
	if maxTextBytes <= 0 {
		maxTextBytes = DefaultMaxTextBytes
	}
	return &Extractor{maxTextBytes: maxTextBytes}
}

// Extract opens the archive, parses the OPF package document, and strips the
// content documents to free text.
func (e *Extractor) Extract(ctx context.Context, path string) (*mediafile.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	stats, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	zr, err := zip.NewReader(f, stats.Size())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pkg, err := findPackage(zr)
	if err != nil {
		return nil, err
	}

	text, err := e.extractText(zr)
	if err != nil {
		return nil, err
	}

	return &mediafile.Metadata{
		MimeType:   readMimeType(zr),
		Identifier: packageIdentifier(pkg),
		Title:      packageTitle(pkg),
		Creator:    packageCreator(pkg),
		Text:       text,
	}, nil
}

// findPackage locates and parses the .opf entry. An archive without one has
// no usable metadata.
func findPackage(zr *zip.Reader) (*Package, error) {
	for _, file := range zr.File {
		if filepath.Ext(file.Name) != ".opf" {
			continue
		}
		r, err := file.Open()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		b, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, errors.WithStack(err)
		}

		pkg := &Package{}
		if err := xml.Unmarshal(b, pkg); err != nil {
			return nil, errors.WithStack(err)
		}
		return pkg, nil
	}
	return nil, errors.WithStack(errcodes.MissingMetadata("no opf package document"))
}

func packageTitle(pkg *Package) string {
	for _, t := range pkg.Metadata.Title {
		if strings.TrimSpace(t.Text) != "" {
			return strings.TrimSpace(t.Text)
		}
	}
	return ""
}

// packageCreator joins all creator elements into one free-text field; the
// author name splitter downstream handles multi-author strings.
func packageCreator(pkg *Package) string {
	names := make([]string, 0, len(pkg.Metadata.Creator))
	for _, c := range pkg.Metadata.Creator {
		if strings.TrimSpace(c.Text) != "" {
			names = append(names, strings.TrimSpace(c.Text))
		}
	}
	return strings.Join(names, ", ")
}

// packageIdentifier prefers the element named by the package's
// unique-identifier attribute, falling back to the first non-empty one.
func packageIdentifier(pkg *Package) string {
	for _, id := range pkg.Metadata.Identifier {
		if pkg.UniqueIdentifier != "" && id.ID == pkg.UniqueIdentifier && strings.TrimSpace(id.Text) != "" {
			return strings.TrimSpace(id.Text)
		}
	}
	for _, id := range pkg.Metadata.Identifier {
		if strings.TrimSpace(id.Text) != "" {
			return strings.TrimSpace(id.Text)
		}
	}
	return ""
}

func readMimeType(zr *zip.Reader) string {
	for _, file := range zr.File {
		if file.Name != "mimetype" {
			continue
		}
		r, err := file.Open()
		if err != nil {
			break
		}
		b, err := io.ReadAll(io.LimitReader(r, 255))
		r.Close()
		if err == nil && strings.TrimSpace(string(b)) != "" {
			return strings.TrimSpace(string(b))
		}
		break
	}
	return MimeType
}

// extractText strips every content document to plain text, stopping once the
// read budget is spent.
func (e *Extractor) extractText(zr *zip.Reader) (string, error) {
	remaining := e.maxTextBytes
	docs := make([]string, 0)

	for _, file := range zr.File {
		if remaining <= 0 {
			break
		}
		switch strings.ToLower(filepath.Ext(file.Name)) {
		case ".xhtml", ".html", ".htm":
		default:
			continue
		}

		r, err := file.Open()
		if err != nil {
			return "", errors.WithStack(err)
		}
		b, err := io.ReadAll(io.LimitReader(r, remaining))
		r.Close()
		if err != nil {
			return "", errors.WithStack(err)
		}
		remaining -= int64(len(b))

		if text := htmlutil.StripTags(string(b)); text != "" {
			docs = append(docs, text)
		}
	}

	return strings.Join(docs, "\n"), nil
}
