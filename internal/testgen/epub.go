// Package testgen generates EPUB and archive fixtures for tests.
package testgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// EPUBOptions controls the metadata and content of a generated EPUB.
type EPUBOptions struct {
	Title      string
	Authors    []string
	Identifier string
	BodyText   string
	OmitOPF    bool
}

// GenerateEPUB creates a valid EPUB file at dir/filename. The archive
// contains mimetype, container.xml, content.opf, and one chapter document.
func GenerateEPUB(t *testing.T, dir, filename string, opts EPUBOptions) string {
	t.Helper()

	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create EPUB file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	// mimetype - must be first and uncompressed
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("failed to create mimetype entry: %v", err)
	}
	if _, err := w.Write([]byte("application/epub+zip")); err != nil {
		t.Fatalf("failed to write mimetype: %v", err)
	}

	containerXML := `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
	writeZipFile(t, zw, "META-INF/container.xml", []byte(containerXML))

	if !opts.OmitOPF {
		writeZipFile(t, zw, "OEBPS/content.opf", []byte(generateOPF(opts)))
	}

	body := opts.BodyText
	if body == "" {
		body = "This is a test chapter."
	}
	chapter := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>Chapter 1</title>
</head>
<body>
  <h1>Chapter 1</h1>
  <p>%s</p>
</body>
</html>`, escapeXML(body))
	writeZipFile(t, zw, "OEBPS/chapter1.xhtml", []byte(chapter))

	return path
}

func generateOPF(opts EPUBOptions) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package version="3.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
`)

	if opts.Title != "" {
		buf.WriteString(fmt.Sprintf("    <dc:title id=\"title\">%s</dc:title>\n", escapeXML(opts.Title)))
	}
	for i, author := range opts.Authors {
		buf.WriteString(fmt.Sprintf("    <dc:creator id=\"creator%d\" opf:role=\"aut\">%s</dc:creator>\n", i, escapeXML(author)))
	}
	if opts.Identifier != "" {
		buf.WriteString(fmt.Sprintf("    <dc:identifier id=\"bookid\">%s</dc:identifier>\n", escapeXML(opts.Identifier)))
	}
	buf.WriteString("    <dc:language>en</dc:language>\n")

	buf.WriteString(`  </metadata>
  <manifest>
    <item id="chapter1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="chapter1"/>
  </spine>
</package>`)

	return buf.String()
}

// GenerateZip creates a plain zip archive at dir/filename with the given
// entry names and contents. Entry names are written verbatim, so traversal
// payloads like "../../evil" survive intact.
func GenerateZip(t *testing.T, dir, filename string, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	for name, content := range entries {
		if strings.HasSuffix(name, "/") {
			if _, err := zw.Create(name); err != nil {
				t.Fatalf("failed to create dir entry %s: %v", name, err)
			}
			continue
		}
		writeZipFile(t, zw, name, []byte(content))
	}

	return path
}

// GenerateGarbage creates a file at dir/filename that is not a valid zip
// container.
func GenerateGarbage(t *testing.T, dir, filename string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0644); err != nil {
		t.Fatalf("failed to write garbage file: %v", err)
	}
	return path
}

func writeZipFile(t *testing.T, zw *zip.Writer, name string, content []byte) {
	t.Helper()

	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("failed to create zip entry %s: %v", name, err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("failed to write zip entry %s: %v", name, err)
	}
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
