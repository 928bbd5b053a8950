// Package epubfix recovers malformed EPUB containers by streaming every
// entry into a scratch directory and writing a fresh, well-formed archive
// back out.
package epubfix

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/librisbooks/libris/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// ArchiveExtension is the only archive kind the repairer accepts.
const ArchiveExtension = ".epub"

// mimetypeEntry must be the first, uncompressed entry of a valid EPUB.
const mimetypeEntry = "mimetype"

// Repairer repacks damaged archives. It is safe for concurrent use; all
// shared state lives in the injected Stats.
type Repairer struct {
	stats *Stats
	log   logger.Logger
}

// NewRepairer returns a Repairer recording attempts into stats.
func NewRepairer(stats *Stats) *Repairer {
	return &Repairer{
		stats: stats,
		log:   logger.New(),
	}
}

// Stats returns the repair stats shared by this repairer.
func (r *Repairer) Stats() *Stats {
	return r.stats
}

// Repackage unpacks the archive at path into a fresh temp directory and
// re-zips its contents into a fresh temp file, returning the new archive's
// path. The unpack directory is always removed before returning; the caller
// owns the returned file. Entries that would escape the unpack directory
// fail the repair.
func (r *Repairer) Repackage(path string) (string, error) {
	r.stats.recordAttempt(path)
	r.log.Info("repackaging archive", logger.Data{"path": path})

	newPath, err := r.repackage(path)
	if err != nil {
		r.stats.recordFailure()
		r.log.Err(err).Warn("archive repair failed")
		return "", err
	}
	return newPath, nil
}

func (r *Repairer) repackage(path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ArchiveExtension) {
		return "", errors.WithStack(errcodes.InvalidArchive("extension is not " + ArchiveExtension))
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !info.Mode().IsRegular() {
		return "", errors.WithStack(errcodes.InvalidArchive("not a regular file"))
	}

	unpackDir, err := os.MkdirTemp("", "libris-unpack-*")
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer os.RemoveAll(unpackDir)

	if err := unzipInto(path, unpackDir); err != nil {
		return "", err
	}

	out, err := os.CreateTemp("", "libris-repacked-*"+ArchiveExtension)
	if err != nil {
		return "", errors.WithStack(err)
	}
	newPath := out.Name()

	if err := rezipDir(out, unpackDir); err != nil {
		out.Close()
		os.Remove(newPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(newPath)
		return "", errors.WithStack(err)
	}
	return newPath, nil
}

// unzipInto streams every entry of the source archive into dir, rejecting
// entries whose resolved path escapes dir.
func unzipInto(path, dir string) error {
	// The stdlib flags non-local entry names up front; keep the reader and
	// let resolveEntryPath reject the offending entries with a typed error.
	zr, err := zip.OpenReader(path)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return errors.WithStack(err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		target, err := resolveEntryPath(dir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.WithStack(err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.WithStack(err)
		}
		if err := extractEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

// resolveEntryPath joins an archive entry name onto dir and guarantees the
// result stays inside dir. This is the zip-slip guard; it is mandatory.
func resolveEntryPath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return "", errors.WithStack(errcodes.UnsafeArchiveEntry(name))
	}
	return target, nil
}

func extractEntry(entry *zip.File, target string) error {
	rc, err := entry.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer rc.Close()

	f, err := os.Create(target)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// rezipDir writes the directory tree under dir into w as a zip archive,
// preserving relative paths and directory entries. The EPUB mimetype entry,
// when present, is written first and uncompressed as the format requires.
func rezipDir(w io.Writer, dir string) error {
	var files, dirs []string
	err := filepath.WalkDir(dir, func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if path == dir {
			return nil
		}
		if info.IsDir() {
			dirs = append(dirs, path)
		} else {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Strings(dirs)
	sort.Strings(files)

	zw := zip.NewWriter(w)

	// The mimetype entry has to be the very first local header, stored
	// uncompressed, for the result to sniff as an EPUB.
	for _, f := range files {
		if relName(dir, f) == mimetypeEntry {
			if err := writeZipEntry(zw, mimetypeEntry, f, zip.Store); err != nil {
				return err
			}
		}
	}
	for _, d := range dirs {
		if _, err := zw.Create(relName(dir, d) + "/"); err != nil {
			return errors.WithStack(err)
		}
	}
	for _, f := range files {
		name := relName(dir, f)
		if name == mimetypeEntry {
			continue
		}
		if err := writeZipEntry(zw, name, f, zip.Deflate); err != nil {
			return err
		}
	}

	return errors.WithStack(zw.Close())
}

func writeZipEntry(zw *zip.Writer, name, path string, method uint16) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return errors.WithStack(err)
	}
	src, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer src.Close()

	if _, err := io.Copy(entry, src); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func relName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
