// Package scanner discovers archive files under a folder, loads them in
// parallel, and reduces the results into a deduplicated catalog.
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/librisbooks/libris/pkg/catalog"
	"github.com/librisbooks/libris/pkg/epub"
	"github.com/librisbooks/libris/pkg/epubfix"
	"github.com/librisbooks/libris/pkg/identifiers"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// FileError pairs a file path with the error that made its load fatal.
type FileError struct {
	Path string
	Err  error
}

// Options configures a Scanner.
type Options struct {
	// Workers is the size of the load worker pool. Zero means NumCPU.
	Workers int
	// FailFast aborts the whole scan on the first file failure instead of
	// collecting failures and continuing. Meant for validation tooling.
	FailFast bool
}

// Scanner walks a folder tree and builds a catalog from every archive in it.
type Scanner struct {
	loader *Loader
	opts   Options
}

// New returns a Scanner running loads through the given Loader.
func New(loader *Loader, opts Options) *Scanner {
	return &Scanner{loader: loader, opts: opts}
}

// BuildCatalog loads every archive under root in parallel and reduces the
// per-file results into one catalog. Unless FailFast is set, individual file
// failures are collected and returned alongside the catalog.
func (s *Scanner) BuildCatalog(ctx context.Context, root string) (*catalog.Catalog, []FileError, error) {
	log := logger.FromContext(ctx)

	files, err := s.discover(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	log.Info("discovered archives", logger.Data{"root": root, "count": len(files)})

	results := s.loadAll(ctx, files)

	books, failures, err := s.reduce(ctx, files, results)
	if err != nil {
		return nil, nil, err
	}

	log.Info("scan finished", logger.Data{"books": len(books), "failures": len(failures)})
	return catalog.New(books), failures, nil
}

// discover enumerates the archive files under root, filtering by extension
// case-insensitively. Files whose bytes don't sniff as an EPUB are kept
// anyway so the repair fallback gets a chance at malformed containers; the
// mismatch is only logged.
func (s *Scanner) discover(ctx context.Context, root string) ([]string, error) {
	log := logger.FromContext(ctx)

	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if info.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), epubfix.ArchiveExtension) {
			return nil
		}

		if mtype, err := mimetype.DetectFile(path); err != nil {
			log.Warn("can't detect mime type", logger.Data{"path": path, "err": err.Error()})
		} else if !mtype.Is(epub.MimeType) {
			log.Warn("archive doesn't sniff as an epub; will rely on repair", logger.Data{"path": path, "mimetype": mtype.String()})
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

type loadResult struct {
	book catalog.Book
	err  error
}

// loadAll runs the per-file load phase across a fixed worker pool. Each
// worker writes only its own result slots, so the map phase shares no
// mutable state.
func (s *Scanner) loadAll(ctx context.Context, files []string) []loadResult {
	results := make([]loadResult, len(files))

	numWorkers := s.opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	if numWorkers == 0 {
		return results
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					results[i] = loadResult{err: errors.WithStack(ctx.Err())}
					continue
				default:
				}
				book, err := s.loader.Load(ctx, files[i], true)
				results[i] = loadResult{book: book, err: err}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// reduce folds the per-file results into one book map. The fold owns the
// accumulator exclusively, so the only point of contention of the whole scan
// is gone by the time it runs. A book whose id is already taken gets a fresh
// random id before insertion.
func (s *Scanner) reduce(ctx context.Context, files []string, results []loadResult) (map[identifiers.ID]catalog.Book, []FileError, error) {
	log := logger.FromContext(ctx)

	books := make(map[identifiers.ID]catalog.Book, len(results))
	failures := make([]FileError, 0)

	for i, result := range results {
		if result.err != nil {
			if s.opts.FailFast {
				return nil, nil, errors.Wrapf(result.err, "loading %s", files[i])
			}
			log.Err(result.err).Warn("file failed to load", logger.Data{"path": files[i]})
			failures = append(failures, FileError{Path: files[i], Err: result.err})
			continue
		}

		book := result.book
		if _, exists := books[book.ID]; exists {
			remapped := identifiers.NewRandom()
			log.Warn("duplicate book id; remapping", logger.Data{
				"path":   files[i],
				"id":     book.ID.String(),
				"new_id": remapped.String(),
			})
			book = book.WithID(remapped)
		}
		books[book.ID] = book
	}

	return books, failures, nil
}
