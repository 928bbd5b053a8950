// Package errcodes defines the typed errors shared across the ingestion
// pipeline, comparable with errors.Is.
package errcodes

import "fmt"

type Error struct {
	Message string
	Code    string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Message == err.Message && te.Code == err.Code
}

// NotFound indicates the given resource doesn't exist.
func NotFound(resource string) error {
	return &Error{
		resource + " not found.",
		"not_found",
	}
}

// InvalidArchive indicates a path that is not a readable archive of the
// expected kind.
func InvalidArchive(reason string) error {
	return &Error{
		fmt.Sprintf("Invalid archive: %s.", reason),
		"invalid_archive",
	}
}

// UnsafeArchiveEntry indicates an archive entry whose resolved path would
// escape the extraction directory.
func UnsafeArchiveEntry(name string) error {
	return &Error{
		fmt.Sprintf("Archive entry %q escapes the extraction directory.", name),
		"unsafe_archive_entry",
	}
}

// MissingMetadata indicates an archive whose required metadata could not be
// read.
func MissingMetadata(detail string) error {
	return &Error{
		fmt.Sprintf("Missing metadata: %s.", detail),
		"missing_metadata",
	}
}
