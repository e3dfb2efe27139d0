package errors

import (
	"fmt"
	"net/http"
)

// OpenFileFailed and friends classify transient I/O errors that should be
// skipped silently rather than propagated: the caller logs with these
// constructors and moves on without mutating a snapshot.

func OpenFileFailed(path string, cause error) *AppError {
	return New(ErrTypeIO, fmt.Sprintf("failed to open file: %s", path), cause, http.StatusInternalServerError).WithStack()
}

func StatFileFailed(path string, cause error) *AppError {
	return New(ErrTypeIO, fmt.Sprintf("failed to stat file: %s", path), cause, http.StatusInternalServerError).WithStack()
}

func ReadFileFailed(path string, cause error) *AppError {
	return New(ErrTypeIO, fmt.Sprintf("failed to read file: %s", path), cause, http.StatusInternalServerError).WithStack()
}

func DecodeFailed(path string, cause error) *AppError {
	return New(ErrTypeDecode, fmt.Sprintf("non-utf8 content: %s", path), cause, http.StatusUnprocessableEntity).WithStack()
}

func Oversize(path string, size int64) *AppError {
	return New(ErrTypeOversize, fmt.Sprintf("file exceeds tracked size limit: %s (%d bytes)", path, size), nil, http.StatusRequestEntityTooLarge)
}

func AppendFailed(path string, cause error) *AppError {
	return New(ErrTypeAppend, fmt.Sprintf("log append failed: %s", path), cause, http.StatusInternalServerError).WithStack()
}

func QueueOverflow(dropped uint64) *AppError {
	return New(ErrTypeQueueOverflow, fmt.Sprintf("event queue overflow, %d events dropped", dropped), nil, http.StatusServiceUnavailable)
}
