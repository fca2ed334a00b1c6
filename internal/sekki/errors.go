package sekki

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the stage at which a sort failed.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindParse
	KindSchema
	KindWrite
)

var (
	ErrNotFound = errors.New("file not found or unreadable")
	ErrParse    = errors.New("invalid JSON")
	ErrSchema   = errors.New("unexpected document shape")
	ErrWrite    = errors.New("write failed")
)

// Stage names the step of read → parse → validate → write that failed.
func (k ErrorKind) Stage() string {
	switch k {
	case KindNotFound:
		return "read"
	case KindParse:
		return "parse"
	case KindSchema:
		return "validate"
	case KindWrite:
		return "write"
	}
	return "unknown"
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindParse:
		return ErrParse
	case KindSchema:
		return ErrSchema
	case KindWrite:
		return ErrWrite
	}
	return nil
}

// Error is returned by every failing sort. It matches the sentinel for its
// kind with errors.Is and unwraps to the underlying cause.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Kind.Stage(), e.Path, e.Kind.sentinel(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func schemaErrorf(path, format string, args ...any) *Error {
	return newError(KindSchema, path, fmt.Errorf(format, args...))
}
