package algorithms

import (
	"fmt"

	"github.com/graphdb/graphdb/internal/ids"
)

// ErrorKind enumerates the algorithm-shaped error taxonomy (spec.md §6).
type ErrorKind int

const (
	KindPathNotFound ErrorKind = iota
	KindInvalidParameters
	KindStorageError
)

// Error is returned by every function in this package; storage errors
// encountered along the way are wrapped here, per spec.md §7's layering
// principle ("algorithms do the same with algorithm-shaped errors").
type Error struct {
	Kind    ErrorKind
	Message string
	Start   ids.Identifier
	End     ids.Identifier
	Cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindPathNotFound:
		return fmt.Sprintf("algorithms: no path from %s to %s", e.Start, e.End)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("algorithms: %s: %v", e.Message, e.Cause)
		}
		return "algorithms: " + e.Message
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func errPathNotFound(start, end ids.Identifier) error {
	return &Error{Kind: KindPathNotFound, Start: start, End: end}
}

func errInvalidParameters(format string, args ...any) error {
	return &Error{Kind: KindInvalidParameters, Message: fmt.Sprintf(format, args...)}
}

// wrapStorageErr lifts a storage-layer error into this package's error
// family, mirroring original_source/src/algorithms/mod.rs's
// AlgorithmError::StorageError(#[from] StorageError).
func wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStorageError, Message: "storage operation failed", Cause: err}
}
