package stock

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Record store contract errors. The store and the HTTP client both return
// these sentinels so the retry controller can branch without knowing which
// backend it is talking to.
var (
	// ErrNotFound means the target record does not exist (e.g. deleted by
	// another actor mid-edit). Never retried.
	ErrNotFound = errors.New("item not found")

	// ErrVersionConflict means the stored version token no longer matches the
	// one the write was tagged with. Recovered by refetch-and-retry up to the
	// attempt ceiling.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicateCatalogNumber means another record already uses the
	// catalog number.
	ErrDuplicateCatalogNumber = errors.New("catalog number already in use")

	// ErrConflictExhausted is returned once the retry ceiling is reached.
	// The caller must surface it as a retryable-by-hand failure.
	ErrConflictExhausted = errors.New("version conflict: retry attempts exhausted")
)

// FieldErrors maps field paths (e.g. "catalogNumber", "colorVariants[1].stock")
// to messages. Validation accumulates all failures instead of stopping at the
// first, so callers can render field-level messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// AsFieldErrors unwraps err into FieldErrors if it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
