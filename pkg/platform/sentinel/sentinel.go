package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about stored records, not validation failures:
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: a versioned write lost to a concurrent writer, or a
//     uniqueness constraint fired
//   - ErrInvalidState: record is in the wrong state for the requested write
//   - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors (bad input, violated invariants), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
