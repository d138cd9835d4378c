package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: row does not exist in the store
// - ErrConflict: a uniqueness constraint rejected the write (the store is the
//   arbiter of exactly-once semantics; callers must not pre-check and race)
// - ErrInsufficientBalance: a conditional debit matched no row
// - ErrUnavailable: backing service temporarily unreachable
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnavailable         = errors.New("unavailable")
)
