package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and queues return
// these (optionally wrapped) so the pipeline can decide whether a failure is
// fatal, degradable or simply "nothing there yet".
//
// - ErrNotFound: no dossier or cache entry exists for the key
// - ErrConflict: a concurrent writer won an optimistic transaction
// - ErrUnavailable: backing service temporarily unavailable
// - ErrInvalidState: requested audit state transition is not allowed
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
