package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors without
// inspecting driver-specific error values.
//
// - ErrNotFound: entity does not exist in the store
// - ErrConflict: unique constraint collided
// - ErrInvalidState: referential integrity rejected the write
// - ErrUnavailable: backing resource temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
