package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, feeds and providers return
// these (optionally wrapped) so services can translate them into application
// errors with the right code.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: row does not exist in the remote store
// - ErrUnavailable: collaborator unreachable or timed out
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
