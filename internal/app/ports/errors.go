package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrCollaboratorUnavailable marks a failed call into the state store,
	// mutation service or intel source. The agent is recorded as failed.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrCapacityExceeded is a cooldown or population cap that is not yet satisfied.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrNoViableAction   = errors.New("no viable action")
)
