package service

import "errors"

// Sentinel errors returned by the settlement core. Callers match them
// with errors.Is; services wrap them with fmt.Errorf and %w to add
// context without losing the kind.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrInvalidFee         = errors.New("invalid fee")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrAlreadyCommitted   = errors.New("already committed")
	ErrNotCommitted       = errors.New("not committed")
	ErrCommitMismatch     = errors.New("commit mismatch")
	ErrNotFound           = errors.New("not found")
	ErrAlreadySettled     = errors.New("already settled")

	// ErrInvariantViolation indicates an internal consistency bug, not a
	// user-correctable condition. The enclosing transaction always rolls
	// back when it surfaces.
	ErrInvariantViolation = errors.New("invariant violation")
)
