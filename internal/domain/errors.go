package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Wager errors
	ErrMsgInvalidWager = "invalid wager"
	ErrMsgBetNotFound  = "no pending bet for round"

	// Round errors
	ErrMsgWrongPhase     = "operation not allowed in current phase"
	ErrMsgGameNotStarted = "game has not been started"
	ErrMsgInvalidColor   = "invalid color"
	ErrMsgEngineAttached = "engine already attached"

	// Persistence errors
	ErrMsgStoreUnavailable = "document store unavailable"
	ErrMsgDocumentNotFound = "document not found"

	// Rate limiting
	ErrMsgRateLimited       = "rate limited"
	ErrMsgSignInRateLimited = "too many sign-in attempts"
)

// Common domain errors. Wrap with fmt.Errorf("%w: ...", domain.ErrXxx) for
// additional context; callers match with errors.Is.
var (
	ErrInvalidWager = errors.New(ErrMsgInvalidWager)
	ErrBetNotFound  = errors.New(ErrMsgBetNotFound)

	ErrWrongPhase     = errors.New(ErrMsgWrongPhase)
	ErrGameNotStarted = errors.New(ErrMsgGameNotStarted)
	ErrInvalidColor   = errors.New(ErrMsgInvalidColor)
	ErrEngineAttached = errors.New(ErrMsgEngineAttached)

	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)
	ErrDocumentNotFound = errors.New(ErrMsgDocumentNotFound)

	ErrRateLimited       = errors.New(ErrMsgRateLimited)
	ErrSignInRateLimited = errors.New(ErrMsgSignInRateLimited)
)
