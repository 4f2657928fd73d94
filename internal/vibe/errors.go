package vibe

import "errors"

// Domain error taxonomy. All of these are local, non-fatal conditions that
// leave state untouched; callers match them with errors.Is.
var (
	// ErrValidation covers malformed input: bad email, empty required
	// field, password too short.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateIdentity is returned when registering an email or
	// username that already exists.
	ErrDuplicateIdentity = errors.New("account already exists")

	// ErrNotFound is returned when an account, video or comment cannot be
	// resolved.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredential is returned on password or challenge-code
	// mismatch.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrChallengeRequired signals that authentication needs a one-time
	// code before the session is established. It is a control-flow branch,
	// not a failure.
	ErrChallengeRequired = errors.New("challenge required")

	// ErrBanned is returned when a banned account passes the credential
	// check; it is distinct from ErrInvalidCredential so the caller can
	// surface the ban reason.
	ErrBanned = errors.New("account banned")

	// ErrProtectedAccount guards the master administrator identity against
	// bans and privilege loss.
	ErrProtectedAccount = errors.New("account is protected")

	// ErrForbidden is returned when the active account lacks authorization
	// for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrSelfFollow is returned when an account tries to follow itself.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrParentNotFound is returned when a reply references a missing or
	// non-top-level parent comment.
	ErrParentNotFound = errors.New("parent comment not found")

	// ErrNotInRoster is returned when switching to an account that is not
	// locally known.
	ErrNotInRoster = errors.New("account not in roster")

	// ErrPersistence reports that a mutation applied in memory but the
	// durable copy is stale; a restart may roll back unsaved progress.
	ErrPersistence = errors.New("snapshot not persisted")
)
