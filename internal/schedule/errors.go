package schedule

import "errors"

// Engine error taxonomy. Callers dispatch with errors.Is; the API layer
// maps each class to an HTTP status.
var (
	// ErrNotFound reports an absent room, category or reservation.
	ErrNotFound = errors.New("not found")
	// ErrForbidden reports an action by a non-member or non-owner.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput reports malformed hours, past dates or a missing
	// topology field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState reports an approval action that does not apply to the
	// slot's current state (already approved, self-approval, non-visitor).
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyApproved reports a repeated approval by the same member.
	ErrAlreadyApproved = errors.New("already approved")
	// ErrConflict reports an overlapping approved slot, at creation or at
	// the final-approval re-check.
	ErrConflict = errors.New("time slot conflict")
)
