package session

import "errors"

var (
	// ErrCorrelationExpired indicates the anchor has no open correlation:
	// it was never opened, already consumed, or lost to a restart.
	ErrCorrelationExpired = errors.New("correlation expired")
	// ErrTokenMalformed indicates a selection token that does not decode.
	ErrTokenMalformed = errors.New("selection token malformed")
	// ErrTokenTooLong indicates the encoded token would exceed the platform
	// bound; the menu entry must be dropped, never truncated.
	ErrTokenTooLong = errors.New("selection token too long")
)
