package errors

import "errors"

var (
	ErrEmptyPayload = errors.New("import payload is empty")
	ErrActorMissing = errors.New("import actor identity is required")
)
