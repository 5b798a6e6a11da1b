package insertion

import "errors"

var (
	// ErrInvalidIdentity is returned when an insertion point is built from an empty identity
	ErrInvalidIdentity = errors.New("invalid insertion point identity")

	// ErrUnknownScope is returned for protoc scopes that do not exist
	ErrUnknownScope = errors.New("unknown protoc insertion scope")
)
