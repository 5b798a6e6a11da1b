package projection

import "errors"

var (
	// ErrInvalidKey is returned when a routing rule extracts an empty key
	ErrInvalidKey = errors.New("routing rule produced an empty key")

	// ErrInvalidRule is returned when a routing rule is incomplete
	ErrInvalidRule = errors.New("invalid routing rule")

	// ErrViewSealed is returned when a sealed view receives an event or a rule
	ErrViewSealed = errors.New("view is sealed")

	// ErrStoreSealed is returned when a view is registered in a sealed store
	ErrStoreSealed = errors.New("store is sealed")

	// ErrDuplicateView is returned when a view name is registered twice
	ErrDuplicateView = errors.New("view already registered")

	// ErrViewNotFound is returned when no view has the requested name
	ErrViewNotFound = errors.New("view not found")

	// ErrViewType is returned when a view exists but has different key or record types
	ErrViewType = errors.New("view has a different type")
)
