package annotation

import "errors"

var (
	// ErrEmptyAnnotation is returned when a directive names no annotation
	ErrEmptyAnnotation = errors.New("empty annotation")
)
