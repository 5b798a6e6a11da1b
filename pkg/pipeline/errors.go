package pipeline

import "errors"

var (
	// ErrNoPlugins is returned when a pipeline is created without a plugin builder
	ErrNoPlugins = errors.New("pipeline requires a plugin builder")
	// ErrNilFileSet is returned when a nil file set is passed to Run
	ErrNilFileSet = errors.New("file set is nil")
)
