package terrain

import "errors"

var (
	// ErrInvalidLayout is returned for grass layouts that cannot place instances.
	ErrInvalidLayout = errors.New("invalid grass layout")
	// ErrInvalidConfig is returned for manager settings that break tiling.
	ErrInvalidConfig = errors.New("invalid terrain config")
)
