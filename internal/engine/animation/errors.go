package animation

import "errors"

var (
	// ErrBoneNotFound is returned when a bone name is not in the skeleton.
	ErrBoneNotFound = errors.New("bone not found")
	// ErrClipNotFound is returned when a clip name is not in the animation.
	ErrClipNotFound = errors.New("animation clip not found")
	// ErrInvalidAsset is returned when skeleton or clip data is inconsistent.
	ErrInvalidAsset = errors.New("invalid animation asset")
)
