package terrain

import "github.com/Faultbox/meadow-run/pkg/math"

// InstanceBuffer is a GPU array of per-instance world matrices.
type InstanceBuffer interface {
	// Upload replaces the buffer's leading contents. len(transforms) never
	// exceeds the capacity the buffer was created with.
	Upload(transforms []math.Mat4) error
	// Release frees the GPU allocation. The buffer must not be in use by
	// an outstanding draw.
	Release()
}

// Device allocates instance buffers and synchronizes the GPU pipeline.
// A nil Device runs terrain CPU-side only.
type Device interface {
	CreateInstanceBuffer(capacity int) (InstanceBuffer, error)
	// Flush blocks until every submitted draw has completed.
	Flush() error
}
