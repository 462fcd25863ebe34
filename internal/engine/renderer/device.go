package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/pkg/math"
)

const mat4Size = int(unsafe.Sizeof(math.Mat4{}))

// Device allocates per-instance matrix buffers on the GL context.
type Device struct {
	live int
}

// Compile-time interface check.
var _ terrain.Device = (*Device)(nil)

// instanceBuffer is a dynamic VBO of world matrices.
type instanceBuffer struct {
	device   *Device
	vbo      uint32
	capacity int
}

// CreateInstanceBuffer allocates room for capacity matrices.
func (d *Device) CreateInstanceBuffer(capacity int) (terrain.InstanceBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("instance buffer capacity %d", capacity)
	}

	b := &instanceBuffer{device: d, capacity: capacity}
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*mat4Size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &b.vbo)
		return nil, fmt.Errorf("allocate instance buffer: gl error 0x%x", code)
	}
	d.live++
	return b, nil
}

// Flush waits for the GPU to finish all submitted work.
func (d *Device) Flush() error {
	gl.Finish()
	return nil
}

// Live returns the number of unreleased instance buffers.
func (d *Device) Live() int {
	return d.live
}

func (b *instanceBuffer) Upload(transforms []math.Mat4) error {
	if len(transforms) > b.capacity {
		return fmt.Errorf("upload %d matrices into buffer of %d", len(transforms), b.capacity)
	}
	if len(transforms) == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(transforms)*mat4Size, unsafe.Pointer(&transforms[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (b *instanceBuffer) Release() {
	if b.vbo == 0 {
		return
	}
	gl.DeleteBuffers(1, &b.vbo)
	b.vbo = 0
	b.device.live--
}
