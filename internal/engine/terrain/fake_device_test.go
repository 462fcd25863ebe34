package terrain

import (
	"fmt"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// fakeDevice records allocations, flushes and releases in call order.
type fakeDevice struct {
	events  []string
	created int
	live    int
}

type fakeBuffer struct {
	dev      *fakeDevice
	id       int
	capacity int
	uploaded int
}

func (d *fakeDevice) CreateInstanceBuffer(capacity int) (InstanceBuffer, error) {
	d.created++
	d.live++
	d.events = append(d.events, fmt.Sprintf("create %d", capacity))
	return &fakeBuffer{dev: d, id: d.created, capacity: capacity}, nil
}

func (d *fakeDevice) Flush() error {
	d.events = append(d.events, "flush")
	return nil
}

func (b *fakeBuffer) Upload(transforms []math.Mat4) error {
	if len(transforms) > b.capacity {
		return fmt.Errorf("upload %d into capacity %d", len(transforms), b.capacity)
	}
	b.uploaded = len(transforms)
	return nil
}

func (b *fakeBuffer) Release() {
	b.dev.live--
	b.dev.events = append(b.dev.events, fmt.Sprintf("release %d", b.id))
}

func mats(n int) []math.Mat4 {
	out := make([]math.Mat4, n)
	for i := range out {
		out[i] = math.Translate(float32(i), 0, 0)
	}
	return out
}
