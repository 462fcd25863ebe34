package terrain

import (
	"fmt"
	"math/rand/v2"

	"github.com/Faultbox/meadow-run/pkg/math"
)

const (
	// MinGrassCapacity is the smallest instance buffer ever allocated.
	MinGrassCapacity = 64
	// GrassGrowthFactor is the headroom applied when a buffer must grow.
	GrassGrowthFactor = 1.5
)

// GrassBand is a grid of grass cells across the road. Cell x lands at
// x*Spacing+Offset from the tile origin.
type GrassBand struct {
	From    int     `yaml:"from"`
	To      int     `yaml:"to"`
	Spacing float32 `yaml:"spacing"`
	Offset  float32 `yaml:"offset"`
}

// GrassLayout is the procedural placement rule for a tile's grass.
type GrassLayout struct {
	Bands []GrassBand `yaml:"bands"`
	// Rows along the tile; row z lands at z*RowSpacing.
	RowFrom    int     `yaml:"row_from"`
	RowTo      int     `yaml:"row_to"`
	RowSpacing float32 `yaml:"row_spacing"`
	// Jitter is the maximum random shift applied on both ground axes.
	Jitter float32 `yaml:"jitter"`
	Scale  float32 `yaml:"scale"`
	Types  int     `yaml:"types"`
}

// DefaultGrassLayout returns wide meadow to the right of the road, a
// narrow strip to the left and five grass types.
func DefaultGrassLayout() GrassLayout {
	return GrassLayout{
		Bands: []GrassBand{
			{From: -30, To: 0, Spacing: 5, Offset: -17},
			{From: 0, To: 5, Spacing: 5, Offset: 17},
		},
		RowFrom:    -6,
		RowTo:      6,
		RowSpacing: 10,
		Jitter:     4,
		Scale:      5,
		Types:      5,
	}
}

// Validate checks that the layout can be generated.
func (l GrassLayout) Validate() error {
	if l.Types <= 0 {
		return fmt.Errorf("%w: need at least one grass type", ErrInvalidLayout)
	}
	if l.RowTo < l.RowFrom {
		return fmt.Errorf("%w: rows %d..%d are empty", ErrInvalidLayout, l.RowFrom, l.RowTo)
	}
	for i, b := range l.Bands {
		if b.To < b.From {
			return fmt.Errorf("%w: band %d cells %d..%d are empty", ErrInvalidLayout, i, b.From, b.To)
		}
	}
	if l.Jitter < 0 {
		return fmt.Errorf("%w: negative jitter", ErrInvalidLayout)
	}
	return nil
}

// InstanceCount returns the total number of grass instances per tile.
func (l GrassLayout) InstanceCount() int {
	rows := l.RowTo - l.RowFrom + 1
	n := 0
	for _, b := range l.Bands {
		n += (b.To - b.From + 1) * rows
	}
	return n
}

// Generate appends world matrices for every grass cell around origin to
// out, bucketed by a randomly drawn grass type. out must have l.Types
// entries; they are truncated first and reused.
func (l GrassLayout) Generate(rng *rand.Rand, origin math.Vec3, out [][]math.Mat4) [][]math.Mat4 {
	for i := range out {
		out[i] = out[i][:0]
	}
	scale := math.Scale(l.Scale, l.Scale, l.Scale)

	for _, band := range l.Bands {
		for x := band.From; x <= band.To; x++ {
			for z := l.RowFrom; z <= l.RowTo; z++ {
				jx := l.jitter(rng)
				jz := l.jitter(rng)
				kind := rng.IntN(l.Types)

				pos := origin.Add(math.Vec3{
					X: float32(x)*band.Spacing + band.Offset + jx,
					Z: float32(z)*l.RowSpacing + jz,
				})
				out[kind] = append(out[kind], math.TranslateVec(pos).Mul(scale))
			}
		}
	}
	return out
}

func (l GrassLayout) jitter(rng *rand.Rand) float32 {
	return (rng.Float32()*2 - 1) * l.Jitter
}

// GrassBuffer tracks one grass type's instances for a tile. Capacity is
// kept apart from the instance count so regenerating a tile with a
// similar amount of grass reuses the GPU allocation.
type GrassBuffer struct {
	device     Device
	buf        InstanceBuffer
	transforms []math.Mat4
	capacity   int
	allocs     int
}

// NewGrassBuffer creates an empty buffer. device may be nil.
func NewGrassBuffer(device Device) *GrassBuffer {
	return &GrassBuffer{device: device}
}

// Set replaces the instances. The buffer grows to 1.5x the new count
// (at least MinGrassCapacity) only when the count exceeds capacity; the
// GPU is flushed before the old allocation is released.
func (b *GrassBuffer) Set(transforms []math.Mat4) error {
	b.transforms = append(b.transforms[:0], transforms...)
	count := len(transforms)
	if count == 0 {
		return nil
	}

	if b.capacity == 0 || count > b.capacity {
		if err := b.grow(count); err != nil {
			return err
		}
	}

	if b.buf != nil {
		if err := b.buf.Upload(b.transforms); err != nil {
			return fmt.Errorf("upload grass instances: %w", err)
		}
	}
	return nil
}

func (b *GrassBuffer) grow(count int) error {
	capacity := max(int(float32(count)*GrassGrowthFactor), MinGrassCapacity)

	if b.device != nil {
		if b.buf != nil {
			if err := b.device.Flush(); err != nil {
				return fmt.Errorf("flush before grass buffer release: %w", err)
			}
			b.buf.Release()
			b.buf = nil
		}
		buf, err := b.device.CreateInstanceBuffer(capacity)
		if err != nil {
			return fmt.Errorf("create grass buffer: %w", err)
		}
		b.buf = buf
	}

	b.capacity = capacity
	b.allocs++
	return nil
}

// Count returns the number of live instances.
func (b *GrassBuffer) Count() int {
	return len(b.transforms)
}

// Capacity returns the allocated instance slots.
func (b *GrassBuffer) Capacity() int {
	return b.capacity
}

// Allocations returns how many times the buffer has been (re)allocated.
func (b *GrassBuffer) Allocations() int {
	return b.allocs
}

// Transforms returns the CPU copy of the instance matrices.
func (b *GrassBuffer) Transforms() []math.Mat4 {
	return b.transforms
}

// Buffer returns the GPU buffer, or nil when headless or empty.
func (b *GrassBuffer) Buffer() InstanceBuffer {
	return b.buf
}

// Release frees the GPU buffer. Callers flush first if a draw may still
// reference it.
func (b *GrassBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
	b.transforms = b.transforms[:0]
	b.capacity = 0
}
