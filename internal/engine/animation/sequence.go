package animation

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// Frame holds one sampled pose, indexed like Skeleton.Bones.
type Frame struct {
	Positions []math.Vec3
	Rotations []math.Quat // unit quaternions
	Scales    []math.Vec3
}

// Sequence is a clip: evenly spaced frames played at TicksPerSecond.
type Sequence struct {
	Frames         []Frame
	TicksPerSecond float32
}

// validate checks the clip against the skeleton's bone count.
func (s *Sequence) validate(boneCount int) error {
	if len(s.Frames) == 0 {
		return fmt.Errorf("%w: clip has no frames", ErrInvalidAsset)
	}
	if s.TicksPerSecond <= 0 {
		return fmt.Errorf("%w: ticks per second must be positive, got %v", ErrInvalidAsset, s.TicksPerSecond)
	}
	for i, f := range s.Frames {
		if len(f.Positions) != boneCount || len(f.Rotations) != boneCount || len(f.Scales) != boneCount {
			return fmt.Errorf("%w: frame %d has %d/%d/%d channels, skeleton has %d bones",
				ErrInvalidAsset, i, len(f.Positions), len(f.Rotations), len(f.Scales), boneCount)
		}
	}
	return nil
}

// Duration returns the clip length in seconds.
func (s *Sequence) Duration() float32 {
	return float32(len(s.Frames)) / s.TicksPerSecond
}

// LastFrame returns the index of the final frame.
func (s *Sequence) LastFrame() int {
	return len(s.Frames) - 1
}

// CalcFrame maps elapsed seconds to a base frame and the blend factor
// toward the following frame. The base frame is clamped to the last frame.
func (s *Sequence) CalcFrame(t float32) (int, float32) {
	coord := t * s.TicksPerSecond
	floor := float32(gomath.Floor(float64(coord)))
	frame := int(floor)
	blend := coord - floor
	if frame < 0 {
		return 0, 0
	}
	if frame > s.LastFrame() {
		frame = s.LastFrame()
	}
	return frame, blend
}

// NextFrame returns the frame after i. Playback holds on the last frame.
func (s *Sequence) NextFrame(i int) int {
	return min(i+1, s.LastFrame())
}

// Running reports whether t still falls inside one of the clip's frames.
func (s *Sequence) Running(t float32) bool {
	return int(gomath.Floor(float64(t*s.TicksPerSecond))) < len(s.Frames)
}

// InterpolateBoneToGlobal samples one bone between baseFrame and the next
// frame and resolves it against its parent's entry in globals. The parent
// must already be filled in for this frame.
func (s *Sequence) InterpolateBoneToGlobal(globals []math.Mat4, baseFrame int, blend float32, skel *Skeleton, bone int) math.Mat4 {
	a := &s.Frames[baseFrame]
	b := &s.Frames[s.NextFrame(baseFrame)]

	local := math.TRS(
		a.Positions[bone].Lerp(b.Positions[bone], blend),
		a.Rotations[bone].Slerp(b.Rotations[bone], blend),
		a.Scales[bone].Lerp(b.Scales[bone], blend),
	)

	if parent := skel.Bones[bone].Parent; parent != NoBone {
		return globals[parent].Mul(local)
	}
	return local
}
