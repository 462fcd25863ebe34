package animation

import (
	"testing"

	"github.com/Faultbox/meadow-run/pkg/math"
)

const eps = 1e-4

// slideClip moves a single bone along X, one unit per frame.
func slideClip(frames int, tps float32) *Sequence {
	seq := &Sequence{TicksPerSecond: tps}
	for i := 0; i < frames; i++ {
		seq.Frames = append(seq.Frames, Frame{
			Positions: []math.Vec3{{X: float32(i)}},
			Rotations: []math.Quat{math.QuatIdentity()},
			Scales:    []math.Vec3{{X: 1, Y: 1, Z: 1}},
		})
	}
	return seq
}

// liftClip moves a single bone along Y, one unit per frame.
func liftClip(frames int, tps float32) *Sequence {
	seq := slideClip(frames, tps)
	for i := range seq.Frames {
		seq.Frames[i].Positions[0] = math.Vec3{Y: float32(i)}
	}
	return seq
}

// oneBoneAsset has a single root bone and three clips:
// "slide" (2 frames at 1 tps), "lift" (4 frames at 2 tps), "short" (2 frames at 4 tps).
func oneBoneAsset(t *testing.T) *Animation {
	t.Helper()
	skel, err := NewSkeleton([]Bone{{Name: "root", Offset: math.Identity(), Parent: NoBone}}, math.Identity())
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	anim, err := NewAnimation(skel, map[string]*Sequence{
		"slide": slideClip(2, 1),
		"lift":  liftClip(4, 2),
		"short": slideClip(2, 4),
	})
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}
	return anim
}

func matricesEqual(a, b []math.Mat4) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].ApproxEqual(b[i], eps) {
			return false
		}
	}
	return true
}

func near(a, b float32) bool {
	d := a - b
	return d < eps && d > -eps
}
