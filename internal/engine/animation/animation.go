package animation

import (
	"fmt"
	"sort"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// Animation is a shared, read-only asset: a skeleton and its named clips.
// Any number of Instances may reference one Animation.
type Animation struct {
	skeleton *Skeleton
	clips    map[string]*Sequence
	names    []string
}

// NewAnimation validates every clip against the skeleton.
func NewAnimation(skel *Skeleton, clips map[string]*Sequence) (*Animation, error) {
	if skel == nil {
		return nil, fmt.Errorf("%w: nil skeleton", ErrInvalidAsset)
	}

	a := &Animation{
		skeleton: skel,
		clips:    make(map[string]*Sequence, len(clips)),
		names:    make([]string, 0, len(clips)),
	}
	for name, seq := range clips {
		if name == "" {
			return nil, fmt.Errorf("%w: clip with empty name", ErrInvalidAsset)
		}
		if seq == nil {
			return nil, fmt.Errorf("%w: clip %q is nil", ErrInvalidAsset, name)
		}
		if err := seq.validate(skel.Len()); err != nil {
			return nil, fmt.Errorf("clip %q: %w", name, err)
		}
		a.clips[name] = seq
		a.names = append(a.names, name)
	}
	sort.Strings(a.names)

	return a, nil
}

// Skeleton returns the bone hierarchy.
func (a *Animation) Skeleton() *Skeleton {
	return a.skeleton
}

// BoneCount returns the number of bones.
func (a *Animation) BoneCount() int {
	return a.skeleton.Len()
}

// Clip returns the named sequence.
func (a *Animation) Clip(name string) (*Sequence, bool) {
	seq, ok := a.clips[name]
	return seq, ok
}

// HasClip reports whether the named clip exists.
func (a *Animation) HasClip(name string) bool {
	_, ok := a.clips[name]
	return ok
}

// ClipNames returns clip names in sorted order.
func (a *Animation) ClipNames() []string {
	return append([]string(nil), a.names...)
}

// Sample fills globals with every bone's hierarchy-resolved transform at
// time t.
func (a *Animation) Sample(seq *Sequence, t float32, globals []math.Mat4) {
	frame, blend := seq.CalcFrame(t)
	for _, bone := range a.skeleton.order {
		globals[bone] = seq.InterpolateBoneToGlobal(globals, frame, blend, a.skeleton, bone)
	}
}

// CalcTransforms turns global bone transforms into skinning matrices:
// coord * globalInverse * global * offset.
func (a *Animation) CalcTransforms(globals, skinning []math.Mat4, coord math.Mat4) {
	root := coord.Mul(a.skeleton.GlobalInverse)
	for i := range a.skeleton.Bones {
		skinning[i] = root.Mul(globals[i]).Mul(a.skeleton.Bones[i].Offset)
	}
}
