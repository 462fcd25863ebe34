package animation

import (
	"fmt"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// Palette is the fixed-size skinning matrix block uploaded per draw.
type Palette [MaxBones]math.Mat4

// Instance is the per-object playback state of an Animation: the clip
// being played, its elapsed time and the latest skinning matrices.
type Instance struct {
	anim  *Animation
	coord math.Mat4

	clip    string
	seq     *Sequence
	elapsed float32
	// holding is set once the final frame has been sampled past the end
	// of the clip; further updates keep the pose.
	holding bool

	globals  []math.Mat4 // scratch, hierarchy-resolved bone transforms
	skinning []math.Mat4
}

// NewInstance creates an instance with no clip and identity matrices.
// coord is applied last to every skinning matrix, e.g. math.AxisSwapZUp().
func NewInstance(anim *Animation, coord math.Mat4) *Instance {
	n := anim.BoneCount()
	inst := &Instance{
		anim:     anim,
		coord:    coord,
		globals:  make([]math.Mat4, n),
		skinning: make([]math.Mat4, n),
	}
	for i := range inst.skinning {
		inst.globals[i] = math.Identity()
		inst.skinning[i] = math.Identity()
	}
	return inst
}

// Animation returns the shared asset.
func (i *Instance) Animation() *Animation {
	return i.anim
}

// Clip returns the name of the clip being played, or "".
func (i *Instance) Clip() string {
	return i.clip
}

// Elapsed returns seconds since the clip started.
func (i *Instance) Elapsed() float32 {
	return i.elapsed
}

// Update advances playback. Requesting a different clip switches to it
// from time zero; requesting the current clip advances by dt.
func (i *Instance) Update(clip string, dt float32) error {
	if clip != i.clip || i.seq == nil {
		seq, ok := i.anim.Clip(clip)
		if !ok {
			return fmt.Errorf("%w: %q", ErrClipNotFound, clip)
		}
		i.clip = clip
		i.seq = seq
		i.elapsed = 0
		i.holding = false
	} else {
		i.elapsed += dt
	}

	if !i.seq.Running(i.elapsed) {
		if i.holding {
			return nil
		}
		i.holding = true
	} else {
		i.holding = false
	}

	i.anim.Sample(i.seq, i.elapsed, i.globals)
	i.anim.CalcTransforms(i.globals, i.skinning, i.coord)
	return nil
}

// ResetTime rewinds to the start of the current clip.
func (i *Instance) ResetTime() {
	i.elapsed = 0
	i.holding = false
}

// AnimationFinished reports whether elapsed time is past the clip's end.
func (i *Instance) AnimationFinished() bool {
	if i.seq == nil {
		return false
	}
	return i.elapsed > i.seq.Duration()
}

// Matrices returns the skinning matrices, one per bone. The slice is
// owned by the instance and overwritten by the next Update.
func (i *Instance) Matrices() []math.Mat4 {
	return i.skinning
}

// FillPalette copies the skinning matrices into p and returns the number
// of bones written.
func (i *Instance) FillPalette(p *Palette) int {
	return copy(p[:], i.skinning)
}

// FindWorldMatrix samples only the named bone and its ancestors at the
// current time and returns its transform with the coordinate correction
// applied. Used to attach props to bones.
func (i *Instance) FindWorldMatrix(bone string) (math.Mat4, error) {
	skel := i.anim.Skeleton()
	id := skel.FindBone(bone)
	if id == NoBone {
		return math.Identity(), fmt.Errorf("%w: %q", ErrBoneNotFound, bone)
	}
	if i.seq == nil {
		return math.Identity(), fmt.Errorf("%w: no clip playing", ErrClipNotFound)
	}

	frame, blend := i.seq.CalcFrame(i.elapsed)
	for _, b := range skel.Chain(id) {
		i.globals[b] = i.seq.InterpolateBoneToGlobal(i.globals, frame, blend, skel, b)
	}
	return i.coord.Mul(i.globals[id]), nil
}

// CopyFrom makes i an independent copy of src. Both must share an Animation.
func (i *Instance) CopyFrom(src *Instance) {
	i.anim = src.anim
	i.coord = src.coord
	i.clip = src.clip
	i.seq = src.seq
	i.elapsed = src.elapsed
	i.holding = src.holding
	i.globals = append(i.globals[:0], src.globals...)
	i.skinning = append(i.skinning[:0], src.skinning...)
}

// blend sets i to a's state with skinning matrices lerped toward b by w.
func (i *Instance) blend(a, b *Instance, w float32) {
	i.CopyFrom(a)
	for k := range i.skinning {
		i.skinning[k] = a.skinning[k].Lerp(b.skinning[k], w)
	}
}
