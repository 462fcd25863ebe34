package animation

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// DemoTicksPerSecond is the sample rate of the procedural clips.
const DemoTicksPerSecond = 30

type demoBone struct {
	name   string
	parent int
	rest   math.Vec3 // local bind translation
}

var demoBones = []demoBone{
	{"hips", NoBone, math.Vec3{Y: 1}},
	{"spine", 0, math.Vec3{Y: 0.3}},
	{"head", 1, math.Vec3{Y: 0.4}},
	{"arm_l", 1, math.Vec3{X: 0.25, Y: 0.3}},
	{"arm_r", 1, math.Vec3{X: -0.25, Y: 0.3}},
	{"leg_l", 0, math.Vec3{X: 0.12, Y: -0.1}},
	{"leg_r", 0, math.Vec3{X: -0.12, Y: -0.1}},
}

// demoClip parameterises one procedural clip. Angles are radians.
type demoClip struct {
	frames int
	swing  float32 // limb swing amplitude
	bend   float32 // spine pitch reached on the last frame
	nod    float32 // head nod amplitude
	drop   float32 // hips height lost by the last frame
	reach  float32 // arm pitch reached on the last frame
}

var demoClips = map[string]demoClip{
	"run forward":  {frames: 20, swing: 0.9, bend: 0.15, nod: 0.05},
	"run":          {frames: 20, swing: 0.9, bend: 0.1, nod: 0.05},
	"walk":         {frames: 32, swing: 0.45, nod: 0.03},
	"hit reaction": {frames: 15, bend: -0.5, nod: 0.3},
	"death":        {frames: 30, bend: 1.2, drop: 0.8},
	"eating":       {frames: 40, bend: 0.9, nod: 0.25, drop: 0.3},
	"grab low":     {frames: 24, bend: 0.8, drop: 0.35, reach: 1.4},
}

var defaultDemoClip = demoClip{frames: 24, swing: 0.3}

// DemoClipNames returns the clip names DemoRig knows how to generate.
func DemoClipNames() []string {
	names := make([]string, 0, len(demoClips))
	for name := range demoClips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DemoRig builds a small procedural biped with the named clips, or every
// known clip when none are named. Unknown names get a gentle idle swing.
// It stands in for imported character assets in headless runs and tools.
func DemoRig(clips ...string) (*Animation, error) {
	if len(clips) == 0 {
		clips = DemoClipNames()
	}

	bones := make([]Bone, len(demoBones))
	bind := make([]math.Vec3, len(demoBones))
	for i, db := range demoBones {
		bind[i] = db.rest
		if db.parent != NoBone {
			bind[i] = bind[db.parent].Add(db.rest)
		}
		bones[i] = Bone{
			Name:   db.name,
			Parent: db.parent,
			Offset: math.TranslateVec(bind[i].Scale(-1)),
		}
	}

	skel, err := NewSkeleton(bones, math.Identity())
	if err != nil {
		return nil, err
	}

	seqs := make(map[string]*Sequence, len(clips))
	for _, name := range clips {
		params, ok := demoClips[name]
		if !ok {
			params = defaultDemoClip
		}
		seqs[name] = params.sequence()
	}

	return NewAnimation(skel, seqs)
}

func (c demoClip) sequence() *Sequence {
	seq := &Sequence{
		TicksPerSecond: DemoTicksPerSecond,
		Frames:         make([]Frame, c.frames),
	}
	xAxis := math.Vec3{X: 1}

	for k := range seq.Frames {
		phase := float64(k) / float64(c.frames)
		ramp := float32(1)
		if c.frames > 1 {
			ramp = float32(k) / float32(c.frames-1)
		}
		swing := c.swing * float32(gomath.Sin(2*gomath.Pi*phase))
		nod := c.nod * float32(gomath.Sin(4*gomath.Pi*phase))

		f := Frame{
			Positions: make([]math.Vec3, len(demoBones)),
			Rotations: make([]math.Quat, len(demoBones)),
			Scales:    make([]math.Vec3, len(demoBones)),
		}
		for i, db := range demoBones {
			f.Positions[i] = db.rest
			f.Rotations[i] = math.QuatIdentity()
			f.Scales[i] = math.Vec3{X: 1, Y: 1, Z: 1}
		}

		f.Positions[0].Y -= c.drop * ramp
		f.Positions[0].Y += 0.05 * float32(gomath.Abs(float64(swing)))
		f.Rotations[1] = math.QuatFromAxisAngle(xAxis, c.bend*ramp)
		f.Rotations[2] = math.QuatFromAxisAngle(xAxis, nod)
		f.Rotations[3] = math.QuatFromAxisAngle(xAxis, -swing-c.reach*ramp)
		f.Rotations[4] = math.QuatFromAxisAngle(xAxis, swing-c.reach*ramp)
		f.Rotations[5] = math.QuatFromAxisAngle(xAxis, swing)
		f.Rotations[6] = math.QuatFromAxisAngle(xAxis, -swing)

		seq.Frames[k] = f
	}
	return seq
}
