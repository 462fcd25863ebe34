package animation

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// assetFile is the on-disk YAML layout of an animation asset.
type assetFile struct {
	Skeleton skeletonFile        `yaml:"skeleton"`
	Clips    map[string]clipFile `yaml:"clips"`
}

type skeletonFile struct {
	GlobalInverse []float32  `yaml:"global_inverse,omitempty"`
	Bones         []boneFile `yaml:"bones"`
}

type boneFile struct {
	Name   string    `yaml:"name"`
	Parent string    `yaml:"parent,omitempty"`
	Offset []float32 `yaml:"offset,omitempty"`
}

type clipFile struct {
	TicksPerSecond float32     `yaml:"ticks_per_second"`
	Frames         []frameFile `yaml:"frames"`
}

// Omitted channels default to zero translation, identity rotation and
// unit scale for every bone.
type frameFile struct {
	Positions [][]float32 `yaml:"positions,omitempty,flow"`
	Rotations [][]float32 `yaml:"rotations,omitempty,flow"`
	Scales    [][]float32 `yaml:"scales,omitempty,flow"`
}

// LoadFile reads an animation asset from a YAML file.
func LoadFile(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open animation asset: %w", err)
	}
	defer f.Close()

	anim, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return anim, nil
}

// Decode parses a YAML animation asset.
func Decode(r io.Reader) (*Animation, error) {
	var file assetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}

	skel, err := file.Skeleton.build()
	if err != nil {
		return nil, err
	}

	clips := make(map[string]*Sequence, len(file.Clips))
	for name, cf := range file.Clips {
		seq, err := cf.build(skel.Len())
		if err != nil {
			return nil, fmt.Errorf("clip %q: %w", name, err)
		}
		clips[name] = seq
	}

	return NewAnimation(skel, clips)
}

// Encode writes anim as a YAML asset readable by Decode.
func Encode(w io.Writer, anim *Animation) error {
	skel := anim.Skeleton()
	file := assetFile{
		Skeleton: skeletonFile{GlobalInverse: append([]float32(nil), skel.GlobalInverse[:]...)},
		Clips:    make(map[string]clipFile, len(anim.clips)),
	}
	for _, b := range skel.Bones {
		bf := boneFile{Name: b.Name, Offset: append([]float32(nil), b.Offset[:]...)}
		if b.Parent != NoBone {
			bf.Parent = skel.Bones[b.Parent].Name
		}
		file.Skeleton.Bones = append(file.Skeleton.Bones, bf)
	}
	for name, seq := range anim.clips {
		cf := clipFile{TicksPerSecond: seq.TicksPerSecond}
		for _, fr := range seq.Frames {
			var ff frameFile
			for k := range fr.Positions {
				p, r, s := fr.Positions[k], fr.Rotations[k], fr.Scales[k]
				ff.Positions = append(ff.Positions, []float32{p.X, p.Y, p.Z})
				ff.Rotations = append(ff.Rotations, []float32{r.X, r.Y, r.Z, r.W})
				ff.Scales = append(ff.Scales, []float32{s.X, s.Y, s.Z})
			}
			cf.Frames = append(cf.Frames, ff)
		}
		file.Clips[name] = cf
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encode animation asset: %w", err)
	}
	return enc.Close()
}

func (sf *skeletonFile) build() (*Skeleton, error) {
	globalInverse, err := matrixOrIdentity(sf.GlobalInverse)
	if err != nil {
		return nil, fmt.Errorf("global_inverse: %w", err)
	}

	index := make(map[string]int, len(sf.Bones))
	for i, bf := range sf.Bones {
		if bf.Name == "" {
			return nil, fmt.Errorf("%w: bone %d has no name", ErrInvalidAsset, i)
		}
		if _, dup := index[bf.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate bone %q", ErrInvalidAsset, bf.Name)
		}
		index[bf.Name] = i
	}

	bones := make([]Bone, len(sf.Bones))
	for i, bf := range sf.Bones {
		parent := NoBone
		if bf.Parent != "" {
			p, ok := index[bf.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: bone %q references unknown parent %q", ErrInvalidAsset, bf.Name, bf.Parent)
			}
			parent = p
		}
		offset, err := matrixOrIdentity(bf.Offset)
		if err != nil {
			return nil, fmt.Errorf("bone %q offset: %w", bf.Name, err)
		}
		bones[i] = Bone{Name: bf.Name, Offset: offset, Parent: parent}
	}

	return NewSkeleton(bones, globalInverse)
}

func (cf *clipFile) build(boneCount int) (*Sequence, error) {
	seq := &Sequence{
		TicksPerSecond: cf.TicksPerSecond,
		Frames:         make([]Frame, len(cf.Frames)),
	}
	for i, ff := range cf.Frames {
		f := Frame{
			Positions: make([]math.Vec3, boneCount),
			Rotations: make([]math.Quat, boneCount),
			Scales:    make([]math.Vec3, boneCount),
		}
		for b := 0; b < boneCount; b++ {
			f.Rotations[b] = math.QuatIdentity()
			f.Scales[b] = math.Vec3{X: 1, Y: 1, Z: 1}
		}

		if err := readVec3s(ff.Positions, f.Positions); err != nil {
			return nil, fmt.Errorf("frame %d positions: %w", i, err)
		}
		if err := readQuats(ff.Rotations, f.Rotations); err != nil {
			return nil, fmt.Errorf("frame %d rotations: %w", i, err)
		}
		if err := readVec3s(ff.Scales, f.Scales); err != nil {
			return nil, fmt.Errorf("frame %d scales: %w", i, err)
		}
		seq.Frames[i] = f
	}
	return seq, nil
}

func matrixOrIdentity(v []float32) (math.Mat4, error) {
	if len(v) == 0 {
		return math.Identity(), nil
	}
	if len(v) != 16 {
		return math.Mat4{}, fmt.Errorf("%w: matrix needs 16 values, got %d", ErrInvalidAsset, len(v))
	}
	var m math.Mat4
	copy(m[:], v)
	return m, nil
}

func readVec3s(src [][]float32, dst []math.Vec3) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%w: %d entries for %d bones", ErrInvalidAsset, len(src), len(dst))
	}
	for i, v := range src {
		if len(v) != 3 {
			return fmt.Errorf("%w: entry %d needs 3 values, got %d", ErrInvalidAsset, i, len(v))
		}
		dst[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return nil
}

func readQuats(src [][]float32, dst []math.Quat) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%w: %d entries for %d bones", ErrInvalidAsset, len(src), len(dst))
	}
	for i, v := range src {
		if len(v) != 4 {
			return fmt.Errorf("%w: entry %d needs 4 values, got %d", ErrInvalidAsset, i, len(v))
		}
		dst[i] = math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalize()
	}
	return nil
}
