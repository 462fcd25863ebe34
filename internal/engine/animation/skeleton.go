// Package animation implements skeletal animation: bone hierarchies, clip
// sampling, live playback instances and a cross-fading state machine.
package animation

import (
	"fmt"
	"sort"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// NoBone is the parent index of a root bone and the FindBone miss value.
const NoBone = -1

// MaxBones is the skinning palette size the vertex shader accepts.
const MaxBones = 256

// Bone is one node of the skeletal hierarchy.
type Bone struct {
	Name   string
	Offset math.Mat4 // bind pose to bone space
	Parent int       // NoBone for roots
}

// Skeleton is an ordered bone list. A bone's index is its ID everywhere.
// Immutable after NewSkeleton.
type Skeleton struct {
	Bones         []Bone
	GlobalInverse math.Mat4

	// order lists bone indices so every parent precedes its children.
	order []int
}

// NewSkeleton validates the hierarchy and fixes the evaluation order.
func NewSkeleton(bones []Bone, globalInverse math.Mat4) (*Skeleton, error) {
	n := len(bones)
	if n == 0 {
		return nil, fmt.Errorf("%w: skeleton has no bones", ErrInvalidAsset)
	}
	if n > MaxBones {
		return nil, fmt.Errorf("%w: %d bones exceeds limit of %d", ErrInvalidAsset, n, MaxBones)
	}

	depth := make([]int, n)
	ordered := true
	for i, b := range bones {
		if b.Parent < NoBone || b.Parent >= n || b.Parent == i {
			return nil, fmt.Errorf("%w: bone %q has invalid parent %d", ErrInvalidAsset, b.Name, b.Parent)
		}
		if b.Parent >= i {
			ordered = false
		}

		// Walk to the root; a chain longer than n means a cycle.
		steps := 0
		for p := b.Parent; p != NoBone; p = bones[p].Parent {
			steps++
			if steps > n {
				return nil, fmt.Errorf("%w: bone %q is part of a parent cycle", ErrInvalidAsset, b.Name)
			}
		}
		depth[i] = steps
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if !ordered {
		sort.SliceStable(order, func(a, b int) bool {
			return depth[order[a]] < depth[order[b]]
		})
	}

	return &Skeleton{
		Bones:         bones,
		GlobalInverse: globalInverse,
		order:         order,
	}, nil
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	return len(s.Bones)
}

// FindBone returns the index of the named bone, or NoBone.
func (s *Skeleton) FindBone(name string) int {
	for i := range s.Bones {
		if s.Bones[i].Name == name {
			return i
		}
	}
	return NoBone
}

// Order returns bone indices with parents before children.
func (s *Skeleton) Order() []int {
	return s.order
}

// Chain returns the ancestors of bone followed by bone itself, root first.
func (s *Skeleton) Chain(bone int) []int {
	var chain []int
	for id := bone; id != NoBone; id = s.Bones[id].Parent {
		chain = append(chain, id)
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}
