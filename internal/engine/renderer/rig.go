package renderer

import (
	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// RigVertex is a vertex bound rigidly to one bone.
type RigVertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
	Bone     uint32
}

// RigMesh is a stand-in body made of one box per bone, expressed in bind
// space so the skinning palette poses it.
type RigMesh struct {
	Vertices []RigVertex
	Indices  []uint32
}

var boxFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, 1}, {-1, -1, -1}, {1, -1, -1}, {1, -1, 1}}},
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
}

// boneColors cycles so neighbouring bones are distinguishable.
var boneColors = [][4]float32{
	{0.82, 0.36, 0.28, 1},
	{0.93, 0.78, 0.45, 1},
	{0.35, 0.52, 0.80, 1},
	{0.62, 0.42, 0.70, 1},
}

// BuildRigMesh places a box of half-extent size at each bone's bind pose.
// Bones whose offset cannot be inverted are skipped.
func BuildRigMesh(skel *animation.Skeleton, size float32) RigMesh {
	var mesh RigMesh
	if skel == nil {
		return mesh
	}

	for i, bone := range skel.Bones {
		bind, err := bone.Offset.Inverse()
		if err != nil {
			continue
		}
		appendBox(&mesh, bind, size, uint32(i), boneColors[i%len(boneColors)])
	}
	return mesh
}

// BuildBox returns a single unit box of half-extent size bound to bone 0.
func BuildBox(size float32, color [4]float32) RigMesh {
	var mesh RigMesh
	appendBox(&mesh, math.Identity(), size, 0, color)
	return mesh
}

func appendBox(mesh *RigMesh, transform math.Mat4, size float32, bone uint32, color [4]float32) {
	for _, face := range boxFaces {
		base := uint32(len(mesh.Vertices))
		n := transform.TransformDirection(math.Vec3{X: face.normal[0], Y: face.normal[1], Z: face.normal[2]}).Normalize()
		for _, c := range face.corners {
			p := transform.TransformPoint(math.Vec3{X: c[0] * size, Y: c[1] * size, Z: c[2] * size})
			mesh.Vertices = append(mesh.Vertices, RigVertex{
				Position: [3]float32{p.X, p.Y, p.Z},
				Normal:   [3]float32{n.X, n.Y, n.Z},
				Color:    color,
				Bone:     bone,
			})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}
