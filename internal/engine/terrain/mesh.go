package terrain

import "github.com/Faultbox/meadow-run/pkg/math"

// Vertex is a ground or grass mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [4]float32
}

// Surface identifies which material a mesh group is drawn with.
type Surface int

const (
	SurfaceRoad Surface = iota
	SurfaceVerge
	SurfaceBlade
)

// SurfaceGroup is a run of indices sharing one surface.
type SurfaceGroup struct {
	Surface    Surface
	StartIndex int32
	IndexCount int32
}

// Mesh holds vertex data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []SurfaceGroup
	Bounds   Bounds
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Ground strip layout across the road, relative to the tile origin.
const (
	GroundY        = -0.8
	VergeY         = -0.7
	RoadHalfWidth  = 7.0
	RightVergeFrom = -180.0
	LeftVergeTo    = 60.0
)

var (
	roadColor  = [4]float32{0.55, 0.47, 0.36, 1}
	vergeColor = [4]float32{0.36, 0.58, 0.24, 1}
	bladeColor = [4]float32{0.45, 0.72, 0.30, 1}
)

// BuildGroundMesh creates the road and the two grass verges of a tile
// centred on the origin and length units long along Z. The mesh is shared
// by every tile and placed with the tile's translation.
func BuildGroundMesh(length float32) *Mesh {
	m := &Mesh{Bounds: emptyBounds()}
	half := length / 2

	m.addQuad(SurfaceRoad, roadColor,
		[3]float32{-RoadHalfWidth, GroundY, half},
		[3]float32{RoadHalfWidth, GroundY, half},
		[3]float32{RoadHalfWidth, GroundY, -half},
		[3]float32{-RoadHalfWidth, GroundY, -half},
		[2]float32{1, length / (2 * RoadHalfWidth)})

	m.addQuad(SurfaceVerge, vergeColor,
		[3]float32{RightVergeFrom, VergeY, half},
		[3]float32{-RoadHalfWidth, VergeY, half},
		[3]float32{-RoadHalfWidth, VergeY, -half},
		[3]float32{RightVergeFrom, VergeY, -half},
		[2]float32{(-RoadHalfWidth - RightVergeFrom) / 10, length / 10})

	m.addQuad(SurfaceVerge, vergeColor,
		[3]float32{RoadHalfWidth, VergeY, half},
		[3]float32{LeftVergeTo, VergeY, half},
		[3]float32{LeftVergeTo, VergeY, -half},
		[3]float32{RoadHalfWidth, VergeY, -half},
		[2]float32{(LeftVergeTo - RoadHalfWidth) / 10, length / 10})

	m.mergeGroups()
	return m
}

// BuildGrassBlade creates two crossed unit quads standing on the origin,
// drawn instanced with each grass instance's world matrix.
func BuildGrassBlade() *Mesh {
	m := &Mesh{Bounds: emptyBounds()}
	const w, h = 0.5, 1.0

	m.addQuad(SurfaceBlade, bladeColor,
		[3]float32{-w, 0, 0}, [3]float32{w, 0, 0},
		[3]float32{w, h, 0}, [3]float32{-w, h, 0},
		[2]float32{1, 1})
	m.addQuad(SurfaceBlade, bladeColor,
		[3]float32{0, 0, -w}, [3]float32{0, 0, w},
		[3]float32{0, h, w}, [3]float32{0, h, -w},
		[2]float32{1, 1})

	m.mergeGroups()
	return m
}

// addQuad appends a counter-clockwise quad a-b-c-d with a flat normal.
func (m *Mesh) addQuad(s Surface, color [4]float32, a, b, c, d [3]float32, uvScale [2]float32) {
	normal := faceNormal(a, b, c)
	base := uint32(len(m.Vertices))
	uvs := [4][2]float32{{0, 0}, {uvScale[0], 0}, {uvScale[0], uvScale[1]}, {0, uvScale[1]}}

	for i, p := range [4][3]float32{a, b, c, d} {
		m.Vertices = append(m.Vertices, Vertex{
			Position: p,
			Normal:   normal,
			TexCoord: uvs[i],
			Color:    color,
		})
		updateBounds(&m.Bounds, p)
	}

	start := int32(len(m.Indices))
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	m.Groups = append(m.Groups, SurfaceGroup{Surface: s, StartIndex: start, IndexCount: 6})
}

// mergeGroups joins adjacent groups with the same surface.
func (m *Mesh) mergeGroups() {
	merged := m.Groups[:0]
	for _, g := range m.Groups {
		if n := len(merged); n > 0 && merged[n-1].Surface == g.Surface &&
			merged[n-1].StartIndex+merged[n-1].IndexCount == g.StartIndex {
			merged[n-1].IndexCount += g.IndexCount
			continue
		}
		merged = append(merged, g)
	}
	m.Groups = merged
}

func faceNormal(a, b, c [3]float32) [3]float32 {
	e1 := math.Vec3{X: b[0] - a[0], Y: b[1] - a[1], Z: b[2] - a[2]}
	e2 := math.Vec3{X: c[0] - a[0], Y: c[1] - a[1], Z: c[2] - a[2]}
	n := e1.Cross(e2).Normalize()
	return [3]float32{n.X, n.Y, n.Z}
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}
