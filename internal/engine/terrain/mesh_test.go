package terrain

import "testing"

func TestBuildGroundMesh(t *testing.T) {
	m := BuildGroundMesh(35)

	if len(m.Vertices) != 12 || len(m.Indices) != 18 {
		t.Fatalf("mesh has %d vertices, %d indices; want 12, 18", len(m.Vertices), len(m.Indices))
	}
	want := []SurfaceGroup{
		{Surface: SurfaceRoad, StartIndex: 0, IndexCount: 6},
		{Surface: SurfaceVerge, StartIndex: 6, IndexCount: 12},
	}
	if len(m.Groups) != len(want) {
		t.Fatalf("groups = %+v, want %+v", m.Groups, want)
	}
	for i := range want {
		if m.Groups[i] != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, m.Groups[i], want[i])
		}
	}

	for i, v := range m.Vertices {
		if v.Normal != [3]float32{0, 1, 0} {
			t.Errorf("vertex %d normal = %v, want up", i, v.Normal)
		}
	}

	if m.Bounds.Min[0] != RightVergeFrom || m.Bounds.Max[0] != LeftVergeTo {
		t.Errorf("x bounds = %v..%v", m.Bounds.Min[0], m.Bounds.Max[0])
	}
	if m.Bounds.Min[2] != -17.5 || m.Bounds.Max[2] != 17.5 {
		t.Errorf("z bounds = %v..%v, want ±17.5", m.Bounds.Min[2], m.Bounds.Max[2])
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestBuildGrassBlade(t *testing.T) {
	m := BuildGrassBlade()
	if len(m.Vertices) != 8 || len(m.Indices) != 12 {
		t.Fatalf("blade has %d vertices, %d indices; want 8, 12", len(m.Vertices), len(m.Indices))
	}
	if len(m.Groups) != 1 || m.Groups[0].Surface != SurfaceBlade {
		t.Errorf("groups = %+v", m.Groups)
	}
	if m.Bounds.Min[1] != 0 || m.Bounds.Max[1] != 1 {
		t.Errorf("height bounds = %v..%v, want 0..1", m.Bounds.Min[1], m.Bounds.Max[1])
	}
}
