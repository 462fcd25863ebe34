package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meadow-run/internal/engine/terrain"
)

// gpuMesh is an uploaded indexed mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	groups        []terrain.SurfaceGroup
}

// uploadTerrainMesh uploads a ground or grass mesh. instanced reserves
// attributes 4..7 for a per-instance matrix.
func uploadTerrainMesh(mesh terrain.Mesh, instanced bool) *gpuMesh {
	m := &gpuMesh{indexCount: int32(len(mesh.Indices)), groups: mesh.Groups}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	stride := int32(unsafe.Sizeof(terrain.Vertex{}))
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointer(attribNormal, 3, gl.FLOAT, false, stride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointer(attribTexCoord, 2, gl.FLOAT, false, stride, gl.PtrOffset(24))
	gl.EnableVertexAttribArray(attribTexCoord)
	gl.VertexAttribPointer(attribColor, 4, gl.FLOAT, false, stride, gl.PtrOffset(32))
	gl.EnableVertexAttribArray(attribColor)

	if instanced {
		for col := uint32(0); col < 4; col++ {
			gl.EnableVertexAttribArray(attribInstance + col)
			gl.VertexAttribDivisor(attribInstance+col, 1)
		}
	}

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

// bindInstances points the instance attributes at vbo. The mesh VAO must
// be bound.
func bindInstances(vbo uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	for col := uint32(0); col < 4; col++ {
		gl.VertexAttribPointer(attribInstance+col, 4, gl.FLOAT, false, int32(mat4Size), gl.PtrOffset(int(col)*16))
	}
}

// uploadRigMesh uploads a bone-bound mesh.
func uploadRigMesh(mesh RigMesh) *gpuMesh {
	m := &gpuMesh{indexCount: int32(len(mesh.Indices))}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	stride := int32(unsafe.Sizeof(RigVertex{}))
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointer(attribNormal, 3, gl.FLOAT, false, stride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointer(attribColor, 4, gl.FLOAT, false, stride, gl.PtrOffset(24))
	gl.EnableVertexAttribArray(attribColor)
	gl.VertexAttribIPointer(attribBone, 1, gl.UNSIGNED_INT, stride, gl.PtrOffset(40))
	gl.EnableVertexAttribArray(attribBone)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

func (m *gpuMesh) delete() {
	if m == nil {
		return
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}
