// Package shadow renders the sun's depth map for cast shadows.
//
// The map covers a fixed radius around the runner. LightMatrix and Snap
// keep that region steady while the focus moves down the road, and Map
// owns the depth-only framebuffer the casters are drawn into.
package shadow

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Depth bias applied while rendering casters. Grass blades are
// single-sided, so front-face culling alone cannot remove acne.
const (
	slopeBias    = 2.0
	constantBias = 4.0
)

// ErrIncomplete is returned when the driver rejects the depth framebuffer.
var ErrIncomplete = errors.New("shadow framebuffer incomplete")

// Map is a square depth-only framebuffer sampled with sampler2DShadow.
type Map struct {
	fbo        uint32
	depth      uint32
	resolution int32
	viewport   [4]int32
}

// NewMap creates a shadow map. A non-positive resolution uses
// DefaultResolution.
func NewMap(resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	m := &Map{resolution: resolution}

	gl.GenTextures(1, &m.depth)
	gl.BindTexture(gl.TEXTURE_2D, m.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, resolution, resolution, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	for _, p := range [][2]int32{
		{gl.TEXTURE_MIN_FILTER, gl.LINEAR},
		{gl.TEXTURE_MAG_FILTER, gl.LINEAR},
		{gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER},
		{gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER},
		{gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE},
		{gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL},
	} {
		gl.TexParameteri(gl.TEXTURE_2D, uint32(p[0]), p[1])
	}
	// Beyond the covered radius everything is lit.
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.GenFramebuffers(1, &m.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, m.depth, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		m.Destroy()
		return nil, fmt.Errorf("%w: status 0x%x", ErrIncomplete, status)
	}
	return m, nil
}

// Resolution returns the edge length of the map in texels.
func (m *Map) Resolution() int32 {
	return m.resolution
}

// Begin redirects drawing into the depth map and clears it. Casters are
// drawn with front faces culled and a polygon offset until End.
func (m *Map) Begin() {
	gl.GetIntegerv(gl.VIEWPORT, &m.viewport[0])
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.Viewport(0, 0, m.resolution, m.resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.CullFace(gl.FRONT)
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(slopeBias, constantBias)
}

// End restores the default framebuffer, the saved viewport and culling.
func (m *Map) End() {
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.CullFace(gl.BACK)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(m.viewport[0], m.viewport[1], m.viewport[2], m.viewport[3])
}

// BindTexture binds the depth texture to unit (gl.TEXTURE0 + n).
func (m *Map) BindTexture(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, m.depth)
}

// Destroy releases the GPU resources. It is safe to call twice.
func (m *Map) Destroy() {
	if m.fbo != 0 {
		gl.DeleteFramebuffers(1, &m.fbo)
		m.fbo = 0
	}
	if m.depth != 0 {
		gl.DeleteTextures(1, &m.depth)
		m.depth = 0
	}
}
