// Package renderer draws the meadow with OpenGL 4.1.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/engine/shader"
	"github.com/Faultbox/meadow-run/internal/engine/shadow"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/internal/logger"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	TileLength float32
	ClearColor [4]float32
	FogStart   float32
	FogEnd     float32
	// BoneBoxSize is the half extent of the box drawn per bone.
	BoneBoxSize float32
	// DecorationSize is the half extent of a decoration bush before its
	// instance scale.
	DecorationSize float32
	// ShadowResolution is the sun depth map size; 0 disables shadows.
	ShadowResolution int32
	// ShadowRadius is the world radius around Scene.Focus that casts.
	ShadowRadius float32
}

// DefaultConfig returns the renderer defaults for a tile length.
func DefaultConfig(width, height int, tileLength float32) Config {
	return Config{
		Width:            width,
		Height:           height,
		TileLength:       tileLength,
		ClearColor:       [4]float32{0.62, 0.78, 0.92, 1},
		FogStart:         tileLength * 3,
		FogEnd:           tileLength * 8,
		BoneBoxSize:      0.12,
		DecorationSize:   300,
		ShadowResolution: shadow.DefaultResolution,
		ShadowRadius:     tileLength * 1.5,
	}
}

// Stats counts the work of the last frame.
type Stats struct {
	DrawCalls int
	Instances int
}

// programs is one shader per mesh kind, for either the lit or the depth pass.
type programs struct {
	static  *shader.Program
	grass   *shader.Program
	skinned *shader.Program
}

func (p programs) all() []*shader.Program {
	return []*shader.Program{p.static, p.grass, p.skinned}
}

// pass is the camera a set of programs draws with.
type pass struct {
	programs
	viewProj math.Mat4
	lit      bool
}

// Renderer owns GL programs and meshes.
type Renderer struct {
	config Config
	device *Device
	log    *zap.Logger

	lit   programs
	depth programs

	shadows *shadow.Map
	lightVP math.Mat4

	ground     *gpuMesh
	blade      *gpuMesh
	decoration *gpuMesh
	rigs       map[*animation.Skeleton]*gpuMesh

	boneUBO  uint32
	palette  animation.Palette
	identity animation.Palette
	actors   []Actor
	stats    Stats
}

// New creates the renderer.
// Must be called after the GL context is current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config: cfg,
		device: &Device{},
		log:    logger.Named("renderer"),
		rigs:   make(map[*animation.Skeleton]*gpuMesh),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	var err error
	if r.lit, err = compilePrograms("", litFragment); err != nil {
		r.Close()
		return nil, err
	}
	if cfg.ShadowResolution > 0 {
		if r.depth, err = compilePrograms("depth-", depthFragment); err != nil {
			r.Close()
			return nil, err
		}
		if r.shadows, err = shadow.NewMap(cfg.ShadowResolution); err != nil {
			r.log.Warn("shadows disabled", zap.Error(err))
		}
	}

	gl.GenBuffers(1, &r.boneUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.boneUBO)
	gl.BufferData(gl.UNIFORM_BUFFER, animation.MaxBones*mat4Size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, boneBlockBinding, r.boneUBO)
	r.identity[0] = math.Identity()

	r.ground = uploadTerrainMesh(*terrain.BuildGroundMesh(cfg.TileLength), false)
	r.blade = uploadTerrainMesh(*terrain.BuildGrassBlade(), true)
	r.decoration = uploadRigMesh(BuildBox(cfg.DecorationSize, white))

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func compilePrograms(prefix, fragment string) (programs, error) {
	var (
		p   programs
		err error
	)
	if p.static, err = shader.Compile(prefix+"static", staticVertex, fragment); err != nil {
		return p, err
	}
	if p.grass, err = shader.Compile(prefix+"grass", grassVertex, fragment); err != nil {
		return p, err
	}
	if p.skinned, err = shader.Compile(prefix+"skinned", skinnedVertex, fragment); err != nil {
		return p, err
	}
	if err := p.skinned.BindBlock("Bones", boneBlockBinding); err != nil {
		return p, err
	}
	return p, nil
}

// Device returns the instance buffer allocator for terrain.
func (r *Renderer) Device() *Device {
	return r.device
}

// Close frees GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")

	r.ground.delete()
	r.blade.delete()
	r.decoration.delete()
	for skel, m := range r.rigs {
		m.delete()
		delete(r.rigs, skel)
	}
	if r.boneUBO != 0 {
		gl.DeleteBuffers(1, &r.boneUBO)
		r.boneUBO = 0
	}
	if r.shadows != nil {
		r.shadows.Destroy()
		r.shadows = nil
	}
	for _, set := range []programs{r.lit, r.depth} {
		for _, p := range set.all() {
			if p != nil {
				p.Delete()
			}
		}
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	r.stats = Stats{}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End returns the counters of the frame.
func (r *Renderer) End() Stats {
	return r.stats
}

// Draw renders the scene: the sun's depth pass when shadows are on, then
// ground, grass, decorations and skinned actors.
func (r *Renderer) Draw(scene *Scene) {
	r.actors = obstacleActors(scene.Tiles, r.actors[:0])
	r.actors = append(r.actors, scene.Actors...)

	if r.shadows != nil {
		focus := shadow.Snap(scene.Focus, r.config.ShadowRadius, r.shadows.Resolution())
		r.lightVP = shadow.LightMatrix(scene.Sun.Direction(), focus, r.config.ShadowRadius)

		// The flat ground only receives.
		depth := pass{programs: r.depth, viewProj: r.lightVP}
		r.shadows.Begin()
		r.drawGrass(scene, depth)
		r.drawDecorations(scene, depth)
		r.drawActors(scene, depth, r.actors)
		r.shadows.End()
		r.shadows.BindTexture(gl.TEXTURE0 + uint32(shadowTextureUnit))
	}

	lit := pass{programs: r.lit, viewProj: scene.ViewProj, lit: true}
	r.drawGround(scene, lit)
	r.drawGrass(scene, lit)
	r.drawDecorations(scene, lit)
	r.drawActors(scene, lit, r.actors)
}

func (r *Renderer) setFrameUniforms(p *shader.Program, scene *Scene, ps pass) {
	p.Use()
	p.SetMat4("uViewProj", ps.viewProj)
	p.SetFloat("uTime", scene.Time)
	if !ps.lit {
		return
	}
	p.SetVec3("uSunDir", scene.Sun.Direction())
	p.SetVec3("uSunColor", scene.Sun.Color)
	p.SetVec3("uAmbient", scene.Sun.Ambient)
	p.SetVec3("uCameraPos", scene.CameraPos)
	c := r.config.ClearColor
	p.SetVec3("uFogColor", math.Vec3{X: c[0], Y: c[1], Z: c[2]})
	p.SetFloat("uFogStart", r.config.FogStart)
	p.SetFloat("uFogEnd", r.config.FogEnd)
	p.SetVec4("uTint", white)

	p.SetInt("uShadowMap", shadowTextureUnit)
	p.SetMat4("uLightViewProj", r.lightVP)
	if r.shadows != nil {
		p.SetFloat("uShadowStrength", 1)
	} else {
		p.SetFloat("uShadowStrength", 0)
	}
}

func (r *Renderer) drawGround(scene *Scene, ps pass) {
	if r.ground.vao == 0 {
		return
	}
	r.setFrameUniforms(ps.static, scene, ps)
	gl.BindVertexArray(r.ground.vao)
	for _, tile := range scene.Tiles {
		ps.static.SetMat4("uModel", math.TranslateVec(tile.Position))
		gl.DrawElements(gl.TRIANGLES, r.ground.indexCount, gl.UNSIGNED_INT, nil)
		r.stats.DrawCalls++
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) drawGrass(scene *Scene, ps pass) {
	if r.blade.vao == 0 {
		return
	}
	r.setFrameUniforms(ps.grass, scene, ps)

	gl.Disable(gl.CULL_FACE)
	gl.BindVertexArray(r.blade.vao)
	for _, tile := range scene.Tiles {
		for kind, g := range tile.Grass() {
			buf, ok := g.Buffer().(*instanceBuffer)
			if !ok || g.Count() == 0 {
				continue
			}
			if ps.lit {
				ps.grass.SetVec4("uTint", grassTint(kind))
			}
			bindInstances(buf.vbo)
			gl.DrawElementsInstanced(gl.TRIANGLES, r.blade.indexCount, gl.UNSIGNED_INT, nil, int32(g.Count()))
			r.stats.DrawCalls++
			r.stats.Instances += g.Count()
		}
	}
	gl.BindVertexArray(0)
	gl.Enable(gl.CULL_FACE)
}

func (r *Renderer) uploadPalette(p *animation.Palette, count int) {
	if count <= 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.boneUBO)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, count*mat4Size, unsafe.Pointer(&p[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (r *Renderer) drawDecorations(scene *Scene, ps pass) {
	if r.decoration.vao == 0 {
		return
	}
	r.setFrameUniforms(ps.skinned, scene, ps)
	if ps.lit {
		ps.skinned.SetVec4("uTint", decoTint)
	}
	r.uploadPalette(&r.identity, 1)

	gl.BindVertexArray(r.decoration.vao)
	for _, tile := range scene.Tiles {
		for _, d := range tile.Decorations {
			ps.skinned.SetMat4("uModel", d.WorldMatrix())
			gl.DrawElements(gl.TRIANGLES, r.decoration.indexCount, gl.UNSIGNED_INT, nil)
			r.stats.DrawCalls++
		}
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) rigFor(skel *animation.Skeleton) *gpuMesh {
	if m, ok := r.rigs[skel]; ok {
		return m
	}
	m := uploadRigMesh(BuildRigMesh(skel, r.config.BoneBoxSize))
	r.rigs[skel] = m
	r.log.Debug("rig uploaded", zap.Int("bones", skel.Len()), zap.Int32("indices", m.indexCount))
	return m
}

func (r *Renderer) drawActors(scene *Scene, ps pass, actors []Actor) {
	if len(actors) == 0 {
		return
	}
	r.setFrameUniforms(ps.skinned, scene, ps)

	for _, a := range actors {
		if a.Pose == nil {
			continue
		}
		rig := r.rigFor(a.Pose.Animation().Skeleton())
		if rig.vao == 0 {
			continue
		}
		n := a.Pose.FillPalette(&r.palette)
		r.uploadPalette(&r.palette, n)

		ps.skinned.SetMat4("uModel", scaled(a.Model, scene.RigScale))
		if ps.lit {
			ps.skinned.SetVec4("uTint", a.Tint)
		}
		gl.BindVertexArray(rig.vao)
		gl.DrawElements(gl.TRIANGLES, rig.indexCount, gl.UNSIGNED_INT, nil)
		r.stats.DrawCalls++
	}
	gl.BindVertexArray(0)
}

// ReadPixels returns the RGBA contents of the back buffer.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
