// Package opengl is the OpenGL 4.1 core backend: it compiles material
// programs on first use, uploads scene meshes lazily, draws stages opaque
// first then transparent back-to-front, and resolves the frame through the
// post-processing chain when one could be built.
package opengl

import (
	"fmt"
	"log/slog"
	"sort"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
	"translink/materials"
	"translink/particles"
	"translink/scene"
)

// meshBuffers is the GPU copy of one scene mesh.
type meshBuffers struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// Renderer implements scene.Backend.
type Renderer struct {
	width      int32
	height     int32
	pixelRatio float32

	meshes map[*scene.Mesh]*meshBuffers
	locs   map[uint32]uniformLocations
	sims   map[*particles.Field]*particleSim
	failed map[*materials.Material]bool
	post   *PostFX

	frameDT   float64
	frameTime float64

	info string
}

// NewRenderer initializes the GL function pointers and the effect chain.
// The window's context must be current. A post chain that fails to build
// logs a warning and the renderer draws direct instead.
func NewRenderer(width, height int, pixelRatio float32) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}

	r := &Renderer{
		width:      int32(width),
		height:     int32(height),
		pixelRatio: pixelRatio,
		meshes:     make(map[*scene.Mesh]*meshBuffers),
		locs:       make(map[uint32]uniformLocations),
		sims:       make(map[*particles.Field]*particleSim),
		failed:     make(map[*materials.Material]bool),
		info: fmt.Sprintf("%s / %s",
			gl.GoStr(gl.GetString(gl.RENDERER)),
			gl.GoStr(gl.GetString(gl.VERSION))),
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Viewport(0, 0, r.width, r.height)

	post, err := NewPostFX(width, height)
	if err != nil {
		core.Logger().Warn("post-processing unavailable, rendering direct",
			slog.String("error", err.Error()))
		// Direct path: let the framebuffer do the sRGB encode that the
		// grade pass would otherwise perform.
		gl.Enable(gl.FRAMEBUFFER_SRGB)
	} else {
		r.post = post
	}

	core.Logger().Info("renderer up", slog.String("gl", r.info))
	return r, nil
}

// Info returns the driver and version string.
func (r *Renderer) Info() string { return r.info }

// Resize updates the viewport and every pixel-sized target.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = int32(width)
	r.height = int32(height)
	gl.Viewport(0, 0, r.width, r.height)
	if r.post != nil {
		r.post.Resize(width, height)
	}
}

// Draw renders one stage: particle simulation step, scene pass into the
// HDR target, then the post resolve. Clearing is explicit here; nothing
// else touches the framebuffer between frames.
func (r *Renderer) Draw(stage *scene.Stage) {
	if stage == nil || stage.Camera == nil {
		return
	}

	var sim *particleSim
	if stage.Particles != nil {
		sim = r.ensureSim(stage.Particles)
		if sim != nil && r.frameDT > 0 {
			sim.step(r.frameDT, r.frameTime)
		}
	}

	if r.post != nil {
		r.post.Bind()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, r.width, r.height)
	}

	bg := stage.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := stage.Camera.View()
	proj := stage.Camera.Projection()

	opaque, transparent := r.partition(stage, view)
	for _, item := range opaque {
		r.drawMesh(item.node, view, proj, stage.Camera.Position())
	}
	if sim != nil {
		sim.draw(view, proj, r.pixelRatio)
	}
	for _, item := range transparent {
		r.drawMesh(item.node, view, proj, stage.Camera.Position())
	}

	if r.post != nil {
		r.post.Blit(stage.Post)
	}
}

type drawItem struct {
	node  *scene.Node
	depth float32
}

// partition splits visible meshes into opaque and transparent, the latter
// sorted back-to-front by view-space depth.
func (r *Renderer) partition(stage *scene.Stage, view mgl32.Mat4) (opaque, transparent []drawItem) {
	for _, node := range stage.Root.VisibleMeshes() {
		world := node.WorldMatrix()
		pos := world.Col(3).Vec3()
		depth := view.Mul4x1(pos.Vec4(1)).Z()
		item := drawItem{node: node, depth: depth}
		if node.Mesh.Material != nil && node.Mesh.Material.Transparent {
			transparent = append(transparent, item)
		} else {
			opaque = append(opaque, item)
		}
	}
	sort.Slice(transparent, func(i, j int) bool {
		return transparent[i].depth < transparent[j].depth
	})
	return opaque, transparent
}

func (r *Renderer) drawMesh(node *scene.Node, view, proj mgl32.Mat4, eye mgl32.Vec3) {
	mesh := node.Mesh
	mat := mesh.Material
	if mat == nil {
		return
	}

	prog := r.ensureProgram(mat)
	if prog == 0 {
		return
	}
	buffers := r.ensureMesh(mesh)
	if buffers == nil {
		return
	}

	gl.UseProgram(prog)
	locs := r.locs[prog]

	model := node.WorldMatrix()
	gl.UniformMatrix4fv(locs.locate(prog, "uModel"), 1, false, &model[0])
	gl.UniformMatrix4fv(locs.locate(prog, "uView"), 1, false, &view[0])
	gl.UniformMatrix4fv(locs.locate(prog, "uProjection"), 1, false, &proj[0])
	if loc := locs.locate(prog, "uCameraPos"); loc >= 0 {
		gl.Uniform3f(loc, eye.X(), eye.Y(), eye.Z())
	}

	r.applyUniforms(prog, locs, mat)

	if mat.Transparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	gl.BindVertexArray(buffers.vao)
	if buffers.indexCount > 0 {
		gl.DrawElements(gl.TRIANGLES, buffers.indexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(mesh.Data.Vertices)))
	}
	gl.BindVertexArray(0)

	if mat.Transparent {
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
}

// applyUniforms uploads the material's CPU-side uniform values. Texture
// uniforms claim units in declaration-iteration order starting at 0.
func (r *Renderer) applyUniforms(prog uint32, locs uniformLocations, mat *materials.Material) {
	unit := int32(0)
	for name, u := range mat.Uniforms {
		loc := locs.locate(prog, name)
		if loc < 0 {
			continue
		}
		switch u.Kind {
		case materials.UniformFloat:
			gl.Uniform1f(loc, u.Float)
		case materials.UniformVec2:
			gl.Uniform2f(loc, u.Vec2.X(), u.Vec2.Y())
		case materials.UniformVec3:
			gl.Uniform3f(loc, u.Vec3.X(), u.Vec3.Y(), u.Vec3.Z())
		case materials.UniformColor:
			gl.Uniform3f(loc, u.Color.R, u.Color.G, u.Color.B)
		case materials.UniformTexture:
			if u.Texture == nil {
				continue
			}
			if u.Texture.GLID == 0 {
				if err := UploadTexture(u.Texture); err != nil {
					core.Logger().Warn("texture upload failed",
						slog.String("texture", u.Texture.Name),
						slog.String("error", err.Error()))
					continue
				}
			}
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_2D, u.Texture.GLID)
			gl.Uniform1i(loc, unit)
			unit++
		}
	}
}

// ensureProgram compiles the material's shader pair once and caches the
// handle on the instance. A compile failure is remembered so the log line
// fires once, not every frame.
func (r *Renderer) ensureProgram(mat *materials.Material) uint32 {
	if mat.Program != 0 {
		return mat.Program
	}
	if r.failed[mat] {
		return 0
	}
	prog, err := newProgram(mat.VertexSrc, mat.FragmentSrc)
	if err != nil {
		core.Logger().Error("material shader compile failed",
			slog.String("material", mat.Name), slog.String("error", err.Error()))
		r.failed[mat] = true
		return 0
	}
	mat.Program = prog
	r.locs[prog] = make(uniformLocations)
	return prog
}

func (r *Renderer) ensureMesh(mesh *scene.Mesh) *meshBuffers {
	if b, ok := r.meshes[mesh]; ok {
		return b
	}
	if len(mesh.Data.Vertices) == 0 {
		return nil
	}

	b := &meshBuffers{indexCount: int32(len(mesh.Data.Indices))}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)

	const stride = int32(8 * 4) // position 3 + normal 3 + uv 2
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Data.Vertices)*int(stride), gl.Ptr(mesh.Data.Vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(24))

	if b.indexCount > 0 {
		gl.GenBuffers(1, &b.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Data.Indices)*4, gl.Ptr(mesh.Data.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	r.meshes[mesh] = b
	mesh.GPUHandle = b.vao
	return b
}

func (r *Renderer) ensureSim(field *particles.Field) *particleSim {
	if sim, ok := r.sims[field]; ok {
		return sim
	}
	sim, err := newParticleSim(field)
	if err != nil {
		core.Logger().Warn("GPU particle path unavailable",
			slog.String("error", err.Error()))
		r.sims[field] = nil
		return nil
	}
	r.sims[field] = sim
	return sim
}

// SetFrameTime hands the renderer the frame clock's delta and elapsed
// time; the GPU particle step consumes them. Call once per frame before
// Draw.
func (r *Renderer) SetFrameTime(dt, t float64) {
	r.frameDT = dt
	r.frameTime = t
}

// ReleaseMesh frees the GPU buffers backing one mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	b, ok := r.meshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
	}
	delete(r.meshes, mesh)
	mesh.GPUHandle = 0
}

// Destroy releases every GPU object the renderer created, including the
// material programs it compiled.
func (r *Renderer) Destroy() {
	for mesh := range r.meshes {
		r.ReleaseMesh(mesh)
	}
	for prog := range r.locs {
		gl.DeleteProgram(prog)
	}
	r.locs = make(map[uint32]uniformLocations)
	for _, sim := range r.sims {
		if sim != nil {
			sim.destroy()
		}
	}
	r.sims = make(map[*particles.Field]*particleSim)
	if r.post != nil {
		r.post.Destroy()
		r.post = nil
	}
}
