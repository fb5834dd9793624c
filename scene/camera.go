package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera with an optional pointer-parallax offset
// layered on top of its base position. Matrices are cached and rebuilt
// lazily on change.
type Camera struct {
	BasePosition mgl32.Vec3
	Target       mgl32.Vec3
	Up           mgl32.Vec3
	FOV          float32 // radians
	Aspect       float32
	Near         float32
	Far          float32

	// ParallaxIntensity scales the eased pointer offset per axis; zero
	// disables parallax for the scene.
	ParallaxIntensity mgl32.Vec2

	offset mgl32.Vec3 // parallax displacement, driven by the scene's Update

	view       mgl32.Mat4
	projection mgl32.Mat4
	dirty      bool
}

// NewCamera returns a camera looking at the origin from pos.
func NewCamera(pos mgl32.Vec3, fov, aspect float32) *Camera {
	return &Camera{
		BasePosition: pos,
		Up:           mgl32.Vec3{0, 1, 0},
		FOV:          fov,
		Aspect:       aspect,
		Near:         0.1,
		Far:          100,
		dirty:        true,
	}
}

// Position is the effective eye point: base plus parallax offset.
func (c *Camera) Position() mgl32.Vec3 {
	return c.BasePosition.Add(c.offset)
}

// SetOffset replaces the parallax displacement.
func (c *Camera) SetOffset(offset mgl32.Vec3) {
	c.offset = offset
	c.dirty = true
}

func (c *Camera) SetTarget(target mgl32.Vec3) {
	c.Target = target
	c.dirty = true
}

// SetAspect updates the projection for a new framebuffer size.
func (c *Camera) SetAspect(w, h int) {
	if h <= 0 {
		return
	}
	aspect := float32(w) / float32(h)
	if aspect == c.Aspect {
		return
	}
	c.Aspect = aspect
	c.dirty = true
}

func (c *Camera) View() mgl32.Mat4 {
	if c.dirty {
		c.rebuild()
	}
	return c.view
}

func (c *Camera) Projection() mgl32.Mat4 {
	if c.dirty {
		c.rebuild()
	}
	return c.projection
}

func (c *Camera) rebuild() {
	eye := c.Position()
	c.view = mgl32.LookAtV(eye, c.Target, c.Up)
	c.projection = mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
	c.dirty = false
}
