// Package particles simulates the settings scene's point cloud: a
// fixed-count field of particles with per-particle position, velocity, and
// lifetime. This CPU structure-of-arrays is the fallback and reference
// implementation; the GPU ping-pong path in internal/opengl carries the
// same semantics.
package particles

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"translink/core"
)

// Config fixes a field's population and look at construction time.
type Config struct {
	Count    int
	Size     float32 // point size in pixels
	Speed    float32 // simulation speed multiplier
	Color    core.Color
	Opacity  float32
	Additive bool    // additive blending instead of alpha
	Extent   float32 // half-size of the respawn cube
	Gravity  mgl32.Vec3
	Damping  float32
	MinLife  float32
	MaxLife  float32
	Seed     int64
}

// DefaultConfig is tuned for the ambient cloud behind the settings page.
func DefaultConfig() Config {
	return Config{
		Count:    4096,
		Size:     2,
		Speed:    1,
		Color:    core.Color{R: 0.31, G: 0.86, B: 1, A: 1},
		Opacity:  0.7,
		Additive: true,
		Extent:   6,
		Gravity:  mgl32.Vec3{0, -0.15, 0},
		Damping:  0.12,
		MinLife:  4,
		MaxLife:  12,
	}
}

// Field is the CPU particle simulation. Population is fixed for the
// field's lifetime: a particle whose lifetime hits zero respawns in place
// rather than being removed.
type Field struct {
	cfg Config
	rng *rand.Rand

	Positions  []mgl32.Vec3
	Velocities []mgl32.Vec3
	Lifetimes  []float32

	color   core.Color
	opacity float32
}

func NewField(cfg Config) *Field {
	if cfg.Count <= 0 {
		cfg.Count = DefaultConfig().Count
	}
	if cfg.MaxLife <= cfg.MinLife {
		cfg.MaxLife = cfg.MinLife + 1
	}
	f := &Field{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		Positions:  make([]mgl32.Vec3, cfg.Count),
		Velocities: make([]mgl32.Vec3, cfg.Count),
		Lifetimes:  make([]float32, cfg.Count),
		color:      cfg.Color,
		opacity:    cfg.Opacity,
	}
	for i := range f.Positions {
		f.respawn(i)
		// Stagger initial ages so the whole field doesn't respawn in sync.
		f.Lifetimes[i] *= f.rng.Float32()
	}
	return f
}

// Count returns the fixed population size.
func (f *Field) Count() int { return f.cfg.Count }

// Config returns the construction-time configuration.
func (f *Field) Config() Config { return f.cfg }

// Update advances the simulation by dt seconds at absolute time t.
// Velocity integrates gravity, damping, and a cheap domain-warp turbulence;
// position integrates velocity; expired particles respawn uniformly inside
// the extent cube.
func (f *Field) Update(dt, t float64) {
	step := float32(dt) * f.cfg.Speed
	if step <= 0 {
		return
	}
	ft := float32(t)

	for i := range f.Positions {
		f.Lifetimes[i] -= step
		if f.Lifetimes[i] <= 0 {
			f.respawn(i)
			continue
		}

		v := f.Velocities[i]
		v = v.Add(f.cfg.Gravity.Mul(step))
		v = v.Sub(v.Mul(f.cfg.Damping * step))
		v = v.Add(turbulence(f.Positions[i], ft).Mul(step))
		f.Velocities[i] = v
		f.Positions[i] = f.Positions[i].Add(v.Mul(step))
	}
}

// respawn re-seeds particle i uniformly inside the extent cube with a
// fresh lifetime and a small random drift.
func (f *Field) respawn(i int) {
	e := f.cfg.Extent
	f.Positions[i] = mgl32.Vec3{
		(f.rng.Float32()*2 - 1) * e,
		(f.rng.Float32()*2 - 1) * e,
		(f.rng.Float32()*2 - 1) * e,
	}
	f.Velocities[i] = mgl32.Vec3{
		(f.rng.Float32()*2 - 1) * 0.1,
		(f.rng.Float32()*2 - 1) * 0.1,
		(f.rng.Float32()*2 - 1) * 0.1,
	}
	f.Lifetimes[i] = f.cfg.MinLife + f.rng.Float32()*(f.cfg.MaxLife-f.cfg.MinLife)
}

// turbulence is a divergence-poor swirl built from phase-shifted sines;
// the GPU program evaluates the same expression.
func turbulence(p mgl32.Vec3, t float32) mgl32.Vec3 {
	x := float64(p.X()*0.5 + t*0.2)
	y := float64(p.Y()*0.5 + t*0.17)
	z := float64(p.Z()*0.5 + t*0.23)
	return mgl32.Vec3{
		float32(math.Sin(y+z)) * 0.3,
		float32(math.Sin(x+z+1.3)) * 0.3,
		float32(math.Sin(x+y+2.1)) * 0.3,
	}
}

// SetColor retargets the field tint; reaches the GPU as a uniform write.
func (f *Field) SetColor(c core.Color) { f.color = c }

func (f *Field) Color() core.Color { return f.color }

// SetOpacity clamps to [0,1].
func (f *Field) SetOpacity(o float32) {
	if o < 0 {
		o = 0
	} else if o > 1 {
		o = 1
	}
	f.opacity = o
}

func (f *Field) Opacity() float32 { return f.opacity }

// Dispose releases the CPU buffers.
func (f *Field) Dispose() {
	f.Positions, f.Velocities, f.Lifetimes = nil, nil, nil
}
