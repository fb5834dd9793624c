package opengl

import (
	"fmt"
	"math"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"translink/particles"
)

// particleSim runs the particle field on the GPU. State lives in a pair of
// RGBA32F texture sets (position+life, velocity) and a fragment shader
// advances it each frame, ping-ponging between the sets. The integration
// matches particles.Field: gravity, damping, the sine turbulence, and
// respawn-in-place when a lifetime expires, except respawns draw from a
// hash instead of the CPU generator. Draw fetches positions back out by
// texel index and renders soft-circle points.
type particleSim struct {
	field *particles.Field
	side  int32 // state textures are side x side

	stateFBO [2]uint32
	posTex   [2]uint32
	velTex   [2]uint32
	front    int

	simProg  uint32
	drawProg uint32
	simLocs  uniformLocations
	drawLocs uniformLocations

	quadVAO uint32 // sim pass fullscreen triangle
	drawVAO uint32 // empty; draw fetches by gl_VertexID
}

const particleSimVertSrc = fxVertSrc

// particleSimFragSrc advances one particle per texel. MRT: attachment 0 is
// position+life, attachment 1 is velocity.
const particleSimFragSrc = `
#version 410 core
in vec2 vUV;
layout(location = 0) out vec4 outPos;
layout(location = 1) out vec4 outVel;

uniform sampler2D tPos;
uniform sampler2D tVel;
uniform float uDt;
uniform float uTime;
uniform vec3  uGravity;
uniform float uDamping;
uniform float uExtent;
uniform float uMinLife;
uniform float uMaxLife;

vec3 hash3(vec2 p) {
    vec3 q = vec3(dot(p, vec2(127.1, 311.7)),
                  dot(p, vec2(269.5, 183.3)),
                  dot(p, vec2(419.2, 371.9)));
    return fract(sin(q) * 43758.5453);
}

vec3 turbulence(vec3 p, float t) {
    float x = p.x * 0.5 + t * 0.2;
    float y = p.y * 0.5 + t * 0.17;
    float z = p.z * 0.5 + t * 0.23;
    return vec3(sin(y + z), sin(x + z + 1.3), sin(x + y + 2.1)) * 0.3;
}

void main() {
    vec4 pos = texture(tPos, vUV);
    vec3 vel = texture(tVel, vUV).xyz;

    float life = pos.w - uDt;
    if (life <= 0.0) {
        vec3 h = hash3(vUV + vec2(uTime, uTime * 1.7));
        outPos = vec4((h * 2.0 - 1.0) * uExtent,
                      uMinLife + h.x * (uMaxLife - uMinLife));
        outVel = vec4((hash3(vUV.yx + vec2(uTime * 0.31, 0.0)) * 2.0 - 1.0) * 0.1, 0.0);
        return;
    }

    vel += uGravity * uDt;
    vel -= vel * (uDamping * uDt);
    vel += turbulence(pos.xyz, uTime) * uDt;

    outPos = vec4(pos.xyz + vel * uDt, life);
    outVel = vec4(vel, 0.0);
}
`

// particleDrawVertSrc fetches this point's state by vertex id.
const particleDrawVertSrc = `
#version 410 core
uniform sampler2D tPos;
uniform int   uSide;
uniform mat4  uView;
uniform mat4  uProjection;
uniform float uSize;
uniform float uPixelRatio;

out float vLife;

void main() {
    ivec2 texel = ivec2(gl_VertexID % uSide, gl_VertexID / uSide);
    vec4 state = texelFetch(tPos, texel, 0);
    vLife = state.w;

    vec4 viewPos = uView * vec4(state.xyz, 1.0);
    gl_Position = uProjection * viewPos;
    gl_PointSize = uSize * uPixelRatio * clamp(4.0 / max(-viewPos.z, 0.1), 0.2, 4.0);
}
`

const particleDrawFragSrc = `
#version 410 core
in float vLife;
out vec4 outColor;

uniform vec4  uColor;
uniform float uOpacity;

void main() {
    float d = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float alpha = clamp(1.0 - d * d, 0.0, 1.0);
    alpha *= clamp(vLife, 0.0, 1.0);
    outColor = vec4(uColor.rgb, uColor.a * uOpacity * alpha);
}
`

func newParticleSim(field *particles.Field) (*particleSim, error) {
	side := int32(math.Ceil(math.Sqrt(float64(field.Count()))))
	if side < 1 {
		side = 1
	}

	ps := &particleSim{
		field:    field,
		side:     side,
		simLocs:  make(uniformLocations),
		drawLocs: make(uniformLocations),
	}

	var err error
	if ps.simProg, err = newProgram(particleSimVertSrc, particleSimFragSrc); err != nil {
		return nil, fmt.Errorf("particle sim shader: %w", err)
	}
	if ps.drawProg, err = newProgram(particleDrawVertSrc, particleDrawFragSrc); err != nil {
		gl.DeleteProgram(ps.simProg)
		return nil, fmt.Errorf("particle draw shader: %w", err)
	}

	gl.GenVertexArrays(1, &ps.quadVAO)
	gl.GenVertexArrays(1, &ps.drawVAO)

	// Seed both state sets from the CPU field so the first frames match
	// the simulation the tests observe.
	posData := make([]float32, side*side*4)
	velData := make([]float32, side*side*4)
	for i := 0; i < field.Count(); i++ {
		p := field.Positions[i]
		v := field.Velocities[i]
		posData[i*4+0] = p.X()
		posData[i*4+1] = p.Y()
		posData[i*4+2] = p.Z()
		posData[i*4+3] = field.Lifetimes[i]
		velData[i*4+0] = v.X()
		velData[i*4+1] = v.Y()
		velData[i*4+2] = v.Z()
	}

	for i := 0; i < 2; i++ {
		ps.posTex[i] = newStateTexture(side, posData)
		ps.velTex[i] = newStateTexture(side, velData)

		gl.GenFramebuffers(1, &ps.stateFBO[i])
		gl.BindFramebuffer(gl.FRAMEBUFFER, ps.stateFBO[i])
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, ps.posTex[i], 0)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT1, gl.TEXTURE_2D, ps.velTex[i], 0)
		bufs := [2]uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1}
		gl.DrawBuffers(2, &bufs[0])
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return ps, nil
}

func newStateTexture(side int32, data []float32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, side, side, 0,
		gl.RGBA, gl.FLOAT, gl.Ptr(data))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// step advances the state one frame on the GPU.
func (ps *particleSim) step(dt, t float64) {
	cfg := ps.field.Config()
	back := 1 - ps.front

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.BindFramebuffer(gl.FRAMEBUFFER, ps.stateFBO[back])
	gl.Viewport(0, 0, ps.side, ps.side)

	gl.UseProgram(ps.simProg)
	gl.Uniform1i(ps.simLocs.locate(ps.simProg, "tPos"), 0)
	gl.Uniform1i(ps.simLocs.locate(ps.simProg, "tVel"), 1)
	gl.Uniform1f(ps.simLocs.locate(ps.simProg, "uDt"), float32(dt)*cfg.Speed)
	gl.Uniform1f(ps.simLocs.locate(ps.simProg, "uTime"), float32(t))
	gl.Uniform3f(ps.simLocs.locate(ps.simProg, "uGravity"),
		cfg.Gravity.X(), cfg.Gravity.Y(), cfg.Gravity.Z())
	gl.Uniform1f(ps.simLocs.locate(ps.simProg, "uDamping"), cfg.Damping)
	gl.Uniform1f(ps.simLocs.locate(ps.simProg, "uExtent"), cfg.Extent)
	gl.Uniform1f(ps.simLocs.locate(ps.simProg, "uMinLife"), cfg.MinLife)
	gl.Uniform1f(ps.simLocs.locate(ps.simProg, "uMaxLife"), cfg.MaxLife)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, ps.posTex[ps.front])
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, ps.velTex[ps.front])

	gl.BindVertexArray(ps.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	ps.front = back
	gl.Enable(gl.DEPTH_TEST)
}

// draw renders the field as points into the currently bound target.
func (ps *particleSim) draw(view, proj mgl32.Mat4, pixelRatio float32) {
	cfg := ps.field.Config()
	color := ps.field.Color()

	gl.Enable(gl.BLEND)
	if cfg.Additive {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	} else {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	gl.DepthMask(false)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	gl.UseProgram(ps.drawProg)
	gl.Uniform1i(ps.drawLocs.locate(ps.drawProg, "tPos"), 0)
	gl.Uniform1i(ps.drawLocs.locate(ps.drawProg, "uSide"), ps.side)
	gl.UniformMatrix4fv(ps.drawLocs.locate(ps.drawProg, "uView"), 1, false, &view[0])
	gl.UniformMatrix4fv(ps.drawLocs.locate(ps.drawProg, "uProjection"), 1, false, &proj[0])
	gl.Uniform1f(ps.drawLocs.locate(ps.drawProg, "uSize"), cfg.Size)
	gl.Uniform1f(ps.drawLocs.locate(ps.drawProg, "uPixelRatio"), pixelRatio)
	gl.Uniform4f(ps.drawLocs.locate(ps.drawProg, "uColor"), color.R, color.G, color.B, color.A)
	gl.Uniform1f(ps.drawLocs.locate(ps.drawProg, "uOpacity"), ps.field.Opacity())

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, ps.posTex[ps.front])

	gl.BindVertexArray(ps.drawVAO)
	gl.DrawArrays(gl.POINTS, 0, int32(ps.field.Count()))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (ps *particleSim) destroy() {
	for i := 0; i < 2; i++ {
		gl.DeleteFramebuffers(1, &ps.stateFBO[i])
		gl.DeleteTextures(1, &ps.posTex[i])
		gl.DeleteTextures(1, &ps.velTex[i])
	}
	gl.DeleteProgram(ps.simProg)
	gl.DeleteProgram(ps.drawProg)
	gl.DeleteVertexArrays(1, &ps.quadVAO)
	gl.DeleteVertexArrays(1, &ps.drawVAO)
}
