package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"translink/scene"
)

// PostFX is the off-screen effect chain: the scene renders into an HDR
// target, a bright-pass plus separable blur builds the bloom layer, the
// grade pass tone maps (ACES) and applies the stage's color grade, and an
// FXAA pass resolves to the default framebuffer. Construction failure is
// not fatal to the app; the renderer falls back to drawing direct.
type PostFX struct {
	width  int32
	height int32

	// Scene target
	fbo      uint32
	colorTex uint32 // RGBA16F
	depthRB  uint32

	// Bloom ping-pong at half resolution
	bloomFBO [2]uint32
	bloomTex [2]uint32
	bloomW   int32
	bloomH   int32

	// LDR target between grade and FXAA
	ldrFBO uint32
	ldrTex uint32

	quadVAO uint32

	brightProg uint32
	blurProg   uint32
	gradeProg  uint32
	fxaaProg   uint32

	brightLocs uniformLocations
	blurLocs   uniformLocations
	gradeLocs  uniformLocations
	fxaaLocs   uniformLocations
}

const blurPasses = 4

// fxVertSrc draws a fullscreen triangle from gl_VertexID; no buffers.
const fxVertSrc = `
#version 410 core
out vec2 vUV;
void main() {
    const vec2 pos[3] = vec2[3](vec2(-1.0, -1.0), vec2(3.0, -1.0), vec2(-1.0, 3.0));
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    vUV = pos[gl_VertexID] * 0.5 + 0.5;
}
`

// brightFragSrc keeps pixels whose luminance clears the threshold, with a
// soft knee so the cut does not shimmer.
const brightFragSrc = `
#version 410 core
in vec2 vUV;
out vec4 outColor;

uniform sampler2D tScene;
uniform float uThreshold;

void main() {
    vec3 color = texture(tScene, vUV).rgb;
    float luma = dot(color, vec3(0.2126, 0.7152, 0.0722));
    float knee = uThreshold * 0.5;
    float soft = clamp((luma - uThreshold + knee) / max(2.0 * knee, 1e-4), 0.0, 1.0);
    outColor = vec4(color * soft * soft, 1.0);
}
`

// blurFragSrc is a single-axis 9-tap Gaussian. uDir carries the texel
// step scaled by the bloom radius.
const blurFragSrc = `
#version 410 core
in vec2 vUV;
out vec4 outColor;

uniform sampler2D tInput;
uniform vec2 uDir;

void main() {
    const float w[5] = float[](0.227027, 0.1945946, 0.1216216, 0.054054, 0.016216);
    vec3 result = texture(tInput, vUV).rgb * w[0];
    for (int i = 1; i < 5; i++) {
        result += texture(tInput, vUV + uDir * float(i)).rgb * w[i];
        result += texture(tInput, vUV - uDir * float(i)).rgb * w[i];
    }
    outColor = vec4(result, 1.0);
}
`

// gradeFragSrc composites bloom, applies chromatic aberration and
// vignette, tone maps with the ACES fit, then grades in display space.
const gradeFragSrc = `
#version 410 core
in vec2 vUV;
out vec4 outColor;

uniform sampler2D tScene;
uniform sampler2D tBloom;
uniform float uBloomStrength;
uniform float uExposure;
uniform float uBrightness;
uniform float uContrast;
uniform float uSaturation;
uniform float uAberration;
uniform float uVignette;

vec3 aces(vec3 x) {
    const float a = 2.51;
    const float b = 0.03;
    const float c = 2.43;
    const float d = 0.59;
    const float e = 0.14;
    return clamp((x * (a * x + b)) / (x * (c * x + d) + e), 0.0, 1.0);
}

void main() {
    vec2 centered = vUV - 0.5;

    vec3 hdr;
    if (uAberration > 0.0) {
        vec2 shift = centered * uAberration;
        hdr.r = texture(tScene, vUV + shift).r;
        hdr.g = texture(tScene, vUV).g;
        hdr.b = texture(tScene, vUV - shift).b;
    } else {
        hdr = texture(tScene, vUV).rgb;
    }

    hdr += texture(tBloom, vUV).rgb * uBloomStrength;

    vec3 color = aces(hdr * uExposure);
    color = pow(color, vec3(1.0 / 2.2));

    color += vec3(uBrightness);
    color = (color - 0.5) * uContrast + 0.5;
    float luma = dot(color, vec3(0.2126, 0.7152, 0.0722));
    color = mix(vec3(luma), color, uSaturation);

    if (uVignette > 0.0) {
        float d = length(centered) * 1.41421;
        color *= 1.0 - uVignette * smoothstep(0.4, 1.1, d);
    }

    outColor = vec4(clamp(color, 0.0, 1.0), 1.0);
}
`

// fxaaFragSrc is the standard luminance-based FXAA resolve.
const fxaaFragSrc = `
#version 410 core
in vec2 vUV;
out vec4 outColor;

uniform sampler2D tInput;
uniform vec2 uTexel;

float luma(vec3 c) { return dot(c, vec3(0.299, 0.587, 0.114)); }

void main() {
    vec3 rgbNW = texture(tInput, vUV + vec2(-1.0, -1.0) * uTexel).rgb;
    vec3 rgbNE = texture(tInput, vUV + vec2( 1.0, -1.0) * uTexel).rgb;
    vec3 rgbSW = texture(tInput, vUV + vec2(-1.0,  1.0) * uTexel).rgb;
    vec3 rgbSE = texture(tInput, vUV + vec2( 1.0,  1.0) * uTexel).rgb;
    vec3 rgbM  = texture(tInput, vUV).rgb;

    float lNW = luma(rgbNW);
    float lNE = luma(rgbNE);
    float lSW = luma(rgbSW);
    float lSE = luma(rgbSE);
    float lM  = luma(rgbM);

    float lMin = min(lM, min(min(lNW, lNE), min(lSW, lSE)));
    float lMax = max(lM, max(max(lNW, lNE), max(lSW, lSE)));

    vec2 dir = vec2(-((lNW + lNE) - (lSW + lSE)), ((lNW + lSW) - (lNE + lSE)));
    float dirReduce = max((lNW + lNE + lSW + lSE) * 0.25 * 0.125, 1.0 / 128.0);
    float rcpDirMin = 1.0 / (min(abs(dir.x), abs(dir.y)) + dirReduce);
    dir = clamp(dir * rcpDirMin, vec2(-8.0), vec2(8.0)) * uTexel;

    vec3 rgbA = 0.5 * (
        texture(tInput, vUV + dir * (1.0 / 3.0 - 0.5)).rgb +
        texture(tInput, vUV + dir * (2.0 / 3.0 - 0.5)).rgb);
    vec3 rgbB = rgbA * 0.5 + 0.25 * (
        texture(tInput, vUV + dir * -0.5).rgb +
        texture(tInput, vUV + dir *  0.5).rgb);

    float lB = luma(rgbB);
    if (lB < lMin || lB > lMax) {
        outColor = vec4(rgbA, 1.0);
    } else {
        outColor = vec4(rgbB, 1.0);
    }
}
`

func NewPostFX(width, height int) (*PostFX, error) {
	fx := &PostFX{
		brightLocs: make(uniformLocations),
		blurLocs:   make(uniformLocations),
		gradeLocs:  make(uniformLocations),
		fxaaLocs:   make(uniformLocations),
	}

	var err error
	if fx.brightProg, err = newProgram(fxVertSrc, brightFragSrc); err != nil {
		return nil, fmt.Errorf("bright-pass shader: %w", err)
	}
	if fx.blurProg, err = newProgram(fxVertSrc, blurFragSrc); err != nil {
		fx.Destroy()
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	if fx.gradeProg, err = newProgram(fxVertSrc, gradeFragSrc); err != nil {
		fx.Destroy()
		return nil, fmt.Errorf("grade shader: %w", err)
	}
	if fx.fxaaProg, err = newProgram(fxVertSrc, fxaaFragSrc); err != nil {
		fx.Destroy()
		return nil, fmt.Errorf("fxaa shader: %w", err)
	}

	gl.GenVertexArrays(1, &fx.quadVAO)
	fx.alloc(width, height)

	gl.BindFramebuffer(gl.FRAMEBUFFER, fx.fbo)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fx.Destroy()
		return nil, fmt.Errorf("effect framebuffer incomplete (0x%X)", status)
	}
	return fx, nil
}

// Bind makes the HDR scene target current. The renderer draws the frame,
// then calls Blit.
func (fx *PostFX) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fx.fbo)
	gl.Viewport(0, 0, fx.width, fx.height)
}

// Blit runs bloom, grade, and FXAA, ending on the default framebuffer.
func (fx *PostFX) Blit(cfg *scene.PostConfig) {
	if cfg == nil {
		cfg = scene.DefaultPostConfig()
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(fx.quadVAO)

	// Bright-pass into the first half-res target.
	gl.BindFramebuffer(gl.FRAMEBUFFER, fx.bloomFBO[0])
	gl.Viewport(0, 0, fx.bloomW, fx.bloomH)
	gl.UseProgram(fx.brightProg)
	gl.Uniform1i(fx.brightLocs.locate(fx.brightProg, "tScene"), 0)
	gl.Uniform1f(fx.brightLocs.locate(fx.brightProg, "uThreshold"), cfg.BloomThreshold)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fx.colorTex)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	// Separable blur, ping-ponging between the two targets. The stage's
	// bloom radius widens the texel step.
	gl.UseProgram(fx.blurProg)
	gl.Uniform1i(fx.blurLocs.locate(fx.blurProg, "tInput"), 0)
	dirLoc := fx.blurLocs.locate(fx.blurProg, "uDir")
	src, dst := 0, 1
	for i := 0; i < blurPasses*2; i++ {
		gl.BindFramebuffer(gl.FRAMEBUFFER, fx.bloomFBO[dst])
		if i%2 == 0 {
			gl.Uniform2f(dirLoc, cfg.BloomRadius/float32(fx.bloomW), 0)
		} else {
			gl.Uniform2f(dirLoc, 0, cfg.BloomRadius/float32(fx.bloomH))
		}
		gl.BindTexture(gl.TEXTURE_2D, fx.bloomTex[src])
		gl.DrawArrays(gl.TRIANGLES, 0, 3)
		src, dst = dst, src
	}
	// An even pass count leaves the result in bloomTex[0].

	// Grade into the LDR target.
	gl.BindFramebuffer(gl.FRAMEBUFFER, fx.ldrFBO)
	gl.Viewport(0, 0, fx.width, fx.height)
	gl.UseProgram(fx.gradeProg)
	gl.Uniform1i(fx.gradeLocs.locate(fx.gradeProg, "tScene"), 0)
	gl.Uniform1i(fx.gradeLocs.locate(fx.gradeProg, "tBloom"), 1)
	gl.Uniform1f(fx.gradeLocs.locate(fx.gradeProg, "uBloomStrength"), cfg.BloomStrength)
	gl.Uniform1f(fx.gradeLocs.locate(fx.gradeProg, "uExposure"), cfg.Exposure)
	gl.Uniform1f(fx.gradeLocs.locate(fx.gradeProg, "uBrightness"), cfg.Brightness)
	gl.Uniform1f(fx.gradeLocs.locate(fx.gradeProg, "uContrast"), cfg.Contrast)
	gl.Uniform1f(fx.gradeLocs.locate(fx.gradeProg, "uSaturation"), cfg.Saturation)
	gl.Uniform1f(fx.gradeLocs.locate(fx.gradeProg, "uAberration"), cfg.ChromaticAberration)
	gl.Uniform1f(fx.gradeLocs.locate(fx.gradeProg, "uVignette"), cfg.Vignette)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fx.colorTex)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, fx.bloomTex[0])
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	// FXAA resolve to the screen.
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, fx.width, fx.height)
	gl.UseProgram(fx.fxaaProg)
	gl.Uniform1i(fx.fxaaLocs.locate(fx.fxaaProg, "tInput"), 0)
	gl.Uniform2f(fx.fxaaLocs.locate(fx.fxaaProg, "uTexel"),
		1/float32(fx.width), 1/float32(fx.height))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fx.ldrTex)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// Resize drops every target and reallocates at the new pixel size.
func (fx *PostFX) Resize(width, height int) {
	if int32(width) == fx.width && int32(height) == fx.height {
		return
	}
	fx.free()
	fx.alloc(width, height)
}

func (fx *PostFX) alloc(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	fx.width = int32(width)
	fx.height = int32(height)

	fx.colorTex = newTarget(fx.width, fx.height, gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT)

	gl.GenRenderbuffers(1, &fx.depthRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fx.depthRB)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, fx.width, fx.height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &fx.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fx.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fx.colorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fx.depthRB)

	fx.bloomW = fx.width / 2
	if fx.bloomW < 1 {
		fx.bloomW = 1
	}
	fx.bloomH = fx.height / 2
	if fx.bloomH < 1 {
		fx.bloomH = 1
	}
	for i := 0; i < 2; i++ {
		fx.bloomTex[i] = newTarget(fx.bloomW, fx.bloomH, gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT)
		gl.GenFramebuffers(1, &fx.bloomFBO[i])
		gl.BindFramebuffer(gl.FRAMEBUFFER, fx.bloomFBO[i])
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fx.bloomTex[i], 0)
	}

	fx.ldrTex = newTarget(fx.width, fx.height, gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE)
	gl.GenFramebuffers(1, &fx.ldrFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fx.ldrFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fx.ldrTex, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func newTarget(w, h int32, internal int32, format, typ uint32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, w, h, 0, format, typ, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (fx *PostFX) free() {
	gl.DeleteFramebuffers(1, &fx.fbo)
	gl.DeleteTextures(1, &fx.colorTex)
	gl.DeleteRenderbuffers(1, &fx.depthRB)
	for i := 0; i < 2; i++ {
		gl.DeleteFramebuffers(1, &fx.bloomFBO[i])
		gl.DeleteTextures(1, &fx.bloomTex[i])
	}
	gl.DeleteFramebuffers(1, &fx.ldrFBO)
	gl.DeleteTextures(1, &fx.ldrTex)
}

// Destroy releases every GPU resource the chain owns.
func (fx *PostFX) Destroy() {
	fx.free()
	for _, prog := range []uint32{fx.brightProg, fx.blurProg, fx.gradeProg, fx.fxaaProg} {
		if prog != 0 {
			gl.DeleteProgram(prog)
		}
	}
	if fx.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &fx.quadVAO)
	}
}
