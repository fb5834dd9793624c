package materials

// Shared surface vertex shader. Emits view-space normal (for matcap and
// fresnel terms), UV, and the view direction.
const surfaceVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPos;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;     // world-space
out vec3 vViewNormal; // view-space, for matcap lookup
out vec2 vUV;
out vec3 vViewDir;    // world-space, surface → camera

void main() {
    vec4 worldPos = uModel * vec4(inPos, 1.0);
    mat3 normalMat = mat3(transpose(inverse(uModel)));

    vNormal     = normalize(normalMat * inNormal);
    vViewNormal = normalize(mat3(uView) * vNormal);
    vUV         = inUV;

    vec3 camPos = inverse(uView)[3].xyz;
    vViewDir    = normalize(camPos - worldPos.xyz);

    gl_Position = uProjection * uView * worldPos;
}
`

// earphone-glass: matcap mixed with a fresnel rim; emissive mask gated by
// uEmissiveTransition; fluid-cursor displacement shifts the matcap lookup.
// Alpha blends base opacity toward 1 at grazing angles.
const glassFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vViewNormal;
in vec2 vUV;
in vec3 vViewDir;
out vec4 outColor;

uniform sampler2D tMatcap;
uniform sampler2D tEmissiveMask;
uniform vec3  COLOR_FRESNEL;
uniform float uFresnelPower;
uniform float uEmissiveTransition;
uniform float uOpacity;
uniform vec2  uFluidOffset;
uniform float uTime;

void main() {
    vec2 matcapUV = vViewNormal.xy * 0.5 + 0.5 + uFluidOffset * 0.05;
    vec3 matcap   = texture(tMatcap, matcapUV).rgb;

    float fresnel = pow(1.0 - clamp(dot(vNormal, vViewDir), 0.0, 1.0), uFresnelPower);
    vec3  color   = mix(matcap, COLOR_FRESNEL, fresnel);

    float mask = texture(tEmissiveMask, vUV).r;
    color += COLOR_FRESNEL * mask * uEmissiveTransition;

    float alpha = mix(uOpacity, 1.0, fresnel);
    outColor = vec4(color, alpha);
}
`

// earphone-base: environment light term attenuated by the per-channel
// volume-shadow masks, crossfaded by uFresnelTransition into a
// fresnel-dominated color.
const baseFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vViewNormal;
in vec2 vUV;
in vec3 vViewDir;
out vec4 outColor;

uniform sampler2D tVolumeShadow;
uniform sampler2D tNormal;
uniform vec3  uEnvColor;
uniform vec3  COLOR_FRESNEL;
uniform float uFresnelPower;
uniform float uFresnelTransition;
uniform float uTime;

void main() {
    vec3 shadowMasks = texture(tVolumeShadow, vUV).rgb;

    // Perturb the surface normal with the baked normal map (object-space approximation).
    vec3 mapN   = texture(tNormal, vUV).rgb * 2.0 - 1.0;
    vec3 normal = normalize(vNormal + mapN * 0.35);

    float up  = normal.y * 0.5 + 0.5;
    vec3  env = uEnvColor * up;
    env -= uEnvColor * shadowMasks * vec3(0.8, 0.6, 0.4);

    float fresnel = pow(1.0 - clamp(dot(normal, vViewDir), 0.0, 1.0), uFresnelPower);
    vec3  rimmed  = mix(env, COLOR_FRESNEL, fresnel);

    vec3 color = mix(env + COLOR_FRESNEL * fresnel * 0.3, rimmed, uFresnelTransition);
    outColor = vec4(color, 1.0);
}
`

// core: domain-warped noise thresholded into plasma cells, summed with a
// fresnel rim, mixed between COLOR_PURPLE and white.
const coreFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vViewNormal;
in vec2 vUV;
in vec3 vViewDir;
out vec4 outColor;

uniform sampler2D tNoise;
uniform vec3  COLOR_PURPLE;
uniform float uNoiseScale;
uniform float uThreshold;
uniform float uFresnelPower;
uniform float uTime;

void main() {
    // Domain warp: offset the lookup by a second, slower noise read.
    vec2 warp = texture(tNoise, vUV * uNoiseScale * 0.25 + uTime * 0.02).rg - 0.5;
    float n   = texture(tNoise, vUV * uNoiseScale + warp * 0.6 + uTime * 0.05).r;

    float cells   = smoothstep(uThreshold, uThreshold + 0.12, n);
    float fresnel = pow(1.0 - clamp(dot(vNormal, vViewDir), 0.0, 1.0), uFresnelPower);
    float energy  = clamp(cells + fresnel, 0.0, 1.0);

    vec3 color = mix(COLOR_PURPLE, vec3(1.0), energy * energy);
    outColor = vec4(color, 1.0);
}
`

// tube: three line lattices in UV space (horizontal, vertical, sheared)
// composited with a soft edge fade. uLineSize sets lattice thickness,
// uBokeh softens the lines.
const tubeFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vViewNormal;
in vec2 vUV;
in vec3 vViewDir;
out vec4 outColor;

uniform vec3  uColor;
uniform float uLineSize;
uniform float uBokeh;
uniform float uTime;

float lattice(float coord, float size, float soft) {
    float d = abs(fract(coord) - 0.5);
    return 1.0 - smoothstep(size, size + soft, d);
}

void main() {
    float soft = uBokeh * 0.2 + 0.001;

    float horizontal = lattice(vUV.y * 24.0 + uTime * 0.6, uLineSize * 24.0, soft * 24.0);
    float vertical   = lattice(vUV.x * 12.0,               uLineSize * 12.0, soft * 12.0);
    float sheared    = lattice((vUV.x + vUV.y) * 18.0 - uTime * 0.3, uLineSize * 18.0, soft * 18.0);

    float lines = max(horizontal * 0.6, max(vertical * 0.35, sheared * 0.5));

    // Fade toward the tube's open ends.
    float fade = smoothstep(0.0, 0.15, vUV.y) * smoothstep(1.0, 0.85, vUV.y);

    outColor = vec4(uColor * lines, lines * fade);
}
`

// touchpad: radial gradient between COLOR_BASE and COLOR_CORNERS, with a
// pointer-following RGB-split visualiser revealed by uReveal.
const touchpadFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vViewNormal;
in vec2 vUV;
in vec3 vViewDir;
out vec4 outColor;

uniform sampler2D tNoise;
uniform vec3  COLOR_BASE;
uniform vec3  COLOR_CORNERS;
uniform vec3  COLOR_VISUALISER;
uniform vec2  uPointer;
uniform float uReveal;
uniform float uFrequency;
uniform float uTime;

void main() {
    float radial = length(vUV - 0.5) * 1.4142;
    vec3 color = mix(COLOR_BASE, COLOR_CORNERS, clamp(radial, 0.0, 1.0));

    // RGB-split ripple around the pointer, each channel sampled with a
    // slightly shifted phase.
    vec2  toPointer = vUV - uPointer;
    float dist  = length(toPointer);
    float phase = dist * 24.0 * uFrequency - uTime * 4.0;

    float r = texture(tNoise, vUV + vec2(sin(phase) * 0.012, 0.0)).r;
    float g = texture(tNoise, vUV + vec2(0.0, sin(phase + 2.1) * 0.012)).r;
    float b = texture(tNoise, vUV - vec2(sin(phase + 4.2) * 0.012, 0.0)).r;

    float ring = exp(-dist * 6.0);
    vec3 split = vec3(r, g, b) * COLOR_VISUALISER * ring;

    color += split * uReveal;
    outColor = vec4(color, 1.0);
}
`

// silicone: base texture plus a rim-light term against a fixed key light.
const siliconeFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vViewNormal;
in vec2 vUV;
in vec3 vViewDir;
out vec4 outColor;

uniform sampler2D tMap;
uniform float uRimStrength;
uniform float uTime;

const vec3 LIGHT_DIR = normalize(vec3(0.4, 0.8, 0.45));

void main() {
    vec3 base = texture(tMap, vUV).rgb;

    float facing = clamp(dot(vNormal, LIGHT_DIR), 0.0, 1.0);
    float rim    = pow(1.0 - clamp(dot(vNormal, vViewDir), 0.0, 1.0), 3.0);

    vec3 color = base * (0.35 + 0.65 * facing) + vec3(rim) * uRimStrength;
    outColor = vec4(color, 1.0);
}
`

// error: unmistakable solid color, substituted for unknown template ids.
const errorFragSrc = `
#version 410 core
out vec4 outColor;
uniform vec3 uColor;
void main() {
    outColor = vec4(uColor, 1.0);
}
`
