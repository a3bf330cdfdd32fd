// Package shader holds the GPU sources of the pulsing border: an ESSL 300
// program for the GL backend and a Kage program for the ebiten backend.
package shader

import (
	_ "embed"
	"fmt"
)

// ──────────────────────────────────── GLES ──────────────────────────────────────

// The vertex stage computes the layout transform; varyings are affine in the
// clip position, so interpolation reproduces the per-pixel result exactly.
const borderVertexSource = `#version 300 es
precision highp float;

layout(location = 0) in vec2 a_position;

uniform vec2  u_resolution;
uniform float u_pixelRatio;
uniform float u_originX;
uniform float u_originY;
uniform float u_worldWidth;
uniform float u_worldHeight;
uniform float u_fit;
uniform float u_scale;
uniform float u_rotation;
uniform float u_offsetX;
uniform float u_offsetY;

out vec2 v_responsiveUV;
out vec2 v_givenSize;
out vec2 v_patternUV;

// xy: fitted box, z: box width before fitting
vec3 fitBox(float ratio, vec2 given) {
    float w = ratio * min(given.x / ratio, given.y);
    float natural = w;
    if (u_fit == 1.0) {
        w = ratio * min(u_resolution.x / ratio, u_resolution.y);
    } else if (u_fit == 2.0) {
        w = ratio * max(u_resolution.x / ratio, u_resolution.y);
    }
    return vec3(w, w / ratio, natural);
}

void main() {
    gl_Position = vec4(a_position, 0.0, 1.0);

    vec2 uv = 0.5 * a_position;
    vec2 boxOrigin = vec2(0.5 - u_originX, u_originY - 0.5);
    float pr = max(u_pixelRatio, 1e-6);
    vec2 world = max(vec2(u_worldWidth, u_worldHeight), vec2(1.0)) * pr;
    v_givenSize = vec2(
        u_worldWidth == 0.0 ? u_resolution.x : world.x,
        u_worldHeight == 0.0 ? u_resolution.y : world.y);

    float ratio = max(v_givenSize.x / max(v_givenSize.y, 1e-6), 1e-6);
    vec3 box = fitBox(ratio, v_givenSize);
    vec2 boxScale = u_resolution / max(box.xy, vec2(1e-6));
    float scale = abs(u_scale) < 1e-6 ? 1e-6 : u_scale;
    float r = u_rotation * 3.14159265358979 / 180.0;
    mat2 rot = mat2(cos(r), sin(r), -sin(r), cos(r));
    vec2 offset = vec2(-u_offsetX, u_offsetY);

    vec2 resp = uv * boxScale + boxOrigin * (boxScale - 1.0) + offset;
    resp /= scale;
    resp.x *= ratio;
    resp = rot * resp;
    resp.x /= ratio;
    v_responsiveUV = resp;

    vec2 originShift = boxOrigin / boxScale;
    vec2 pat = uv + offset / boxScale + boxOrigin - originShift;
    pat *= u_resolution / pr;
    if (u_fit > 0.0) {
        pat *= box.z / max(box.x, 1e-6);
    }
    pat /= scale;
    pat = rot * pat;
    pat += originShift - boxOrigin;
    v_patternUV = 0.01 * pat;
}
`

const borderFragmentSource = `#version 300 es
precision highp float;

uniform float u_time;
uniform vec4  u_colorBack;
uniform vec4  u_colors[5];
uniform float u_colorsCount;
uniform float u_roundness;
uniform float u_thickness;
uniform vec4  u_margins; // left, right, top, bottom
uniform float u_aspectRatio;
uniform float u_softness;
uniform float u_intensity;
uniform float u_bloom;
uniform float u_spots;
uniform float u_spotSize;
uniform float u_pulse;
uniform float u_smoke;
uniform float u_smokeSize;
// border-space distance between horizontally and vertically adjacent pixels
uniform vec2  u_pixelStepX;
uniform vec2  u_pixelStepY;

uniform sampler2D u_noiseTexture;

in vec2 v_responsiveUV;
in vec2 v_givenSize;
in vec2 v_patternUV;

out vec4 fragColor;

const float TWO_PI = 6.28318530718;

vec2  g_halfSize;
float g_radius;

float sst(float e0, float e1, float x) {
    if (e0 == e1) {
        return x > e0 ? 1.0 : 0.0;
    }
    float t = clamp((x - e0) / (e1 - e0), 0.0, 1.0);
    return t * t * (3.0 - 2.0 * t);
}

float beat(float t) {
    float first = pow(abs(sin(t * TWO_PI)), 10.0);
    float second = pow(abs(sin((t - 0.15) * TWO_PI)), 10.0);
    return clamp(first + 0.6 * second, 0.0, 1.0);
}

vec4 lattice(vec2 p) {
    return texture(u_noiseTexture, fract(floor(p) * 0.01 + 0.5));
}

float valueNoise(vec2 st) {
    vec2 i = floor(st);
    vec2 f = fract(st);
    float a = lattice(i).g;
    float b = lattice(i + vec2(1.0, 0.0)).g;
    float c = lattice(i + vec2(0.0, 1.0)).g;
    float d = lattice(i + vec2(1.0, 1.0)).g;
    vec2 u = f * f * (3.0 - 2.0 * f);
    return mix(mix(a, b, u.x), mix(c, d, u.x), u.y);
}

// x: signed distance to the outline, y: corner distance
vec2 sdf(vec2 uv) {
    vec2 d = abs(uv) - g_halfSize + g_radius;
    float inner = max(d.x, d.y);
    return vec2(
        length(max(d, 0.0001)) - g_radius + min(inner, 0.0001),
        abs(min(inner - 0.45 * g_radius, 0.0)));
}

float ring(vec2 uv, vec2 s, vec2 fw, float th, float softness) {
    float aa = 2.0 * fw.x;
    float edge = mix(th, -th, softness);
    float border = 1.0 - sst(min(edge, th + aa), max(edge, th + aa), abs(s.x));

    float inv = 1.0 / max(th, 1e-6);
    vec2 hs = g_halfSize;
    float circles = 0.0;
    circles = mix(1.0, circles, sst(0.0, 1.0, length(uv + hs) * inv));
    circles = mix(1.0, circles, sst(0.0, 1.0, length(uv - vec2(-hs.x, hs.y)) * inv));
    circles = mix(1.0, circles, sst(0.0, 1.0, length(uv - vec2(hs.x, -hs.y)) * inv));
    circles = mix(1.0, circles, sst(0.0, 1.0, length(uv - hs) * inv));
    return border + sst(0.0, mix(fw.y, th, softness), s.y) * circles;
}

void main() {
    float t = 1.2 * (u_time + 109.0);
    float pulse = u_pulse * beat(0.18 * u_time);

    float cr = v_givenSize.x / max(v_givenSize.y, 1e-6);
    vec2 stretch = vec2(max(cr, 1.0), 1.0 / max(min(cr, 1.0), 1e-6));
    vec2 hs = 0.5 * stretch;

    float mL = u_margins.x;
    float mR = u_margins.y;
    float mT = u_margins.z;
    float mB = u_margins.w;
    if (u_aspectRatio > 0.0) {
        float shape = cr * (1.0 - mL - mR) / max(1.0 - mT - mB, 1e-6);
        float freeX = shape > 1.0 ? (1.0 - mL - mR) * (1.0 - 1.0 / max(abs(shape), 1e-6)) : 0.0;
        float freeY = shape < 1.0 ? (1.0 - mT - mB) * (1.0 - shape) : 0.0;
        mL += 0.5 * freeX;
        mR += 0.5 * freeX;
        mT += 0.5 * freeY;
        mB += 0.5 * freeY;
    }

    float thickness = 0.5 * u_thickness * min(hs.x, hs.y);
    hs *= vec2(1.0 - (mL + mR), 1.0 - (mT + mB));
    vec2 centerShift = vec2(mL - mR, mB - mT) * stretch * 0.5;
    hs -= mix(thickness, 0.0, u_softness);
    g_halfSize = hs;
    g_radius = u_roundness * min(hs.x, hs.y);

    vec2 uv = v_responsiveUV * stretch - centerShift;
    vec2 s = sdf(uv);
    vec2 fw = abs(sdf(uv + u_pixelStepX) - s) + abs(sdf(uv + u_pixelStepY) - s);

    float border = ring(uv, s, fw, mix(thickness, 3.0 * thickness, u_softness), u_softness);
    border = pow(border, 1.0 + u_softness);

    float smokeWeight = mix(0.0, 0.5, u_smoke * u_smoke) * mix(1.0, pulse, u_pulse);
    if (smokeWeight != 0.0) {
        vec2 st = 0.3 * u_smokeSize * v_patternUV;
        float v = clamp(3.0 * valueNoise(2.7 * st + 0.5 * t), 0.0, 1.0) - valueNoise(3.4 * st - 0.5 * t);
        v *= ring(uv, s, fw, clamp(thickness + 0.2, 0.1, 0.4), 1.0);
        border += clamp(30.0 * v * v * smokeWeight, 0.0, 1.0);
    }
    border = clamp(border, 0.0, 1.0);

    vec3 blendColor = vec3(0.0);
    float blendAlpha = 0.0;
    vec3 addColor = vec3(0.0);
    float addAlpha = 0.0;

    float intensity = 1.0 + (1.0 + 4.0 * u_softness) * u_intensity;
    float angle = atan(uv.y, uv.x) / TWO_PI;
    float sizeBase = 0.05 + 0.6 * u_spotSize * u_spotSize;

    for (int ci = 0; ci < 5; ci++) {
        if (float(ci) >= u_colorsCount) break;
        float cf = float(ci);
        vec4 col = u_colors[ci];

        for (int si = 0; si < 4; si++) {
            if (float(si) >= u_spots) break;
            float sf = float(si);

            vec2 rv = lattice(vec2(sf * 10.0 + 2.0, 40.0 + cf)).gb;
            float phase = (0.1 + 0.15 * abs(sin(sf * (2.0 + cf)) * cos(sf * (2.0 + 2.5 * cf)))) * t + 3.0 * rv.x;
            phase *= mix(1.0, -1.0, step(0.5, rv.y));

            float mask = 0.5 + 0.5 * mix(
                sin(t + sf * (5.0 - 1.5 * cf)),
                cos(t + sf * (3.0 + 1.3 * cf)),
                step(mod(cf, 2.0), 0.5));
            float p = clamp(2.0 * u_pulse - rv.x, 0.0, 1.0);
            mask = mix(mask, pulse, p);
            float size = mix(sizeBase + 0.05 * rv.x, 0.1, p);

            float a = fract(angle + phase);
            float sector = sst(0.5 - size, 0.5, a) * (1.0 - sst(0.5, 0.5 + size, a));
            sector = clamp(sector * mask * border * intensity, 0.0, 1.0);

            vec3 src = col.rgb * col.a * sector;
            float srcAlpha = col.a * sector;
            blendColor += (1.0 - blendAlpha) * src;
            blendAlpha += (1.0 - blendAlpha) * srcAlpha;
            addColor += src;
            addAlpha += srcAlpha;
        }
    }

    float accumAlpha = clamp(mix(blendAlpha, addAlpha, u_bloom), 0.0, 1.0);
    vec3 color = mix(blendColor, addColor, u_bloom) + (1.0 - accumAlpha) * u_colorBack.rgb * u_colorBack.a;
    float opacity = accumAlpha + (1.0 - accumAlpha) * u_colorBack.a;

    float h = sin(0.014 * dot(gl_FragCoord.xy, vec2(12.9898, 78.233)));
    color += (fract(h * 43758.5453) - 0.5) / 256.0;

    fragColor = vec4(clamp(color, 0.0, 1.0), clamp(opacity, 0.0, 1.0));
}
`

// ────────────────────────────────── Kage ───────────────────────────────────────

//go:embed border_kage.go
var borderKage []byte

// ────────────────────────────────── Public API ─────────────────────────────────

// VertexSource returns the ESSL 300 vertex stage.
func VertexSource() string {
	return borderVertexSource
}

// FragmentSource returns the ESSL 300 fragment stage.
func FragmentSource() string {
	return borderFragmentSource
}

// Kage returns the Kage source of the border program. The caller owns the
// returned slice.
func Kage() []byte {
	return append([]byte(nil), borderKage...)
}

// Uniform names of the ESSL program, in upload order.
const (
	Resolution   = "u_resolution"
	PixelRatio   = "u_pixelRatio"
	OriginX      = "u_originX"
	OriginY      = "u_originY"
	WorldWidth   = "u_worldWidth"
	WorldHeight  = "u_worldHeight"
	Fit          = "u_fit"
	Scale        = "u_scale"
	Rotation     = "u_rotation"
	OffsetX      = "u_offsetX"
	OffsetY      = "u_offsetY"
	Time         = "u_time"
	ColorBack    = "u_colorBack"
	Colors       = "u_colors"
	ColorsCount  = "u_colorsCount"
	Roundness    = "u_roundness"
	Thickness    = "u_thickness"
	Margins      = "u_margins"
	AspectRatio  = "u_aspectRatio"
	Softness     = "u_softness"
	Intensity    = "u_intensity"
	Bloom        = "u_bloom"
	Spots        = "u_spots"
	SpotSize     = "u_spotSize"
	Pulse        = "u_pulse"
	Smoke        = "u_smoke"
	SmokeSize    = "u_smokeSize"
	PixelStepX   = "u_pixelStepX"
	PixelStepY   = "u_pixelStepY"
	NoiseTexture = "u_noiseTexture"
)

// UniformNames lists every uniform of the ESSL program.
var UniformNames = []string{
	Resolution, PixelRatio, OriginX, OriginY, WorldWidth, WorldHeight, Fit,
	Scale, Rotation, OffsetX, OffsetY, Time, ColorBack, Colors, ColorsCount,
	Roundness, Thickness, Margins, AspectRatio, Softness, Intensity, Bloom,
	Spots, SpotSize, Pulse, Smoke, SmokeSize, PixelStepX, PixelStepY,
	NoiseTexture,
}

// KageName maps an ESSL uniform name to the exported Kage variable.
func KageName(name string) (string, error) {
	if len(name) < 3 || name[:2] != "u_" {
		return "", fmt.Errorf("not a border uniform: %q", name)
	}
	b := []byte(name[2:])
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b), nil
}
