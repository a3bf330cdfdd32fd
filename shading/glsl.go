package shading

import "github.com/chewxy/math32"

// Vec2 is a float32 pair with the GLSL vec2 operations the kernel needs.
type Vec2 struct {
	X, Y float32
}

func V2(x, y float32) Vec2 { return Vec2{x, y} }

func (a Vec2) Add(b Vec2) Vec2        { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2        { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Mul(b Vec2) Vec2        { return Vec2{a.X * b.X, a.Y * b.Y} }
func (a Vec2) Div(b Vec2) Vec2        { return Vec2{a.X / b.X, a.Y / b.Y} }
func (a Vec2) Scale(k float32) Vec2   { return Vec2{a.X * k, a.Y * k} }
func (a Vec2) AddScalar(k float32) Vec2 { return Vec2{a.X + k, a.Y + k} }
func (a Vec2) Abs() Vec2              { return Vec2{math32.Abs(a.X), math32.Abs(a.Y)} }
func (a Vec2) Len() float32           { return math32.Hypot(a.X, a.Y) }
func (a Vec2) MinElem() float32       { return min(a.X, a.Y) }
func (a Vec2) MaxElem() float32       { return max(a.X, a.Y) }

// Max returns the element-wise maximum of a and (k, k).
func (a Vec2) Max(k float32) Vec2 { return Vec2{max(a.X, k), max(a.Y, k)} }

// Rotate applies mat2(c, s, -s, c), a counter-clockwise rotation.
func (a Vec2) Rotate(sin, cos float32) Vec2 {
	return Vec2{cos*a.X - sin*a.Y, sin*a.X + cos*a.Y}
}

// Floor and Fract act element-wise.
func (a Vec2) Floor() Vec2 { return Vec2{math32.Floor(a.X), math32.Floor(a.Y)} }
func (a Vec2) Fract() Vec2 { return Vec2{fract(a.X), fract(a.Y)} }

const (
	pi    = math32.Pi
	twoPi = 2 * math32.Pi
	// eps guards denominators that may vanish.
	eps = 1e-6
)

func clamp(x, lo, hi float32) float32 { return min(max(x, lo), hi) }

func clamp01(x float32) float32 { return clamp(x, 0, 1) }

func mix(a, b, t float32) float32 { return a + (b-a)*t }

func fract(x float32) float32 { return x - math32.Floor(x) }

// step is 0 below edge and 1 from edge up.
func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// mod follows GLSL: x - y*floor(x/y).
func mod(x, y float32) float32 { return x - y*math32.Floor(x/y) }

// smoothstep is the Hermite ramp. Coincident edges degrade to the limit of a
// vanishing ramp: 0 up to the edge and 1 past it.
func smoothstep(e0, e1, x float32) float32 {
	if e0 == e1 {
		if x > e0 {
			return 1
		}
		return 0
	}
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}
