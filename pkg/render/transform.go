package render

import (
	"math"

	"github.com/taigrr/swraster/pkg/math3d"
)

// LookAt builds a standard right-handed view matrix. Forward
// z = normalize(eye-center), right x = normalize(cross(up, z)),
// y = cross(z, x).
func LookAt(eye, center, up math3d.Vec3) math3d.Mat4 {
	return math3d.LookAt(eye, center, up)
}

// Projection builds a simple perspective matrix with no explicit near/far
// or field-of-view parameters: projection[3][2] = -1/|eye-center|. The
// depth buffer stores the pre-divide NDC z directly, so only this single
// row-3 term is needed to produce the perspective w.
func Projection(eye, center math3d.Vec3) math3d.Mat4 {
	m := math3d.Identity()
	dist := eye.Sub(center).Len()
	m.Set(3, 2, -1/dist)
	return m
}

// Viewport maps NDC in [-1,1] to the rectangle [x,x+w]x[y,y+h] in the
// framebuffer. Depth is mapped into a 0..255-style range; the exact depth
// scale doesn't matter because the z-buffer keeps the pre-divide NDC z.
func Viewport(x, y, w, h float64) math3d.Mat4 {
	m := math3d.Identity()
	m.Set(0, 0, w/2)
	m.Set(1, 1, h/2)
	m.Set(2, 2, 127.5)
	m.Set(0, 3, x+w/2)
	m.Set(1, 3, y+h/2)
	m.Set(2, 3, 127.5)
	return m
}

// RotateXDeg rotates about the X axis by an angle in degrees.
func RotateXDeg(deg float64) math3d.Mat4 {
	return math3d.RotateX(deg * math.Pi / 180)
}

// RotateYDeg rotates about the Y axis by an angle in degrees.
func RotateYDeg(deg float64) math3d.Mat4 {
	return math3d.RotateY(deg * math.Pi / 180)
}

// Translate builds a translation matrix.
func Translate(v math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(v)
}

// Scale builds a scaling matrix.
func Scale(v math3d.Vec3) math3d.Mat4 {
	return math3d.Scale(v)
}

// Identity returns the identity matrix.
func Identity() math3d.Mat4 {
	return math3d.Identity()
}
