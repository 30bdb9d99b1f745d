package render

import (
	"math"

	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/models"
	"github.com/taigrr/swraster/pkg/raster"
)

// DrawMesh draws every face of mesh into buffers under the given render
// state and shader. background is the owning model's background hue,
// threaded through to the shader for passes (like the flat shader) that
// derive their color from it rather than from a sampled texture. The
// object-space eye position used for backface culling is computed once
// per call, not once per face: it only depends on the model-view/
// projection pair, which is constant across the mesh.
func DrawMesh(mesh *models.Mesh, background raster.HSLA, state *RenderState, buffers *raster.OutputBuffers, shader *Shader) {
	shader.BeginPass(state, background)

	mvp := state.Projection.Mul(state.ModelView)
	viewPosObjSpace := math3d.Mat4Upper3x3(mvp).Inverse().MulVec3(state.Eye)

	for _, face := range mesh.Faces {
		v0 := mesh.Verts[face.PosIdx[0]]
		v1 := mesh.Verts[face.PosIdx[1]]
		v2 := mesh.Verts[face.PosIdx[2]]

		faceNormal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		if state.BackfaceCulling && faceNormal.Dot(v0.Sub(viewPosObjSpace)) >= 0 {
			continue
		}

		verts := [3]math3d.Vec3{v0, v1, v2}

		var clip [3]math3d.Vec4
		var screen [3]math3d.Vec3
		var ndc [3]math3d.Vec3
		var normal [3]math3d.Vec3
		var uv [3]math3d.Vec2

		useSmooth := state.SmoothShading && mesh.AllowLighting && len(mesh.Normals) > 0

		for k := range 3 {
			clip[k] = mvp.MulVec4(math3d.V4FromV3(verts[k], 1))
			ndc[k] = clip[k].PerspectiveDivide()
			screen[k] = state.Viewport.MulVec3(ndc[k])

			switch {
			case useSmooth:
				normal[k] = mesh.Normals[face.NormIdx[k]]
			case mesh.AllowLighting:
				normal[k] = faceNormal
			default:
				normal[k] = faceNormal
			}

			if len(mesh.UVs) > 0 {
				uv[k] = mesh.UVs[face.UVIdx[k]]
			}
		}

		shader.SetTriangle(ndc, uv, normal)
		drawTriangle(screen, clip, mesh, state, buffers, shader)
	}
}

// drawTriangle scan-converts one triangle already projected to screen
// space: bounding-box rasterization with the two-cross-product barycentric
// test, perspective-correct attribute interpolation, and a single z-buffer
// index shared by the color and depth buffers.
func drawTriangle(screen [3]math3d.Vec3, clip [3]math3d.Vec4, mesh *models.Mesh, state *RenderState, buffers *raster.OutputBuffers, shader *Shader) {
	p0 := math3d.V2(screen[0].X, screen[0].Y)
	p1 := math3d.V2(screen[1].X, screen[1].Y)
	p2 := math3d.V2(screen[2].X, screen[2].Y)

	minX := int(math.Floor(minOf3(p0.X, p1.X, p2.X)))
	maxX := int(math.Ceil(maxOf3(p0.X, p1.X, p2.X)))
	minY := int(math.Floor(minOf3(p0.Y, p1.Y, p2.Y)))
	maxY := int(math.Ceil(maxOf3(p0.Y, p1.Y, p2.Y)))

	minX = clampInt(minX, 0, buffers.FrameBuffer.Width-1)
	maxX = clampInt(maxX, 0, buffers.FrameBuffer.Width-1)
	minY = clampInt(minY, 0, buffers.FrameBuffer.Height-1)
	maxY = clampInt(maxY, 0, buffers.FrameBuffer.Height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math3d.V2(float64(x), float64(y))

			bc, ok := barycentric(p0, p1, p2, p)
			if !ok || bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			// Depth is interpolated from the pre-divide clip-space z, not the
			// viewport-mapped screen z: perspective divide is non-linear in w,
			// so interpolating the post-divide z with screen-space barycentrics
			// can flip depth ordering between fragments at different w.
			z := bc.X*clip[0].Z + bc.Y*clip[1].Z + bc.Z*clip[2].Z
			idx := buffers.ZIndex(x, y)
			if z <= buffers.ZBuffer[idx] {
				continue
			}

			pc := math3d.V3(bc.X/clip[0].W, bc.Y/clip[1].W, bc.Z/clip[2].W)
			if sum := pc.X + pc.Y + pc.Z; sum != 0 {
				pc = pc.Scale(1 / sum)
			}

			color := shader.Fragment(pc, x, y, mesh, state)
			buffers.ZBuffer[idx] = z
			buffers.FrameBuffer.SetRGBA(x, y, color)
		}
	}

	if state.WireFrame {
		DrawLine(buffers.FrameBuffer, int(p0.X), int(p0.Y), int(p1.X), int(p1.Y), ColorOrange)
		DrawLine(buffers.FrameBuffer, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), ColorOrange)
		DrawLine(buffers.FrameBuffer, int(p2.X), int(p2.Y), int(p0.X), int(p0.Y), ColorOrange)
	}
}

// barycentric computes the barycentric coordinates of p against triangle
// p0,p1,p2 via the standard two-cross-product trick: stack the x and y
// edge differences into two vectors and cross them. ok is false for
// degenerate (near-zero-area) triangles.
func barycentric(p0, p1, p2, p math3d.Vec2) (bc math3d.Vec3, ok bool) {
	u := math3d.V3(p2.X-p0.X, p1.X-p0.X, p0.X-p.X).
		Cross(math3d.V3(p2.Y-p0.Y, p1.Y-p0.Y, p0.Y-p.Y))

	if math.Abs(u.Z) < 1 {
		return math3d.Vec3{}, false
	}

	return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z), true
}

// DrawLine draws a line from (x0,y0) to (x1,y1) with Bresenham's
// algorithm, bounded at 10000 steps as a guard against a malformed
// direction never reaching the endpoint.
func DrawLine(img *raster.Image, x0, y0, x1, y1 int, c raster.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)

	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	x, y := x0, y0

	for range 10000 {
		if img.InBounds(x, y) {
			img.SetRGBA(x, y, c)
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func minOf3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func maxOf3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
