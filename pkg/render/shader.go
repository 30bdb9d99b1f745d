package render

import (
	"math"

	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/models"
	"github.com/taigrr/swraster/pkg/raster"
)

// ShaderKind selects a shader's fragment algorithm. Shaders are a tagged
// union rather than an interface with virtual dispatch: a single Shader
// value carries every kind's scratch state, and BeginPass/SetTriangle/
// Fragment switch on Kind. This keeps a shader's per-triangle state a
// plain argument instead of a back-pointer into the renderer, which is
// what the pixel-art pipeline this rasterizer is modeled on used to need a
// virtual base class for.
type ShaderKind int

const (
	ShaderKindBlinnNormalMap ShaderKind = iota
	ShaderKindFlat
)

// Shader holds the scratch state needed across a mesh's draw call: the
// normal matrix and the owning model's background hue computed once in
// BeginPass, and the current triangle's NDC positions/uvs/normals set
// once per triangle in SetTriangle.
type Shader struct {
	Kind ShaderKind

	normalMat  math3d.Mat3
	background raster.HSLA

	// flatLight is the light direction transformed into view space by the
	// model_view upper-3x3 — only ShaderKindFlat uses it; the Blinn shader
	// lights with the untransformed object-space light_dir.
	flatLight math3d.Vec3

	triNDC    [3]math3d.Vec3
	triUV     [3]math3d.Vec2
	triNormal [3]math3d.Vec3
}

// NewShader constructs a shader of the given kind with zeroed scratch
// state.
func NewShader(kind ShaderKind) *Shader {
	return &Shader{Kind: kind}
}

// BeginPass precomputes whatever scratch state a shader kind needs once
// per mesh, before any triangle is drawn. background is the owning
// model's background hue; the flat shader draws entirely from it rather
// than from a sampled texture.
func (s *Shader) BeginPass(state *RenderState, background raster.HSLA) {
	s.background = background
	switch s.Kind {
	case ShaderKindBlinnNormalMap:
		upper := math3d.Mat4Upper3x3(state.Projection.Mul(state.ModelView))
		s.normalMat = upper.Inverse().Transpose()
	case ShaderKindFlat:
		upper := math3d.Mat4Upper3x3(state.Projection.Mul(state.ModelView))
		s.normalMat = upper.Inverse().Transpose()
		s.flatLight = math3d.Mat4Upper3x3(state.ModelView).MulVec3(state.LightDir).Normalize()
	}
}

// SetTriangle records the three vertices' NDC positions (pre-viewport,
// post-perspective-divide), uvs, and normals ahead of a run of Fragment
// calls covering that triangle.
func (s *Shader) SetTriangle(ndc [3]math3d.Vec3, uv [3]math3d.Vec2, normal [3]math3d.Vec3) {
	s.triNDC = ndc
	s.triUV = uv
	s.triNormal = normal
}

// Fragment shades the pixel at (px, py) given its perspective-corrected
// barycentric coordinates against the current triangle.
func (s *Shader) Fragment(bc math3d.Vec3, px, py int, mesh *models.Mesh, state *RenderState) raster.RGBA {
	switch s.Kind {
	case ShaderKindBlinnNormalMap:
		return s.fragmentBlinnNormalMap(bc, mesh, state)
	case ShaderKindFlat:
		return s.fragmentFlat(bc, px, py, mesh, state)
	default:
		return raster.RGBA{A: 255}
	}
}

func interpolateVec3(bc math3d.Vec3, a, b, c math3d.Vec3) math3d.Vec3 {
	return a.Scale(bc.X).Add(b.Scale(bc.Y)).Add(c.Scale(bc.Z))
}

func interpolateVec2(bc math3d.Vec3, a, b, c math3d.Vec2) math3d.Vec2 {
	return math3d.V2(
		a.X*bc.X+b.X*bc.Y+c.X*bc.Z,
		a.Y*bc.X+b.Y*bc.Y+c.Y*bc.Z,
	)
}

// fragmentBlinnNormalMap reconstructs a tangent frame from the triangle's
// NDC edges and the interpolated normal after the normal matrix, perturbs the normal
// with the mesh's normal map, and combines Lambertian diffuse with a
// narrow specular lobe driven by the mesh's spec map blue channel.
func (s *Shader) fragmentBlinnNormalMap(bc math3d.Vec3, mesh *models.Mesh, state *RenderState) raster.RGBA {
	normal := interpolateVec3(bc, s.triNormal[0], s.triNormal[1], s.triNormal[2]).Normalize()
	worldNormal := s.normalMat.MulVec3(normal).Normalize()
	uv := interpolateVec2(bc, s.triUV[0], s.triUV[1], s.triUV[2])

	edge1 := s.triNDC[1].Sub(s.triNDC[0])
	edge2 := s.triNDC[2].Sub(s.triNDC[0])
	basis := math3d.NewMat3Rows(edge1, edge2, worldNormal)
	basisInv := basis.Inverse()

	duv1 := s.triUV[1].Sub(s.triUV[0])
	duv2 := s.triUV[2].Sub(s.triUV[0])
	tangent := basisInv.MulVec3(math3d.V3(duv1.X, duv2.X, 0)).Normalize()
	bitangent := basisInv.MulVec3(math3d.V3(duv1.Y, duv2.Y, 0)).Normalize()

	mappedNormal := worldNormal
	if mesh.HasNormalMap && mesh.Normal != nil {
		texel := sampleNearest(mesh.Normal, uv)
		tn := math3d.V3(
			float64(texel.R)/127.5-1,
			float64(texel.G)/127.5-1,
			float64(texel.B)/127.5-1,
		)
		mappedNormal = tangent.Scale(tn.X).Add(bitangent.Scale(tn.Y)).Add(worldNormal.Scale(tn.Z)).Normalize()
	}

	lightDir := state.LightDir.Negate().Normalize()
	diffuse := math.Max(0, mappedNormal.Dot(lightDir))

	specChannel := 0.0
	if mesh.HasSpecularMap && mesh.Spec != nil {
		specChannel = float64(sampleNearest(mesh.Spec, uv).B) / 255
	}
	// r = 2*(n.l)*n - l, the same l the diffuse term used above. Built
	// directly rather than with the mirror-reflection convention
	// a - 2*(a.n)*n, which returns the negation of this formula for
	// a=lightDir.
	reflected := mappedNormal.Scale(2 * mappedNormal.Dot(lightDir)).Sub(lightDir).Normalize()
	spec := math.Pow(math.Max(0, reflected.Z), 5+specChannel*255)

	base := raster.RGBA{R: 200, G: 200, B: 200, A: 255}
	if mesh.Diffuse != nil {
		base = sampleNearest(mesh.Diffuse, uv)
	}

	factor := 1.2*diffuse + 0.6*spec
	return raster.RGBA{
		R: saturate8(float64(base.R)*factor + float64(base.R)*0.15),
		G: saturate8(float64(base.G)*factor + float64(base.G)*0.15),
		B: saturate8(float64(base.B)*factor + float64(base.B)*0.15),
		A: 255,
	}
}

// fragmentFlat is a stylized shader driven entirely by the model's
// background hue, never a sampled texture: triangles whose reflection
// vector faces the camera get a saturated complementary-hue sheen;
// everything else is flat-shaded with a sparse grid of the background hue
// laid over a darkened complementary-hue base. The reflection term shades
// in the same space BeginPass resolved it in: the interpolated normal goes
// through the normal matrix, and the light through the model_view's
// upper-3x3, rather than staying in raw object space.
func (s *Shader) fragmentFlat(bc math3d.Vec3, px, py int, mesh *models.Mesh, state *RenderState) raster.RGBA {
	interpolated := interpolateVec3(bc, s.triNormal[0], s.triNormal[1], s.triNormal[2]).Normalize()
	normal := s.normalMat.MulVec3(interpolated)

	reflected := normal.Scale(2 * normal.Dot(s.flatLight)).Sub(s.flatLight).Normalize()
	spec := 1 - reflected.Z

	if spec > 0.5 {
		sheen := s.background
		sheen.L -= 0.3
		sheen.S -= 0.4
		sheen.H = math.Mod(sheen.H+0.5, 1)
		return sheen.ToRGBA()
	}

	if px%4 == 0 || py%4 == 0 {
		return s.background.ToRGBA()
	}

	shaded := s.background
	shaded.L -= 0.1
	shaded.H = math.Mod(shaded.H+0.5, 1)
	return shaded.ToRGBA()
}

func saturate8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// sampleNearest maps a uv in [0,1]x[0,1] to the nearest texel, clamping
// out-of-range coordinates to the image edge.
func sampleNearest(img *raster.Image, uv math3d.Vec2) raster.RGBA {
	x := int(uv.X * float64(img.Width-1))
	y := int(uv.Y * float64(img.Height-1))
	return img.GetRGBASafe(x, y)
}
