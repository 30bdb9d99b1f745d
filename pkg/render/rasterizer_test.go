package render

import (
	"testing"

	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/models"
	"github.com/taigrr/swraster/pkg/raster"
)

// identityState builds a RenderState whose model-view and projection are
// both identity, so a mesh's object-space coordinates land directly in
// NDC space — useful for tests that want to control screen coverage
// exactly without reasoning about a camera.
func identityState(viewW, viewH float64) *RenderState {
	return &RenderState{
		Eye:             math3d.V3(0, 0, 1),
		Center:          math3d.V3(0, 0, 0),
		Up:              math3d.V3(0, 1, 0),
		LightDir:        math3d.V3(0, 0, -1).Normalize(),
		ModelView:       math3d.Identity(),
		Projection:      math3d.Identity(),
		Viewport:        Viewport(0, 0, viewW, viewH),
		BackfaceCulling: false,
		WireFrame:       false,
		SmoothShading:   false,
	}
}

func solidMesh(name string, verts [3]math3d.Vec3, color raster.RGBA) *models.Mesh {
	img := raster.NewImage(1, 1, 4)
	img.SetRGBA(0, 0, color)

	m := models.NewMesh(name)
	m.Verts = verts[:]
	m.UVs = []math3d.Vec2{math3d.V2(0, 0), math3d.V2(0, 0), math3d.V2(0, 0)}
	m.Faces = []models.Face{{PosIdx: [3]int{0, 1, 2}, UVIdx: [3]int{0, 1, 2}, NormIdx: [3]int{0, 0, 0}}}
	m.Diffuse = img
	m.AllowLighting = false
	return m
}

func countTouched(buffers *raster.OutputBuffers) int {
	n := 0
	for _, z := range buffers.ZBuffer {
		if z > raster.MinZ {
			n++
		}
	}
	return n
}

// A large right triangle spanning half of NDC space should rasterize to
// roughly half the framebuffer's pixels.
func TestDrawMeshCoversExpectedArea(t *testing.T) {
	const w, h = 100, 100
	state := identityState(w, h)
	buffers := raster.NewOutputBuffers(w, h)
	shader := NewShader(ShaderKindFlat)

	mesh := solidMesh("half", [3]math3d.Vec3{
		math3d.V3(-1, -1, 0),
		math3d.V3(1, -1, 0),
		math3d.V3(-1, 1, 0),
	}, raster.RGBA{200, 0, 0, 255})

	DrawMesh(mesh, raster.HSLA{}, state, buffers, shader)

	got := countTouched(buffers)
	want := w * h / 2
	tolerance := want / 10
	if diff := got - want; diff < -tolerance || diff > tolerance {
		t.Fatalf("triangle covered %d pixels, want %d +/- %d", got, want, tolerance)
	}
}

// Drawing two overlapping triangles at different depths must produce the
// same framebuffer regardless of draw order: the z-buffer, not draw
// sequence, decides which triangle's fragment survives.
func TestDepthTestIsOrderIndependent(t *testing.T) {
	const w, h = 40, 40
	back := solidMesh("back", [3]math3d.Vec3{
		math3d.V3(-1, -1, -0.8),
		math3d.V3(1, -1, -0.8),
		math3d.V3(-1, 1, -0.8),
	}, raster.RGBA{255, 0, 0, 255})

	front := solidMesh("front", [3]math3d.Vec3{
		math3d.V3(-0.5, -0.5, 0.8),
		math3d.V3(0.5, -0.5, 0.8),
		math3d.V3(-0.5, 0.5, 0.8),
	}, raster.RGBA{0, 255, 0, 255})

	runOrder := func(first, second *models.Mesh) *raster.OutputBuffers {
		state := identityState(w, h)
		buffers := raster.NewOutputBuffers(w, h)
		shader := NewShader(ShaderKindFlat)
		DrawMesh(first, raster.HSLA{}, state, buffers, shader)
		DrawMesh(second, raster.HSLA{}, state, buffers, shader)
		return buffers
	}

	backFirst := runOrder(back, front)
	frontFirst := runOrder(front, back)

	if len(backFirst.FrameBuffer.Pix) != len(frontFirst.FrameBuffer.Pix) {
		t.Fatalf("framebuffer size mismatch")
	}
	for i := range backFirst.FrameBuffer.Pix {
		if backFirst.FrameBuffer.Pix[i] != frontFirst.FrameBuffer.Pix[i] {
			t.Fatalf("framebuffer differs by draw order at byte %d: %d vs %d", i, backFirst.FrameBuffer.Pix[i], frontFirst.FrameBuffer.Pix[i])
		}
	}
}

// A triangle facing away from the eye is skipped when backface culling is
// enabled, and drawn when it is disabled.
func TestBackfaceCullingSkipsAwayFacingTriangle(t *testing.T) {
	const w, h = 40, 40

	// Wound so (v1-v0) x (v2-v0) points toward -Z, away from eye at +Z.
	awayFacing := solidMesh("away", [3]math3d.Vec3{
		math3d.V3(-0.5, -0.5, 0),
		math3d.V3(-0.5, 0.5, 0),
		math3d.V3(0.5, -0.5, 0),
	}, raster.RGBA{0, 0, 255, 255})

	culledState := identityState(w, h)
	culledState.BackfaceCulling = true
	culledBuffers := raster.NewOutputBuffers(w, h)
	DrawMesh(awayFacing, raster.HSLA{}, culledState, culledBuffers, NewShader(ShaderKindFlat))
	if got := countTouched(culledBuffers); got != 0 {
		t.Fatalf("expected 0 pixels for culled back face, got %d", got)
	}

	unculledState := identityState(w, h)
	unculledState.BackfaceCulling = false
	unculledBuffers := raster.NewOutputBuffers(w, h)
	DrawMesh(awayFacing, raster.HSLA{}, unculledState, unculledBuffers, NewShader(ShaderKindFlat))
	if got := countTouched(unculledBuffers); got == 0 {
		t.Fatalf("expected the same triangle to draw when culling is disabled")
	}
}

// A triangle that extends past the framebuffer's edges must only write
// pixels inside bounds, and must not panic doing so.
func TestDrawMeshClipsToBufferBounds(t *testing.T) {
	const w, h = 50, 50
	state := identityState(w, h)
	buffers := raster.NewOutputBuffers(w, h)
	shader := NewShader(ShaderKindFlat)

	// Vertices well outside [-1,1] NDC map to screen coordinates far
	// outside [0,w)x[0,h).
	mesh := solidMesh("offscreen", [3]math3d.Vec3{
		math3d.V3(-3, -3, 0),
		math3d.V3(3, -3, 0),
		math3d.V3(-3, 3, 0),
	}, raster.RGBA{255, 255, 0, 255})

	DrawMesh(mesh, raster.HSLA{}, state, buffers, shader)

	got := countTouched(buffers)
	if got == 0 || got > w*h {
		t.Fatalf("expected a clipped but nonzero coverage within bounds, got %d (buffer has %d pixels)", got, w*h)
	}
}

// Written pixels must have a depth strictly greater than the clear
// sentinel, and untouched pixels must remain exactly at the sentinel.
func TestZBufferInvariants(t *testing.T) {
	const w, h = 30, 30
	state := identityState(w, h)
	buffers := raster.NewOutputBuffers(w, h)
	shader := NewShader(ShaderKindFlat)

	mesh := solidMesh("small", [3]math3d.Vec3{
		math3d.V3(-0.2, -0.2, 0.3),
		math3d.V3(0.2, -0.2, 0.3),
		math3d.V3(-0.2, 0.2, 0.3),
	}, raster.RGBA{10, 20, 30, 255})

	DrawMesh(mesh, raster.HSLA{}, state, buffers, shader)

	centerIdx := buffers.ZIndex(w/2, h/2)
	if buffers.ZBuffer[centerIdx] <= raster.MinZ {
		t.Fatalf("expected center pixel to be covered and have z > MinZ")
	}

	cornerIdx := buffers.ZIndex(0, 0)
	if buffers.ZBuffer[cornerIdx] != raster.MinZ {
		t.Fatalf("expected untouched corner pixel to remain at MinZ, got %v", buffers.ZBuffer[cornerIdx])
	}
}
