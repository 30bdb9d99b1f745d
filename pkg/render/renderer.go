// Package render holds the rasterizer's per-frame state, the scan
// conversion itself, the shader and post-process tagged unions, and the
// terminal presentation layer.
package render

import (
	"time"

	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/models"
	"github.com/taigrr/swraster/pkg/raster"
)

// RenderState is the set of inputs shared by every draw call in a frame:
// camera placement, the composed matrices, lighting, and the toggles that
// change how a triangle is scan-converted. It carries no buffers and no
// mesh data, so it's cheap to copy and easy to animate in place between
// frames.
type RenderState struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3

	LightDir math3d.Vec3

	ModelView  math3d.Mat4
	Projection math3d.Mat4
	Viewport   math3d.Mat4

	BackfaceCulling bool
	WireFrame       bool
	SmoothShading   bool

	DT           time.Duration
	CumulativeDT time.Duration
}

// NewRenderState builds a RenderState with the projection derived from the
// eye/center distance and the viewport covering the given rectangle, both
// matching the original fixed-camera setup.
func NewRenderState(eye, center, up math3d.Vec3, viewX, viewY, viewW, viewH float64) *RenderState {
	return &RenderState{
		Eye:             eye,
		Center:          center,
		Up:              up,
		LightDir:        math3d.V3(0, 0, -1).Normalize(),
		ModelView:       LookAt(eye, center, up),
		Projection:      Projection(eye, center),
		Viewport:        Viewport(viewX, viewY, viewW, viewH),
		BackfaceCulling: true,
		WireFrame:       false,
		SmoothShading:   true,
	}
}

// Renderer owns the output buffers and the render state and drives a
// complete frame: clear, draw every mesh of the active model, and
// optionally post-process. Blitting the framebuffer to the terminal is left
// to the caller (see Draw).
type Renderer struct {
	Buffers *raster.OutputBuffers
	State   *RenderState
}

// NewRenderer allocates output buffers at the given resolution.
func NewRenderer(width, height int, state *RenderState) *Renderer {
	return &Renderer{
		Buffers: raster.NewOutputBuffers(width, height),
		State:   state,
	}
}

// RenderFrame clears the buffers to clearColor, draws every mesh of scene's
// active model with shader, and — if effect is non-nil — runs the
// post-process pass over the result.
func (r *Renderer) RenderFrame(scene *models.Scene, shader *Shader, effect *Effect, clearColor raster.RGBA) {
	r.Buffers.Clear(clearColor)

	model := scene.Active()
	if model == nil {
		return
	}

	for i := range model.Meshes {
		DrawMesh(&model.Meshes[i], model.Background, r.State, r.Buffers, shader)
	}

	if effect != nil {
		ApplyPostProcess(r.Buffers, r.State, effect)
	}
}

// Advance applies a model-view transform built from the given rotation
// (degrees, applied X then Y) and translation on top of the base look-at
// matrix, and accumulates dt into the state's timers. This mirrors the
// original per-frame model_view composition: look_at * rot_x * rot_y *
// trans.
func (r *RenderState) Advance(rotX, rotY float64, trans math3d.Vec3, dt time.Duration) {
	base := LookAt(r.Eye, r.Center, r.Up)
	r.ModelView = base.Mul(RotateXDeg(rotX)).Mul(RotateYDeg(rotY)).Mul(Translate(trans))
	r.DT = dt
	r.CumulativeDT += dt
}
