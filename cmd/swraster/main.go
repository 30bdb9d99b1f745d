// swraster - terminal 3D model viewer
//
// Drives the software rasterizer core (pkg/render) against a loaded
// scene and blits the result into a terminal using half-block cells.
//
// Controls:
//
//	Mouse drag  - Rotate the active model (pitch/yaw)
//	W/S/A/D     - Pitch and yaw
//	Space       - Apply a random spin impulse
//	R           - Reset rotation
//	X           - Toggle wireframe overlay
//	G           - Toggle smooth shading (vs. flat face normals)
//	C           - Toggle backface culling
//	1/2         - Switch shader (Blinn normal-map / flat stylized)
//	3/4/5/0     - Switch post-process effect (chromatic / sobel / jumbo / none)
//	N/P         - Next/previous model in the scene
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Zoom in/out
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/models"
	"github.com/taigrr/swraster/pkg/raster"
	"github.com/taigrr/swraster/pkg/render"
)

var (
	targetFPS  = flag.Int("fps", 60, "Target FPS")
	bgColor    = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	shaderName = flag.String("shader", "blinn", "Shader: blinn or flat")
	effectName = flag.String("effect", "none", "Post-process effect: none, chromatic, sobel, or jumbo")
	pixelSize  = flag.Int("pixel-size", 4, "Block size for the jumbo-pixels effect")
	wireframe  = flag.Bool("wireframe", false, "Start with the wireframe overlay on")
	noCull     = flag.Bool("no-cull", false, "Start with backface culling off")
	flatShade  = flag.Bool("flat-shading", false, "Start with smooth (interpolated) shading off")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "swraster - terminal 3D model viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: swraster [options] <model.manifest|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RotationAxis tracks position and velocity for one rotation axis with
// spring decay, so a drag or key-hold imparts an impulse that settles back
// to rest instead of snapping.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState is the pitch/yaw pair fed into RenderState.Advance each
// frame. The core's rotation builders are X and Y only, so there is no
// roll axis here.
type RotationState struct {
	Pitch, Yaw RotationAxis
	fps        int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{Pitch: NewRotationAxis(fps), Yaw: NewRotationAxis(fps), fps: fps}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
}

// HUD renders a two-line overlay: FPS, the active model's name and its
// triangle count on the top row, and the shader and toggle states on the
// bottom row.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	visible   bool
}

func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now(), visible: true}
}

func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *HUD) Render(height int, model *models.Model, shader *render.Shader, state *render.RenderState, lightMode bool) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string { return fmt.Sprintf("\x1b[%d;%dH", row, col) }

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if lightMode {
		fmt.Print(moveTo(height, 1) + fmt.Sprintf("%s%s%s LIGHT MODE - move mouse, click to set, Esc to cancel%s", bgBlack, bold, fgYellow, reset))
		return
	}
	if !h.visible {
		return
	}

	name := "(no model)"
	faces := 0
	if model != nil {
		name = model.Name
		faces = model.FaceCount()
	}

	fmt.Print(moveTo(1, 1) + fmt.Sprintf("%s%s%s %.0f FPS  %s  %d tris %s", bgBlack, fgGreen, bold, h.fps, name, faces, reset))

	shaderLabel := "blinn"
	if shader.Kind == render.ShaderKindFlat {
		shaderLabel = "flat"
	}
	fmt.Print(moveTo(height, 1) + fmt.Sprintf("%s%s shader=%s wire=%v smooth=%v cull=%v %s",
		bgBlack, fgWhite, shaderLabel, state.WireFrame, state.SmoothShading, state.BackfaceCulling, reset))
}

// sceneFromMesh wraps a single loaded mesh (the glTF path) into a
// one-model Scene so the rest of the pipeline never special-cases it.
func sceneFromMesh(mesh *models.Mesh, name string) *models.Scene {
	model := models.Model{
		Name:       name,
		Background: raster.HSLA{S: 0, L: 0.15, A: 1},
		TextColor:  raster.RGBA{R: 255, G: 255, B: 255, A: 255},
		Meshes:     []models.Mesh{*mesh},
	}
	return models.NewScene([]models.Model{model})
}

// normalizeMesh centers a mesh on the origin and scales it so its largest
// dimension spans [-1,1], so arbitrary glTF assets land at a sane default
// distance from eye regardless of their native units.
func normalizeMesh(mesh *models.Mesh) {
	mesh.CalculateBounds()
	center := mesh.Center()
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return
	}
	scale := 2.0 / maxDim
	transform := math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(center.Scale(-1)))
	mesh.Transform(transform)
}

func buildEffect(name string, size int) *render.Effect {
	switch strings.ToLower(name) {
	case "chromatic":
		return render.NewChromaticAberration()
	case "sobel":
		return render.NewSobelEdge()
	case "jumbo":
		return render.NewJumboPixels(size)
	default:
		return nil
	}
}

func buildShader(name string) *render.Shader {
	if strings.ToLower(name) == "flat" {
		return render.NewShader(render.ShaderKindFlat)
	}
	return render.NewShader(render.ShaderKindBlinnNormalMap)
}

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	clearColor := raster.RGBA{R: bgR, G: bgG, B: bgB, A: 255}

	scene, err := loadScene(modelPath)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")

	// The framebuffer packs two rows per terminal cell (render.Draw uses
	// half-block glyphs), so it runs at twice the terminal's row count.
	fbWidth, fbHeight := cols, rows*2

	eye := math3d.V3(0, 0, 3)
	center := math3d.V3(0, 0, 0)
	up := math3d.V3(0, 1, 0)
	state := render.NewRenderState(eye, center, up, 0, 0, float64(fbWidth), float64(fbHeight))
	state.WireFrame = *wireframe
	state.BackfaceCulling = !*noCull
	state.SmoothShading = !*flatShade

	renderer := render.NewRenderer(fbWidth, fbHeight, state)
	shader := buildShader(*shaderName)
	effect := buildEffect(*effectName, *pixelSize)

	rotation := NewRotationState(*targetFPS)
	hud := NewHUD()
	lightMode := false
	var pendingLight math3d.Vec3

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var torquePitch, torqueYaw float64
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int
	cameraDist := eye.Sub(center).Len()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	setZoom := func(dist float64) {
		cameraDist = math.Max(1, math.Min(20, dist))
		state.Eye = center.Add(eye.Sub(center).Normalize().Scale(cameraDist))
		state.Projection = render.Projection(state.Eye, state.Center)
	}

	screenToLightDir := func(x, y, width, height int) math3d.Vec3 {
		nx := (float64(x)/float64(width))*2 - 1
		ny := (float64(y)/float64(height))*2 - 1
		lenSq := nx*nx + ny*ny
		if lenSq > 1 {
			l := math.Sqrt(lenSq)
			nx, ny = nx/l, ny/l
			lenSq = 1
		}
		nz := math.Sqrt(1 - lenSq)
		return math3d.V3(nx, -ny, nz).Normalize()
	}

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows = ev.Width, ev.Height
				term.Erase()
				term.Resize(cols, rows)
				fbWidth, fbHeight = cols, rows*2
				renderer = render.NewRenderer(fbWidth, fbHeight, state)
				state.Viewport = render.Viewport(0, 0, float64(fbWidth), float64(fbHeight))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if lightMode {
						lightMode = false
					} else {
						cancel()
						return
					}
				case ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					rotation.Reset()
					setZoom(eye.Sub(center).Len())
				case ev.MatchString("w", "up"):
					torquePitch = -torqueStrength
				case ev.MatchString("s", "down"):
					torquePitch = torqueStrength
				case ev.MatchString("a", "left"):
					torqueYaw = -torqueStrength
				case ev.MatchString("d", "right"):
					torqueYaw = torqueStrength
				case ev.MatchString("space"):
					rotation.ApplyImpulse((rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*1.5)
				case ev.MatchString("+", "="):
					setZoom(cameraDist - 0.5)
				case ev.MatchString("-", "_"):
					setZoom(cameraDist + 0.5)
				case ev.MatchString("x"):
					state.WireFrame = !state.WireFrame
				case ev.MatchString("g"):
					state.SmoothShading = !state.SmoothShading
				case ev.MatchString("c"):
					state.BackfaceCulling = !state.BackfaceCulling
				case ev.MatchString("1"):
					shader = render.NewShader(render.ShaderKindBlinnNormalMap)
				case ev.MatchString("2"):
					shader = render.NewShader(render.ShaderKindFlat)
				case ev.MatchString("0"):
					effect = nil
				case ev.MatchString("3"):
					effect = render.NewChromaticAberration()
				case ev.MatchString("4"):
					effect = render.NewSobelEdge()
				case ev.MatchString("5"):
					effect = render.NewJumboPixels(*pixelSize)
				case ev.MatchString("n"):
					scene.SetActive(scene.ActiveIndex() + 1)
				case ev.MatchString("p"):
					scene.SetActive(scene.ActiveIndex() - 1)
				case ev.MatchString("l"):
					lightMode = true
					pendingLight = state.LightDir
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					hud.visible = !hud.visible
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					torquePitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					torqueYaw = 0
				}

			case uv.MouseClickEvent:
				if lightMode {
					state.LightDir = pendingLight
					lightMode = false
				} else {
					mouseDown = true
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				if !lightMode {
					mouseDown = false
				}

			case uv.MouseMotionEvent:
				if lightMode {
					pendingLight = screenToLightDir(ev.X, ev.Y, cols, rows)
				} else if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					setZoom(cameraDist - 0.5)
				case uv.MouseWheelDown:
					setZoom(cameraDist + 0.5)
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame)
		lastFrame = now
		if dt > 100*time.Millisecond {
			dt = 100 * time.Millisecond
		}

		dtSec := dt.Seconds()
		rotation.ApplyImpulse(torquePitch*dtSec, torqueYaw*dtSec)
		rotation.Update()

		// The active model's initial rotation is the base orientation; only
		// its X and Y components apply, since there is no Z rotation builder.
		var initRot math3d.Vec3
		if m := scene.Active(); m != nil {
			initRot = m.InitialRotation
		}
		state.Advance(rotation.Pitch.Position+initRot.X, rotation.Yaw.Position+initRot.Y, math3d.Vec3{}, dt)
		if lightMode {
			state.LightDir = pendingLight
		}

		renderer.RenderFrame(scene, shader, effect, clearColor)

		render.Draw(renderer.Buffers.FrameBuffer, term, uv.Rect(0, 0, cols, rows))
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(rows, scene.Active(), shader, state, lightMode)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// loadScene picks the manifest reader or the glTF/GLB reader by extension.
// A glTF file becomes a single-mesh, single-model scene normalized to a
// unit-ish size around the origin; a manifest is trusted to already carry
// correctly placed, correctly scaled models.
func loadScene(path string) (*models.Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		mesh, err := models.LoadGLB(path)
		if err != nil {
			return nil, fmt.Errorf("load glb: %w", err)
		}
		normalizeMesh(mesh)
		return sceneFromMesh(mesh, filepath.Base(path)), nil
	default:
		scene, err := models.LoadManifest(path)
		if err != nil {
			return nil, fmt.Errorf("load manifest: %w", err)
		}
		return scene, nil
	}
}
