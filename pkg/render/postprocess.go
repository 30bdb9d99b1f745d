package render

import (
	"math"

	"github.com/taigrr/swraster/pkg/raster"
)

// EffectKind selects a post-process effect's algorithm. Like Shader, Effect
// is a tagged union: one struct carries every kind's parameters, dispatched
// by a switch instead of a virtual interface.
type EffectKind int

const (
	EffectKindChromaticAberration EffectKind = iota
	EffectKindSobelEdge
	EffectKindJumboPixels
)

// Effect holds the parameters for one post-process pass.
type Effect struct {
	Kind EffectKind

	// Chromatic aberration per-channel pixel offsets.
	OffsetR, OffsetG, OffsetB int

	// Sobel edge detection magnitude threshold.
	Threshold float64

	// Jumbo pixel block size.
	PixelSize int
}

// NewChromaticAberration builds a chromatic aberration effect with the
// default red/green/blue offsets.
func NewChromaticAberration() *Effect {
	return &Effect{Kind: EffectKindChromaticAberration, OffsetR: 1, OffsetG: -1, OffsetB: -2}
}

// NewSobelEdge builds a Sobel edge-detection effect with the default
// magnitude threshold.
func NewSobelEdge() *Effect {
	return &Effect{Kind: EffectKindSobelEdge, Threshold: 0.2}
}

// NewJumboPixels builds a jumbo-pixel mosaic effect with the given block
// size.
func NewJumboPixels(size int) *Effect {
	return &Effect{Kind: EffectKindJumboPixels, PixelSize: size}
}

// ApplyPostProcess runs effect over buffers.FrameBuffer into
// buffers.TempBuffer, then copies the result back into FrameBuffer — the
// same read/apply/write-back/copy-back shape the original single-pass
// effect driver used, needed because chromatic aberration and Sobel edge
// sample neighboring pixels of the pre-effect image and must not read
// pixels already overwritten.
func ApplyPostProcess(buffers *raster.OutputBuffers, state *RenderState, effect *Effect) {
	switch effect.Kind {
	case EffectKindChromaticAberration:
		applyChromaticAberration(buffers, effect)
	case EffectKindSobelEdge:
		applySobelEdge(buffers, effect)
	case EffectKindJumboPixels:
		applyJumboPixels(buffers, effect)
	default:
		return
	}
	copy(buffers.FrameBuffer.Pix, buffers.TempBuffer.Pix)
}

func applyChromaticAberration(buffers *raster.OutputBuffers, effect *Effect) {
	fb := buffers.FrameBuffer
	tb := buffers.TempBuffer

	for y := range fb.Height {
		yFlipped := fb.Height - 1 - y
		for x := range fb.Width {
			r := fb.GetRGBASafe(x+effect.OffsetR, yFlipped+effect.OffsetR).R
			g := fb.GetRGBASafe(x+effect.OffsetG, yFlipped+effect.OffsetG).G
			b := fb.GetRGBASafe(x+effect.OffsetB, yFlipped+effect.OffsetB).B
			tb.SetRGBA(x, y, raster.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
}

var sobelGx = [3][3]float64{
	{-1, 0, 1},
	{-2, 0, 2},
	{-1, 0, 1},
}

var sobelGy = [3][3]float64{
	{-1, -2, -1},
	{0, 0, 0},
	{1, 2, 1},
}

func grayscaleAt(img *raster.Image, x, y int) float64 {
	c := img.GetRGBA(x, y)
	return (float64(c.R) + float64(c.G) + float64(c.B)) / (3 * 255)
}

// applySobelEdge runs a Sobel gradient filter over the grayscale
// framebuffer, skipping pixels where nothing was drawn (the z-buffer
// still reads MinZ) and the image border (no full 3x3 neighborhood).
// Below threshold, a pixel becomes a uniform dark gray; at or above, it
// becomes a uniform brightness proportional to the gradient magnitude.
func applySobelEdge(buffers *raster.OutputBuffers, effect *Effect) {
	fb := buffers.FrameBuffer
	tb := buffers.TempBuffer

	for y := range fb.Height {
		for x := range fb.Width {
			idx := buffers.ZIndex(x, y)
			if buffers.ZBuffer[idx] <= raster.MinZ || x == 0 || y == 0 || x == fb.Width-1 || y == fb.Height-1 {
				tb.SetRGBA(x, y, fb.GetRGBA(x, y))
				continue
			}

			var sx, sy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					g := grayscaleAt(fb, x+kx, y+ky)
					sx += g * sobelGx[ky+1][kx+1]
					sy += g * sobelGy[ky+1][kx+1]
				}
			}

			mag := math.Abs(sx) + math.Abs(sy)
			if mag < effect.Threshold {
				tb.SetRGBA(x, y, raster.RGBA{R: 15, G: 15, B: 15, A: 15})
				continue
			}
			v := saturate8(mag * 255)
			tb.SetRGBA(x, y, raster.RGBA{R: v, G: v, B: v, A: v})
		}
	}
}

// applyJumboPixels bands the image into PixelSize-wide columns that cycle
// red-only, green-only, blue-only, keeping each pixel's own channel value
// (no spatial averaging, no row blocking): only x mod (3*PixelSize) picks
// the surviving channel. Pixels where nothing was drawn (per the
// z-buffer) pass through unchanged.
func applyJumboPixels(buffers *raster.OutputBuffers, effect *Effect) {
	fb := buffers.FrameBuffer
	tb := buffers.TempBuffer

	size := effect.PixelSize
	if size < 1 {
		size = 1
	}

	for y := range fb.Height {
		for x := range fb.Width {
			idx := buffers.ZIndex(x, y)
			pixel := fb.GetRGBA(x, y)
			if buffers.ZBuffer[idx] <= raster.MinZ {
				tb.SetRGBA(x, y, pixel)
				continue
			}

			band := x % (3 * size)
			var isolated raster.RGBA
			switch {
			case band < size:
				isolated = raster.RGBA{R: pixel.R, A: 255}
			case band < 2*size:
				isolated = raster.RGBA{G: pixel.G, A: 255}
			default:
				isolated = raster.RGBA{B: pixel.B, A: 255}
			}
			tb.SetRGBA(x, y, isolated)
		}
	}
}
