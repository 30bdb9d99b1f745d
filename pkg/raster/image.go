// Package raster provides the pixel-buffer primitives shared by the
// rasterizer's output buffers and by mesh textures: a row-major byte
// image, 8-bit rgba, and float hsla, plus the rgba/hsla conversions used
// for model background/text colors.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// RGBA is four 8-bit channels. The alpha channel is never written to the
// screen but is preserved through the framebuffer.
type RGBA struct {
	R, G, B, A uint8
}

// HSLA is four floats in [0,1] for hue, saturation, lightness, alpha.
type HSLA struct {
	H, S, L, A float64
}

// ToRGBA converts hsla to rgba.
func (c HSLA) ToRGBA() RGBA {
	h, s, l := c.H, c.S, c.L
	if s == 0 {
		v := uint8(clamp01(l) * 255)
		return RGBA{v, v, v, uint8(clamp01(c.A) * 255)}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r := hueToChannel(p, q, h+1.0/3.0)
	g := hueToChannel(p, q, h)
	b := hueToChannel(p, q, h-1.0/3.0)

	return RGBA{
		R: uint8(clamp01(r) * 255),
		G: uint8(clamp01(g) * 255),
		B: uint8(clamp01(b) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func hueToChannel(p, q, t float64) float64 {
	for t < 0 {
		t++
	}
	for t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// RGBAToHSLA converts rgba to hsla.
func RGBAToHSLA(c RGBA) HSLA {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	a := float64(c.A) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2

	if maxC == minC {
		return HSLA{0, 0, l, a}
	}

	d := maxC - minC
	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}

	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h /= 6

	return HSLA{h, s, l, a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Image is a rectangular pixel buffer: width, height, channel count (1, 3,
// or 4), and a contiguous byte array in row-major order. Origin is
// bottom-left: row 0 of Pix is the bottom scanline. Pixel accessors take
// integer coordinates; the caller is responsible for clamping unless it
// calls the *Safe variant.
type Image struct {
	Width, Height, Channels int
	Pix                     []byte
}

// NewImage allocates a zeroed image of the given dimensions and channel
// count.
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

func (img *Image) offset(x, y int) int {
	return (y*img.Width + x) * img.Channels
}

// At returns the byte slice for pixel (x, y). The caller must ensure x and
// y are in bounds.
func (img *Image) At(x, y int) []byte {
	o := img.offset(x, y)
	return img.Pix[o : o+img.Channels]
}

// AtSafe returns the byte slice for pixel (x, y), clamping the coordinates
// to the image bounds first.
func (img *Image) AtSafe(x, y int) []byte {
	if x < 0 {
		x = 0
	} else if x >= img.Width {
		x = img.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= img.Height {
		y = img.Height - 1
	}
	return img.At(x, y)
}

// InBounds reports whether (x, y) addresses a pixel inside the image.
func (img *Image) InBounds(x, y int) bool {
	return x >= 0 && x < img.Width && y >= 0 && y < img.Height
}

// GetRGBA reads a 4-channel pixel. It is undefined behavior to call this on
// an image with fewer than 4 channels, matching the core's
// loader-is-the-trust-boundary error policy.
func (img *Image) GetRGBA(x, y int) RGBA {
	p := img.At(x, y)
	return RGBA{p[0], p[1], p[2], p[3]}
}

// GetRGBASafe is GetRGBA with clamped coordinates.
func (img *Image) GetRGBASafe(x, y int) RGBA {
	p := img.AtSafe(x, y)
	return RGBA{p[0], p[1], p[2], p[3]}
}

// SetRGBA writes a 4-channel pixel. Out-of-bounds writes are silently
// rejected; no write occurs.
func (img *Image) SetRGBA(x, y int, c RGBA) {
	if !img.InBounds(x, y) {
		return
	}
	p := img.At(x, y)
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Clear fills every pixel with c. Channels beyond the fourth, if any, are
// left untouched (the core only ever allocates 4-channel output images).
func (img *Image) Clear(c RGBA) {
	for i := 0; i < len(img.Pix); i += img.Channels {
		img.Pix[i] = c.R
		if img.Channels > 1 {
			img.Pix[i+1] = c.G
		}
		if img.Channels > 2 {
			img.Pix[i+2] = c.B
		}
		if img.Channels > 3 {
			img.Pix[i+3] = c.A
		}
	}
}

// ToGoImage converts a 4-channel Image into a standard library image.RGBA,
// flipping to image.RGBA's top-left origin.
func (img *Image) ToGoImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.GetRGBA(x, y)
			out.SetRGBA(x, img.Height-1-y, color.RGBA{c.R, c.G, c.B, c.A})
		}
	}
	return out
}

// SavePNG writes the image to path as a PNG, useful for debugging a frame
// outside the terminal.
func (img *Image) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: save png: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img.ToGoImage()); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// MinZ is the z-buffer clear sentinel. A written pixel implies
// z_buffer[i] > MinZ.
const MinZ = -1000

// OutputBuffers owns the framebuffer, the post-process scratch buffer, and
// the depth buffer. All three share the same width and height.
type OutputBuffers struct {
	FrameBuffer *Image
	TempBuffer  *Image
	ZBuffer     []float64
}

// NewOutputBuffers allocates a set of output buffers at the given
// resolution, both images 4-channel RGBA.
func NewOutputBuffers(width, height int) *OutputBuffers {
	return &OutputBuffers{
		FrameBuffer: NewImage(width, height, 4),
		TempBuffer:  NewImage(width, height, 4),
		ZBuffer:     make([]float64, width*height),
	}
}

// Clear resets the z-buffer to MinZ and the framebuffer to c.
func (ob *OutputBuffers) Clear(c RGBA) {
	for i := range ob.ZBuffer {
		ob.ZBuffer[i] = MinZ
	}
	ob.FrameBuffer.Clear(c)
}

// ZIndex returns the flat z-buffer/framebuffer index for (x, y). Both
// buffers deliberately share this single index rather than addressing the
// depth buffer with one row convention and the color buffer with another.
func (ob *OutputBuffers) ZIndex(x, y int) int {
	return y*ob.FrameBuffer.Width + x
}
