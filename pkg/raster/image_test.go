package raster

import "testing"

func approxByte(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestHSLARoundTrip(t *testing.T) {
	cases := []RGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{200, 120, 60, 255},
		{10, 10, 10, 255},
		{255, 255, 255, 255},
		{0, 0, 0, 255},
	}

	for _, c := range cases {
		got := RGBAToHSLA(c).ToRGBA()
		if !approxByte(got.R, c.R, 1) || !approxByte(got.G, c.G, 1) || !approxByte(got.B, c.B, 1) {
			t.Fatalf("round trip %v -> %v", c, got)
		}
	}
}

func TestHSLAGrayscaleZeroSaturation(t *testing.T) {
	c := RGBA{128, 128, 128, 255}
	h := RGBAToHSLA(c)
	if h.S != 0 {
		t.Fatalf("expected zero saturation for gray, got %v", h.S)
	}
}

func TestImageClearFillsEveryPixel(t *testing.T) {
	img := NewImage(4, 4, 4)
	c := RGBA{10, 20, 30, 255}
	img.Clear(c)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if got := img.GetRGBA(x, y); got != c {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestImageClearIdempotent(t *testing.T) {
	img := NewImage(2, 2, 4)
	img.Clear(RGBA{1, 2, 3, 4})
	first := append([]byte(nil), img.Pix...)
	img.Clear(RGBA{1, 2, 3, 4})
	for i := range first {
		if img.Pix[i] != first[i] {
			t.Fatalf("clear is not idempotent at byte %d", i)
		}
	}
}

func TestSetRGBAOutOfBoundsNoop(t *testing.T) {
	img := NewImage(2, 2, 4)
	img.Clear(RGBA{0, 0, 0, 255})
	img.SetRGBA(-1, 0, RGBA{255, 255, 255, 255})
	img.SetRGBA(2, 2, RGBA{255, 255, 255, 255})

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if got := img.GetRGBA(x, y); got != (RGBA{0, 0, 0, 255}) {
				t.Fatalf("out-of-bounds write leaked into pixel (%d,%d): %v", x, y, got)
			}
		}
	}
}

func TestAtSafeClampsCoordinates(t *testing.T) {
	img := NewImage(3, 3, 4)
	img.SetRGBA(2, 2, RGBA{9, 8, 7, 255})
	if got := img.GetRGBASafe(100, 100); got != (RGBA{9, 8, 7, 255}) {
		t.Fatalf("expected clamp to (2,2), got %v", got)
	}
	if got := img.GetRGBASafe(-5, -5); got != img.GetRGBA(0, 0) {
		t.Fatalf("expected clamp to (0,0), got %v", got)
	}
}

func TestOutputBuffersClearResetsZBuffer(t *testing.T) {
	ob := NewOutputBuffers(4, 4)
	idx := ob.ZIndex(1, 1)
	ob.ZBuffer[idx] = 5
	ob.Clear(RGBA{0, 0, 0, 255})

	for i, z := range ob.ZBuffer {
		if z != MinZ {
			t.Fatalf("z-buffer entry %d not reset: %v", i, z)
		}
	}
}

func TestZIndexSharedByBothBuffers(t *testing.T) {
	ob := NewOutputBuffers(5, 3)
	idx := ob.ZIndex(2, 1)
	want := 1*5 + 2
	if idx != want {
		t.Fatalf("ZIndex(2,1) = %d, want %d", idx, want)
	}
	if idx < 0 || idx >= len(ob.ZBuffer) {
		t.Fatalf("ZIndex out of z-buffer range: %d", idx)
	}
}
