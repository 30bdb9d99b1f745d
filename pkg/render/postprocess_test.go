package render

import (
	"testing"

	"github.com/taigrr/swraster/pkg/raster"
)

func filledBuffers(w, h int, touched bool) *raster.OutputBuffers {
	ob := raster.NewOutputBuffers(w, h)
	ob.FrameBuffer.Clear(raster.RGBA{100, 150, 200, 255})
	if touched {
		for i := range ob.ZBuffer {
			ob.ZBuffer[i] = 1
		}
	}
	return ob
}

// Every effect must leave FrameBuffer and TempBuffer byte-identical: the
// post-process contract reads the completed frame, writes the result into
// the temp buffer, then copies it back.
func TestApplyPostProcessCopiesBackForEveryKind(t *testing.T) {
	effects := []*Effect{
		NewChromaticAberration(),
		NewSobelEdge(),
		NewJumboPixels(4),
	}

	for _, effect := range effects {
		ob := filledBuffers(20, 20, true)
		ApplyPostProcess(ob, nil, effect)
		for i := range ob.FrameBuffer.Pix {
			if ob.FrameBuffer.Pix[i] != ob.TempBuffer.Pix[i] {
				t.Fatalf("kind %v: framebuffer and tempbuffer differ at byte %d", effect.Kind, i)
			}
		}
	}
}

// Chromatic aberration with every offset at zero samples each channel from
// the vertically mirrored row (y_flipped), so one pass flips the frame and
// a second pass restores it exactly.
func TestChromaticAberrationZeroOffsetTwiceIsIdentity(t *testing.T) {
	ob := filledBuffers(16, 16, true)
	ob.FrameBuffer.SetRGBA(3, 2, raster.RGBA{10, 20, 30, 255})
	effect := &Effect{Kind: EffectKindChromaticAberration, OffsetR: 0, OffsetG: 0, OffsetB: 0}

	before := append([]byte(nil), ob.FrameBuffer.Pix...)
	ApplyPostProcess(ob, nil, effect)
	ApplyPostProcess(ob, nil, effect)

	for i := range before {
		if ob.FrameBuffer.Pix[i] != before[i] {
			t.Fatalf("zero-offset chromatic aberration changed byte %d: %d -> %d", i, before[i], ob.FrameBuffer.Pix[i])
		}
	}
}

// Sobel edge detection is gated on the z-buffer: pixels where nothing was
// drawn (z-buffer still at MinZ) pass through unchanged rather than being
// treated as part of the gradient.
func TestSobelEdgeNoopOnEmptyFrame(t *testing.T) {
	ob := filledBuffers(16, 16, false)
	before := append([]byte(nil), ob.FrameBuffer.Pix...)

	ApplyPostProcess(ob, nil, NewSobelEdge())

	for i := range before {
		if ob.FrameBuffer.Pix[i] != before[i] {
			t.Fatalf("sobel edge touched an untouched pixel at byte %d", i)
		}
	}
}

// Jumbo pixels chooses its isolated channel purely from the block's
// column, not its row: every block in the same column, regardless of row,
// isolates the same channel.
func TestJumboPixelsChannelSelectionIsColumnOnly(t *testing.T) {
	const size = 2
	ob := filledBuffers(size*6, size*6, true)
	ob.FrameBuffer.Clear(raster.RGBA{255, 255, 255, 255})

	ApplyPostProcess(ob, nil, NewJumboPixels(size))

	channelOf := func(c raster.RGBA) int {
		switch {
		case c.R > 0 && c.G == 0 && c.B == 0:
			return 0
		case c.G > 0 && c.R == 0 && c.B == 0:
			return 1
		case c.B > 0 && c.R == 0 && c.G == 0:
			return 2
		default:
			return -1
		}
	}

	for bx := 0; bx < 6; bx++ {
		var want int
		for by := 0; by < 6; by++ {
			x, y := bx*size, by*size
			got := channelOf(ob.FrameBuffer.GetRGBA(x, y))
			if got == -1 {
				t.Fatalf("block (%d,%d) isolated no single channel: %v", bx, by, ob.FrameBuffer.GetRGBA(x, y))
			}
			if by == 0 {
				want = got
			} else if got != want {
				t.Fatalf("block column %d isolates different channels by row: row 0 got %d, row %d got %d", bx, want, by, got)
			}
		}
	}
}
