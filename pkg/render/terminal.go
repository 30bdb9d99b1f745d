package render

import (
	goColor "image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/swraster/pkg/raster"
)

// Draw converts the completed framebuffer to terminal cells and draws them
// on the screen using half-block characters (▀), doubling vertical
// resolution: each terminal row packs two framebuffer rows, one as the
// foreground color and one as the background.
//
// The framebuffer's origin is bottom-left; the terminal's is top-left, so
// row 0 of the terminal maps to the top two framebuffer rows.
func Draw(fb *raster.Image, scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := fb.Height - 1 - row*2
		botY := topY - 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			var top, bot raster.RGBA
			if fb.InBounds(col, topY) {
				top = fb.GetRGBA(col, topY)
			}
			if fb.InBounds(col, botY) {
				bot = fb.GetRGBA(col, botY)
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(top),
					Bg: rgbaToColor(bot),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts our RGBA to Go's color.Color interface.
func rgbaToColor(c raster.RGBA) goColor.Color {
	if c.A == 0 {
		return nil
	}
	return goColor.RGBA{c.R, c.G, c.B, c.A}
}

// Named colors for convenience, including the fixed orange used for
// wireframe overlays and common UI accents.
var (
	ColorBlack  = raster.RGBA{0, 0, 0, 255}
	ColorWhite  = raster.RGBA{255, 255, 255, 255}
	ColorOrange = raster.RGBA{255, 165, 0, 255}
	ColorGray   = raster.RGBA{128, 128, 128, 255}
)
