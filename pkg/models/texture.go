package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/taigrr/swraster/pkg/raster"
)

// loadTextureRelative decodes an image file (PNG or JPEG) from disk into a
// 4-channel raster.Image. An empty path yields a nil texture, not an error,
// since a mesh's normal/spec maps are optional.
func loadTextureRelative(path string) (*raster.Image, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return imageToRaster(img), nil
}

// imageToRaster converts a decoded standard library image into a
// raster.Image, flipping it to the rasterizer's bottom-left origin.
func imageToRaster(img image.Image) *raster.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := raster.NewImage(w, h, 4)

	for y := range h {
		srcY := bounds.Min.Y + y
		dstY := h - 1 - y
		for x := range w {
			srcX := bounds.Min.X + x
			r, g, b, a := img.At(srcX, srcY).RGBA()
			out.SetRGBA(x, dstY, raster.RGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// decodeTextureBytes decodes an in-memory image (used for glTF's embedded
// textures) into a raster.Image.
func decodeTextureBytes(data []byte) (*raster.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode embedded texture: %w", err)
	}
	return imageToRaster(img), nil
}
