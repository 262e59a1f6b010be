// Package texture loads preview textures for rendered models.
package texture

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Extensions lists the image formats the loader can decode, in lookup priority.
var Extensions = []string{".tga", ".png", ".jpg", ".jpeg"}

// decoderFor picks the decoder by extension. TGA has no magic number, so
// content sniffing through image.Decode cannot tell it apart from PNG or JPEG.
func decoderFor(path string) (func(io.Reader) (image.Image, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		return tga.Decode, nil
	case ".png":
		return png.Decode, nil
	case ".jpg", ".jpeg":
		return jpeg.Decode, nil
	}
	return nil, fmt.Errorf("texture: unsupported format %s", path)
}

// LoadTexture decodes a TGA, PNG or JPEG file into an NRGBA image.
func LoadTexture(path string) (*image.NRGBA, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
