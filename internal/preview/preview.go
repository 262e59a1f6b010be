// Package preview produces WebP thumbnails of decoded models.
package preview

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"soldak-mdm/internal/mdm"
	"soldak-mdm/internal/postprocess"
	"soldak-mdm/internal/raster"
	"soldak-mdm/internal/viewmatrix"
)

// Options controls preview rendering.
type Options struct {
	Size        int
	Supersample int
	Camera      viewmatrix.Camera
}

// DefaultOptions renders 256×256 with 2× supersampling.
var DefaultOptions = Options{Size: 256, Supersample: 2, Camera: viewmatrix.DefaultCamera}

// Render rasterizes m and downsamples the result to opts.Size.
func Render(m *mdm.Model, tex *image.NRGBA, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions.Size
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	img := raster.RenderModel(m, tex, raster.Options{
		Size:        opts.Size,
		Supersample: opts.Supersample,
		Margin:      opts.Size / 16,
		Camera:      opts.Camera,
	})
	if opts.Supersample > 1 {
		img = postprocess.Downsample(img, opts.Size)
	}
	return img
}

// Encode writes img as lossless WebP.
func Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("preview: webp encode: %w", err)
	}
	return nil
}

// WriteFile renders m and writes it to path, creating parent directories.
func WriteFile(path string, m *mdm.Model, tex *image.NRGBA, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := Encode(f, Render(m, tex, opts)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
