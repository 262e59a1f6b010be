// Package raster renders decoded MDM models with a small software rasterizer.
package raster

import (
	"image"
	"image/color"

	"soldak-mdm/internal/mdm"
	"soldak-mdm/internal/viewmatrix"
)

// DefaultColor is used for surfaces without a texture.
var DefaultColor = color.NRGBA{R: 160, G: 160, B: 170, A: 255}

// Options controls RenderModel.
type Options struct {
	Size        int // output edge length before downsampling
	Supersample int
	Margin      int // pixels at output resolution
	Camera      viewmatrix.Camera
}

// RenderModel renders every surface of m into a square NRGBA image of
// Size*Supersample pixels. tex, when non-nil, is sampled through vertex UVs
// on all surfaces.
func RenderModel(m *mdm.Model, tex *image.NRGBA, opts Options) *image.NRGBA {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	renderSize := opts.Size * ss
	fb := NewFrameBuffer(renderSize, renderSize)

	flat := m.Flatten()
	if len(flat.Positions) == 0 || len(flat.Triangles) == 0 {
		return fb.Image()
	}

	R := opts.Camera.Matrix()
	min, max := viewmatrix.Bounds(flat.Positions, R)
	if min[0] > max[0] {
		return fb.Image()
	}
	center := min.Add(max).Mul(0.5)
	span := max[0] - min[0]
	if d := max[1] - min[1]; d > span {
		span = d
	}
	if span < 0.001 {
		span = 0.001
	}

	margin := opts.Margin * ss
	if 2*margin >= renderSize {
		margin = 0
	}
	scale := float64(renderSize-2*margin) / span

	px, py, pz := viewmatrix.ProjectVertices(flat.Positions, R, center, scale, renderSize, opts.Camera)

	base := DefaultColor
	if tex != nil {
		base = averageColor(tex)
	}

	lc := DefaultLightConfig()
	for _, t := range flat.Triangles {
		RasterizeTriangle(fb, px, py, pz, flat.UVs, t, tex, base, &lc)
	}

	return fb.Image()
}

func averageColor(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return DefaultColor
	}

	var sumR, sumG, sumB float64
	for y := 0; y < h; y++ {
		off := y * tex.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return color.NRGBA{R: uint8(sumR/n + 0.5), G: uint8(sumG/n + 0.5), B: uint8(sumB/n + 0.5), A: 255}
}
