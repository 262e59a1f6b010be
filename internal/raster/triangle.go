package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// RasterizeTriangle draws one flat-shaded triangle with z-buffering, optional
// texture sampling through per-vertex UVs, sRGB-correct lighting and ACES
// tone mapping. Indices outside px are ignored.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs []mgl32.Vec2,
	idx [3]int,
	tex *image.NRGBA,
	base color.NRGBA,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range idx {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[idx[0]], py[idx[0]], pz[idx[0]]
	x1, y1, z1 := px[idx[1]], py[idx[1]], pz[idx[1]]
	x2, y2, z2 := px[idx[2]], py[idx[2]], pz[idx[2]]
	for _, v := range [...]float64{x0, y0, z0, x1, y1, z1, x2, y2, z2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}

	hasUV := tex != nil && len(uvs) == nv
	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = float64(uvs[idx[0]][0]), float64(uvs[idx[0]][1])
		u1, v1 = float64(uvs[idx[1]][0]), float64(uvs[idx[1]][1])
		u2, v2 = float64(uvs[idx[2]][0]), float64(uvs[idx[2]][1])
	}

	// Face normal in screen space
	e1 := mgl64.Vec3{x1 - x0, y1 - y0, z1 - z0}
	e2 := mgl64.Vec3{x2 - x0, y2 - y0, z2 - z0}
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return
	}
	n = n.Normalize()
	// Screen Y points down; flip it so the hemisphere term sees world up.
	n[1] = -n[1]
	shade := lc.Shade(n)

	// Clamp in float space so far-off vertices never overflow int.
	w, h := float64(fb.Width-1), float64(fb.Height-1)
	minX := int(clampf(math.Min(math.Min(x0, x1), x2), 0, w))
	maxX := int(clampf(math.Max(math.Max(x0, x1), x2)+1, -1, w))
	minY := int(clampf(math.Min(math.Min(y0, y1), y2), 0, h))
	maxY := int(clampf(math.Max(math.Max(y0, y1), y2)+1, -1, h))
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	exposure := lc.Exposure
	invGamma := lc.InvGamma

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			c := base
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				c.R, c.G, c.B, c.A = SampleTexture(tex, u, v)
			}
			if c.A < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			sr := srgbToLinear[c.R] * shade * exposure
			sg := srgbToLinear[c.G] * shade * exposure
			sb := srgbToLinear[c.B] * shade * exposure

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(math.Pow(ACESTonemap(sr), invGamma) * 255)
			fb.Color[pxIdx+1] = clamp255(math.Pow(ACESTonemap(sg), invGamma) * 255)
			fb.Color[pxIdx+2] = clamp255(math.Pow(ACESTonemap(sb), invGamma) * 255)
			fb.Color[pxIdx+3] = c.A
		}
	}
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
