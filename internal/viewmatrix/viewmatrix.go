package viewmatrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera describes how a model is turned toward the viewer.
type Camera struct {
	Yaw   float64 // degrees around the up axis
	Pitch float64 // degrees around the screen X axis

	// ZUp rotates Z-up model space into the renderer's Y-up screen space.
	ZUp bool

	Perspective bool
	FOV         float64 // degrees, 0 means DefaultFOV
}

// DefaultFOV is the default field of view.
const DefaultFOV = 60.0

// DefaultCamera is a three-quarter view from slightly above.
var DefaultCamera = Camera{Yaw: 30, Pitch: -20, ZUp: true}

// Matrix builds the 3×3 view rotation: Rx(pitch) · Ry(yaw) · (Z-up → Y-up).
func (c Camera) Matrix() mgl64.Mat3 {
	m := mgl64.Rotate3DX(mgl64.DegToRad(c.Pitch)).Mul3(mgl64.Rotate3DY(mgl64.DegToRad(c.Yaw)))
	if c.ZUp {
		m = m.Mul3(mgl64.Rotate3DX(-math.Pi / 2))
	}
	return m
}

// Bounds returns the screen-space bounds of the finite positions under R.
// Without any finite position min is +Inf and max is -Inf.
func Bounds(positions []mgl32.Vec3, R mgl64.Mat3) (min, max mgl64.Vec3) {
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range positions {
		t := R.Mul3x1(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		if !finite(t) {
			continue
		}
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], t[k])
			max[k] = math.Max(max[k], t[k])
		}
	}
	return min, max
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ProjectVertices transforms 3D positions to 2D screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth).
func ProjectVertices(positions []mgl32.Vec3, R mgl64.Mat3, center mgl64.Vec3, scale float64, renderSize int, cam Camera) ([]float64, []float64, []float64) {
	n := len(positions)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(renderSize) / 2

	var perspCamDist, perspZCenter float64
	if cam.Perspective {
		fov := cam.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		halfFOV := mgl64.DegToRad(fov / 2)

		min, max := Bounds(positions, R)
		xyMax := 0.0
		for k := 0; k < 2; k++ {
			xyMax = math.Max(xyMax, math.Max(math.Abs(max[k]-center[k]), math.Abs(min[k]-center[k])))
		}
		perspZCenter = (min[2] + max[2]) / 2
		if xyMax < 0.001 {
			xyMax = 0.001
		}
		perspCamDist = xyMax / math.Tan(halfFOV)
	}

	for i, p := range positions {
		t := R.Mul3x1(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})

		if cam.Perspective {
			zOff := t[2] - perspZCenter
			depth := math.Max(perspCamDist-zOff, 0.1)
			factor := perspCamDist / depth
			t[0] = (t[0]-center[0])*factor + center[0]
			t[1] = (t[1]-center[1])*factor + center[1]
		}

		px[i] = (t[0]-center[0])*scale + half
		py[i] = -(t[1]-center[1])*scale + half
		pz[i] = t[2]
	}

	return px, py, pz
}
