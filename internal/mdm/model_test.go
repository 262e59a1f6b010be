package mdm

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBounds(t *testing.T) {
	data, _ := twoSurfaceFile().build()
	m, err := decode(t, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	min, max, ok := m.Bounds()
	if !ok {
		t.Fatal("Bounds reported an empty model")
	}
	if min != (mgl32.Vec3{0, 0, 0}) || max != (mgl32.Vec3{11, 1, 0}) {
		t.Errorf("Bounds = %v, %v, want [0 0 0], [11 1 0]", min, max)
	}

	if _, _, ok := (&Model{}).Bounds(); ok {
		t.Error("empty model has bounds")
	}
}

func TestBoundsSkipsNonFinite(t *testing.T) {
	nan, inf := float32(math.NaN()), float32(math.Inf(-1))
	m := &Model{Surfaces: []Surface{{Vertices: []Vertex{
		{Position: mgl32.Vec3{1, 2, 3}},
		{Position: mgl32.Vec3{nan, 0, 0}},
		{Position: mgl32.Vec3{0, inf, 0}},
		{Position: mgl32.Vec3{-1, 0, 5}},
	}}}}
	min, max, ok := m.Bounds()
	if !ok || min != (mgl32.Vec3{-1, 0, 3}) || max != (mgl32.Vec3{1, 2, 5}) {
		t.Errorf("Bounds = %v, %v, %v", min, max, ok)
	}

	bad := &Model{Surfaces: []Surface{{Vertices: []Vertex{{Position: mgl32.Vec3{nan, nan, nan}}}}}}
	if _, _, ok := bad.Bounds(); ok {
		t.Error("model without finite positions has bounds")
	}
}

func TestFlatten(t *testing.T) {
	data, _ := twoSurfaceFile().build()
	m, err := decode(t, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fm := m.Flatten()
	if len(fm.Positions) != 7 {
		t.Errorf("len(Positions) = %d, want 7", len(fm.Positions))
	}
	wantTris := [][3]int{{0, 1, 2}, {3, 4, 5}, {3, 5, 6}}
	if !reflect.DeepEqual(fm.Triangles, wantTris) {
		t.Errorf("Triangles = %v, want %v", fm.Triangles, wantTris)
	}
	wantGroups := []FaceGroup{{Surface: 0, First: 0, Count: 1}, {Surface: 1, First: 1, Count: 2}}
	if !reflect.DeepEqual(fm.Groups, wantGroups) {
		t.Errorf("Groups = %v, want %v", fm.Groups, wantGroups)
	}

	uvs := fm.LoopUVs()
	if len(uvs) != 9 {
		t.Fatalf("len(LoopUVs) = %d, want 9", len(uvs))
	}
	if uvs[1] != (mgl32.Vec2{1, 0}) || uvs[2] != (mgl32.Vec2{0, 1}) {
		t.Errorf("first triangle UVs = %v", uvs[:3])
	}
}

func TestHandedness(t *testing.T) {
	tests := []struct {
		w    float32
		want float32
	}{
		{1, 1},
		{-1, -1},
		{0.3, 1},
		{-0.0001, -1},
	}
	for _, tt := range tests {
		v := Vertex{Tangent: mgl32.Vec4{1, 0, 0, tt.w}}
		if got := v.Handedness(); got != tt.want {
			t.Errorf("Handedness(w=%v) = %v, want %v", tt.w, got, tt.want)
		}
	}
}
