package mdm

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BoneWeight is one skin influence on a vertex.
type BoneWeight struct {
	Bone   int32
	Weight float32
}

// Vertex is a fully resolved vertex: attributes from the vertex table and
// position plus skin weight from the weight table.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec4
	UV       mgl32.Vec2

	// BoneCount and FirstBone are passed through from the vertex record.
	// Only one weight slot per vertex is addressable in the weight table, so
	// Weights holds a single entry even when BoneCount > 1.
	BoneCount int32
	FirstBone int32
	Weights   []BoneWeight
}

// Handedness returns the sign of the tangent's w component (+1 or -1).
func (v *Vertex) Handedness() float32 {
	return math32.Copysign(1, v.Tangent[3])
}

// Surface is an independently indexed sub-mesh.
type Surface struct {
	Index                 int
	Vertices              []Vertex
	Triangles             [][3]int // surface-local, zero-index rewrite applied
	CollapseMappingOffset int32
}

// Model is the decoder output.
type Model struct {
	Version  int32
	Surfaces []Surface

	// Warnings holds non-fatal InconsistentCounts errors.
	Warnings []error
}

func (m *Model) NumVertices() int {
	n := 0
	for i := range m.Surfaces {
		n += len(m.Surfaces[i].Vertices)
	}
	return n
}

func (m *Model) NumTriangles() int {
	n := 0
	for i := range m.Surfaces {
		n += len(m.Surfaces[i].Triangles)
	}
	return n
}

// Bounds returns the axis-aligned bounds of all finite vertex positions.
// ok is false when no vertex has a finite position.
func (m *Model) Bounds() (min, max mgl32.Vec3, ok bool) {
	min = mgl32.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	max = mgl32.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	for si := range m.Surfaces {
		for vi := range m.Surfaces[si].Vertices {
			p := m.Surfaces[si].Vertices[vi].Position
			if !finite(p[0]) || !finite(p[1]) || !finite(p[2]) {
				continue
			}
			for k := 0; k < 3; k++ {
				min[k] = math32.Min(min[k], p[k])
				max[k] = math32.Max(max[k], p[k])
			}
			ok = true
		}
	}
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return min, max, true
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// FaceGroup is a run of triangles in a FlatMesh that came from one surface.
type FaceGroup struct {
	Surface int
	First   int
	Count   int
}

// FlatMesh is a model collapsed into one vertex array, with one face group
// per surface so a consumer can assign one material per group.
type FlatMesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles [][3]int // global vertex indices
	Groups    []FaceGroup
}

// Flatten concatenates all surfaces, shifting triangle indices by each
// surface's vertex base.
func (m *Model) Flatten() *FlatMesh {
	nv, nt := m.NumVertices(), m.NumTriangles()
	fm := &FlatMesh{
		Positions: make([]mgl32.Vec3, 0, nv),
		Normals:   make([]mgl32.Vec3, 0, nv),
		UVs:       make([]mgl32.Vec2, 0, nv),
		Triangles: make([][3]int, 0, nt),
		Groups:    make([]FaceGroup, 0, len(m.Surfaces)),
	}
	for si := range m.Surfaces {
		s := &m.Surfaces[si]
		base := len(fm.Positions)
		for vi := range s.Vertices {
			v := &s.Vertices[vi]
			fm.Positions = append(fm.Positions, v.Position)
			fm.Normals = append(fm.Normals, v.Normal)
			fm.UVs = append(fm.UVs, v.UV)
		}
		fm.Groups = append(fm.Groups, FaceGroup{Surface: s.Index, First: len(fm.Triangles), Count: len(s.Triangles)})
		for _, t := range s.Triangles {
			fm.Triangles = append(fm.Triangles, [3]int{t[0] + base, t[1] + base, t[2] + base})
		}
	}
	return fm
}

// LoopUVs returns the UV of each triangle corner, three per triangle.
func (fm *FlatMesh) LoopUVs() []mgl32.Vec2 {
	uvs := make([]mgl32.Vec2, 0, len(fm.Triangles)*3)
	for _, t := range fm.Triangles {
		uvs = append(uvs, fm.UVs[t[0]], fm.UVs[t[1]], fm.UVs[t[2]])
	}
	return uvs
}
