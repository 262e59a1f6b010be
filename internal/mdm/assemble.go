package mdm

import (
	"bytes"
	"io"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Assembler turns the record tables of one file into a Model.
// The zero value is ready to use and logs through the standard logger.
type Assembler struct {
	// Logf receives count discrepancies and other non-fatal notes.
	// Nil means log.Printf.
	Logf func(format string, args ...interface{})
}

func (a *Assembler) logf(format string, args ...interface{}) {
	if a.Logf != nil {
		a.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Assemble decodes size bytes of src.
func Assemble(src io.ReaderAt, size int64) (*Model, error) {
	var a Assembler
	return a.Assemble(src, size)
}

// Decode decodes an in-memory MDM file.
func Decode(data []byte) (*Model, error) {
	return Assemble(bytes.NewReader(data), int64(len(data)))
}

// DecodeFile opens and decodes the MDM file at path.
func DecodeFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "mdm: open %s", path)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "mdm: stat %s", path)
	}
	m, err := Assemble(f, fi.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "mdm: decode %s", path)
	}
	return m, nil
}

// RewriteTriangle moves a trailing zero index to the front:
// (a, b, 0) becomes (0, a, b). Other triangles are returned unchanged.
func RewriteTriangle(t [3]int) [3]int {
	if t[2] == 0 {
		return [3]int{t[2], t[0], t[1]}
	}
	return t
}

// ReadHeader reads and validates the header at offset 0.
func ReadHeader(r *Reader) (Header, error) {
	h, err := r.ReadHeaderAt(0)
	if err != nil {
		return h, err
	}
	if uint32(h.Magic) != Magic {
		e := newError(BadMagic, "header", 0)
		e.Want, e.Have = Magic, int64(uint32(h.Magic))
		return h, e
	}
	return h, nil
}

// ReadSurfaces reads the surface table described by h.
func ReadSurfaces(r *Reader, h Header) ([]SurfaceRecord, error) {
	off := int64(h.SurfaceTableOffset)
	if err := r.checkTable("surface", off, int64(h.SurfaceCount), SurfaceSize); err != nil {
		return nil, err
	}
	surfaces := make([]SurfaceRecord, h.SurfaceCount)
	r.SeekTo(off)
	for i := range surfaces {
		s, err := r.ReadSurface()
		if err != nil {
			return nil, err
		}
		surfaces[i] = s
	}
	return surfaces, nil
}

// ReadWeights reads count consecutive weight records starting at off.
func ReadWeights(r *Reader, off int64, count int64) ([]WeightRecord, error) {
	if err := r.checkTable("weight", off, count, WeightSize); err != nil {
		return nil, err
	}
	weights := make([]WeightRecord, count)
	r.SeekTo(off)
	for i := range weights {
		w, err := r.ReadWeight()
		if err != nil {
			return nil, err
		}
		weights[i] = w
	}
	return weights, nil
}

// Assemble decodes size bytes of src into a Model. On error no Model is returned.
func (a *Assembler) Assemble(src io.ReaderAt, size int64) (*Model, error) {
	r := NewReader(src, size)

	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	surfaces, err := ReadSurfaces(r, h)
	if err != nil {
		return nil, err
	}

	model := &Model{
		Version:  h.Version,
		Surfaces: make([]Surface, 0, len(surfaces)),
	}

	// Per-surface vertex bases into the global weight table.
	bases := make([]int64, len(surfaces))
	var vertexSum, triangleSum int64
	for i, s := range surfaces {
		if s.VertexCount < 0 || s.TriangleCount < 0 {
			e := newError(UnsupportedRegion, "surface", int64(h.SurfaceTableOffset)+int64(i)*SurfaceSize)
			e.Surface = i
			e.Have = size
			e.Detail = "negative record count"
			return nil, e
		}
		bases[i] = vertexSum
		vertexSum += int64(s.VertexCount)
		triangleSum += int64(s.TriangleCount)

		if int(s.SurfaceIndex) != i {
			e := newError(InconsistentCounts, "surface", int64(h.SurfaceTableOffset)+int64(i)*SurfaceSize)
			e.Surface = i
			e.Want, e.Have = int64(i), int64(s.SurfaceIndex)
			e.Detail = "surface ordinal does not match its table position"
			a.warn(model, e)
		}
	}
	if vertexSum != int64(h.VertexCount) {
		e := newError(InconsistentCounts, "header", 0)
		e.Want, e.Have = int64(h.VertexCount), vertexSum
		e.Detail = "vertex count"
		a.warn(model, e)
	}
	if triangleSum != int64(h.TriangleCount) {
		e := newError(InconsistentCounts, "header", 0)
		e.Want, e.Have = int64(h.TriangleCount), triangleSum
		e.Detail = "triangle count"
		a.warn(model, e)
	}

	// Per-surface counts stay authoritative, so read enough slots for them
	// even when the header total is smaller.
	weightCount := int64(h.VertexCount)
	if vertexSum > weightCount {
		weightCount = vertexSum
	}
	weights, err := ReadWeights(r, int64(h.WeightTableOffset), weightCount)
	if err != nil {
		return nil, err
	}

	multi := 0
	for i, rec := range surfaces {
		s, n, err := a.assembleSurface(r, i, rec, weights[bases[i]:])
		if err != nil {
			return nil, err
		}
		multi += n
		model.Surfaces = append(model.Surfaces, s)
	}
	if multi > 0 {
		a.logf("[mdm] %d vertices declare more than one bone; only the first influence is decoded", multi)
	}

	return model, nil
}

func (a *Assembler) warn(m *Model, e *DecodeError) {
	m.Warnings = append(m.Warnings, e)
	a.logf("[mdm] warning: %v", e)
}

// assembleSurface decodes one surface. weights starts at the surface's vertex base.
// It also returns how many vertices declare more than one bone.
func (a *Assembler) assembleSurface(r *Reader, idx int, rec SurfaceRecord, weights []WeightRecord) (Surface, int, error) {
	s := Surface{
		Index:                 idx,
		CollapseMappingOffset: rec.CollapseMappingOffset,
	}

	voff := int64(rec.VertexOffset)
	if err := r.checkTable("vertex", voff, int64(rec.VertexCount), VertexSize); err != nil {
		return s, 0, withSurface(err, idx)
	}
	toff := int64(rec.TriangleOffset)
	if err := r.checkTable("triangle", toff, int64(rec.TriangleCount), TriangleSize); err != nil {
		return s, 0, withSurface(err, idx)
	}

	multi := 0
	s.Vertices = make([]Vertex, rec.VertexCount)
	r.SeekTo(voff)
	for i := range s.Vertices {
		vr, err := r.ReadVertex()
		if err != nil {
			return s, 0, withSurface(err, idx)
		}
		w := weights[i]
		if vr.BoneCount > 1 {
			multi++
		}
		s.Vertices[i] = Vertex{
			Position:  mgl32.Vec3(w.Position),
			Normal:    mgl32.Vec3(vr.Normal),
			Tangent:   mgl32.Vec4(vr.Tangent),
			UV:        mgl32.Vec2{vr.U, vr.V},
			BoneCount: vr.BoneCount,
			FirstBone: vr.FirstBone,
			Weights:   []BoneWeight{{Bone: w.BoneIndex, Weight: w.BoneWeight}},
		}
	}

	s.Triangles = make([][3]int, rec.TriangleCount)
	r.SeekTo(toff)
	for i := range s.Triangles {
		at := r.Offset()
		tr, err := r.ReadTriangle()
		if err != nil {
			return s, 0, withSurface(err, idx)
		}
		var t [3]int
		for k, v := range tr {
			if v < 0 || v >= rec.VertexCount {
				e := newError(IndexOutOfRange, "triangle", at)
				e.Surface = idx
				e.Index = int(v)
				e.Want = int64(rec.VertexCount)
				return s, 0, e
			}
			t[k] = int(v)
		}
		s.Triangles[i] = RewriteTriangle(t)
	}

	return s, multi, nil
}

func withSurface(err error, idx int) error {
	var de *DecodeError
	if errors.As(err, &de) {
		de.Surface = idx
	}
	return err
}
