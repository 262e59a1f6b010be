package mdm

import (
	"io"
)

// Listing is the raw content of a file's tables, read in file-global order
// through the header's offsets and counts. It is meant for diagnostics; the
// global triangle and vertex tables are not used by Assemble.
type Listing struct {
	Header    Header
	Surfaces  []SurfaceRecord
	Triangles []TriangleRecord
	Vertices  []VertexRecord
	Weights   []WeightRecord
}

// Inspect reads every table named by the header without cross-referencing them.
func Inspect(src io.ReaderAt, size int64) (*Listing, error) {
	r := NewReader(src, size)

	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	l := &Listing{Header: h}

	if l.Surfaces, err = ReadSurfaces(r, h); err != nil {
		return nil, err
	}

	off := int64(h.TriangleTableOffset)
	if err := r.checkTable("triangle", off, int64(h.TriangleCount), TriangleSize); err != nil {
		return nil, err
	}
	l.Triangles = make([]TriangleRecord, h.TriangleCount)
	r.SeekTo(off)
	for i := range l.Triangles {
		if l.Triangles[i], err = r.ReadTriangle(); err != nil {
			return nil, err
		}
	}

	off = int64(h.VertexTableOffset)
	if err := r.checkTable("vertex", off, int64(h.VertexCount), VertexSize); err != nil {
		return nil, err
	}
	l.Vertices = make([]VertexRecord, h.VertexCount)
	r.SeekTo(off)
	for i := range l.Vertices {
		if l.Vertices[i], err = r.ReadVertex(); err != nil {
			return nil, err
		}
	}

	if l.Weights, err = ReadWeights(r, int64(h.WeightTableOffset), int64(h.VertexCount)); err != nil {
		return nil, err
	}

	return l, nil
}
