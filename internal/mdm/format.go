// Package mdm decodes Soldak MDM mesh files.
//
// An MDM file starts with a fixed header of ten little-endian int32 values
// followed by tables located through absolute offsets: a surface table, a
// triangle table, a vertex table (UV, normal, tangent, bone count) and a weight
// table that carries each vertex's position together with one bone influence.
package mdm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Magic identifies an MDM file.
const Magic = 0x12121212

// Record sizes in bytes. Every field is 4 bytes wide and there is no padding.
const (
	HeaderSize   = 10 * 4
	SurfaceSize  = 6 * 4
	TriangleSize = 3 * 4
	VertexSize   = (2 + 3 + 4 + 2) * 4
	WeightSize   = (1 + 3 + 1) * 4
)

// Header is the fixed 40-byte file header. Counts are global to the file.
type Header struct {
	Magic                 int32
	Version               int32
	SurfaceCount          int32
	TriangleCount         int32
	VertexCount           int32
	SurfaceTableOffset    int32
	TriangleTableOffset   int32
	VertexTableOffset     int32
	WeightTableOffset     int32
	CollapseMappingOffset int32
}

// SurfaceRecord is one entry of the surface table. Offsets are absolute.
type SurfaceRecord struct {
	SurfaceIndex          int32
	VertexCount           int32
	TriangleCount         int32
	VertexOffset          int32
	TriangleOffset        int32
	CollapseMappingOffset int32
}

// TriangleRecord holds three vertex indices local to the owning surface.
type TriangleRecord [3]int32

// VertexRecord carries the per-vertex attributes except position.
type VertexRecord struct {
	U, V      float32
	Normal    [3]float32
	Tangent   [4]float32 // xyz + handedness
	BoneCount int32
	FirstBone int32
}

// WeightRecord is one slot of the weight table. Position is the vertex's
// object-space position.
type WeightRecord struct {
	BoneIndex  int32
	Position   [3]float32
	BoneWeight float32
}

// Reader reads fixed-size records from a random-access byte source.
// It only checks that enough bytes exist; it does not interpret values.
type Reader struct {
	src  io.ReaderAt
	size int64
	off  int64
	buf  [VertexSize]byte // largest record
}

// NewReader returns a Reader over size bytes of src, positioned at offset 0.
func NewReader(src io.ReaderAt, size int64) *Reader {
	return &Reader{src: src, size: size}
}

// SeekTo moves the cursor to an absolute offset. Bounds are checked on the next read.
func (r *Reader) SeekTo(off int64) {
	r.off = off
}

// Offset returns the cursor position.
func (r *Reader) Offset() int64 { return r.off }

// Size returns the size of the byte source.
func (r *Reader) Size() int64 { return r.size }

// fill reads n bytes at the cursor into r.buf and advances the cursor.
func (r *Reader) fill(record string, n int) ([]byte, error) {
	if r.off < 0 || r.off > r.size {
		e := newError(UnsupportedRegion, record, r.off)
		e.Have = r.size
		return nil, e
	}
	if avail := r.size - r.off; avail < int64(n) {
		e := newError(TruncatedRecord, record, r.off)
		e.Want, e.Have = int64(n), avail
		return nil, e
	}
	b := r.buf[:n]
	if got, err := r.src.ReadAt(b, r.off); got < n {
		e := newError(TruncatedRecord, record, r.off)
		e.Want, e.Have = int64(n), int64(got)
		if err != nil && err != io.EOF {
			e.Detail = err.Error()
		}
		return nil, e
	}
	r.off += int64(n)
	return b, nil
}

func i32(b []byte, i int) int32 {
	return int32(binary.LittleEndian.Uint32(b[i*4:]))
}

func f32(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

// ReadHeader decodes a Header at the cursor.
func (r *Reader) ReadHeader() (Header, error) {
	b, err := r.fill("header", HeaderSize)
	if err != nil {
		return Header{}, err
	}
	return Header{
		Magic:                 i32(b, 0),
		Version:               i32(b, 1),
		SurfaceCount:          i32(b, 2),
		TriangleCount:         i32(b, 3),
		VertexCount:           i32(b, 4),
		SurfaceTableOffset:    i32(b, 5),
		TriangleTableOffset:   i32(b, 6),
		VertexTableOffset:     i32(b, 7),
		WeightTableOffset:     i32(b, 8),
		CollapseMappingOffset: i32(b, 9),
	}, nil
}

// ReadSurface decodes a SurfaceRecord at the cursor.
func (r *Reader) ReadSurface() (SurfaceRecord, error) {
	b, err := r.fill("surface", SurfaceSize)
	if err != nil {
		return SurfaceRecord{}, err
	}
	return SurfaceRecord{
		SurfaceIndex:          i32(b, 0),
		VertexCount:           i32(b, 1),
		TriangleCount:         i32(b, 2),
		VertexOffset:          i32(b, 3),
		TriangleOffset:        i32(b, 4),
		CollapseMappingOffset: i32(b, 5),
	}, nil
}

// ReadTriangle decodes a TriangleRecord at the cursor.
func (r *Reader) ReadTriangle() (TriangleRecord, error) {
	b, err := r.fill("triangle", TriangleSize)
	if err != nil {
		return TriangleRecord{}, err
	}
	return TriangleRecord{i32(b, 0), i32(b, 1), i32(b, 2)}, nil
}

// ReadVertex decodes a VertexRecord at the cursor.
func (r *Reader) ReadVertex() (VertexRecord, error) {
	b, err := r.fill("vertex", VertexSize)
	if err != nil {
		return VertexRecord{}, err
	}
	return VertexRecord{
		U:         f32(b, 0),
		V:         f32(b, 1),
		Normal:    [3]float32{f32(b, 2), f32(b, 3), f32(b, 4)},
		Tangent:   [4]float32{f32(b, 5), f32(b, 6), f32(b, 7), f32(b, 8)},
		BoneCount: i32(b, 9),
		FirstBone: i32(b, 10),
	}, nil
}

// ReadWeight decodes a WeightRecord at the cursor.
func (r *Reader) ReadWeight() (WeightRecord, error) {
	b, err := r.fill("weight", WeightSize)
	if err != nil {
		return WeightRecord{}, err
	}
	return WeightRecord{
		BoneIndex:  i32(b, 0),
		Position:   [3]float32{f32(b, 1), f32(b, 2), f32(b, 3)},
		BoneWeight: f32(b, 4),
	}, nil
}

// ReadHeaderAt seeks to off and reads a Header.
func (r *Reader) ReadHeaderAt(off int64) (Header, error) {
	r.SeekTo(off)
	return r.ReadHeader()
}

// ReadSurfaceAt seeks to off and reads a SurfaceRecord.
func (r *Reader) ReadSurfaceAt(off int64) (SurfaceRecord, error) {
	r.SeekTo(off)
	return r.ReadSurface()
}

// ReadTriangleAt seeks to off and reads a TriangleRecord.
func (r *Reader) ReadTriangleAt(off int64) (TriangleRecord, error) {
	r.SeekTo(off)
	return r.ReadTriangle()
}

// ReadVertexAt seeks to off and reads a VertexRecord.
func (r *Reader) ReadVertexAt(off int64) (VertexRecord, error) {
	r.SeekTo(off)
	return r.ReadVertex()
}

// ReadWeightAt seeks to off and reads a WeightRecord.
func (r *Reader) ReadWeightAt(off int64) (WeightRecord, error) {
	r.SeekTo(off)
	return r.ReadWeight()
}

// checkTable verifies that count records of size bytes fit at off, so callers
// can allocate the destination slice without trusting the count.
func (r *Reader) checkTable(record string, off int64, count int64, size int) error {
	if count < 0 {
		e := newError(UnsupportedRegion, record, off)
		e.Have = r.size
		e.Detail = "negative record count"
		return e
	}
	if count == 0 {
		return nil
	}
	if off < 0 || off > r.size {
		e := newError(UnsupportedRegion, record, off)
		e.Have = r.size
		return e
	}
	need := count * int64(size)
	if avail := r.size - off; avail < need {
		e := newError(TruncatedRecord, record, off)
		e.Want, e.Have = need, avail
		e.Detail = fmt.Sprintf("table of %d records", count)
		return e
	}
	return nil
}
