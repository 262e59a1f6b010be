package mdm

import (
	"bytes"
	"encoding/binary"
)

type testVert struct {
	pos     [3]float32
	uv      [2]float32
	normal  [3]float32
	tangent [4]float32
	bones   int32
	bone    int32
	weight  float32
}

type testSurface struct {
	verts []testVert
	tris  [][3]int32
}

type testFile struct {
	version  int32
	surfaces []testSurface
}

// layout records where build placed each table.
type layout struct {
	surfaceTable  int64
	triangleTable int64
	vertexTable   int64
	weightTable   int64
	size          int64
}

// build lays the file out as header, surfaces, triangles, vertices, weights.
func (f testFile) build() ([]byte, layout) {
	var nv, nt int32
	for _, s := range f.surfaces {
		nv += int32(len(s.verts))
		nt += int32(len(s.tris))
	}

	var l layout
	l.surfaceTable = HeaderSize
	l.triangleTable = l.surfaceTable + int64(len(f.surfaces))*SurfaceSize
	l.vertexTable = l.triangleTable + int64(nt)*TriangleSize
	l.weightTable = l.vertexTable + int64(nv)*VertexSize
	l.size = l.weightTable + int64(nv)*WeightSize

	var buf bytes.Buffer
	write := func(v interface{}) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}

	write(Header{
		Magic:                 Magic,
		Version:               f.version,
		SurfaceCount:          int32(len(f.surfaces)),
		TriangleCount:         nt,
		VertexCount:           nv,
		SurfaceTableOffset:    int32(l.surfaceTable),
		TriangleTableOffset:   int32(l.triangleTable),
		VertexTableOffset:     int32(l.vertexTable),
		WeightTableOffset:     int32(l.weightTable),
		CollapseMappingOffset: int32(l.size),
	})

	var vbase, tbase int64
	for i, s := range f.surfaces {
		write(SurfaceRecord{
			SurfaceIndex:          int32(i),
			VertexCount:           int32(len(s.verts)),
			TriangleCount:         int32(len(s.tris)),
			VertexOffset:          int32(l.vertexTable + vbase*VertexSize),
			TriangleOffset:        int32(l.triangleTable + tbase*TriangleSize),
			CollapseMappingOffset: int32(l.size),
		})
		vbase += int64(len(s.verts))
		tbase += int64(len(s.tris))
	}
	for _, s := range f.surfaces {
		for _, t := range s.tris {
			write(TriangleRecord(t))
		}
	}
	for _, s := range f.surfaces {
		for _, v := range s.verts {
			write(VertexRecord{
				U: v.uv[0], V: v.uv[1],
				Normal:    v.normal,
				Tangent:   v.tangent,
				BoneCount: v.bones,
				FirstBone: v.bone,
			})
		}
	}
	for _, s := range f.surfaces {
		for _, v := range s.verts {
			write(WeightRecord{BoneIndex: v.bone, Position: v.pos, BoneWeight: v.weight})
		}
	}
	return buf.Bytes(), l
}

func putI32(b []byte, off int64, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

// Header field offsets.
const (
	offMagic         = 0
	offSurfaceCount  = 8
	offTriangleCount = 12
	offVertexCount   = 16
	offSurfaceTable  = 20
	offWeightTable   = 32
)

func triangleFile() testFile {
	return testFile{
		version: 1,
		surfaces: []testSurface{{
			verts: []testVert{
				{pos: [3]float32{0, 0, 0}, uv: [2]float32{0, 0}, normal: [3]float32{0, 0, 1}, tangent: [4]float32{1, 0, 0, 1}, bones: 1, bone: 0, weight: 1},
				{pos: [3]float32{1, 0, 0}, uv: [2]float32{1, 0}, normal: [3]float32{0, 0, 1}, tangent: [4]float32{1, 0, 0, 1}, bones: 1, bone: 0, weight: 1},
				{pos: [3]float32{0, 1, 0}, uv: [2]float32{0, 1}, normal: [3]float32{0, 0, 1}, tangent: [4]float32{1, 0, 0, -1}, bones: 1, bone: 2, weight: 0.5},
			},
			tris: [][3]int32{{0, 1, 2}},
		}},
	}
}

func twoSurfaceFile() testFile {
	quad := testSurface{
		verts: []testVert{
			{pos: [3]float32{10, 0, 0}, bones: 1, bone: 3, weight: 1},
			{pos: [3]float32{11, 0, 0}, bones: 1, bone: 3, weight: 1},
			{pos: [3]float32{11, 1, 0}, bones: 1, bone: 4, weight: 1},
			{pos: [3]float32{10, 1, 0}, bones: 1, bone: 4, weight: 1},
		},
		tris: [][3]int32{{1, 2, 0}, {2, 3, 0}},
	}
	return testFile{
		version:  3,
		surfaces: []testSurface{triangleFile().surfaces[0], quad},
	}
}

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
