// Package mdmtest builds small MDM files for tests in other packages.
package mdmtest

import (
	"bytes"
	"encoding/binary"

	"soldak-mdm/internal/mdm"
)

// Triangle returns a file with one surface holding one triangle in the
// XZ plane, all vertices bound to bone 0.
func Triangle() []byte {
	return Build([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}, [][3]int32{{0, 1, 2}})
}

// Build lays out a one-surface file as header, surface, triangles, vertices
// and weights. Triangle indices are written as given.
func Build(positions [][3]float32, tris [][3]int32) []byte {
	nv, nt := int32(len(positions)), int32(len(tris))
	surf := int32(mdm.HeaderSize)
	tri := surf + mdm.SurfaceSize
	vert := tri + nt*mdm.TriangleSize
	wt := vert + nv*mdm.VertexSize
	end := wt + nv*mdm.WeightSize

	var buf bytes.Buffer
	write := func(v interface{}) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	write(mdm.Header{
		Magic: mdm.Magic, Version: 1,
		SurfaceCount: 1, TriangleCount: nt, VertexCount: nv,
		SurfaceTableOffset: surf, TriangleTableOffset: tri,
		VertexTableOffset: vert, WeightTableOffset: wt,
		CollapseMappingOffset: end,
	})
	write(mdm.SurfaceRecord{
		VertexCount: nv, TriangleCount: nt,
		VertexOffset: vert, TriangleOffset: tri, CollapseMappingOffset: end,
	})
	for _, t := range tris {
		write(mdm.TriangleRecord(t))
	}
	for range positions {
		write(mdm.VertexRecord{Normal: [3]float32{0, 1, 0}, Tangent: [4]float32{1, 0, 0, 1}, BoneCount: 1})
	}
	for _, p := range positions {
		write(mdm.WeightRecord{Position: p, BoneWeight: 1})
	}
	return buf.Bytes()
}
