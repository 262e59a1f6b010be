package web

import (
	"math"
	"strconv"

	"soldak-mdm/internal/mdm"
)

// jsonFloat encodes non-finite values as the strings "NaN", "+Inf" and
// "-Inf", which encoding/json refuses to write as numbers.
type jsonFloat float32

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 32), nil
}

func floats(src []float32) []jsonFloat {
	out := make([]jsonFloat, len(src))
	for i, f := range src {
		out[i] = jsonFloat(f)
	}
	return out
}

type vertexRecord struct {
	U, V      jsonFloat
	Normal    []jsonFloat
	Tangent   []jsonFloat
	BoneCount int32
	FirstBone int32
}

type weightRecord struct {
	BoneIndex  int32
	Position   []jsonFloat
	BoneWeight jsonFloat
}

// listing mirrors mdm.Listing with field names kept, so finite files decode
// back into mdm.Listing.
type listing struct {
	Header    mdm.Header
	Surfaces  []mdm.SurfaceRecord
	Triangles []mdm.TriangleRecord
	Vertices  []vertexRecord
	Weights   []weightRecord
}

func newListing(l *mdm.Listing) *listing {
	out := &listing{
		Header:    l.Header,
		Surfaces:  l.Surfaces,
		Triangles: l.Triangles,
		Vertices:  make([]vertexRecord, len(l.Vertices)),
		Weights:   make([]weightRecord, len(l.Weights)),
	}
	for i, v := range l.Vertices {
		out.Vertices[i] = vertexRecord{
			U:         jsonFloat(v.U),
			V:         jsonFloat(v.V),
			Normal:    floats(v.Normal[:]),
			Tangent:   floats(v.Tangent[:]),
			BoneCount: v.BoneCount,
			FirstBone: v.FirstBone,
		}
	}
	for i, w := range l.Weights {
		out.Weights[i] = weightRecord{
			BoneIndex:  w.BoneIndex,
			Position:   floats(w.Position[:]),
			BoneWeight: jsonFloat(w.BoneWeight),
		}
	}
	return out
}
