// Package dump pretty-prints decoded records for diagnostics.
package dump

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"soldak-mdm/internal/mdm"
)

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Sdump formats values with spew.
func Sdump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

// Listing writes a listing in table order: header, surfaces, triangles,
// vertices, weights. Each record is printed on its own line.
func Listing(w io.Writer, l *mdm.Listing) {
	h := l.Header
	fmt.Fprintf(w, "Header: %s", Sdump(h))
	fmt.Fprintf(w, "vertsOffset: %x\n", h.VertexTableOffset)
	for i, s := range l.Surfaces {
		fmt.Fprintf(w, "Surface %d: %+v\n", i, s)
	}
	for i, t := range l.Triangles {
		fmt.Fprintf(w, "Tri %d: %v\n", i, t)
	}
	for i, v := range l.Vertices {
		fmt.Fprintf(w, "Vertex %d: %+v\n", i, v)
	}
	for i, wt := range l.Weights {
		fmt.Fprintf(w, "Weight %d: %+v\n", i, wt)
	}
}

// Summary writes per-surface counts and warnings of an assembled model.
func Summary(w io.Writer, m *mdm.Model) {
	fmt.Fprintf(w, "MDM version %d: %d surfaces, %d vertices, %d triangles\n",
		m.Version, len(m.Surfaces), m.NumVertices(), m.NumTriangles())
	for _, s := range m.Surfaces {
		fmt.Fprintf(w, "  Surface[%d]: v=%d t=%d\n", s.Index, len(s.Vertices), len(s.Triangles))
	}
	if min, max, ok := m.Bounds(); ok {
		fmt.Fprintf(w, "  Bounds: min=(%.3f,%.3f,%.3f) max=(%.3f,%.3f,%.3f)\n",
			min[0], min[1], min[2], max[0], max[1], max[2])
	}
	for _, warn := range m.Warnings {
		fmt.Fprintf(w, "  Warning: %v\n", warn)
	}
}
