package web

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"soldak-mdm/internal/gltfexport"
	"soldak-mdm/internal/mdm"
	"soldak-mdm/internal/preview"
)

const (
	minPreviewSize = 16
	maxPreviewSize = 1024
)

type surfaceSummary struct {
	Index     int   `json:"index"`
	Vertices  int   `json:"vertices"`
	Triangles int   `json:"triangles"`
	Collapse  int32 `json:"collapse_mapping_offset"`
}

type modelSummary struct {
	Name      string           `json:"name"`
	Version   int32            `json:"version"`
	Vertices  int              `json:"vertices"`
	Triangles int              `json:"triangles"`
	Surfaces  []surfaceSummary `json:"surfaces"`
	Min       *[3]float32      `json:"min,omitempty"`
	Max       *[3]float32      `json:"max,omitempty"`
	Warnings  []string         `json:"warnings,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".mdm") {
			names = append(names, e.Name())
		}
	}
	writeJSON(w, names)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.load(w, r)
	if !ok {
		return
	}
	sum := modelSummary{
		Name:      name,
		Version:   m.Version,
		Vertices:  m.NumVertices(),
		Triangles: m.NumTriangles(),
		Surfaces:  make([]surfaceSummary, len(m.Surfaces)),
	}
	for i, surf := range m.Surfaces {
		sum.Surfaces[i] = surfaceSummary{
			Index:     surf.Index,
			Vertices:  len(surf.Vertices),
			Triangles: len(surf.Triangles),
			Collapse:  surf.CollapseMappingOffset,
		}
	}
	if min, max, ok := m.Bounds(); ok {
		lo, hi := [3]float32(min), [3]float32(max)
		sum.Min, sum.Max = &lo, &hi
	}
	for _, warn := range m.Warnings {
		sum.Warnings = append(sum.Warnings, warn.Error())
	}
	writeJSON(w, sum)
}

func (s *Server) handleGLB(w http.ResponseWriter, r *http.Request) {
	name, m, ok := s.load(w, r)
	if !ok {
		return
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	doc, err := gltfexport.Export(m, stem)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	var buf bytes.Buffer
	if err := gltfexport.WriteBinary(&buf, doc); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeFile(w, buf.Bytes(), stem+".glb", "model/gltf-binary")
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	opts := s.Preview
	if v := r.URL.Query().Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < minPreviewSize || size > maxPreviewSize {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("size must be an integer in [%d, %d]", minPreviewSize, maxPreviewSize))
			return
		}
		opts.Size = size
	}

	name, m, ok := s.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := preview.Encode(&buf, preview.Render(m, s.texture(name), opts)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	writeResult(w, buf.Bytes())
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolve(w, r)
	if !ok {
		return
	}
	f, fi, ok := open(w, path)
	if !ok {
		return
	}
	defer f.Close()

	l, err := mdm.Inspect(f, fi.Size())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, newListing(l))
}

func (s *Server) texture(name string) *image.NRGBA {
	if s.Textures == nil {
		return nil
	}
	return s.Textures.Resolve(name)
}

// resolve maps the {name} route variable to a file in s.Dir.
// A missing extension defaults to .mdm.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := mux.Vars(r)["name"]
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid model name %q", name))
		return "", false
	}
	if filepath.Ext(name) == "" {
		name += ".mdm"
	}
	return filepath.Join(s.Dir, name), true
}

// load resolves and decodes the requested model.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (string, *mdm.Model, bool) {
	path, ok := s.resolve(w, r)
	if !ok {
		return "", nil, false
	}
	f, fi, ok := open(w, path)
	if !ok {
		return "", nil, false
	}
	defer f.Close()

	name := filepath.Base(path)
	a := &mdm.Assembler{Logf: func(format string, args ...interface{}) {
		log.Printf("[web] %s: "+format, append([]interface{}{name}, args...)...)
	}}
	m, err := a.Assemble(f, fi.Size())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return "", nil, false
	}
	return name, m, true
}

func open(w http.ResponseWriter, path string) (*os.File, os.FileInfo, bool) {
	f, err := os.Open(path)
	if err != nil {
		status := http.StatusInternalServerError
		if os.IsNotExist(err) {
			status = http.StatusNotFound
			err = fmt.Errorf("model %s not found", filepath.Base(path))
		}
		writeError(w, status, err)
		return nil, nil, false
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		writeError(w, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	return f, fi, true
}
