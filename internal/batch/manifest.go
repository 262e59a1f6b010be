package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Created   time.Time       `json:"created"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Entries   []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one model in the output manifest.
type ManifestEntry struct {
	ModelFile string   `json:"model_file"`
	Image     string   `json:"image,omitempty"`
	GLB       string   `json:"glb,omitempty"`
	Surfaces  int      `json:"surfaces"`
	Vertices  int      `json:"vertices"`
	Triangles int      `json:"triangles"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// NewManifest builds a manifest for results under a fresh run id.
func NewManifest(results []Result) *Manifest {
	m := &Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Entries: make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
		m.Entries[i] = ManifestEntry{
			ModelFile: r.Name,
			Image:     r.Image,
			GLB:       r.GLB,
			Surfaces:  r.Surfaces,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Warnings:  r.Warnings,
			Error:     r.Error,
		}
	}
	return m
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
