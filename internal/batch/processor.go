package batch

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"soldak-mdm/internal/gltfexport"
	"soldak-mdm/internal/mdm"
	"soldak-mdm/internal/preview"
	"soldak-mdm/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir    string
	OutputDir   string
	TexResolver texture.Resolver // may be nil
	Preview     preview.Options
	WebP        bool
	GLB         bool
	Workers     int

	// Progress is called every two seconds while the run is busy. Nil disables it.
	Progress func(done, total int, rate float64)
}

// Result holds the outcome of processing one model file.
type Result struct {
	Name      string // path relative to InputDir
	Success   bool
	Error     string
	Warnings  []string
	Surfaces  int
	Vertices  int
	Triangles int
	Image     string // relative output path, empty if not written
	GLB       string
}

// FindModels returns the .mdm files under dir, relative to dir, sorted.
func FindModels(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".mdm" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool. Results are in input order.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if p := processed.Load(); p > 0 {
						cfg.Progress(int(p), total, float64(p)/time.Since(start).Seconds())
					}
				}
			}
		}()
	}

	work := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, name string) Result {
	res := Result{Name: name}

	a := &mdm.Assembler{Logf: func(format string, args ...interface{}) {
		log.Printf("[batch] %s: "+format, append([]interface{}{name}, args...)...)
	}}
	m, err := decodeFile(a, filepath.Join(cfg.InputDir, name))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Surfaces = len(m.Surfaces)
	res.Vertices = m.NumVertices()
	res.Triangles = m.NumTriangles()
	for _, w := range m.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))

	if cfg.WebP {
		tex := textureFor(cfg, name)
		rel := stem + ".webp"
		if err := preview.WriteFile(filepath.Join(cfg.OutputDir, rel), m, tex, cfg.Preview); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Image = filepath.ToSlash(rel)
	}

	if cfg.GLB {
		rel := stem + ".glb"
		if err := writeGLB(filepath.Join(cfg.OutputDir, rel), m, filepath.Base(stem)); err != nil {
			res.Error = err.Error()
			return res
		}
		res.GLB = filepath.ToSlash(rel)
	}

	res.Success = true
	return res
}

func textureFor(cfg Config, name string) *image.NRGBA {
	if cfg.TexResolver == nil {
		return nil
	}
	return cfg.TexResolver.Resolve(name)
}

func decodeFile(a *mdm.Assembler, path string) (*mdm.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return a.Assemble(f, fi.Size())
}

func writeGLB(path string, m *mdm.Model, name string) error {
	doc, err := gltfexport.Export(m, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gltfexport.WriteBinary(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("batch: glb %s: %w", path, err)
	}
	return f.Close()
}
