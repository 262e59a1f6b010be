package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"soldak-mdm/internal/batch"
	"soldak-mdm/internal/config"
	"soldak-mdm/internal/preview"
	"soldak-mdm/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml)")
	testN := flag.Int("test", 0, "Convert only first N models for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	inputDir := flag.String("input", "", "Directory scanned for .mdm files (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/mdm-out)")
	textureDir := flag.String("textures", "", "Texture directory for previews (default: input)")
	formats := flag.String("formats", "", "Comma separated output formats: webp,glb (default: both)")
	size := flag.Int("size", 0, "Preview size in pixels (default: 256)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:   *inputDir,
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		Formats:    *formats,
		Workers:    *workers,
		Size:       *size,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := batch.FindModels(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	if len(files) == 0 {
		fmt.Println("No models to convert.")
		os.Exit(0)
	}

	var texCache texture.Resolver
	if cfg.Wants(config.FormatWebP) {
		texIndex := texture.BuildIndex(cfg.TextureDir)
		texCache = texture.NewCache(texIndex)
		fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	}

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Soldak MDM converter%s\n", mode)
	fmt.Printf("Models: %d, Workers: %d, Formats: %v\n", len(files), cfg.Workers, cfg.Formats)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Preview: preview.Options{
			Size:        cfg.RenderSize,
			Supersample: cfg.Supersample,
			Camera:      cfg.Camera(),
		},
		WebP:    cfg.Wants(config.FormatWebP),
		GLB:     cfg.Wants(config.FormatGLB),
		Workers: cfg.Workers,
		Progress: func(done, total int, rate float64) {
			fmt.Printf("  [%d/%d] %.1f models/s\n", done, total, rate)
		},
	}, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed, warned := 0, 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
		if len(r.Warnings) > 0 {
			warned++
		}
	}

	fmt.Printf("Converted: %d/%d (%d with warnings)\n", success, len(files), warned)

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	manifest := batch.NewManifest(results)
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, manifest.RunID)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
