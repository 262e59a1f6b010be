package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"input_dir": "/models", "render_size": 128, "formats": ["glb"], "workers": 3}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputDir != "/models" || cfg.RenderSize != 128 || cfg.Workers != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"glb"}) {
		t.Errorf("Formats = %v", cfg.Formats)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "input_dir: /models\noutput_dir: /out\nperspective: true\nformats:\n  - webp\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputDir != "/models" || cfg.OutputDir != "/out" || !cfg.Perspective {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file loaded")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("bad JSON loaded")
	}
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{InputDir: "/models"})
	if cfg.OutputDir != filepath.Join("/models", "mdm-out") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.TextureDir != "/models" {
		t.Errorf("TextureDir = %q", cfg.TextureDir)
	}
	if cfg.RenderSize != 256 || cfg.Supersample != 2 || cfg.Workers <= 0 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Wants(FormatWebP) || !cfg.Wants(FormatGLB) {
		t.Errorf("Formats = %v, want both", cfg.Formats)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{InputDir: "/a", RenderSize: 64, Workers: 2}
	cfg.Resolve(Flags{InputDir: "/b", Formats: " WEBP, ", Size: 512, Workers: 8})
	if cfg.InputDir != "/b" || cfg.RenderSize != 512 || cfg.Workers != 8 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"webp"}) {
		t.Errorf("Formats = %v", cfg.Formats)
	}
}

func TestValidateUnknownFormat(t *testing.T) {
	cfg := Config{Formats: []string{"fbx"}}
	if err := cfg.Validate(); err == nil {
		t.Error("fbx accepted")
	}
}

func float(v float64) *float64 { return &v }

func TestCamera(t *testing.T) {
	cfg := Config{Yaw: float(45), Pitch: float(-10), Perspective: true}
	cam := cfg.Camera()
	if cam.Yaw != 45 || cam.Pitch != -10 || !cam.ZUp || !cam.Perspective {
		t.Errorf("Camera = %+v", cam)
	}

	var unset Config
	if cam := unset.Camera(); cam.Yaw != 30 || cam.Pitch != -20 {
		t.Errorf("default Camera = %+v", cam)
	}
}

func TestFrontViewSurvivesResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.yaml")
	if err := os.WriteFile(path, []byte("yaw: 0\npitch: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Resolve(Flags{})
	if cam := cfg.Camera(); cam.Yaw != 0 || cam.Pitch != 0 {
		t.Errorf("Camera = %+v, want a straight-on front view", cam)
	}

	var unset Config
	unset.Resolve(Flags{})
	if *unset.Yaw != 30 || *unset.Pitch != -20 {
		t.Errorf("defaults = %v, %v", *unset.Yaw, *unset.Pitch)
	}
}
