package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestIndexAndCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "sub", "Goblin.png"), color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	idx := BuildIndex(dir)
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
	if _, ok := idx.ResolvePath(`models\goblin.mdm`); !ok {
		t.Fatal("goblin not resolved")
	}

	c := NewCache(idx)
	var wg sync.WaitGroup
	imgs := make([]*image.NRGBA, 4)
	for i := range imgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			imgs[i] = c.Resolve("goblin.mdm")
		}(i)
	}
	wg.Wait()
	for i, img := range imgs {
		if img == nil {
			t.Fatalf("Resolve %d returned nil", i)
		}
		if got := img.NRGBAAt(0, 0); got.R != 10 || got.B != 30 {
			t.Errorf("texel = %v", got)
		}
	}
	if c.Resolve("orc") != nil {
		t.Error("unknown name resolved")
	}
}

func TestEmptyIndex(t *testing.T) {
	if n := BuildIndex("").Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -8 && d <= 8
}

func TestLoadTextureFormats(t *testing.T) {
	want := color.NRGBA{R: 200, G: 40, B: 90, A: 255}
	encoders := map[string]func(io.Writer, image.Image) error{
		"a.tga": tga.Encode,
		"b.png": png.Encode,
		"c.JPG": func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 100})
		},
	}
	dir := t.TempDir()
	for name, enc := range encoders {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := enc(f, solid(want)); err != nil {
			t.Fatalf("encode %s: %v", name, err)
		}
		f.Close()

		img, err := LoadTexture(path)
		if err != nil {
			t.Errorf("LoadTexture(%s): %v", name, err)
			continue
		}
		got := img.NRGBAAt(4, 4)
		if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) {
			t.Errorf("%s: texel = %v, want about %v", name, got, want)
		}
	}
}

func TestLoadTextureUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.bmp")
	if err := os.WriteFile(path, []byte("BM"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTexture(path); err == nil {
		t.Error("bmp loaded, want an error")
	}
}
