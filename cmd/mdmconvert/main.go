package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"soldak-mdm/internal/gltfexport"
	"soldak-mdm/internal/mdm"
	"soldak-mdm/internal/preview"
	"soldak-mdm/internal/texture"
	"soldak-mdm/internal/viewmatrix"
)

func main() {
	glbPath := flag.String("glb", "", "Write binary glTF to this path")
	webpPath := flag.String("webp", "", "Write a WebP preview to this path")
	texPath := flag.String("texture", "", "Texture image for the preview (.tga, .png, .jpg)")
	size := flag.Int("size", preview.DefaultOptions.Size, "Preview size in pixels")
	yaw := flag.Float64("yaw", viewmatrix.DefaultCamera.Yaw, "Camera yaw in degrees")
	pitch := flag.Float64("pitch", viewmatrix.DefaultCamera.Pitch, "Camera pitch in degrees")
	yUp := flag.Bool("yup", false, "Treat +Y as up instead of +Z")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mdmconvert [flags] <file.mdm>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	in := flag.Arg(0)
	stem := strings.TrimSuffix(in, filepath.Ext(in))
	if *glbPath == "" && *webpPath == "" {
		*glbPath = stem + ".glb"
	}

	m, err := mdm.DecodeFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: version %d, %d surfaces, %d vertices, %d triangles\n",
		filepath.Base(in), m.Version, len(m.Surfaces), m.NumVertices(), m.NumTriangles())
	for _, w := range m.Warnings {
		fmt.Printf("  warning: %v\n", w)
	}

	if *glbPath != "" {
		if err := writeGLB(*glbPath, m, filepath.Base(stem)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *glbPath)
	}

	if *webpPath != "" {
		tex := loadTexture(*texPath)
		opts := preview.DefaultOptions
		opts.Size = *size
		opts.Camera.Yaw, opts.Camera.Pitch, opts.Camera.ZUp = *yaw, *pitch, !*yUp
		if err := preview.WriteFile(*webpPath, m, tex, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *webpPath)
	}
}

func writeGLB(path string, m *mdm.Model, name string) error {
	doc, err := gltfexport.Export(m, name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gltfexport.WriteBinary(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadTexture(path string) *image.NRGBA {
	if path == "" {
		return nil
	}
	img, err := texture.LoadTexture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: texture: %v\n", err)
		return nil
	}
	return img
}
