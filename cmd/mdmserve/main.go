package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"soldak-mdm/internal/config"
	"soldak-mdm/internal/preview"
	"soldak-mdm/internal/texture"
	"soldak-mdm/internal/web"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json, .yaml)")
	inputDir := flag.String("input", "", "Directory of .mdm files (default: .)")
	textureDir := flag.String("textures", "", "Texture directory for previews (default: input)")
	listen := flag.String("listen", "", "Listen address (default: localhost:8000)")
	size := flag.Int("size", 0, "Default preview size in pixels (default: 256)")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		InputDir:   *inputDir,
		TextureDir: *textureDir,
		Listen:     *listen,
		Size:       *size,
	})

	texIndex := texture.BuildIndex(cfg.TextureDir)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	srv := web.NewServer(cfg.InputDir, texture.NewCache(texIndex), preview.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Camera:      cfg.Camera(),
	})
	if err := srv.ListenAndServe(cfg.Listen); err != nil {
		log.Fatal(err)
	}
}
