package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/shade/rt/app"
	"github.com/gekko3d/lumen/shade/rt/gbuffer"
)

func main() {
	presetPath := flag.String("preset", "", "Scene preset JSON (default scene when empty)")
	writePreset := flag.String("write-preset", "", "Write the default scene preset to this file and exit")
	outDir := flag.String("out", ".", "Output directory")
	format := flag.String("format", "png", "Image format: png, tiff or bmp")
	width := flag.Int("width", 640, "Image width")
	height := flag.Int("height", 360, "Image height")
	quality := flag.String("quality", "", "Lighting quality: fast or precise (overrides the preset)")
	workers := flag.Int("workers", 0, "Shading workers (0 = one per CPU)")
	debug := flag.Bool("debug", false, "Enable debug logging and profiler output")
	flag.Parse()

	log := lumen.NewDefaultLogger("lumen", *debug)

	if *writePreset != "" {
		if err := lumen.SavePreset(lumen.DefaultScenePreset(), *writePreset); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		log.Infof("Wrote default preset to %s", *writePreset)
		return
	}

	if err := run(log, *presetPath, *outDir, *format, *width, *height, *quality, *workers, *debug); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(log lumen.Logger, presetPath, outDir, formatName string, width, height int, quality string, workers int, debug bool) error {
	format, err := gbuffer.ParseFormat(formatName)
	if err != nil {
		return err
	}

	preset := lumen.DefaultScenePreset()
	if presetPath != "" {
		if preset, err = lumen.LoadPreset(presetPath); err != nil {
			return err
		}
	}
	if quality != "" {
		preset.Quality = quality
	}

	opts := []app.Option{app.WithDebug(debug)}
	if workers > 0 {
		opts = append(opts, app.WithWorkers(workers))
	}
	res, err := lumen.RenderPreset(log, preset, width, height, opts...)
	if err != nil {
		return err
	}
	log.Infof("%s", res.Stats)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, kind := range []gbuffer.Target{gbuffer.TargetColor, gbuffer.TargetNormal, gbuffer.TargetMaterial} {
		name := filepath.Join(outDir, fmt.Sprintf("%s.%s", kind, format))
		if err := writeFile(name, func(f *os.File) error {
			return gbuffer.Export(f, res.Targets, kind, format)
		}); err != nil {
			return err
		}
		log.Infof("Wrote %s", name)
	}

	name := filepath.Join(outDir, fmt.Sprintf("depth.%s", format))
	if err := writeFile(name, func(f *os.File) error {
		return gbuffer.ExportDepth(f, res.GBuffer, res.Camera, format)
	}); err != nil {
		return err
	}
	log.Infof("Wrote %s", name)
	return nil
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}
