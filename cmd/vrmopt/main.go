package main

import (
	"fmt"
	"os"

	"vrm-optimizer/internal/batch"
	"vrm-optimizer/internal/config"

	"github.com/spf13/pflag"
)

func main() {
	configFile := pflag.String("config", "", "path to JSON config file")
	suffix := pflag.String("suffix", "", "suffix added before the extension for output files (default: _optimized)")
	inplace := pflag.Bool("inplace", false, "overwrite input files instead of creating suffixed outputs")
	targetMB := pflag.Float64("target-mb", 0, "retry descending settings until the output fits this size in MB")
	maxAttempts := pflag.Int("max-attempts", 0, "attempt budget for the target-size search (default: 12)")
	manifest := pflag.String("manifest", "", "write a JSON summary of the run to this path")

	maxSize := pflag.Int("max-size", 0, "max dimension for general textures (default: 512)")
	quality := pflag.Int("quality", 0, "WebP quality for general textures (default: 60)")
	thumbMax := pflag.Int("thumb-max", 0, "max dimension for thumbnails (default: 512)")
	thumbQuality := pflag.Int("thumb-quality", 0, "WebP quality for thumbnails (default: 45)")
	normalMax := pflag.Int("normal-max", 0, "max dimension for normal maps (default: 512)")
	normalQuality := pflag.Int("normal-quality", 0, "WebP quality for normal maps (default: 70)")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.vrm [input2.vrm ...]\n\nOptimizes embedded textures inside VRM/GLB files.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	inputs := pflag.Args()
	if len(inputs) == 0 {
		pflag.Usage()
		os.Exit(1)
	}

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
		MaxSize:       *maxSize,
		Quality:       *quality,
		ThumbMax:      *thumbMax,
		ThumbQuality:  *thumbQuality,
		NormalMax:     *normalMax,
		NormalQuality: *normalQuality,
		TargetMB:      *targetMB,
		MaxAttempts:   *maxAttempts,
		Suffix:        *suffix,
		InPlace:       *inplace,
	})

	results := batch.Run(cfg, inputs)

	failed := 0
	for _, r := range results {
		fmt.Printf("\n== %s ==\n", r.Path)
		for _, w := range r.Warnings {
			fmt.Printf("  Warning: %s\n", w)
		}
		if !r.Success {
			failed++
			fmt.Fprintf(os.Stderr, "  Error: %s\n", r.Error)
			continue
		}
		fmt.Printf("  Old size: %.2fMB\n", float64(r.OldSize)/(1024*1024))
		fmt.Printf("  New size: %.2fMB\n", float64(r.NewSize)/(1024*1024))
		if cfg.TargetMB > 0 {
			status := "target met"
			if !r.TargetMet {
				status = "target not met"
			}
			fmt.Printf("  Attempts: %d (%s)\n", r.Attempts, status)
		}
		fmt.Printf("  Output: %s\n", r.OutPath)
	}

	if *manifest != "" {
		if err := batch.WriteManifest(*manifest, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d file(s) failed\n", failed, len(results))
		os.Exit(1)
	}
}
