// Package batch processes one or more container files through the
// optimization pipeline, one file at a time. Files are independent: a
// fatal failure on one input is recorded and the batch moves on.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vrm-optimizer/internal/config"
	"vrm-optimizer/internal/optimize"

	"github.com/schollz/progressbar/v3"
)

// Result holds the outcome of processing one input file.
type Result struct {
	Path      string
	OutPath   string
	Success   bool
	Error     string
	OldSize   int64
	NewSize   int64
	Attempts  int
	TargetMet bool
	Warnings  []string
}

// Run processes all inputs sequentially and returns one Result per input.
// The pipeline itself is strictly single-threaded; only the progress bar
// is shown while files are worked through.
func Run(cfg config.Config, inputs []string) []Result {
	bar := progressbar.Default(int64(len(inputs)), "optimizing")

	results := make([]Result, len(inputs))
	for i, path := range inputs {
		name := filepath.Base(path)
		bar.Describe(name)
		attemptFn := func(n int, s optimize.Settings) {
			bar.Describe(fmt.Sprintf("%s [attempt %d: max=%d q=%d]", name, n, s.MaxSize, s.Quality))
		}
		results[i] = processFile(cfg, path, attemptFn)
		bar.Add(1)
	}
	bar.Finish()

	return results
}

func processFile(cfg config.Config, path string, attemptFn func(int, optimize.Settings)) Result {
	res := Result{Path: path}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".vrm" && ext != ".glb" {
		res.Error = fmt.Sprintf("not a .vrm or .glb file: %s", path)
		return res
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OldSize = int64(len(raw))

	if cfg.InPlace {
		res.OutPath = path
	} else {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		res.OutPath = filepath.Join(filepath.Dir(path), base+cfg.Suffix+filepath.Ext(path))
	}

	var pass optimize.Result
	if target := cfg.TargetBytes(); target > 0 {
		search, err := optimize.Target(raw, target, cfg.Settings(), cfg.MaxAttempts, attemptFn)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		pass = search.Result
		res.Attempts = search.Attempts
		res.TargetMet = search.TargetMet
		if !search.TargetMet {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"could not reach target %.2fMB within %d attempts; best was %.2fMB (max=%d, q=%d)",
				cfg.TargetMB, search.Attempts, float64(search.Size)/(1024*1024),
				search.Settings.MaxSize, search.Settings.Quality))
		}
	} else {
		pass, err = optimize.Container(raw, cfg.Settings())
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Attempts = 1
	}

	if !pass.WasVRM {
		res.Warnings = append(res.Warnings, "file does not look like VRM (continuing anyway)")
	}
	res.Warnings = append(res.Warnings, pass.Warnings...)

	if err := os.WriteFile(res.OutPath, pass.Output, 0644); err != nil {
		res.Error = err.Error()
		return res
	}

	res.NewSize = int64(len(pass.Output))
	res.Success = true
	return res
}
