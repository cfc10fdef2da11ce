package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/colorkeep/internal/imageio"
)

// errUsage marks errors caused by bad arguments; they exit with status 2.
var errUsage = errors.New("usage")

type config struct {
	out      string
	mode     string
	format   string
	jobs     int
	linear   bool
	fitW     int
	fitH     int
	rotate   int
	mirror   bool
	gpu      bool
	logLevel slog.Level
	logJSON  bool
	shader   string
	inputs   []string
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func parseConfig(args []string, stderr io.Writer) (*config, error) {
	jobsDefault := 0
	if v := getenvDefault("COLORKEEP_JOBS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, usageErrorf("COLORKEEP_JOBS: %v", err)
		}
		jobsDefault = n
	}

	var (
		cfg      config
		fit      string
		logLevel string
	)
	fs := flag.NewFlagSet("colorkeep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.out, "out", getenvDefault("COLORKEEP_OUT", "."), "output directory [COLORKEEP_OUT]")
	fs.StringVar(&cfg.mode, "mode", "keep", "filter: keep (keep yellow) or gray")
	fs.StringVar(&cfg.format, "format", "", "output format: png, jpeg, bmp or tiff (default: same as input)")
	fs.IntVar(&cfg.jobs, "jobs", jobsDefault, "files processed at once, 0 for one per CPU [COLORKEEP_JOBS]")
	fs.BoolVar(&cfg.linear, "linear", false, "classify in linear light")
	fs.StringVar(&fit, "fit", "", "scale output to fit a WxH box")
	fs.IntVar(&cfg.rotate, "rotate", 0, "rotate clockwise by 0, 90, 180 or 270 degrees")
	fs.BoolVar(&cfg.mirror, "mirror", false, "flip horizontally")
	fs.BoolVar(&cfg.gpu, "gpu", false, "use the GPU accelerator when available")
	fs.StringVar(&logLevel, "log-level", getenvDefault("COLORKEEP_LOG_LEVEL", "info"), "debug, info, warn or error [COLORKEEP_LOG_LEVEL]")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "always log JSON")
	fs.StringVar(&cfg.shader, "shader", "", "print the glsl or wgsl shader source and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: colorkeep [flags] input...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	cfg.inputs = fs.Args()

	if err := cfg.logLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, usageErrorf("-log-level: %v", err)
	}
	switch cfg.mode {
	case "keep", "gray":
	default:
		return nil, usageErrorf("-mode must be keep or gray, got %q", cfg.mode)
	}
	switch cfg.format {
	case "", imageio.FormatPNG, imageio.FormatJPEG, imageio.FormatBMP, imageio.FormatTIFF:
	case "jpg":
		cfg.format = imageio.FormatJPEG
	case "tif":
		cfg.format = imageio.FormatTIFF
	default:
		return nil, usageErrorf("-format %q not supported", cfg.format)
	}
	switch cfg.shader {
	case "", "glsl", "wgsl":
	default:
		return nil, usageErrorf("-shader must be glsl or wgsl, got %q", cfg.shader)
	}
	if fit != "" {
		w, h, ok := imageio.ParseSize(fit)
		if !ok {
			return nil, usageErrorf("-fit must look like 640x480, got %q", fit)
		}
		cfg.fitW, cfg.fitH = w, h
	}
	if cfg.jobs < 0 {
		return nil, usageErrorf("-jobs must not be negative")
	}
	if cfg.shader == "" && len(cfg.inputs) == 0 {
		return nil, usageErrorf("no input files")
	}
	return &cfg, nil
}
