// Command colorkeep recolors images so that only yellow survives.
//
// Usage:
//
//	colorkeep [flags] input...
//
// Each input is written to <out>/<name>.<ext>. Run with -h for the flag list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/colorkeep"
	"github.com/gogpu/colorkeep/filter"
	"github.com/gogpu/colorkeep/frame"
	"github.com/gogpu/colorkeep/internal/imageio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// stats is updated concurrently by file workers.
type stats struct {
	files  atomic.Int64
	pixels atomic.Int64
	kept   atomic.Int64
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "colorkeep:", err)
		return 2
	}

	if cfg.shader != "" {
		src, err := shaderSource(cfg)
		if err != nil {
			fmt.Fprintln(stderr, "colorkeep:", err)
			return 1
		}
		fmt.Fprint(stdout, src)
		return 0
	}

	if !cfg.gpu {
		colorkeep.UnregisterAccelerator()
	}

	f, keep := newFilter(cfg)
	proc, err := frame.NewProcessor(f,
		frame.WithRotation(cfg.rotate),
		frame.WithMirror(cfg.mirror),
		frame.WithConcurrency(1),
	)
	if err != nil {
		fmt.Fprintln(stderr, "colorkeep:", err)
		return 2
	}

	logger := newLogger(cfg, stderr)
	colorkeep.SetLogger(logger)
	defer colorkeep.SetLogger(nil)

	start := time.Now()
	var st stats
	err = processAll(ctx, cfg, proc, keep, &st)

	printSummary(stdout, keep != nil, &st)
	logger.Info("done",
		"files", st.files.Load(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if err != nil {
		logger.Error("failed", "err", err)
		fmt.Fprintln(stderr, "colorkeep:", err)
		return 1
	}
	return 0
}

func newFilter(cfg *config) (filter.Filter, *filter.YellowKeep) {
	if cfg.mode == "gray" {
		return &filter.Grayscale{DisableGPU: !cfg.gpu}, nil
	}
	cs := filter.SRGB
	if cfg.linear {
		cs = filter.Linear
	}
	keep := filter.NewYellowKeep(cs)
	keep.DisableGPU = !cfg.gpu
	return keep, keep
}

func shaderSource(cfg *config) (string, error) {
	if cfg.shader == "wgsl" {
		return wgslSource()
	}
	if cfg.mode == "gray" {
		return (&filter.Grayscale{}).FragmentShader(), nil
	}
	return filter.NewYellowKeep(filter.SRGB).FragmentShader(), nil
}

// newLogger logs text to terminals and JSON everywhere else. Every record
// carries the run id.
func newLogger(cfg *config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.logLevel}
	var h slog.Handler
	if cfg.logJSON || !isTerminal(w) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("run", uuid.NewString())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// output is where one input is written, and in which format.
type output struct {
	path   string
	format string
}

// planOutputs maps every input to its output before anything is written.
// Two inputs sharing a basename, or an output landing on any input, is an
// error.
func planOutputs(cfg *config) ([]output, error) {
	inputs := make(map[string]string, len(cfg.inputs))
	for _, in := range cfg.inputs {
		inputs[absPath(in)] = in
	}
	outs := make([]output, len(cfg.inputs))
	owner := make(map[string]string, len(cfg.inputs))
	for i, in := range cfg.inputs {
		format := cfg.format
		if format == "" {
			format = imageio.OutputFormatFor(in)
		}
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + imageio.Extension(format)
		outPath := filepath.Join(cfg.out, name)
		key := absPath(outPath)
		if prev, ok := owner[key]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, in, outPath)
		}
		if src, ok := inputs[key]; ok {
			return nil, fmt.Errorf("%s: output %s would overwrite input %s", in, outPath, src)
		}
		owner[key] = in
		outs[i] = output{path: outPath, format: format}
	}
	return outs, nil
}

func processAll(ctx context.Context, cfg *config, proc *frame.Processor, keep *filter.YellowKeep, st *stats) error {
	outs, err := planOutputs(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.out, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	jobs := cfg.jobs
	if jobs == 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range cfg.inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := processFile(gctx, cfg, proc, keep, uint64(i), path, outs[i], st); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func processFile(ctx context.Context, cfg *config, proc *frame.Processor, keep *filter.YellowKeep, seq uint64, path string, out output, st *stats) error {
	pm, _, err := imageio.Load(path)
	if err != nil {
		return err
	}
	if cfg.fitW > 0 {
		pm = imageio.Fit(pm, cfg.fitW, cfg.fitH)
	}

	res, err := proc.Process(ctx, &frame.Frame{Seq: seq, Image: pm})
	if err != nil {
		return err
	}

	if err := imageio.Save(out.path, res.Image); err != nil {
		return err
	}

	pixels := res.Image.Width() * res.Image.Height()
	st.files.Add(1)
	st.pixels.Add(int64(pixels))

	attrs := []any{"in", path, "out", out.path, "format", out.format, "pixels", pixels}
	if keep != nil {
		kept, _ := keep.Coverage(res.Image, res.Image.Bounds())
		st.kept.Add(int64(kept))
		attrs = append(attrs, "kept", kept)
	}
	colorkeep.Logger().Info("wrote", attrs...)
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func printSummary(w io.Writer, keepMode bool, st *stats) {
	p := message.NewPrinter(userLanguage())
	files, pixels := st.files.Load(), st.pixels.Load()
	if !keepMode {
		p.Fprintf(w, "%d files, %d pixels\n", files, pixels)
		return
	}
	kept := st.kept.Load()
	var pct float64
	if pixels > 0 {
		pct = 100 * float64(kept) / float64(pixels)
	}
	p.Fprintf(w, "%d files, %d pixels, %d kept (%.1f%%)\n", files, pixels, kept, pct)
}

// userLanguage derives a language tag from LC_ALL or LANG, such as
// "de_DE.UTF-8". It falls back to English.
func userLanguage() language.Tag {
	for _, key := range []string{"LC_ALL", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return tag
		}
	}
	return language.English
}
