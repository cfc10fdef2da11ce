package frame

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/colorkeep"
	"github.com/gogpu/colorkeep/filter"
)

// Processor errors.
var (
	ErrNilFilter = errors.New("frame: nil filter")
	ErrNilFrame  = errors.New("frame: nil frame or image")
)

// Frame is one captured image in a stream.
type Frame struct {
	// Seq identifies the frame. Processor.Run may reorder frames.
	Seq uint64

	// Timestamp is the capture time relative to the stream start.
	Timestamp time.Duration

	Image *colorkeep.Pixmap
}

// Option configures a Processor.
type Option func(*Processor)

// WithRotation rotates every frame clockwise before filtering.
// The value is validated by NewProcessor.
func WithRotation(degrees int) Option {
	return func(p *Processor) { p.rotation = degrees }
}

// WithMirror flips every frame horizontally after rotation, as a front
// camera preview does.
func WithMirror(mirror bool) Option {
	return func(p *Processor) { p.mirror = mirror }
}

// WithConcurrency sets how many frames Run processes at once.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(p *Processor) { p.concurrency = n }
}

// Processor orients frames and applies a filter to them.
// A Processor is safe for concurrent use if its filter is.
type Processor struct {
	filter      filter.Filter
	rotation    int
	mirror      bool
	concurrency int
}

// NewProcessor returns a Processor applying f.
func NewProcessor(f filter.Filter, opts ...Option) (*Processor, error) {
	if f == nil {
		return nil, ErrNilFilter
	}
	p := &Processor{filter: f}
	for _, opt := range opts {
		opt(p)
	}

	rot, err := normalizeRotation(p.rotation)
	if err != nil {
		return nil, fmt.Errorf("frame: new processor: %w", err)
	}
	p.rotation = rot
	if p.concurrency < 1 {
		p.concurrency = runtime.GOMAXPROCS(0)
	}
	return p, nil
}

// Concurrency reports the number of frames Run processes at once.
func (p *Processor) Concurrency() int { return p.concurrency }

// Process orients fr and filters it into a new pixmap. The input frame is
// not modified.
func (p *Processor) Process(ctx context.Context, fr *Frame) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fr == nil || fr.Image == nil {
		return nil, ErrNilFrame
	}

	img := fr.Image
	if p.rotation != 0 {
		// Validated in NewProcessor.
		img, _ = Rotate(img, p.rotation)
	}
	if p.mirror {
		img = Mirror(img)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst := colorkeep.NewPixmap(img.Width(), img.Height())
	p.filter.Apply(img, dst, dst.Bounds())

	colorkeep.Logger().Debug("frame processed",
		"seq", fr.Seq,
		"width", dst.Width(),
		"height", dst.Height(),
	)
	return &Frame{Seq: fr.Seq, Timestamp: fr.Timestamp, Image: dst}, nil
}

// Run processes frames from in and sends results to out until in is
// closed, ctx is done, or a frame fails. Results may arrive out of order.
// Run does not close out.
func (p *Processor) Run(ctx context.Context, in <-chan *Frame, out chan<- *Frame) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

loop:
	for {
		var fr *Frame
		var ok bool
		select {
		case <-gctx.Done():
			break loop
		case fr, ok = <-in:
			if !ok {
				break loop
			}
		}

		g.Go(func() error {
			res, err := p.Process(gctx, fr)
			if err != nil {
				if fr == nil {
					return err
				}
				return fmt.Errorf("frame: seq %d: %w", fr.Seq, err)
			}
			select {
			case out <- res:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
