package motionblur

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gogpu/motionblur/internal/buffer"
	"github.com/gogpu/motionblur/internal/parallel"
)

// ProcessImage errors.
var (
	// ErrReleased is returned when a released filter is used.
	ErrReleased = errors.New("motionblur: filter has been released")

	// ErrNilImage is returned when the source or destination image is nil.
	ErrNilImage = errors.New("motionblur: source or destination image is nil")

	// ErrNilMotionField is returned when the motion field is nil.
	ErrNilMotionField = errors.New("motionblur: motion field is nil")

	// ErrZeroResolution is returned when the source has a zero dimension.
	ErrZeroResolution = errors.New("motionblur: zero-resolution image")

	// ErrSizeMismatch is returned when source, destination and motion
	// field dimensions differ.
	ErrSizeMismatch = errors.New("motionblur: source, destination and motion field dimensions must match")

	// ErrAliasedImages is returned when destination aliases the source.
	ErrAliasedImages = errors.New("motionblur: destination must not alias the source")

	// ErrBufferBudget is returned when an invocation would push the
	// filter's intermediate buffers past the byte budget set with
	// WithBufferBudget.
	ErrBufferBudget = buffer.ErrBudgetExceeded
)

// ReconstructionFilter reconstructs camera motion blur from a per-pixel
// velocity field using a six-pass tile-max pipeline: pack velocity+depth,
// reduce the dominant velocity down to one cell per blur tile, dilate over
// the 3x3 tile neighborhood, then gather weighted samples along the
// dominant direction of each pixel's tile.
//
// A filter owns its program, worker pool and buffer pool for its whole
// lifetime and is reused across invocations; the five intermediate buffers
// of an invocation are leased from the pool and returned before
// ProcessImage returns, on success and failure alike.
//
// Concurrency: invocations bind uniforms onto the shared program before
// each pass, so a single filter must not run concurrent invocations —
// callers serialize per instance. Distinct filter instances are fully
// independent.
type ReconstructionFilter struct {
	id       string
	prog     *Program
	pool     *buffer.Pool
	workers  *parallel.WorkerPool
	released bool
}

var _ io.Closer = (*ReconstructionFilter)(nil)

// NewReconstructionFilter creates a filter running the given program.
// The program is required and must have all six stage kernels; a nil or
// incomplete program fails construction, mirroring an unresolvable shader
// asset in the original effect.
func NewReconstructionFilter(prog *Program, opts ...Option) (*ReconstructionFilter, error) {
	if prog == nil {
		return nil, ErrNilProgram
	}
	if err := prog.validate(); err != nil {
		return nil, err
	}

	o := defaultFilterOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := buffer.NewPool(o.poolRetention)
	if o.budgetBytes > 0 {
		pool.SetBudget(o.budgetBytes)
	}

	f := &ReconstructionFilter{
		id:      uuid.NewString(),
		prog:    prog,
		pool:    pool,
		workers: parallel.NewWorkerPool(o.workers),
	}

	Logger().Info("motionblur: filter created",
		slog.String("filter", f.id),
		slog.Int("workers", f.workers.Workers()))
	return f, nil
}

// Release frees the filter's resources. It is idempotent; after the first
// call the filter is unusable and ProcessImage fails with ErrReleased.
func (f *ReconstructionFilter) Release() error {
	if f.released {
		Logger().Warn("motionblur: filter released twice",
			slog.String("filter", f.id))
		return nil
	}
	f.released = true
	f.workers.Close()
	f.prog = nil

	Logger().Info("motionblur: filter released", slog.String("filter", f.id))
	return nil
}

// Close implements io.Closer; it is equivalent to Release.
func (f *ReconstructionFilter) Close() error {
	return f.Release()
}

// ProcessImage computes the shutter-simulated motion blur of src into dst.
//
// shutterAngle is the camera shutter angle in degrees, expected in
// (0, 360]; 360 means the shutter is open for the full frame interval.
// sampleCount is the requested number of reconstruction samples; it is
// halved and clamped to [1, 64] bidirectional steps. motion supplies the
// per-pixel velocity and depth; src, dst and motion must share dimensions.
//
// On any error dst is left untouched and no intermediate buffer stays
// leased. src is never modified.
func (f *ReconstructionFilter) ProcessImage(shutterAngle float64, sampleCount int, src *Pixmap, motion *MotionField, dst *Pixmap) error {
	if f.released {
		return ErrReleased
	}
	if src == nil || dst == nil {
		return ErrNilImage
	}
	if motion == nil {
		return ErrNilMotionField
	}
	if src == dst {
		return ErrAliasedImages
	}

	width, height := src.Width(), src.Height()
	if width == 0 || height == 0 {
		return ErrZeroResolution
	}
	if dst.Width() != width || dst.Height() != height ||
		motion.Width() != width || motion.Height() != height {
		return ErrSizeMismatch
	}

	params := deriveParams(height, shutterAngle, sampleCount)

	log := Logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("motionblur: invocation",
			slog.String("filter", f.id),
			slog.Int("width", width),
			slog.Int("height", height),
			slog.Int("maxBlurPixels", params.maxBlurPixels),
			slog.Int("tileSize", params.tileSize),
			slog.Float64("velocityScale", float64(params.velocityScale)),
			slog.Int("loopCount", params.loopCount))
	}

	// Intermediate buffers are leased for this invocation only and
	// returned on every exit path.
	var leased []*buffer.Buffer
	defer func() {
		for i := len(leased) - 1; i >= 0; i-- {
			f.pool.Put(leased[i])
		}
	}()
	lease := func(w, h int, format buffer.Format) (*buffer.Buffer, error) {
		b, err := f.pool.Get(w, h, format)
		if err != nil {
			return nil, fmt.Errorf("motionblur: lease %dx%d %v buffer: %w", w, h, format, err)
		}
		leased = append(leased, b)
		return b, nil
	}

	vbuf, err := lease(width, height, buffer.FormatPacked1010102)
	if err != nil {
		return err
	}
	tile4, err := lease(ceilDiv(width, 4), ceilDiv(height, 4), buffer.FormatVec2F32)
	if err != nil {
		return err
	}
	tile8, err := lease(ceilDiv(tile4.Width(), 2), ceilDiv(tile4.Height(), 2), buffer.FormatVec2F32)
	if err != nil {
		return err
	}
	loop := params.tileSize / 8
	tileV, err := lease(ceilDiv(tile8.Width(), loop), ceilDiv(tile8.Height(), loop), buffer.FormatVec2F32)
	if err != nil {
		return err
	}
	nmax, err := lease(tileV.Width(), tileV.Height(), buffer.FormatVec2F32)
	if err != nil {
		return err
	}

	// Uniforms are bound onto the shared program; this is the state that
	// forbids concurrent invocations on one filter.
	f.prog.bindUniforms(params.uniforms())
	u := &f.prog.uniforms

	// Six strictly ordered passes; each consumes the previous stage's
	// output, pixels within a pass run data-parallel.
	f.workers.ForRows(height, func(y0, y1 int) {
		f.prog.VelocitySetup(u, motion, vbuf, y0, y1)
	})
	f.workers.ForRows(tile4.Height(), func(y0, y1 int) {
		f.prog.TileMax4(u, vbuf, tile4, y0, y1)
	})
	f.workers.ForRows(tile8.Height(), func(y0, y1 int) {
		f.prog.TileMax2(u, tile4, tile8, y0, y1)
	})
	f.workers.ForRows(tileV.Height(), func(y0, y1 int) {
		f.prog.TileMaxV(u, tile8, tileV, y0, y1)
	})
	f.workers.ForRows(nmax.Height(), func(y0, y1 int) {
		f.prog.NeighborMax(u, tileV, nmax, y0, y1)
	})
	f.workers.ForRows(height, func(y0, y1 int) {
		f.prog.Reconstruct(u, src, vbuf, nmax, dst, y0, y1)
	})

	return nil
}

// OutstandingBuffers reports the number of intermediate buffers currently
// leased from the filter's pool. ProcessImage returns every buffer it
// leases before it returns, so between invocations this is zero; hosts can
// assert it to verify the filter does not leak pipeline temporaries.
func (f *ReconstructionFilter) OutstandingBuffers() int {
	return f.pool.Outstanding()
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
