package motionblur

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/motionblur/internal/buffer"
)

// Program construction errors.
var (
	// ErrNilProgram is returned when a filter is constructed without a
	// program.
	ErrNilProgram = errors.New("motionblur: program is nil")

	// ErrIncompleteProgram is returned when a program is missing one or
	// more stage kernels.
	ErrIncompleteProgram = errors.New("motionblur: program is missing a stage kernel")
)

// Uniforms are the per-invocation parameters bound onto the program
// before its passes run. All stage kernels read from the same bound set.
type Uniforms struct {
	// VelocityScale converts raw motion vectors into pixel offsets.
	VelocityScale float32

	// MaxBlurRadius is the clamp on blur extent, in pixels.
	MaxBlurRadius float32

	// TileSize is the side of the final reduction tile, in pixels.
	TileSize int32

	// TileMaxLoop is the per-axis sample count of the variable tile-max
	// pass (TileSize / 8).
	TileMaxLoop int32

	// TileMaxOffset recentres the variable tile-max sample positions on
	// their output tile.
	TileMaxOffset mgl32.Vec2

	// LoopCount is the number of bidirectional reconstruction steps.
	LoopCount int32
}

// Stage kernel signatures. Each kernel processes the destination rows in
// the half-open range [y0, y1); the dispatcher splits the full height into
// bands and may run bands concurrently, so kernels must only write rows
// inside their range.
type (
	// VelocitySetupKernel packs the scaled, radius-clamped motion vector
	// and the depth of each pixel into the packed velocity buffer.
	VelocitySetupKernel func(u *Uniforms, motion *MotionField, dst *buffer.Buffer, y0, y1 int)

	// ReduceKernel writes, for each destination cell, a reduction over a
	// block (or neighborhood) of source cells. Used by the three tile-max
	// passes and the neighbor-max pass.
	ReduceKernel func(u *Uniforms, src, dst *buffer.Buffer, y0, y1 int)

	// ReconstructKernel synthesizes the blurred result: for each pixel it
	// samples src along the dominant local velocity from the neighbor-max
	// buffer and writes the normalized accumulation to dst.
	ReconstructKernel func(u *Uniforms, src *Pixmap, vbuf, neighbor *buffer.Buffer, dst *Pixmap, y0, y1 int)
)

// Program is the six-kernel program executed by a ReconstructionFilter.
// It is the injected counterpart of the original's named shader asset: the
// filter does not resolve kernels itself, it runs whatever program it was
// constructed with. DefaultProgram returns the reference kernels.
//
// A Program carries the uniform block shared by its kernels. The filter
// binds uniforms immediately before dispatching passes, so a program (and
// hence a filter) must not be shared by concurrent invocations.
type Program struct {
	// VelocitySetup packs velocity and depth at full resolution.
	VelocitySetup VelocitySetupKernel

	// TileMax4 reduces the packed buffer to 1/4 resolution.
	TileMax4 ReduceKernel

	// TileMax2 reduces the 1/4 buffer to 1/8 resolution.
	TileMax2 ReduceKernel

	// TileMaxV reduces the 1/8 buffer to the final tile resolution.
	TileMaxV ReduceKernel

	// NeighborMax dilates each tile over its 3x3 neighborhood.
	NeighborMax ReduceKernel

	// Reconstruct writes the final blur.
	Reconstruct ReconstructKernel

	// uniforms is the bound parameter block, shared by all passes of the
	// current invocation.
	uniforms Uniforms
}

// validate checks that every stage kernel is present.
func (p *Program) validate() error {
	if p.VelocitySetup == nil || p.TileMax4 == nil || p.TileMax2 == nil ||
		p.TileMaxV == nil || p.NeighborMax == nil || p.Reconstruct == nil {
		return ErrIncompleteProgram
	}
	return nil
}

// bindUniforms installs the parameter block read by the stage kernels.
func (p *Program) bindUniforms(u Uniforms) {
	p.uniforms = u
}
