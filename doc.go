// Package motionblur reconstructs camera motion blur from a per-pixel
// velocity field.
//
// # Overview
//
// motionblur is a standalone image-processing component implementing the
// tile-based reconstruction filter used by real-time renderers: a packed
// velocity/depth setup pass, a three-step max-velocity tile reduction, a
// neighbor-max dilation and a final per-pixel gather along the dominant
// local velocity. The motion vectors themselves are an input — typically
// produced by the host renderer's camera reprojection — not something this
// package computes.
//
// # Quick Start
//
//	import "github.com/gogpu/motionblur"
//
//	f, err := motionblur.NewReconstructionFilter(motionblur.DefaultProgram())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release()
//
//	// src, motion supplied by the host each frame
//	dst := motionblur.NewPixmap(src.Width(), src.Height())
//	if err := f.ProcessImage(270, 10, src, motion, dst); err != nil {
//	    // drop the blur for this frame, present src instead
//	}
//
// # Architecture
//
// The package is organized into:
//   - Public API: ReconstructionFilter, Program, Pixmap, MotionField
//   - internal/buffer: intermediate buffers and their pool
//   - internal/parallel: the worker pool dispatching pass kernels
//
// The six per-pixel kernels are injected as a Program; DefaultProgram
// provides the reference implementation. Passes are strictly ordered,
// pixels within a pass run data-parallel across the worker pool.
//
// # Concurrency
//
// A filter binds per-invocation uniforms onto its shared program, so
// invocations on one filter instance must be serialized by the caller.
// Separate instances are independent.
package motionblur
