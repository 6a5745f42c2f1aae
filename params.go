package motionblur

import "github.com/go-gl/mathgl/mgl32"

// Tuning constants inherited from the original effect. They were fitted
// against reference footage, not derived; changing them changes the look.
const (
	// maxBlurPercent caps the blur extent at this percentage of the
	// image height.
	maxBlurPercent = 5

	// shutterCorrection converts the shutter-angle fraction into the
	// expected blur-sample offset scale.
	shutterCorrection = 1.45

	// maxLoopCount bounds the bidirectional sample steps of the
	// reconstruction pass.
	maxLoopCount = 64
)

// pipelineParams holds the per-invocation values derived from the image
// height, shutter angle and sample count. They are not independently
// settable.
type pipelineParams struct {
	// maxBlurPixels is the hard cap on blur extent in pixels.
	maxBlurPixels int

	// tileSize is the side of the final reduction tile: the smallest
	// multiple of 8 that is >= maxBlurPixels, and at least 8.
	tileSize int

	// velocityScale converts raw motion vectors to blur-sample offsets.
	velocityScale float32

	// loopCount is the number of bidirectional reconstruction steps
	// (total samples = 2*loopCount + 1).
	loopCount int

	// tileMaxOffset recentres the variable tile-max samples on their
	// output tile, applied uniformly to both axes.
	tileMaxOffset float32
}

// deriveParams computes the pipeline parameters for one invocation.
func deriveParams(height int, shutterAngle float64, sampleCount int) pipelineParams {
	maxBlur := maxBlurPercent * height / 100

	tile := (maxBlur + 7) / 8 * 8
	if tile < 8 {
		tile = 8
	}

	loop := sampleCount / 2
	if loop < 1 {
		loop = 1
	} else if loop > maxLoopCount {
		loop = maxLoopCount
	}

	return pipelineParams{
		maxBlurPixels: maxBlur,
		tileSize:      tile,
		velocityScale: float32(shutterAngle / 360 * shutterCorrection),
		loopCount:     loop,
		tileMaxOffset: (float32(tile/8) - 1) * -0.5,
	}
}

// uniforms returns the parameters in the form bound onto the program
// before each pass.
func (p pipelineParams) uniforms() Uniforms {
	return Uniforms{
		VelocityScale: p.velocityScale,
		MaxBlurRadius: float32(p.maxBlurPixels),
		TileSize:      int32(p.tileSize),
		TileMaxLoop:   int32(p.tileSize / 8),
		TileMaxOffset: mgl32.Vec2{p.tileMaxOffset, p.tileMaxOffset},
		LoopCount:     int32(p.loopCount),
	}
}
