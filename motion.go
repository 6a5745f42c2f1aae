package motionblur

import "github.com/go-gl/mathgl/mgl32"

// MotionField is the per-pixel motion-vector and depth source consumed by
// the filter. It is supplied by the host each frame: velocities are raw
// screen-space displacements in pixels per frame, depth is linear in the
// [0, 1] range (0 = near plane). The filter never modifies it.
type MotionField struct {
	width  int
	height int
	vel    []mgl32.Vec2
	depth  []float32
}

// NewMotionField creates a zeroed motion field with the given dimensions.
func NewMotionField(width, height int) *MotionField {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &MotionField{
		width:  width,
		height: height,
		vel:    make([]mgl32.Vec2, width*height),
		depth:  make([]float32, width*height),
	}
}

// Width returns the field width in pixels.
func (m *MotionField) Width() int { return m.width }

// Height returns the field height in pixels.
func (m *MotionField) Height() int { return m.height }

// SetSample sets the motion vector and depth for pixel (x, y).
// Out-of-bounds coordinates are ignored.
func (m *MotionField) SetSample(x, y int, v mgl32.Vec2, depth float32) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	i := y*m.width + x
	m.vel[i] = v
	m.depth[i] = depth
}

// VelocityAt returns the motion vector at (x, y).
// Out-of-bounds coordinates return the zero vector.
func (m *MotionField) VelocityAt(x, y int) mgl32.Vec2 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return mgl32.Vec2{}
	}
	return m.vel[y*m.width+x]
}

// DepthAt returns the linear depth at (x, y).
// Out-of-bounds coordinates return zero.
func (m *MotionField) DepthAt(x, y int) float32 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.depth[y*m.width+x]
}

// Fill sets every sample to the given motion vector and depth.
func (m *MotionField) Fill(v mgl32.Vec2, depth float32) {
	for i := range m.vel {
		m.vel[i] = v
		m.depth[i] = depth
	}
}
