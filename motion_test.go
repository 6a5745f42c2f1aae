package motionblur

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestMotionField_SetAndGet(t *testing.T) {
	m := NewMotionField(4, 3)
	assert.Equal(t, 4, m.Width())
	assert.Equal(t, 3, m.Height())

	m.SetSample(2, 1, mgl32.Vec2{1.5, -2}, 0.75)
	assert.Equal(t, mgl32.Vec2{1.5, -2}, m.VelocityAt(2, 1))
	assert.Equal(t, float32(0.75), m.DepthAt(2, 1))

	// Untouched samples are zero.
	assert.Equal(t, mgl32.Vec2{}, m.VelocityAt(0, 0))
	assert.Zero(t, m.DepthAt(0, 0))
}

func TestMotionField_OutOfBounds(t *testing.T) {
	m := NewMotionField(2, 2)

	m.SetSample(5, 5, mgl32.Vec2{1, 1}, 1) // dropped
	assert.Equal(t, mgl32.Vec2{}, m.VelocityAt(5, 5))
	assert.Zero(t, m.DepthAt(-1, 0))
}

func TestMotionField_Fill(t *testing.T) {
	m := NewMotionField(3, 3)
	m.Fill(mgl32.Vec2{2, 3}, 0.5)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, mgl32.Vec2{2, 3}, m.VelocityAt(x, y))
			assert.Equal(t, float32(0.5), m.DepthAt(x, y))
		}
	}
}

func TestMotionField_NegativeDimensions(t *testing.T) {
	m := NewMotionField(-1, 5)
	assert.Zero(t, m.Width())
	assert.Equal(t, 5, m.Height())
}
