package motionblur

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveParams_MaxBlurAndTileSize(t *testing.T) {
	tests := []struct {
		name        string
		height      int
		wantMaxBlur int
		wantTile    int
	}{
		{name: "1000p", height: 1000, wantMaxBlur: 50, wantTile: 56},
		{name: "1080p", height: 1080, wantMaxBlur: 54, wantTile: 56},
		{name: "720p", height: 720, wantMaxBlur: 36, wantTile: 40},
		{name: "tiny image floors to zero blur", height: 16, wantMaxBlur: 0, wantTile: 8},
		{name: "blur already multiple of 8", height: 320, wantMaxBlur: 16, wantTile: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := deriveParams(tt.height, 360, 10)
			assert.Equal(t, tt.wantMaxBlur, p.maxBlurPixels)
			assert.Equal(t, tt.wantTile, p.tileSize)

			// tileSize is the smallest multiple of 8 covering the blur
			// radius, never below 8.
			assert.Zero(t, p.tileSize%8)
			assert.GreaterOrEqual(t, p.tileSize, 8)
			assert.GreaterOrEqual(t, p.tileSize, p.maxBlurPixels)
			if p.tileSize > 8 {
				assert.Less(t, p.tileSize-8, p.maxBlurPixels)
			}
		})
	}
}

func TestDeriveParams_LoopCount(t *testing.T) {
	tests := []struct {
		name        string
		sampleCount int
		want        int
	}{
		{name: "zero clamps up", sampleCount: 0, want: 1},
		{name: "negative clamps up", sampleCount: -8, want: 1},
		{name: "one clamps up", sampleCount: 1, want: 1},
		{name: "ten", sampleCount: 10, want: 5},
		{name: "two hundred clamps down", sampleCount: 200, want: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := deriveParams(1000, 360, tt.sampleCount)
			assert.Equal(t, tt.want, p.loopCount)
		})
	}
}

func TestDeriveParams_VelocityScale(t *testing.T) {
	p := deriveParams(1000, 360, 10)
	assert.InDelta(t, 1.45, p.velocityScale, 1e-6)

	p = deriveParams(1000, 180, 10)
	assert.InDelta(t, 0.725, p.velocityScale, 1e-6)

	p = deriveParams(1000, 90, 10)
	assert.InDelta(t, 0.3625, p.velocityScale, 1e-6)
}

func TestDeriveParams_TileMaxOffset(t *testing.T) {
	// tileSize 56 -> 7 samples per axis -> recentring offset -3.
	p := deriveParams(1000, 360, 10)
	assert.InDelta(t, -3.0, p.tileMaxOffset, 1e-6)

	// tileSize 8 -> single sample -> no recentring.
	p = deriveParams(16, 360, 10)
	assert.InDelta(t, 0.0, p.tileMaxOffset, 1e-6)
}

func TestPipelineParams_Uniforms(t *testing.T) {
	p := deriveParams(1000, 360, 20)
	u := p.uniforms()

	assert.Equal(t, float32(50), u.MaxBlurRadius)
	assert.Equal(t, int32(56), u.TileSize)
	assert.Equal(t, int32(7), u.TileMaxLoop)
	assert.Equal(t, int32(10), u.LoopCount)
	assert.InDelta(t, 1.45, u.VelocityScale, 1e-6)
	assert.Equal(t, u.TileMaxOffset[0], u.TileMaxOffset[1])
}
