// Package buffer provides the intermediate pixel buffers used by the
// motion-blur pipeline.
//
// Buffers are byte-backed 2D grids with a small set of formats: a packed
// velocity+depth format for the full-resolution setup pass and float
// formats for the tile reduction chain. A thread-safe pool keyed by
// (width, height, format) serves the per-invocation temporaries.
package buffer

import "fmt"

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatRGBAF32 is 4-channel float32 color (16 bytes per pixel).
	// Not produced by the default pipeline; available to custom programs
	// that need a high-precision color intermediate.
	FormatRGBAF32 Format = iota

	// FormatVec2F32 is a 2-component float32 vector (8 bytes per pixel).
	// Used by the tile-max and neighbor-max buffers.
	FormatVec2F32

	// FormatPacked1010102 packs a 2D velocity and a depth value into a
	// single uint32: 10 bits per velocity axis, 10 bits of depth, 2 bits
	// unused. Matches the precision of the original packed velocity
	// render target and avoids visible banding in the reconstruction.
	FormatPacked1010102

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// Channels is the number of logical channels.
	Channels int
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGBAF32:       {BytesPerPixel: 16, Channels: 4},
	FormatVec2F32:       {BytesPerPixel: 8, Channels: 2},
	FormatPacked1010102: {BytesPerPixel: 4, Channels: 3},
}

// IsValid reports whether the format is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f Format) BytesPerPixel() int {
	if !f.IsValid() {
		return 0
	}
	return formatInfoTable[f].BytesPerPixel
}

// Channels returns the number of logical channels for the format.
func (f Format) Channels() int {
	if !f.IsValid() {
		return 0
	}
	return formatInfoTable[f].Channels
}

// RowBytes returns the minimum number of bytes per row for the given width.
func (f Format) RowBytes(width int) int {
	return f.BytesPerPixel() * width
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBAF32:
		return "RGBAF32"
	case FormatVec2F32:
		return "Vec2F32"
	case FormatPacked1010102:
		return "Packed1010102"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}
