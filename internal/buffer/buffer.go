package buffer

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("buffer: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("buffer: invalid format")

	// ErrBudgetExceeded is returned by Pool.Get when leasing the buffer
	// would exceed the pool's byte budget.
	ErrBudgetExceeded = errors.New("buffer: pool byte budget exceeded")
)

// Buffer is a 2D pixel buffer for one pipeline stage.
//
// Pixel data lives in a contiguous byte slice; typed accessors interpret it
// according to the buffer's format. Accessors do not bounds-check beyond
// returning zero values for out-of-range coordinates: the pipeline kernels
// clamp their sample positions before reading.
//
// Thread safety: concurrent reads are safe; writes to disjoint rows from
// different goroutines are safe (the dispatcher splits passes by row);
// anything else requires external synchronization.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// New creates a buffer with the given dimensions and format.
func New(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &Buffer{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Format returns the pixel format.
func (b *Buffer) Format() Format { return b.format }

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int { return b.stride }

// ByteSize returns the total size of the pixel data in bytes.
func (b *Buffer) ByteSize() int { return len(b.data) }

// Data returns the raw pixel data slice.
func (b *Buffer) Data() []byte { return b.data }

// Clear sets all pixels to zero.
func (b *Buffer) Clear() {
	clear(b.data)
}

// offset returns the byte offset of pixel (x, y), or -1 if out of bounds.
func (b *Buffer) offset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// Vec2At returns the vector at (x, y) for FormatVec2F32 buffers.
// Returns the zero vector for out-of-bounds coordinates.
func (b *Buffer) Vec2At(x, y int) mgl32.Vec2 {
	off := b.offset(x, y)
	if off < 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+4:])),
	}
}

// SetVec2 stores the vector at (x, y) for FormatVec2F32 buffers.
// Out-of-bounds coordinates are ignored.
func (b *Buffer) SetVec2(x, y int, v mgl32.Vec2) {
	off := b.offset(x, y)
	if off < 0 {
		return
	}
	binary.LittleEndian.PutUint32(b.data[off:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(b.data[off+4:], math.Float32bits(v[1]))
}

// PackedAt returns the packed word at (x, y) for FormatPacked1010102
// buffers. Returns zero for out-of-bounds coordinates.
func (b *Buffer) PackedAt(x, y int) uint32 {
	off := b.offset(x, y)
	if off < 0 {
		return 0
	}
	return binary.LittleEndian.Uint32(b.data[off:])
}

// SetPacked stores the packed word at (x, y) for FormatPacked1010102
// buffers. Out-of-bounds coordinates are ignored.
func (b *Buffer) SetPacked(x, y int, w uint32) {
	off := b.offset(x, y)
	if off < 0 {
		return
	}
	binary.LittleEndian.PutUint32(b.data[off:], w)
}

// RGBAAt returns the color at (x, y) for FormatRGBAF32 buffers.
func (b *Buffer) RGBAAt(x, y int) [4]float32 {
	off := b.offset(x, y)
	if off < 0 {
		return [4]float32{}
	}
	var c [4]float32
	for i := range c {
		c[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+i*4:]))
	}
	return c
}

// SetRGBA stores the color at (x, y) for FormatRGBAF32 buffers.
func (b *Buffer) SetRGBA(x, y int, c [4]float32) {
	off := b.offset(x, y)
	if off < 0 {
		return
	}
	for i := range c {
		binary.LittleEndian.PutUint32(b.data[off+i*4:], math.Float32bits(c[i]))
	}
}
