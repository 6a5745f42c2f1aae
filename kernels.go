package motionblur

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/motionblur/internal/buffer"
)

// minBlurLen is the velocity magnitude, in pixels, below which a pixel is
// treated as static. Tiles whose dominant velocity stays under it take the
// reconstruction early-out and copy the source through untouched.
const minBlurLen = 0.5

// softZExtent is the depth range, in linear [0,1] depth units, over which
// the foreground/background classification of a reconstruction sample
// fades instead of switching hard.
const softZExtent = 0.01

// DefaultProgram returns the reference kernels for the six pipeline
// stages. Callers needing different per-pixel behavior (other packing
// precisions, different sample weighting) construct their own Program.
func DefaultProgram() *Program {
	return &Program{
		VelocitySetup: velocitySetup,
		TileMax4:      tileMax4,
		TileMax2:      tileMax2,
		TileMaxV:      tileMaxVariable,
		NeighborMax:   neighborMax,
		Reconstruct:   reconstruct,
	}
}

// --- Velocity/depth packing -------------------------------------------------

// packUnorm10 quantizes a [0,1] value to 10 bits.
func packUnorm10(v float32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1023
	}
	return uint32(v*1023 + 0.5)
}

// packVelocityDepth packs a radius-clamped velocity and a linear depth into
// a 10/10/10 word. Each velocity axis is mapped from [-rmax, rmax] to
// [0,1]; rmax below half a pixel degenerates to a unit span so the zero
// vector still round-trips to a sub-threshold magnitude.
func packVelocityDepth(v mgl32.Vec2, depth, rmax float32) uint32 {
	span := 2 * rmax
	if span < 1 {
		span = 1
	}
	return packUnorm10(v[0]/span+0.5) |
		packUnorm10(v[1]/span+0.5)<<10 |
		packUnorm10(depth)<<20
}

// unpackVelocity recovers the velocity from a packed word.
func unpackVelocity(w uint32, rmax float32) mgl32.Vec2 {
	span := 2 * rmax
	if span < 1 {
		span = 1
	}
	return mgl32.Vec2{
		(float32(w&0x3ff)/1023 - 0.5) * span,
		(float32(w>>10&0x3ff)/1023 - 0.5) * span,
	}
}

// unpackDepth recovers the linear depth from a packed word.
func unpackDepth(w uint32) float32 {
	return float32(w>>20&0x3ff) / 1023
}

// --- Stage 1: velocity setup ------------------------------------------------

// velocitySetup scales each motion vector by the shutter-derived velocity
// scale, clamps its magnitude to the maximum blur radius and packs it with
// the pixel's depth.
func velocitySetup(u *Uniforms, motion *MotionField, dst *buffer.Buffer, y0, y1 int) {
	width := dst.Width()
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			v := motion.VelocityAt(x, y).Mul(u.VelocityScale)
			if r := v.Len(); r > u.MaxBlurRadius {
				v = v.Mul(u.MaxBlurRadius / r)
			}
			d := clamp01(motion.DepthAt(x, y))
			dst.SetPacked(x, y, packVelocityDepth(v, d, u.MaxBlurRadius))
		}
	}
}

// --- Stages 2-4: tile-max reduction chain -----------------------------------

// tileMax4 reduces the packed full-resolution buffer by 4 on each axis,
// keeping the max-magnitude velocity of every 4x4 block.
func tileMax4(u *Uniforms, src, dst *buffer.Buffer, y0, y1 int) {
	width := dst.Width()
	maxX, maxY := src.Width()-1, src.Height()-1
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			var best mgl32.Vec2
			bestSq := float32(-1)
			for j := 0; j < 4; j++ {
				sy := clampInt(y*4+j, 0, maxY)
				for i := 0; i < 4; i++ {
					sx := clampInt(x*4+i, 0, maxX)
					v := unpackVelocity(src.PackedAt(sx, sy), u.MaxBlurRadius)
					if sq := v.Dot(v); sq > bestSq {
						best, bestSq = v, sq
					}
				}
			}
			dst.SetVec2(x, y, best)
		}
	}
}

// tileMax2 halves a velocity buffer, keeping the max-magnitude vector of
// every 2x2 block.
func tileMax2(_ *Uniforms, src, dst *buffer.Buffer, y0, y1 int) {
	width := dst.Width()
	maxX, maxY := src.Width()-1, src.Height()-1
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			var best mgl32.Vec2
			bestSq := float32(-1)
			for j := 0; j < 2; j++ {
				sy := clampInt(y*2+j, 0, maxY)
				for i := 0; i < 2; i++ {
					sx := clampInt(x*2+i, 0, maxX)
					v := src.Vec2At(sx, sy)
					if sq := v.Dot(v); sq > bestSq {
						best, bestSq = v, sq
					}
				}
			}
			dst.SetVec2(x, y, best)
		}
	}
}

// tileMaxVariable performs the final reduction down to one cell per blur
// tile. The sample positions are recentred with TileMaxOffset so the
// (TileMaxLoop)^2 point samples land on the cell's own block rather than
// biased toward its upper-left corner.
func tileMaxVariable(u *Uniforms, src, dst *buffer.Buffer, y0, y1 int) {
	loop := int(u.TileMaxLoop)
	if loop < 1 {
		loop = 1
	}
	loopF := float32(loop)

	width := dst.Width()
	maxX, maxY := src.Width()-1, src.Height()-1
	for y := y0; y < y1; y++ {
		cy := (float32(y) + 0.5) * loopF
		for x := 0; x < width; x++ {
			cx := (float32(x) + 0.5) * loopF

			var best mgl32.Vec2
			bestSq := float32(-1)
			for j := 0; j < loop; j++ {
				fy := cy + u.TileMaxOffset[1] + float32(j) - 0.5
				sy := clampInt(roundInt(fy), 0, maxY)
				for i := 0; i < loop; i++ {
					fx := cx + u.TileMaxOffset[0] + float32(i) - 0.5
					sx := clampInt(roundInt(fx), 0, maxX)
					v := src.Vec2At(sx, sy)
					if sq := v.Dot(v); sq > bestSq {
						best, bestSq = v, sq
					}
				}
			}
			dst.SetVec2(x, y, best)
		}
	}
}

// --- Stage 5: neighbor-max dilation -----------------------------------------

// neighborMax replaces each tile's vector with the max-magnitude vector of
// its 3x3 neighborhood, clamping at the edges. Without it, blur trails
// would stop dead at the boundary of a moving object's own tile.
func neighborMax(_ *Uniforms, src, dst *buffer.Buffer, y0, y1 int) {
	width := dst.Width()
	maxX, maxY := src.Width()-1, src.Height()-1
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			var best mgl32.Vec2
			bestSq := float32(-1)
			for dy := -1; dy <= 1; dy++ {
				sy := clampInt(y+dy, 0, maxY)
				for dx := -1; dx <= 1; dx++ {
					sx := clampInt(x+dx, 0, maxX)
					v := src.Vec2At(sx, sy)
					if sq := v.Dot(v); sq > bestSq {
						best, bestSq = v, sq
					}
				}
			}
			dst.SetVec2(x, y, best)
		}
	}
}

// --- Stage 6: reconstruction ------------------------------------------------

// reconstruct synthesizes the blur. Each pixel walks LoopCount steps in
// both directions along its tile's dominant velocity, alternating between
// that vector and the pixel's own so fast pixels are always blurred along
// their own trajectory, and accumulates depth-weighted source samples.
func reconstruct(u *Uniforms, src *Pixmap, vbuf, neighbor *buffer.Buffer, dst *Pixmap, y0, y1 int) {
	width, height := src.Width(), src.Height()
	tile := int(u.TileSize)
	if tile < 1 {
		tile = 8
	}
	loop := int(u.LoopCount)
	if loop < 1 {
		loop = 1
	}

	srcData := src.Data()
	dstData := dst.Data()
	maxTX, maxTY := neighbor.Width()-1, neighbor.Height()-1

	for y := y0; y < y1; y++ {
		ty := clampInt(y/tile, 0, maxTY)
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 4

			tx := clampInt(x/tile, 0, maxTX)
			vMax := neighbor.Vec2At(tx, ty)
			if vMax.Len() < minBlurLen {
				// Static tile: pass the source through untouched.
				copy(dstData[idx:idx+4], srcData[idx:idx+4])
				continue
			}

			packed := vbuf.PackedAt(x, y)
			vC := unpackVelocity(packed, u.MaxBlurRadius)
			zC := unpackDepth(packed)
			lenC := vC.Len()
			if lenC < minBlurLen {
				lenC = minBlurLen
			}

			// Center sample, weighted by inverse velocity magnitude so
			// fast pixels spread their own color thin.
			wC := 1 / lenC
			r := float32(srcData[idx+0]) * wC
			g := float32(srcData[idx+1]) * wC
			b := float32(srcData[idx+2]) * wC
			a := float32(srcData[idx+3]) * wC
			totalW := wC

			for i := 1; i <= loop; i++ {
				vs := vC
				if i&1 == 1 || vs.Len() < minBlurLen {
					vs = vMax
				}
				t := (float32(i) - 0.5) / float32(loop)
				stepLen := vs.Len() * t

				for s := 0; s < 2; s++ {
					ox, oy := vs[0]*t, vs[1]*t
					if s == 1 {
						ox, oy = -ox, -oy
					}
					sx := clampInt(x+roundInt(ox), 0, width-1)
					sy := clampInt(y+roundInt(oy), 0, height-1)

					ps := vbuf.PackedAt(sx, sy)
					vS := unpackVelocity(ps, u.MaxBlurRadius)
					zS := unpackDepth(ps)
					lenS := vS.Len()
					if lenS < minBlurLen {
						lenS = minBlurLen
					}

					// McGuire-style weighting: a foreground sample
					// contributes if its own blur reaches us, a
					// background sample if the center's blur reaches it,
					// and mutually blurred pixels share via the cylinder
					// term.
					fg := softDepthCompare(zC, zS)
					bg := softDepthCompare(zS, zC)
					wgt := fg*cone(stepLen, lenS) +
						bg*cone(stepLen, lenC) +
						2*cylinder(stepLen, lenS)*cylinder(stepLen, lenC)

					si := (sy*width + sx) * 4
					r += float32(srcData[si+0]) * wgt
					g += float32(srcData[si+1]) * wgt
					b += float32(srcData[si+2]) * wgt
					a += float32(srcData[si+3]) * wgt
					totalW += wgt
				}
			}

			inv := 1 / totalW
			dstData[idx+0] = clampU8(r * inv)
			dstData[idx+1] = clampU8(g * inv)
			dstData[idx+2] = clampU8(b * inv)
			dstData[idx+3] = clampU8(a * inv)
		}
	}
}

// softDepthCompare fades in as za moves behind zb, classifying the sample
// at zb as foreground relative to the pixel at za.
func softDepthCompare(za, zb float32) float32 {
	return clamp01(1 - (za-zb)/softZExtent)
}

// cone is the linear falloff of a blur of length l at distance t.
func cone(t, l float32) float32 {
	return clamp01(1 - t/l)
}

// cylinder is a soft window that is 1 inside distance l and fades to 0
// just past it.
func cylinder(t, l float32) float32 {
	return 1 - smoothstep(0.95*l, 1.05*l, t)
}

func smoothstep(e0, e1, x float32) float32 {
	if e0 >= e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundInt rounds to the nearest integer, halves away from zero handled
// via floor so negative offsets round consistently.
func roundInt(f float32) int {
	return int(math.Floor(float64(f) + 0.5))
}

func clampU8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
