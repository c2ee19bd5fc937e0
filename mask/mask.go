// Package mask implements pixel-perfect collision masks: a binary pixel
// grid, a summed-area table over it, and four ground-height maps that
// answer "where is the nearest solid pixel looking in direction D" in O(1).
package mask

import "fmt"

// Direction identifies one of the four height-map axes.
type Direction int

const (
	Down Direction = iota
	Left
	Up
	Right
)

// CloudHeight is the number of topmost contiguous solid pixels kept per
// column when a mask is cloudified into a one-way platform.
const CloudHeight = 24

// MaxDimension is the largest width or height a Mask may have. It keeps
// width*height, and the (width+1)*(height+1) integral table, inside the
// range where 32-bit unsigned prefix sums cannot overflow.
const MaxDimension = 4096

// Mask is an immutable width x height binary pixel grid plus its
// precomputed integral (summed-area) table and four height maps.
type Mask struct {
	width, height int

	raw []byte // row-major, 1 byte per pixel, 0 or 1

	integral []uint32 // (width+1) x (height+1), row-major

	// height maps: for every empty pixel, the leading edge of the next
	// solid run looking in that direction from that exact pixel; for a
	// solid pixel, the leading edge of its own run (not just the
	// column/row's topmost run) — a mask column with two solid runs (an
	// overhang, a loop tile) answers differently above and below the gap. gDown/gUp are width*height, indexed y*width+x;
	// gLeft/gRight are width*height, indexed x*height+y.
	gDown  []int
	gUp    []int
	gLeft  []int
	gRight []int
}

// New builds a Mask from a raw row-major {0,1} byte buffer of the given
// dimensions. raw must have exactly width*height entries; any non-zero
// byte is treated as solid.
func New(width, height int, raw []byte) *Mask {
	validateDimensions(width, height)
	if len(raw) != width*height {
		panic(fmt.Sprintf("mask: raw buffer length %d does not match %dx%d", len(raw), width, height))
	}

	m := &Mask{
		width:  width,
		height: height,
		raw:    make([]byte, width*height),
	}
	for i, b := range raw {
		if b != 0 {
			m.raw[i] = 1
		}
	}

	m.buildIntegral()
	m.buildGroundMaps()
	return m
}

// NewBox builds a fully-solid rectangular mask, used for simple box
// obstacles that do not need a pixel-level source image.
func NewBox(width, height int) *Mask {
	validateDimensions(width, height)
	raw := make([]byte, width*height)
	for i := range raw {
		raw[i] = 1
	}
	return New(width, height, raw)
}

func validateDimensions(width, height int) {
	if width < 1 || height < 1 || width > MaxDimension || height > MaxDimension {
		panic(fmt.Sprintf("mask: invalid dimensions %dx%d (must be in [1,%d])", width, height, MaxDimension))
	}
}

// Width returns the mask's width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask's height in pixels.
func (m *Mask) Height() int { return m.height }

// Clone deep-copies the mask's buffers; the clone shares no backing array
// with the original and may be cloudified independently.
func (m *Mask) Clone() *Mask {
	c := &Mask{
		width:  m.width,
		height: m.height,
		raw:    append([]byte(nil), m.raw...),
	}
	c.buildIntegral()
	c.buildGroundMaps()
	return c
}

func (m *Mask) at(x, y int) byte {
	return m.raw[y*m.width+x]
}

func (m *Mask) buildIntegral() {
	w, h := m.width, m.height
	stride := w + 1
	m.integral = make([]uint32, stride*(h+1))

	idx := func(row, col int) int { return row*stride + col }

	for y := 1; y <= h; y++ {
		for x := 1; x <= w; x++ {
			solid := uint32(0)
			if m.at(x-1, y-1) != 0 {
				solid = 1
			}
			m.integral[idx(y, x)] = m.integral[idx(y, x-1)] + m.integral[idx(y-1, x)] - m.integral[idx(y-1, x-1)] + solid
		}
	}
}

// buildGroundMaps computes, for every pixel, the coordinate of the
// nearest solid pixel looking in each of the four directions from that
// pixel. Each direction is built by a forward pass that records, for
// solid pixels, the start of their contiguous run (propagating along the
// run so every pixel in it shares the run's leading edge), followed by a
// backward pass that lets pixels outside any run inherit the nearest
// run's leading edge from beyond them. This makes a column/row with two
// separate solid runs (an overhang, a loop seam) answer correctly on
// both sides of the gap, unlike a single nearest-run-in-the-whole-column
// scan.
func (m *Mask) buildGroundMaps() {
	w, h := m.width, m.height

	downIdx := func(y, x int) int { return y*w + x }
	m.gDown = make([]int, w*h)
	m.gUp = make([]int, w*h)
	for x := 0; x < w; x++ {
		if m.at(x, 0) != 0 {
			m.gDown[downIdx(0, x)] = 0
		}
		for y := 1; y < h; y++ {
			if m.at(x, y) != 0 {
				if m.at(x, y-1) != 0 {
					m.gDown[downIdx(y, x)] = m.gDown[downIdx(y-1, x)]
				} else {
					m.gDown[downIdx(y, x)] = y
				}
			}
		}
		if m.at(x, h-1) == 0 {
			m.gDown[downIdx(h-1, x)] = h - 1
		}
		for y := h - 2; y >= 0; y-- {
			if m.at(x, y) == 0 {
				m.gDown[downIdx(y, x)] = m.gDown[downIdx(y+1, x)]
			}
		}

		if m.at(x, h-1) != 0 {
			m.gUp[downIdx(h-1, x)] = h - 1
		}
		for y := h - 2; y >= 0; y-- {
			if m.at(x, y) != 0 {
				if m.at(x, y+1) != 0 {
					m.gUp[downIdx(y, x)] = m.gUp[downIdx(y+1, x)]
				} else {
					m.gUp[downIdx(y, x)] = y
				}
			}
		}
		if m.at(x, 0) == 0 {
			m.gUp[downIdx(0, x)] = 0
		}
		for y := 1; y < h; y++ {
			if m.at(x, y) == 0 {
				m.gUp[downIdx(y, x)] = m.gUp[downIdx(y-1, x)]
			}
		}
	}

	sideIdx := func(x, y int) int { return x*h + y }
	m.gLeft = make([]int, w*h)
	m.gRight = make([]int, w*h)
	for y := 0; y < h; y++ {
		if m.at(w-1, y) != 0 {
			m.gLeft[sideIdx(w-1, y)] = w - 1
		}
		for x := w - 2; x >= 0; x-- {
			if m.at(x, y) != 0 {
				if m.at(x+1, y) != 0 {
					m.gLeft[sideIdx(x, y)] = m.gLeft[sideIdx(x+1, y)]
				} else {
					m.gLeft[sideIdx(x, y)] = x
				}
			}
		}
		if m.at(0, y) == 0 {
			m.gLeft[sideIdx(0, y)] = 0
		}
		for x := 1; x < w; x++ {
			if m.at(x, y) == 0 {
				m.gLeft[sideIdx(x, y)] = m.gLeft[sideIdx(x-1, y)]
			}
		}

		if m.at(0, y) != 0 {
			m.gRight[sideIdx(0, y)] = 0
		}
		for x := 1; x < w; x++ {
			if m.at(x, y) != 0 {
				if m.at(x-1, y) != 0 {
					m.gRight[sideIdx(x, y)] = m.gRight[sideIdx(x-1, y)]
				} else {
					m.gRight[sideIdx(x, y)] = x
				}
			}
		}
		if m.at(w-1, y) == 0 {
			m.gRight[sideIdx(w-1, y)] = w - 1
		}
		for x := w - 2; x >= 0; x-- {
			if m.at(x, y) == 0 {
				m.gRight[sideIdx(x, y)] = m.gRight[sideIdx(x+1, y)]
			}
		}
	}
}

// Cloudify keeps, per column, only the top CloudHeight contiguous solid
// pixels starting from the topmost solid pixel in that column, clearing
// the rest. Used to turn a mask into a one-way platform. It is an
// explicit opt-in: masks are never implicitly cloudified at construction.
func (m *Mask) Cloudify() {
	w, h := m.width, m.height
	for x := 0; x < w; x++ {
		kept := 0
		topRunEnded := false
		for y := 0; y < h; y++ {
			if m.at(x, y) == 0 {
				if kept > 0 {
					topRunEnded = true
				}
				continue
			}
			if topRunEnded || kept >= CloudHeight {
				m.raw[y*w+x] = 0
				continue
			}
			kept++
		}
	}
	m.buildIntegral()
	m.buildGroundMaps()
}
