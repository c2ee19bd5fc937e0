package mask

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ImageProvider is the narrow interface the mask package needs from an
// image: read a pixel's color and decide whether a color counts as
// transparent. The engine supplies a locked bitmap region; the mask
// package never loads images itself.
type ImageProvider interface {
	PixelAt(x, y int) rl.Color
	IsTransparent(c rl.Color) bool
}

// RaylibImage adapts a loaded raylib image into an ImageProvider by
// reading its pixels back to CPU memory once at construction, so that
// per-pixel sampling during mask construction never crosses into the
// raylib backend.
type RaylibImage struct {
	colors        []rl.Color
	width, height int
}

// NewRaylibImage reads the pixels of an already-loaded raylib image.
// The caller retains ownership of img and may unload it as soon as
// this returns.
func NewRaylibImage(img *rl.Image) *RaylibImage {
	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	w, h := int(img.Width), int(img.Height)
	buf := make([]rl.Color, w*h)
	copy(buf, colors)

	return &RaylibImage{colors: buf, width: w, height: h}
}

// PixelAt returns the color at (x,y). Out-of-bounds reads return a
// fully transparent color.
func (r *RaylibImage) PixelAt(x, y int) rl.Color {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return rl.Color{}
	}
	return r.colors[y*r.width+x]
}

// IsTransparent treats any color with zero alpha as transparent.
func (r *RaylibImage) IsTransparent(c rl.Color) bool {
	return c.A == 0
}

// NewFromImage samples the region (x,y,w,h) of the given image into a new
// Mask; a pixel is solid iff it is not transparent. The region is sampled
// once at construction — the resulting Mask is immutable thereafter.
func NewFromImage(img ImageProvider, x, y, w, h int) *Mask {
	validateDimensions(w, h)
	raw := make([]byte, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			c := img.PixelAt(x+col, y+row)
			if !img.IsTransparent(c) {
				raw[row*w+col] = 1
			}
		}
	}
	return New(w, h, raw)
}
