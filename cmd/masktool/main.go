// Package main implements masktool, a small CLI for producing and
// inspecting collision masks offline, without a running game loop: it
// can carve a procedural cave-like test mask from 2D OpenSimplex noise
// or load a PNG through the raylib-backed mask.NewFromImage path, and
// report the result's solidity statistics.
package main

import (
	"flag"
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/platformcore/mask"
)

func main() {
	mode := flag.String("mode", "carve", "carve (procedural) or load (PNG file)")
	width := flag.Int("width", 256, "mask width in pixels (carve mode)")
	height := flag.Int("height", 128, "mask height in pixels (carve mode)")
	seed := flag.Int64("seed", 1, "noise seed (carve mode)")
	scale := flag.Float64("scale", 0.05, "noise frequency (carve mode)")
	threshold := flag.Float64("threshold", 0.0, "solid-iff-noise>threshold cutoff (carve mode)")
	cloudify := flag.Bool("cloudify", false, "cloudify the result into a one-way platform")
	path := flag.String("path", "", "PNG path (load mode)")
	flag.Parse()

	var m *mask.Mask

	switch *mode {
	case "carve":
		m = carveMask(*width, *height, *seed, *scale, *threshold)
	case "load":
		if *path == "" {
			log.Fatal("--path is required in load mode")
		}
		m = loadMaskFromPNG(*path)
	default:
		log.Fatalf("unknown --mode %q", *mode)
	}

	if *cloudify {
		m.Cloudify()
	}

	reportStats(m)
}

// carveMask samples 2D OpenSimplex noise over the requested dimensions
// and marks a pixel solid when the sample exceeds threshold, producing
// cave-like chunks at low frequencies.
func carveMask(width, heightPx int, seed int64, scale, threshold float64) *mask.Mask {
	noise := opensimplex.New(seed)
	raw := make([]byte, width*heightPx)

	for y := 0; y < heightPx; y++ {
		for x := 0; x < width; x++ {
			n := noise.Eval2(float64(x)*scale, float64(y)*scale)
			if n > threshold {
				raw[y*width+x] = 1
			}
		}
	}

	return mask.New(width, heightPx, raw)
}

// loadMaskFromPNG loads a PNG off disk with raylib and samples its full
// extent into a mask via the raylib ImageProvider adapter.
func loadMaskFromPNG(path string) *mask.Mask {
	img := rl.LoadImage(path)
	defer rl.UnloadImage(img)
	if img.Width == 0 || img.Height == 0 {
		log.Fatalf("failed to load image %q", path)
	}

	provider := mask.NewRaylibImage(img)
	return mask.NewFromImage(provider, 0, 0, int(img.Width), int(img.Height))
}

// reportStats prints a handful of summary numbers useful for sanity
// checking a generated or loaded mask before dropping it into a level.
func reportStats(m *mask.Mask) {
	solid := 0
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.PixelTest(x, y) {
				solid++
			}
		}
	}
	total := m.Width() * m.Height()

	fmt.Printf("mask: %dx%d (%d px)\n", m.Width(), m.Height(), total)
	fmt.Printf("solid: %d (%.1f%%)\n", solid, 100*float64(solid)/float64(total))
	fmt.Printf("top-left area test (0,0,%d,%d): %v\n", m.Width()-1, m.Height()-1, m.AreaTest(0, 0, m.Width()-1, m.Height()-1))
}
