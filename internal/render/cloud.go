package render

import (
	"image/color"
	"math"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
)

const (
	cloudOctaves = 4
	shadeLevels  = 8
	skyBands     = 6

	// texturedLevel is the first density level drawn with a textured
	// glyph instead of a plain background cell.
	texturedLevel = shadeLevels - 2

	// cloudDepth is how far the camera dollies into the field as scroll
	// progress goes 0→1.
	cloudDepth = 4.0

	driftSpeed = 0.35
)

// CloudLayer is the in-process cloud renderer: a value-noise density field
// sampled per terminal cell, with the camera dollying forward as scroll
// progress increases. It implements Adapter and is owned by exactly one
// controller.
type CloudLayer struct {
	width, height int
	progress      float64
	drift         float64
	noise         *valueNoise
	styles        [skyBands][shadeLevels]lipgloss.Style
}

// NewCloudLayer builds a cloud field from a fixed seed. The same seed,
// size, progress, and drift always render the same frame.
func NewCloudLayer(seed uint32) *CloudLayer {
	c := &CloudLayer{noise: newValueNoise(seed)}
	c.buildStyles()
	return c
}

// SetSize resizes the render target in terminal cells.
func (c *CloudLayer) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Advance moves the idle drift animation forward. Scroll progress is
// separate: drift keeps the cloud alive while the user does nothing.
func (c *CloudLayer) Advance(dt time.Duration) {
	c.drift += dt.Seconds() * driftSpeed
}

// UpdateScroll implements Adapter.
func (c *CloudLayer) UpdateScroll(progress float64) {
	// NaN and negatives come from uncontrolled input data; pin them.
	if !(progress > 0) {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	c.progress = progress
}

// IsComplete implements Adapter.
func (c *CloudLayer) IsComplete() bool { return c.progress >= 1 }

// Reset implements Adapter. Idempotent.
func (c *CloudLayer) Reset() {
	c.progress = 0
	c.drift = 0
}

// Progress returns the renderer's current scroll progress.
func (c *CloudLayer) Progress() float64 { return c.progress }

// Render draws the current frame as styled terminal lines.
func (c *CloudLayer) Render() string {
	if c.width <= 0 || c.height <= 0 {
		return ""
	}

	camZ := c.drift*0.15 + c.progress*cloudDepth
	// Flying into the cloud thickens it.
	coverage := 0.42 + 0.22*c.progress

	var b strings.Builder
	for y := 0; y < c.height; y++ {
		yn := float64(y) / float64(max(c.height-1, 1))
		band := int(yn*float64(skyBands-1) + 0.5)

		// Batch runs of identical cells: one style render per run keeps
		// the frame cheap at full screen sizes.
		runLevel := -1
		runLen := 0
		flush := func() {
			if runLen == 0 {
				return
			}
			cell := " "
			if runLevel >= texturedLevel {
				cell = "░"
			}
			b.WriteString(c.styles[band][runLevel].Render(strings.Repeat(cell, runLen)))
			runLen = 0
		}

		for x := 0; x < c.width; x++ {
			lvl := c.levelAt(x, y, yn, camZ, coverage)
			if lvl != runLevel {
				flush()
				runLevel = lvl
			}
			runLen++
		}
		flush()

		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *CloudLayer) levelAt(x, y int, yn, camZ, coverage float64) int {
	d := c.noise.fbm(float64(x)*0.055+c.drift*driftSpeed, float64(y)*0.11, camZ, cloudOctaves)
	// Terminal cells are roughly twice as tall as wide, hence the
	// asymmetric sample scale above.
	shape := 1 - math.Abs(yn-0.6)*1.3
	dens := (d - (1 - coverage)) * 2.8
	dens *= clamp01(shape + 0.25)
	return int(clamp01(dens)*float64(shadeLevels-1) + 0.5)
}

func (c *CloudLayer) buildStyles() {
	zenith := color.RGBA{R: 0x16, G: 0x16, B: 0x1e, A: 0xff}
	horizon := color.RGBA{R: 0x2a, G: 0x3a, B: 0x6b, A: 0xff}
	thin := color.RGBA{R: 0x56, G: 0x5f, B: 0x89, A: 0xff}
	dense := color.RGBA{R: 0xc0, G: 0xca, B: 0xf5, A: 0xff}
	wisp := color.RGBA{R: 0xd8, G: 0xdf, B: 0xf8, A: 0xff}

	for band := 0; band < skyBands; band++ {
		sky := blendRGB(zenith, horizon, float64(band)/float64(skyBands-1))
		for lvl := 0; lvl < shadeLevels; lvl++ {
			t := float64(lvl) / float64(shadeLevels-1)
			bg := blendRGB(sky, blendRGB(thin, dense, t), smoothstep(t))
			style := lipgloss.NewStyle().Background(bg)
			if lvl >= texturedLevel {
				style = style.Foreground(wisp)
			}
			c.styles[band][lvl] = style
		}
	}
}

func blendRGB(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(lerp(float64(a.R), float64(b.R), t)),
		G: uint8(lerp(float64(a.G), float64(b.G), t)),
		B: uint8(lerp(float64(a.B), float64(b.B), t)),
		A: 0xff,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
