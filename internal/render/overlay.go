package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"lasermark/internal/point"
)

// outlineWidth is the stroke width of the outer spot circle, in pixels.
const outlineWidth = 4

// DrawOverlay composites the analysis points over the base image and
// returns the result. Each point gets a centre dot, an outer circle of
// diameter*scale pixels, and an "id_Label" caption in the point's colour.
func DrawOverlay(base image.Image, points []point.Point) *image.RGBA {
	bounds := base.Bounds()
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, base, bounds.Min, draw.Src)

	for _, p := range points {
		c := parseHexColour(p.Colour)

		// Centre dot, unaffected by scale.
		fillCircle(img, p.X, p.Y, 1, c)

		// Outer circle: diameter in microns times pixels-per-micron.
		r := int(float64(p.Diameter) * p.Scale / 2)
		for w := 0; w < outlineWidth && r-w > 0; w++ {
			drawCircle(img, p.X, p.Y, r-w, c)
		}

		drawLabel(img, p.X+3, p.Y-3, fmt.Sprintf("%d_%s", p.ID, p.Label), c)
	}
	return img
}

// parseHexColour parses a #rrggbb display colour. Unparseable values
// fall back to opaque yellow, the application default.
func parseHexColour(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 255, G: 255, B: 0, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// fillCircle fills a circle with the given color.
func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()

	for y := cy - r; y <= cy+r; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

// drawCircle draws a circle outline using Bresenham's algorithm.
func drawCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()

	setPixel := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.Set(x, y, c)
		}
	}

	x := r
	y := 0
	err := 0

	for x >= y {
		setPixel(cx+x, cy+y)
		setPixel(cx+y, cy+x)
		setPixel(cx-y, cy+x)
		setPixel(cx-x, cy+y)
		setPixel(cx-x, cy-y)
		setPixel(cx-y, cy-x)
		setPixel(cx+y, cy-x)
		setPixel(cx+x, cy-y)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawLabel renders text at (x, y) using the built-in 7x13 face.
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
