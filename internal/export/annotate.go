package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/geom"
)

// Caption layout in pixels.
const (
	marginX      = 20
	indentX      = 10
	firstLineY   = 30
	lineHeight   = 18
	sectionGap   = 5
	noteGap      = 10
	markerRadius = 12
	markerWidth  = 3
)

var (
	textColor    color.Color = color.White
	outlineColor color.Color = color.Black
	noteColor    color.Color = color.RGBA{R: 255, G: 255, A: 255}
	markerColor  color.Color = color.RGBA{R: 255, G: 255, A: 255}
)

// PhotoCamera is the fixed front-of-house view photos are taken from, sized
// to the photo.
func PhotoCamera(width, height int) geom.Camera {
	c := geom.DefaultCamera()
	c.Position = mgl64.Vec3{0, 10, 50}
	c.Target = mgl64.Vec3{0, 10, 0}
	c.Width = float64(width)
	c.Height = float64(height)
	return c
}

// Markers projects the rare fixtures into photo pixels. Fixtures behind the
// camera or outside the frame are skipped.
func Markers(cam geom.Camera, s Summary, fixtures []*fixture.Fixture) []image.Point {
	bounds := image.Rect(0, 0, int(cam.Width), int(cam.Height))
	var out []image.Point
	for _, f := range fixtures {
		if !slices.Contains(s.Rare, f.ID()) {
			continue
		}
		x, y, ok := cam.Project(f.Position())
		if !ok {
			continue
		}
		p := image.Pt(int(math.Round(x)), int(math.Round(y)))
		if p.In(bounds) {
			out = append(out, p)
		}
	}
	return out
}

// Annotate copies img, rings every marker and writes the summary caption in
// the top-left corner with a dark outline.
func Annotate(img image.Image, s Summary, markers []image.Point) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	for _, m := range markers {
		drawRing(dst, m, markerRadius, markerWidth, markerColor)
	}

	y := firstLineY
	for i, line := range s.Lines() {
		switch {
		case line.Note:
			y += noteGap
		case line.Heading && i > 0:
			y += sectionGap
		}
		x := marginX
		if !line.Heading && !line.Note {
			x += indentX
		}
		fill := textColor
		if line.Note {
			fill = noteColor
		}
		drawOutlined(dst, line.Text, x, y, fill)
		y += lineHeight
	}
	return dst
}

func drawOutlined(dst draw.Image, text string, x, y int, fill color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(outlineColor),
		Face: basicfont.Face7x13,
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(fill)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// drawRing fills the annulus between radius-width and radius around c.
func drawRing(dst draw.Image, c image.Point, radius, width int, col color.Color) {
	const steps = 48
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())

	circle := func(rad float64, reverse bool) {
		for i := 0; i <= steps; i++ {
			k := i
			if reverse {
				k = steps - i
			}
			a := 2 * math.Pi * float64(k) / steps
			px := float32(float64(c.X) + rad*math.Cos(a))
			py := float32(float64(c.Y) + rad*math.Sin(a))
			if i == 0 {
				r.MoveTo(px, py)
			} else {
				r.LineTo(px, py)
			}
		}
		r.ClosePath()
	}
	circle(float64(radius), false)
	circle(float64(radius-width), true)

	r.Draw(dst, b, image.NewUniform(col), image.Point{})
}
