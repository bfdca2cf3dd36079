package captcha

import (
	"image"
	"image/color"
	"math/rand"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const (
	imageWidth  = 120
	imageHeight = 40

	lineCount  = 10
	pointCount = 100
)

// render paints the challenge text onto a fixed-size raster: light random
// background, interference lines, scatter points, and bold glyphs with a
// small vertical jitter per character.
func render(text string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))

	bg := randomColor(200, 250)
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for i := 0; i < lineCount; i++ {
		drawLine(img,
			rand.Intn(imageWidth), rand.Intn(imageHeight),
			rand.Intn(imageWidth), rand.Intn(imageHeight),
			randomColor(160, 200))
	}
	for i := 0; i < pointCount; i++ {
		img.Set(rand.Intn(imageWidth), rand.Intn(imageHeight), randomColor(160, 200))
	}

	// Glyphs are drawn at half scale and blown up 2x so the bold 8x16 face
	// fills the canvas the way the original 28pt font did.
	layer := image.NewRGBA(image.Rect(0, 0, imageWidth/2, imageHeight/2))
	drawer := font.Drawer{
		Dst:  layer,
		Face: inconsolata.Bold8x16,
	}
	for i, r := range text {
		drawer.Src = image.NewUniform(randomColor(40, 150))
		jitter := rand.Intn(3) - 1
		drawer.Dot = fixed.P(7+i*12, 15+jitter)
		drawer.DrawString(string(r))
	}
	draw.NearestNeighbor.Scale(img, img.Bounds(), layer, layer.Bounds(), draw.Over, nil)

	return img
}

func randomColor(min, max int) color.RGBA {
	span := max - min
	return color.RGBA{
		R: uint8(min + rand.Intn(span)),
		G: uint8(min + rand.Intn(span)),
		B: uint8(min + rand.Intn(span)),
		A: 0xff,
	}
}

func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := x2-x1, y2-y1
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		img.Set(x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		img.Set(x1+dx*i/steps, y1+dy*i/steps, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
