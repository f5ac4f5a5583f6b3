package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder returns the deterministic "No Image" bitmap used when every
// resolution strategy fails or the product has no image URL.
func (r *Resolver) Placeholder() []byte {
	r.placeholderOnce.Do(func() {
		r.placeholder = buildPlaceholder()
	})
	return r.placeholder
}

func buildPlaceholder() []byte {
	bg := color.RGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}
	fg := color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}

	canvas := image.NewRGBA(image.Rect(0, 0, thumbSize, thumbSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	const label = "No Image"
	face := basicfont.Face7x13
	width := font.MeasureString(face, label).Ceil()
	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot: fixed.P(
			(thumbSize-width)/2,
			(thumbSize+face.Metrics().Ascent.Ceil())/2,
		),
	}
	d.DrawString(label)

	var buf bytes.Buffer
	_ = imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	return buf.Bytes()
}
