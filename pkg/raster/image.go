package raster

import (
	"image"
	"image/color"

	"rasterbmp/pkg/bitmap"
)

// Bounds implements the image.Image (and draw.Image) interface. X runs along
// columns and Y along rows.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(b.width), int(b.height))
}

// ColorModel implements the image.Image (and draw.Image) interface.
func (b *Buffer) ColorModel() color.Model {
	return bitmap.Model
}

// At implements the image.Image (and draw.Image) interface.
func (b *Buffer) At(x, y int) color.Color {
	if !b.Contains(y, x) {
		return bitmap.Black
	}
	code, _ := b.Code(uint16(y), uint16(x))
	return bitmap.Color(code)
}

// Set implements the draw.Image interface. Points outside the buffer and
// fully transparent colors are ignored.
func (b *Buffer) Set(x, y int, c color.Color) {
	if !b.Contains(y, x) {
		return
	}
	if _, _, _, a := c.RGBA(); a == 0 {
		return
	}
	code := bitmap.Model.Convert(c).(bitmap.Color)
	_ = b.SetCode(uint16(y), uint16(x), uint16(code))
}
