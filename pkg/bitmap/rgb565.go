package bitmap

import (
	"image/color"
)

// Channel masks of the packed RGB565 layout.
//
//	bit 76543210  76543210
//	    RRRRRGGG  GGGBBBBB
//	   high byte  low byte
const (
	RedMask   uint32 = 0xF800
	GreenMask uint32 = 0x07E0
	BlueMask  uint32 = 0x001F

	redBits   = 0x1F
	greenBits = 0x3F
	blueBits  = 0x1F
)

// Pack narrows the channels to 5, 6 and 5 bits and packs them into a single
// code. Only the low-order bits of each channel survive.
func Pack(red, green, blue uint8) uint16 {
	return uint16(red&redBits)<<11 | uint16(green&greenBits)<<5 | uint16(blue&blueBits)
}

// Unpack extracts the 5, 6 and 5 bit channels of code.
func Unpack(code uint16) (red, green, blue uint8) {
	red = uint8(code>>11) & redBits
	green = uint8(code>>5) & greenBits
	blue = uint8(code) & blueBits
	return
}

// Model converts any color.Color to Color by keeping the highest 5 or 6 bits
// of each channel.
var Model color.Model = color.ModelFunc(func(c color.Color) color.Color {
	if rgb, ok := c.(Color); ok {
		return rgb
	}
	r, g, b, _ := c.RGBA()
	return FromRGBA(r, g, b)
})

// FromRGBA packs 16 bit per channel values, as returned by color.Color, into
// a Color.
func FromRGBA(r, g, b uint32) Color {
	// RRRRRGGGGGGBBBBB
	return Color((r & 0xF800) +
		((g & 0xFC00) >> 5) +
		((b & 0xF800) >> 11))
}

// Color is an RGB565 code. It implements the color.Color interface.
type Color uint16

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	// The short bit pattern of each channel is duplicated to fill all 16
	// bits, so all-zero and all-one channels map to 0 and 0xFFFF:
	//     GGGGGG0000000000 shifted << 5
	//     000000GGGGGG0000 shifted >> 1
	//     000000000000GGGG shifted >> 7
	rBits := uint32(c) & RedMask
	gBits := uint32(c) & GreenMask
	bBits := uint32(c) & BlueMask
	r = rBits | rBits>>5 | rBits>>10 | rBits>>15
	g = gBits<<5 | gBits>>1 | gBits>>7
	b = bBits<<11 | bBits<<6 | bBits<<1 | bBits>>4
	a = 0xFFFF
	return
}

// Common colors.
const (
	Black   Color = 0x0000
	Red     Color = 0xF800
	Green   Color = 0x07E0
	Blue    Color = 0x001F
	Yellow  Color = Red | Green
	Cyan    Color = Green | Blue
	Magenta Color = Red | Blue
	White   Color = 0xFFFF
)
