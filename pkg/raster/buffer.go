package raster

import (
	"math"

	"github.com/pkg/errors"

	"rasterbmp/pkg/bitmap"
)

// Layout is the number of storage units per pixel, fixed at construction.
type Layout uint8

const (
	// LayoutPacked stores one RGB565 code per pixel.
	LayoutPacked Layout = 1
	// LayoutChannels stores red, green and blue as separate units.
	LayoutChannels Layout = 3
)

func (l Layout) String() string {
	switch l {
	case LayoutPacked:
		return "packed"
	case LayoutChannels:
		return "channels"
	}
	return "invalid"
}

type Option func(b *Buffer)

func WithLayout(l Layout) Option {
	return func(b *Buffer) {
		b.channels = uint8(l)
	}
}

// WithMaxSize caps the number of storage units New may allocate.
func WithMaxSize(units uint32) Option {
	return func(b *Buffer) {
		b.maxSize = units
	}
}

// New allocates a zeroed width x height buffer, packed layout unless
// WithLayout says otherwise.
func New(width, height uint16, opts ...Option) (*Buffer, error) {
	if width == 0 || height == 0 {
		return nil, errors.Wrapf(ErrInvalidParam, "allocate %dx%d", width, height)
	}

	b := &Buffer{
		width:    width,
		height:   height,
		channels: uint8(LayoutPacked),
		maxSize:  math.MaxUint32,
	}

	for _, opt := range opts {
		opt(b)
	}

	if l := Layout(b.channels); l != LayoutPacked && l != LayoutChannels {
		return nil, errors.Wrapf(ErrInvalidParam, "allocate with %d channels", b.channels)
	}

	size := uint64(width) * uint64(height) * uint64(b.channels)
	if size > uint64(b.maxSize) {
		return nil, errors.Wrapf(ErrAllocation, "allocate %d units over limit %d", size, b.maxSize)
	}

	b.size = uint32(size)
	b.mem = make([]uint16, b.size)
	return b, nil
}

// Buffer is a row-major raster of storage units. It is not safe for
// concurrent mutation.
type Buffer struct {
	width    uint16
	height   uint16
	channels uint8
	size     uint32
	maxSize  uint32
	mem      []uint16
}

func (b *Buffer) Width() uint16 {
	return b.width
}

func (b *Buffer) Height() uint16 {
	return b.height
}

func (b *Buffer) Channels() uint8 {
	return b.channels
}

func (b *Buffer) Layout() Layout {
	if b == nil {
		return 0
	}
	return Layout(b.channels)
}

// Size is the number of storage units, width*height*channels.
func (b *Buffer) Size() uint32 {
	return b.size
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.mem == nil
}

// Release drops the memory and poisons the dimensions so that every later
// access fails. Releasing a nil buffer is a no-op; releasing twice is
// reported.
func (b *Buffer) Release() error {
	if b == nil {
		return nil
	}
	if b.mem == nil {
		return errors.Wrap(ErrInvalidParam, "release of released buffer")
	}

	b.mem = nil
	b.width = 0
	b.height = 0
	b.size = 0
	return nil
}

// Zero resets every unit to 0.
func (b *Buffer) Zero() error {
	if b == nil || b.mem == nil {
		return errors.Wrap(ErrInvalidParam, "zero of released buffer")
	}
	for i := range b.mem {
		b.mem[i] = 0
	}
	return nil
}

// Contains reports whether (row, col) addresses a pixel.
func (b *Buffer) Contains(row, col int) bool {
	return row >= 0 && row < int(b.height) && col >= 0 && col < int(b.width)
}

// Offset maps (row, col) to the index of the pixel's first unit.
func (b *Buffer) Offset(row, col uint16) (uint32, error) {
	if b == nil || b.mem == nil {
		return 0, errors.Wrap(ErrInvalidParam, "offset on released buffer")
	}
	if row >= b.height || col >= b.width {
		return 0, errors.Wrapf(ErrInvalidParam, "(%d,%d) out of %dx%d", row, col, b.width, b.height)
	}

	ch := uint32(b.channels)
	offset := uint32(row)*uint32(b.width)*ch + uint32(col)*ch
	if offset+ch > b.size {
		return 0, errors.Wrapf(ErrInvalidParam, "offset %d beyond size %d", offset, b.size)
	}
	return offset, nil
}

// Raw returns a copy of the units of the pixel at (row, col).
func (b *Buffer) Raw(row, col uint16) ([]uint16, error) {
	offset, err := b.Offset(row, col)
	if err != nil {
		return nil, err
	}

	units := make([]uint16, b.channels)
	copy(units, b.mem[offset:offset+uint32(b.channels)])
	return units, nil
}

// SetRaw overwrites the units of the pixel at (row, col). Exactly Channels
// units must be given.
func (b *Buffer) SetRaw(row, col uint16, units ...uint16) error {
	offset, err := b.Offset(row, col)
	if err != nil {
		return err
	}
	if len(units) != int(b.channels) {
		return errors.Wrapf(ErrInvalidParam, "%d units for %d channels", len(units), b.channels)
	}

	copy(b.mem[offset:], units)
	return nil
}

// SetRGB writes a color given by channel. Packed buffers narrow it through
// bitmap.Pack; channel buffers keep the values as given.
func (b *Buffer) SetRGB(row, col uint16, red, green, blue uint8) error {
	if b.Layout() == LayoutPacked {
		return b.SetRaw(row, col, bitmap.Pack(red, green, blue))
	}
	return b.SetRaw(row, col, uint16(red), uint16(green), uint16(blue))
}

// SetCode writes an RGB565 code.
func (b *Buffer) SetCode(row, col uint16, code uint16) error {
	if b.Layout() == LayoutPacked {
		return b.SetRaw(row, col, code)
	}
	r, g, bl := bitmap.Unpack(code)
	return b.SetRaw(row, col, uint16(r), uint16(g), uint16(bl))
}

// Code reads the pixel at (row, col) as an RGB565 code.
func (b *Buffer) Code(row, col uint16) (uint16, error) {
	offset, err := b.Offset(row, col)
	if err != nil {
		return 0, err
	}
	if b.Layout() == LayoutPacked {
		return b.mem[offset], nil
	}
	units := b.mem[offset : offset+3]
	return bitmap.Pack(uint8(units[0]), uint8(units[1]), uint8(units[2])), nil
}
