package bmp

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"rasterbmp/pkg/bitmap"
	"rasterbmp/pkg/raster"
)

const (
	FileHeaderSize = 14
	InfoHeaderSize = 40

	Magic = 0x4D42 // "BM" read as little-endian

	bitsPerPixel = 16
	planes       = 1
)

// Profile picks the header variant written after the 40 byte info header.
type Profile uint8

const (
	// ProfileV5 extends the info header to 124 bytes with an 84 byte mask block.
	ProfileV5 Profile = iota
	// ProfileV4 extends the info header to 108 bytes with a 68 byte mask block.
	ProfileV4
)

// ColorHeaderSize is the length of the mask block of p.
func (p Profile) ColorHeaderSize() uint32 {
	if p == ProfileV4 {
		return 68
	}
	return 84
}

// PixelOffset is where pixel data starts for p.
func (p Profile) PixelOffset() uint32 {
	return FileHeaderSize + InfoHeaderSize + p.ColorHeaderSize()
}

func (p Profile) String() string {
	if p == ProfileV4 {
		return "v4"
	}
	return "v5"
}

type Compression uint32

const (
	CompressionRGB       Compression = 0
	CompressionBitFields Compression = 3
)

// ColorSpaceSRGB is the 'sRGB' tag.
const ColorSpaceSRGB uint32 = 0x73524742

type FileHeader struct {
	Magic       uint16
	FileSize    uint32
	Reserved1   uint16
	Reserved2   uint16
	PixelOffset uint32
}

func (h *FileHeader) Write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

// InfoHeader is the 40 byte BITMAPINFOHEADER part. HeaderSize counts the
// color header too, since both form one extended info header on disk.
type InfoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerMeter int32
	YPixelsPerMeter int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

func (h *InfoHeader) Write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

// ColorHeader holds the channel masks and color-space tag. Size bytes are
// written in total, the tail zero-filled. Size must be one of the profile
// block sizes.
type ColorHeader struct {
	RedMask    uint32
	GreenMask  uint32
	BlueMask   uint32
	AlphaMask  uint32
	ColorSpace uint32
	Size       uint32
}

func (h *ColorHeader) check() error {
	if h.Size != ProfileV5.ColorHeaderSize() && h.Size != ProfileV4.ColorHeaderSize() {
		return errors.Wrapf(raster.ErrInvalidParam, "color header size %d", h.Size)
	}
	return nil
}

func (h *ColorHeader) Write(w io.Writer) error {
	if err := h.check(); err != nil {
		return err
	}

	fields := []uint32{h.RedMask, h.GreenMask, h.BlueMask, h.AlphaMask, h.ColorSpace}
	if err := binary.Write(w, binary.LittleEndian, fields); err != nil {
		return err
	}
	_, err := w.Write(make([]byte, h.Size-uint32(4*len(fields))))
	return err
}

// Headers are the three blocks preceding the pixel data.
type Headers struct {
	File  FileHeader
	Info  InfoHeader
	Color ColorHeader
}

// Write fails before writing anything if the color header size is not a
// known profile's.
func (h *Headers) Write(w io.Writer) error {
	if err := h.Color.check(); err != nil {
		return err
	}
	if err := h.File.Write(w); err != nil {
		return err
	}
	if err := h.Info.Write(w); err != nil {
		return err
	}
	return h.Color.Write(w)
}

func newColorHeader(p Profile, colorSpace uint32) ColorHeader {
	return ColorHeader{
		RedMask:    bitmap.RedMask,
		GreenMask:  bitmap.GreenMask,
		BlueMask:   bitmap.BlueMask,
		ColorSpace: colorSpace,
		Size:       p.ColorHeaderSize(),
	}
}
