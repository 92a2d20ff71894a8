package bmp

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"rasterbmp/pkg/raster"
)

// DefaultResolution is 72 DPI in pixels per meter.
const DefaultResolution = 2835

type Option func(e *Encoder)

func WithProfile(p Profile) Option {
	return func(e *Encoder) {
		e.profile = p
	}
}

func WithCompression(c Compression) Option {
	return func(e *Encoder) {
		e.compression = c
	}
}

// WithResolution sets both pixels-per-meter fields.
func WithResolution(ppm int32) Option {
	return func(e *Encoder) {
		e.resolution = ppm
	}
}

func WithColorSpace(tag uint32) Option {
	return func(e *Encoder) {
		e.colorSpace = tag
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Encoder) {
		e.log = logger
	}
}

func New(opts ...Option) *Encoder {
	e := &Encoder{
		profile:     ProfileV5,
		compression: CompressionBitFields,
		resolution:  DefaultResolution,
		log:         zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Encoder writes raster buffers as uncompressed 16 bit RGB565 bitmaps. It
// keeps no state between calls.
type Encoder struct {
	profile     Profile
	compression Compression
	resolution  int32
	colorSpace  uint32
	log         *zap.Logger
}

// Stride is the padded length of one pixel row.
func Stride(width uint16) uint32 {
	return (uint32(width)*2 + 3) &^ 3
}

// Padding is the number of zero bytes closing each row.
func Padding(width uint16) uint32 {
	return Stride(width) - uint32(width)*2
}

// Headers builds the header blocks describing buf.
func (e *Encoder) Headers(buf *raster.Buffer) (*Headers, error) {
	if buf == nil || buf.Released() {
		return nil, errors.Wrap(raster.ErrInvalidParam, "headers of released buffer")
	}

	offset := e.profile.PixelOffset()
	imageSize := uint64(Stride(buf.Width())) * uint64(buf.Height())
	if uint64(offset)+imageSize > math.MaxUint32 {
		return nil, errors.Wrapf(raster.ErrAllocation, "%d pixel bytes do not fit a bitmap", imageSize)
	}

	return &Headers{
		File: FileHeader{
			Magic:       Magic,
			FileSize:    offset + uint32(imageSize),
			PixelOffset: offset,
		},
		Info: InfoHeader{
			HeaderSize:      InfoHeaderSize + e.profile.ColorHeaderSize(),
			Width:           int32(buf.Width()),
			Height:          int32(buf.Height()),
			Planes:          planes,
			BitsPerPixel:    bitsPerPixel,
			Compression:     uint32(e.compression),
			ImageSize:       uint32(imageSize),
			XPixelsPerMeter: e.resolution,
			YPixelsPerMeter: e.resolution,
		},
		Color: newColorHeader(e.profile, e.colorSpace),
	}, nil
}

// Encode writes the complete bitmap of buf to w: headers, then rows from
// the bottom one up, each padded to a multiple of 4 bytes. On error the
// output written so far is unusable.
func (e *Encoder) Encode(w io.Writer, buf *raster.Buffer) error {
	if w == nil {
		return errors.Wrap(raster.ErrInvalidParam, "encode to nil writer")
	}

	headers, err := e.Headers(buf)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if err := headers.Write(bw); err != nil {
		return raster.Wrapf(raster.ErrIO, err, "write headers")
	}

	width, height := buf.Width(), buf.Height()
	row := make([]byte, Stride(width))
	for r := int(height) - 1; r >= 0; r-- {
		for c := uint16(0); c < width; c++ {
			code, err := buf.Code(uint16(r), c)
			if err != nil {
				return err
			}
			binary.LittleEndian.PutUint16(row[2*int(c):], code)
		}
		if _, err := bw.Write(row); err != nil {
			return raster.Wrapf(raster.ErrIO, err, "write row %d", r)
		}
	}

	if err := bw.Flush(); err != nil {
		return raster.Wrapf(raster.ErrIO, err, "flush")
	}

	e.log.With(
		zap.Uint16("width", width),
		zap.Uint16("height", height),
		zap.Uint32("size", headers.File.FileSize),
		zap.String("profile", e.profile.String()),
		zap.String("padding", lo.Ternary(Padding(width) > 0, "2 bytes", "none")),
	).Debug("encoded")

	return nil
}

// Sink is a destination that is either kept or thrown away as a whole.
type Sink interface {
	io.Writer
	Commit() error
	Discard() error
}

// Save encodes buf into s, committing it on success and discarding it on
// any failure.
func (e *Encoder) Save(s Sink, buf *raster.Buffer) error {
	if s == nil {
		return errors.Wrap(raster.ErrInvalidParam, "encode to nil sink")
	}

	if err := e.Encode(s, buf); err != nil {
		if errD := s.Discard(); errD != nil {
			e.log.With(zap.Error(errD)).Info("discard failed")
		}
		return err
	}

	if err := s.Commit(); err != nil {
		return raster.Wrapf(raster.ErrIO, err, "commit")
	}
	return nil
}
