package raster

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Load fills the whole buffer from r, which must supply Size little-endian
// 16 bit units. The buffer may be partially overwritten when r runs short.
func (b *Buffer) Load(r io.Reader) error {
	if b == nil || b.mem == nil {
		return errors.Wrap(ErrInvalidParam, "load into released buffer")
	}
	if r == nil {
		return errors.Wrap(ErrInvalidParam, "load from nil reader")
	}

	if err := binary.Read(bufio.NewReader(r), binary.LittleEndian, b.mem); err != nil {
		return Wrapf(ErrIO, err, "load %d units", b.size)
	}
	return nil
}

// Dump writes the units row by row, one bracketed cell per pixel.
func (b *Buffer) Dump(w io.Writer) error {
	if b == nil || b.mem == nil {
		return errors.Wrap(ErrInvalidParam, "dump of released buffer")
	}

	bw := bufio.NewWriter(w)
	ch := int(b.channels)
	stride := int(b.width) * ch

	_, _ = fmt.Fprintln(bw, "[")
	for row := 0; row < int(b.height); row++ {
		_, _ = fmt.Fprint(bw, "[")
		line := b.mem[row*stride : (row+1)*stride]
		for col := 0; col < len(line); col += ch {
			_, _ = fmt.Fprint(bw, "[")
			for _, unit := range line[col : col+ch] {
				_, _ = fmt.Fprintf(bw, " %6d", unit)
			}
			_, _ = fmt.Fprint(bw, " ]")
		}
		_, _ = fmt.Fprintln(bw, "]")
	}
	_, _ = fmt.Fprintln(bw, "]")

	if err := bw.Flush(); err != nil {
		return Wrapf(ErrIO, err, "dump")
	}
	return nil
}
