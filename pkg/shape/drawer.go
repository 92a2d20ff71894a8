package shape

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"rasterbmp/pkg/raster"
)

// Span selects which line endpoints are drawn.
type Span uint8

const (
	// SpanClosed draws both endpoints of vertical and horizontal lines.
	SpanClosed Span = iota
	// SpanLegacy leaves out the end row of vertical lines while horizontal
	// lines keep both endpoints.
	SpanLegacy
)

type Option func(d *Drawer)

func WithSpan(s Span) Option {
	return func(d *Drawer) {
		d.span = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Drawer) {
		d.log = logger
	}
}

func New(opts ...Option) *Drawer {
	d := &Drawer{
		span: SpanClosed,
		log:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Drawer writes RGB565 shapes onto raster buffers. Every call is a single
// transaction against one buffer and keeps no state between calls.
type Drawer struct {
	span Span
	log  *zap.Logger
}

func (d *Drawer) reject(op string, fields ...zap.Field) {
	d.log.With(fields...).Debug(op + " rejected")
}

// FillPoint paints a square pen footprint centered on (row, col). A pen of
// size 1 must land inside the buffer. Larger pens reach pen-1 pixels to each
// side and are clamped to the buffer edges. A footprint lying wholly outside
// the buffer is rejected with ErrInvalidParam rather than silently drawing
// nothing.
func (d *Drawer) FillPoint(buf *raster.Buffer, color uint16, pen uint16, row, col int) error {
	if buf == nil || buf.Released() {
		return errors.Wrap(raster.ErrInvalidParam, "fill point on released buffer")
	}

	switch {
	case pen == 0:
		d.reject("fill-point", zap.Uint16("pen", pen))
		return errors.Wrap(raster.ErrInvalidParam, "fill point with zero pen")
	case pen == 1:
		if !buf.Contains(row, col) {
			d.reject("fill-point", zap.Int("row", row), zap.Int("col", col))
			return errors.Wrapf(raster.ErrInvalidParam, "fill point (%d,%d) out of bounds", row, col)
		}
		return buf.SetCode(uint16(row), uint16(col), color)
	}

	reach := int(pen) - 1
	height, width := int(buf.Height()), int(buf.Width())
	if row+reach < 0 || row-reach >= height || col+reach < 0 || col-reach >= width {
		d.reject("fill-point", zap.Int("row", row), zap.Int("col", col), zap.Uint16("pen", pen))
		return errors.Wrapf(raster.ErrInvalidParam, "pen %d at (%d,%d) misses the buffer", pen, row, col)
	}

	top, bottom := clamp(row-reach, 0, height-1), clamp(row+reach, 0, height-1)
	left, right := clamp(col-reach, 0, width-1), clamp(col+reach, 0, width-1)

	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			if err := buf.SetCode(uint16(r), uint16(c), color); err != nil {
				return err
			}
		}
	}

	return nil
}

// VerticalLine draws column col from rowStart to rowEnd.
func (d *Drawer) VerticalLine(buf *raster.Buffer, color uint16, pen uint16, col, rowStart, rowEnd int) error {
	if buf == nil || buf.Released() {
		return errors.Wrap(raster.ErrInvalidParam, "vertical line on released buffer")
	}
	if rowStart > rowEnd {
		d.reject("vertical-line", zap.Int("start", rowStart), zap.Int("end", rowEnd))
		return errors.Wrapf(raster.ErrInvalidParam, "vertical line rows %d > %d", rowStart, rowEnd)
	}
	if !buf.Contains(rowStart, col) || !buf.Contains(rowEnd, col) {
		d.reject("vertical-line", zap.Int("col", col), zap.Int("start", rowStart), zap.Int("end", rowEnd))
		return errors.Wrapf(raster.ErrInvalidParam, "vertical line col %d rows %d..%d out of bounds", col, rowStart, rowEnd)
	}
	if rowStart == rowEnd {
		return d.FillPoint(buf, color, pen, rowStart, col)
	}

	last := rowEnd
	if d.span == SpanLegacy {
		last--
	}

	for row := rowStart; row <= last; row++ {
		if err := d.FillPoint(buf, color, pen, row, col); err != nil {
			return err
		}
	}

	return nil
}

// HorizontalLine draws row row from colStart to colEnd, both included.
func (d *Drawer) HorizontalLine(buf *raster.Buffer, color uint16, pen uint16, row, colStart, colEnd int) error {
	if buf == nil || buf.Released() {
		return errors.Wrap(raster.ErrInvalidParam, "horizontal line on released buffer")
	}
	if colStart > colEnd {
		d.reject("horizontal-line", zap.Int("start", colStart), zap.Int("end", colEnd))
		return errors.Wrapf(raster.ErrInvalidParam, "horizontal line cols %d > %d", colStart, colEnd)
	}
	if !buf.Contains(row, colStart) || !buf.Contains(row, colEnd) {
		d.reject("horizontal-line", zap.Int("row", row), zap.Int("start", colStart), zap.Int("end", colEnd))
		return errors.Wrapf(raster.ErrInvalidParam, "horizontal line row %d cols %d..%d out of bounds", row, colStart, colEnd)
	}
	if colStart == colEnd {
		return d.FillPoint(buf, color, pen, row, colStart)
	}

	for col := colStart; col <= colEnd; col++ {
		if err := d.FillPoint(buf, color, pen, row, col); err != nil {
			return err
		}
	}

	return nil
}

// Rectangle outlines the box with corners (x0, y0) and (x1, y1), x being the
// column and y the row. Edges drawn before a failing one stay drawn.
func (d *Drawer) Rectangle(buf *raster.Buffer, color uint16, pen uint16, x0, y0, x1, y1 int) error {
	if buf == nil || buf.Released() {
		return errors.Wrap(raster.ErrInvalidParam, "rectangle on released buffer")
	}
	if !buf.Contains(y0, x0) || !buf.Contains(y1, x1) {
		d.reject("rectangle", zap.Int("x0", x0), zap.Int("y0", y0), zap.Int("x1", x1), zap.Int("y1", y1))
		return errors.Wrapf(raster.ErrInvalidParam, "rectangle (%d,%d)-(%d,%d) out of bounds", x0, y0, x1, y1)
	}

	edges := []struct {
		name string
		draw func() error
	}{
		{"top", func() error { return d.HorizontalLine(buf, color, pen, y0, x0, x1) }},
		{"bottom", func() error { return d.HorizontalLine(buf, color, pen, y1, x0, x1) }},
		{"left", func() error { return d.VerticalLine(buf, color, pen, x0, y0, y1) }},
		{"right", func() error { return d.VerticalLine(buf, color, pen, x1, y0, y1) }},
	}

	for _, e := range edges {
		if err := e.draw(); err != nil {
			d.log.With(zap.String("edge", e.name), zap.Error(err)).Debug("rectangle edge failed")
			return raster.Wrapf(raster.ErrFailedDrawOp, err, "rectangle %s edge", e.name)
		}
	}

	return nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
