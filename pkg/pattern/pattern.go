package pattern

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"rasterbmp/pkg/bitmap"
	"rasterbmp/pkg/raster"
	"rasterbmp/pkg/shape"
)

// Pattern paints a synthetic image onto a buffer.
type Pattern interface {
	Name() string
	Paint(d *shape.Drawer, buf *raster.Buffer) error
}

var registry = map[string]func(pen uint16) Pattern{
	"bars":   func(uint16) Pattern { return Bars() },
	"grid":   func(pen uint16) Pattern { return Grid(8, pen) },
	"frame":  func(pen uint16) Pattern { return Frame(pen) },
	"blocks": func(uint16) Pattern { return Blocks(8, false) },
	"random": func(uint16) Pattern { return Blocks(8, true) },
}

// Names lists the registered pattern names.
func Names() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}

// ByName builds the registered pattern name drawn with pen.
func ByName(name string, pen uint16) (Pattern, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(raster.ErrInvalidParam, "unknown pattern %q", name)
	}
	return mk(pen), nil
}

var palette = []bitmap.Color{
	bitmap.White,
	bitmap.Yellow,
	bitmap.Cyan,
	bitmap.Green,
	bitmap.Magenta,
	bitmap.Red,
	bitmap.Blue,
	bitmap.Black,
}

// Bars paints vertical color bars spanning the full width.
func Bars() Pattern {
	return bars{}
}

type bars struct{}

func (bars) Name() string {
	return "bars"
}

func (bars) Paint(d *shape.Drawer, buf *raster.Buffer) error {
	w, h := int(buf.Width()), int(buf.Height())
	for col := 0; col < w; col++ {
		c := palette[col*len(palette)/w]
		if err := d.VerticalLine(buf, uint16(c), 1, col, 0, h-1); err != nil {
			return err
		}
	}
	return nil
}

// Grid rules lines every step pixels in both directions.
func Grid(step int, pen uint16) Pattern {
	return &grid{step: lo.Ternary(step > 0, step, 8), pen: pen}
}

type grid struct {
	step int
	pen  uint16
}

func (g *grid) Name() string {
	return "grid"
}

func (g *grid) Paint(d *shape.Drawer, buf *raster.Buffer) error {
	w, h := int(buf.Width()), int(buf.Height())
	for row := 0; row < h; row += g.step {
		if err := d.HorizontalLine(buf, uint16(bitmap.Green), g.pen, row, 0, w-1); err != nil {
			return err
		}
	}
	for col := 0; col < w; col += g.step {
		if err := d.VerticalLine(buf, uint16(bitmap.Green), g.pen, col, 0, h-1); err != nil {
			return err
		}
	}
	return nil
}

// Frame outlines the buffer border with a cross mark at its center.
func Frame(pen uint16) Pattern {
	return &frame{pen: pen}
}

type frame struct {
	pen uint16
}

func (f *frame) Name() string {
	return "frame"
}

func (f *frame) Paint(d *shape.Drawer, buf *raster.Buffer) error {
	w, h := int(buf.Width()), int(buf.Height())
	if err := d.Rectangle(buf, uint16(bitmap.White), f.pen, 0, 0, w-1, h-1); err != nil {
		return err
	}
	if err := d.HorizontalLine(buf, uint16(bitmap.Red), f.pen, h/2, 0, w-1); err != nil {
		return err
	}
	return d.VerticalLine(buf, uint16(bitmap.Red), f.pen, w/2, 0, h-1)
}
