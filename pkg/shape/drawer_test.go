package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rasterbmp/pkg/raster"
)

func newBuffer(t *testing.T, w, h uint16) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	require.NoError(t, err)
	return buf
}

func codes(t *testing.T, buf *raster.Buffer) [][]uint16 {
	t.Helper()
	rows := make([][]uint16, buf.Height())
	for r := range rows {
		rows[r] = make([]uint16, buf.Width())
		for c := range rows[r] {
			code, err := buf.Code(uint16(r), uint16(c))
			require.NoError(t, err)
			rows[r][c] = code
		}
	}
	return rows
}

func TestFillPointSingle(t *testing.T) {
	d := New(WithLogger(zaptest.NewLogger(t)))
	buf := newBuffer(t, 10, 10)

	require.NoError(t, d.FillPoint(buf, 0x1234, 1, 3, 4))
	got := codes(t, buf)
	for r, row := range got {
		for c, code := range row {
			if r == 3 && c == 4 {
				assert.Equal(t, uint16(0x1234), code)
			} else {
				assert.Zero(t, code)
			}
		}
	}
}

func TestFillPointRejects(t *testing.T) {
	d := New()
	buf := newBuffer(t, 10, 10)
	empty := codes(t, buf)

	for _, p := range [][2]int{{10, 0}, {0, 10}, {-1, 0}, {0, -1}, {100, 100}} {
		err := d.FillPoint(buf, 0xFFFF, 1, p[0], p[1])
		assert.ErrorIs(t, err, raster.ErrInvalidParam)
	}
	assert.ErrorIs(t, d.FillPoint(buf, 0xFFFF, 0, 5, 5), raster.ErrInvalidParam)
	assert.Equal(t, empty, codes(t, buf))
}

func TestFillPointClampsLargePen(t *testing.T) {
	d := New()
	buf := newBuffer(t, 10, 10)

	require.NoError(t, d.FillPoint(buf, 0xFFFF, 100, 1, 1))
	for _, row := range codes(t, buf) {
		for _, code := range row {
			assert.Equal(t, uint16(0xFFFF), code)
		}
	}
}

func TestFillPointFootprint(t *testing.T) {
	d := New()
	buf := newBuffer(t, 10, 10)

	// pen 2 reaches one pixel to each side
	require.NoError(t, d.FillPoint(buf, 7, 2, 0, 5))
	got := codes(t, buf)
	for r, row := range got {
		for c, code := range row {
			if r <= 1 && c >= 4 && c <= 6 {
				assert.Equal(t, uint16(7), code, "(%d,%d)", r, c)
			} else {
				assert.Zero(t, code, "(%d,%d)", r, c)
			}
		}
	}

	// centered outside but overlapping the buffer
	require.NoError(t, d.FillPoint(buf, 9, 3, -1, 11))
	code, _ := buf.Code(0, 9)
	assert.Equal(t, uint16(9), code)

	// centered too far away to overlap
	before := codes(t, buf)
	err := d.FillPoint(buf, 9, 3, 20, 20)
	assert.ErrorIs(t, err, raster.ErrInvalidParam)
	assert.Equal(t, raster.KindInvalidParam, raster.KindOf(err))
	assert.Equal(t, before, codes(t, buf))
}

func TestVerticalLine(t *testing.T) {
	d := New()
	buf := newBuffer(t, 10, 10)

	require.NoError(t, d.VerticalLine(buf, 0xFFFF, 1, 9, 0, 9))
	for r, row := range codes(t, buf) {
		for c, code := range row {
			if c == 9 {
				assert.Equal(t, uint16(0xFFFF), code, "row %d", r)
			} else {
				assert.Zero(t, code)
			}
		}
	}
}

func TestVerticalLineLegacySpan(t *testing.T) {
	d := New(WithSpan(SpanLegacy))
	buf := newBuffer(t, 10, 10)

	require.NoError(t, d.VerticalLine(buf, 0xFFFF, 1, 9, 0, 9))
	got := codes(t, buf)
	for r := 0; r < 9; r++ {
		assert.Equal(t, uint16(0xFFFF), got[r][9])
	}
	assert.Zero(t, got[9][9])

	require.NoError(t, d.HorizontalLine(buf, 0xFFFF, 1, 5, 0, 9))
	got = codes(t, buf)
	assert.Equal(t, uint16(0xFFFF), got[5][0])
	assert.Equal(t, uint16(0xFFFF), got[5][9])
}

func TestLineRejects(t *testing.T) {
	d := New()
	buf := newBuffer(t, 10, 10)

	assert.ErrorIs(t, d.VerticalLine(buf, 1, 1, 0, 5, 4), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.VerticalLine(buf, 1, 1, 10, 0, 4), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.VerticalLine(buf, 1, 1, 0, 0, 10), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.HorizontalLine(buf, 1, 1, 0, 5, 4), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.HorizontalLine(buf, 1, 1, 10, 0, 4), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.HorizontalLine(buf, 1, 1, 0, 0, 10), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.HorizontalLine(buf, 1, 0, 0, 0, 4), raster.ErrInvalidParam)
	for _, row := range codes(t, buf) {
		for _, code := range row {
			assert.Zero(t, code)
		}
	}
}

func TestLineDegenerate(t *testing.T) {
	d := New()
	buf := newBuffer(t, 10, 10)

	require.NoError(t, d.VerticalLine(buf, 3, 1, 2, 4, 4))
	require.NoError(t, d.HorizontalLine(buf, 5, 1, 7, 8, 8))

	got := codes(t, buf)
	assert.Equal(t, uint16(3), got[4][2])
	assert.Equal(t, uint16(5), got[7][8])
}

func TestHorizontalLine(t *testing.T) {
	d := New()
	buf := newBuffer(t, 10, 10)

	require.NoError(t, d.HorizontalLine(buf, 0x07E0, 1, 2, 3, 6))
	for r, row := range codes(t, buf) {
		for c, code := range row {
			if r == 2 && c >= 3 && c <= 6 {
				assert.Equal(t, uint16(0x07E0), code)
			} else {
				assert.Zero(t, code)
			}
		}
	}
}

func TestRectangle(t *testing.T) {
	d := New()
	buf := newBuffer(t, 24, 24)

	require.NoError(t, d.Rectangle(buf, 0xF800, 1, 2, 2, 20, 20))
	for r, row := range codes(t, buf) {
		for c, code := range row {
			inBox := r >= 2 && r <= 20 && c >= 2 && c <= 20
			onEdge := inBox && (r == 2 || r == 20 || c == 2 || c == 20)
			if onEdge {
				assert.Equal(t, uint16(0xF800), code, "(%d,%d)", r, c)
			} else {
				assert.Zero(t, code, "(%d,%d)", r, c)
			}
		}
	}
}

func TestRectangleFailures(t *testing.T) {
	d := New()
	buf := newBuffer(t, 24, 24)

	err := d.Rectangle(buf, 1, 1, 0, 0, 24, 5)
	assert.ErrorIs(t, err, raster.ErrInvalidParam)
	assert.Equal(t, raster.KindInvalidParam, raster.KindOf(err))

	// inverted corners are in bounds but the first edge refuses them
	err = d.Rectangle(buf, 1, 1, 10, 2, 5, 8)
	assert.ErrorIs(t, err, raster.ErrFailedDrawOp)
	assert.Equal(t, raster.KindFailedDrawOp, raster.KindOf(err))

	err = d.Rectangle(buf, 1, 0, 1, 1, 5, 5)
	assert.Equal(t, raster.KindFailedDrawOp, raster.KindOf(err))
}

func TestReleasedBuffer(t *testing.T) {
	d := New()
	buf := newBuffer(t, 4, 4)
	require.NoError(t, buf.Release())

	assert.ErrorIs(t, d.FillPoint(buf, 1, 1, 0, 0), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.VerticalLine(buf, 1, 1, 0, 0, 1), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.HorizontalLine(buf, 1, 1, 0, 0, 1), raster.ErrInvalidParam)
	assert.ErrorIs(t, d.Rectangle(nil, 1, 1, 0, 0, 1, 1), raster.ErrInvalidParam)
}
