package pattern

import (
	"image"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"rasterbmp/pkg/raster"
	"rasterbmp/pkg/shape"
)

// Blocks tiles the buffer with size x size squares cycling through the
// palette. With shuffle set the tile size and painting order are random.
func Blocks(size int, shuffle bool) Pattern {
	return &blocks{
		size:    lo.Ternary(size > 0, size, 8),
		shuffle: shuffle,
	}
}

type blocks struct {
	size    int
	shuffle bool
}

func (e *blocks) Name() string {
	return lo.Ternary(e.shuffle, "random", "blocks")
}

func (e *blocks) Paint(d *shape.Drawer, buf *raster.Buffer) error {
	w, h := int(buf.Width()), int(buf.Height())

	size := e.size
	if e.shuffle {
		rand.Seed(time.Now().UnixNano())
		size = rand.Intn(32) + 8
	}

	var tiles []image.Rectangle
	for y := 0; y < h; y += size {
		for x := 0; x < w; x += size {
			tiles = append(tiles, image.Rect(x, y, x+size, y+size).Intersect(buf.Bounds()))
		}
	}

	if e.shuffle {
		tiles = lo.Shuffle(tiles)
	}

	for i, tile := range tiles {
		c := uint16(palette[i%len(palette)])
		for row := tile.Min.Y; row < tile.Max.Y; row++ {
			if err := d.HorizontalLine(buf, c, 1, row, tile.Min.X, tile.Max.X-1); err != nil {
				return err
			}
		}
	}

	return nil
}
