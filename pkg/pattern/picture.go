package pattern

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"rasterbmp/pkg/raster"
	"rasterbmp/pkg/shape"
)

// Picture scales and center-crops img to the buffer size and copies it in.
func Picture(img image.Image) Pattern {
	return &picture{img: img}
}

type picture struct {
	img image.Image
}

func (p *picture) Name() string {
	return "picture"
}

func (p *picture) Paint(_ *shape.Drawer, buf *raster.Buffer) error {
	filled := imaging.Fill(p.img, int(buf.Width()), int(buf.Height()), imaging.Center, imaging.Lanczos)
	draw.Draw(buf, buf.Bounds(), filled, filled.Bounds().Min, draw.Src)
	return nil
}
