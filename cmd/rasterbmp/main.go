package main

import (
	"fmt"
	"io"
	"os"

	"github.com/inhies/go-bytesize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/dig"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"rasterbmp/pkg/bmp"
	"rasterbmp/pkg/pattern"
	"rasterbmp/pkg/raster"
	"rasterbmp/pkg/shape"
	"rasterbmp/pkg/sink"
	"rasterbmp/pkg/source"
)

var width = flag.Uint16("width", 64, "buffer width")
var height = flag.Uint16("height", 64, "buffer height")
var layout = flag.String("layout", "packed", "buffer layout: packed or channels")
var patternName = flag.String("pattern", "frame", fmt.Sprintf("test pattern %v", pattern.Names()))
var pen = flag.Uint16("pen", 1, "pen size")
var span = flag.String("span", "closed", "line span: closed or legacy")
var src = flag.String("source", "", "picture path or URL painted instead of a pattern")
var raw = flag.String("raw", "", "raw little-endian pixel units loaded instead of a pattern")
var out = flag.String("out", "frame.bmp", "output bitmap path")
var serialName = flag.String("serial", "", "stream to the serial port matching this name instead of a file")
var baud = flag.Int("baud", 115200, "serial baud rate")
var profile = flag.String("profile", "v5", "bitmap header profile: v5 or v4")
var progress = flag.Bool("progress", false, "show progress bars")
var dump = flag.Bool("dump", false, "dump buffer units to stdout")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	var logger *zap.Logger
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			newLogger,
			func() afero.Fs { return afero.NewOsFs() },
			newBuffer,
			newDrawer,
			newEncoder,
			newFetcher,
		),
		fx.Populate(&logger),
		fx.Invoke(run),
	)

	if err := app.Err(); err != nil {
		if logger != nil {
			logger.With(zap.Error(err), zap.Stringer("kind", kindOf(err))).Error("failed")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(int(kindOf(err)))
	}
}

// kindOf looks through the container's constructor failures for the error
// that was actually returned.
func kindOf(err error) raster.Kind {
	if k := raster.KindOf(err); k != raster.KindUnknown {
		return k
	}
	return raster.KindOf(dig.RootCause(err))
}

func newLogger() (*zap.Logger, error) {
	if *debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newBuffer() (*raster.Buffer, error) {
	var l raster.Layout
	switch *layout {
	case "packed":
		l = raster.LayoutPacked
	case "channels":
		l = raster.LayoutChannels
	default:
		return nil, fmt.Errorf("unknown layout %q: %w", *layout, raster.ErrInvalidParam)
	}
	return raster.New(*width, *height, raster.WithLayout(l))
}

func newDrawer(logger *zap.Logger) (*shape.Drawer, error) {
	var s shape.Span
	switch *span {
	case "closed":
		s = shape.SpanClosed
	case "legacy":
		s = shape.SpanLegacy
	default:
		return nil, fmt.Errorf("unknown span %q: %w", *span, raster.ErrInvalidParam)
	}
	return shape.New(shape.WithSpan(s), shape.WithLogger(logger)), nil
}

func newEncoder(logger *zap.Logger) (*bmp.Encoder, error) {
	var p bmp.Profile
	switch *profile {
	case "v5":
		p = bmp.ProfileV5
	case "v4":
		p = bmp.ProfileV4
	default:
		return nil, fmt.Errorf("unknown profile %q: %w", *profile, raster.ErrInvalidParam)
	}
	return bmp.New(bmp.WithProfile(p), bmp.WithLogger(logger)), nil
}

func newFetcher(fs afero.Fs, logger *zap.Logger) *source.Fetcher {
	return source.New(fs, logger, source.WithProgress(*progress))
}

func run(fs afero.Fs, buf *raster.Buffer, d *shape.Drawer, enc *bmp.Encoder, fetcher *source.Fetcher, logger *zap.Logger) error {
	defer func() {
		_ = buf.Release()
	}()

	if err := fill(buf, d, fetcher, logger); err != nil {
		return err
	}

	if *dump {
		if err := buf.Dump(os.Stdout); err != nil {
			return err
		}
	}

	headers, err := enc.Headers(buf)
	if err != nil {
		return err
	}

	dst, dest, err := openSink(fs)
	if err != nil {
		return err
	}

	if *progress {
		bar := progressbar.DefaultBytes(int64(headers.File.FileSize), fmt.Sprintf("Encoding %s", dest))
		dst = &teeSink{Sink: dst, w: bar}
	}

	if err := enc.Save(dst, buf); err != nil {
		return err
	}

	logger.With(
		zap.String("dest", dest),
		zap.String("size", bytesize.New(float64(headers.File.FileSize)).String()),
		zap.Uint16("width", buf.Width()),
		zap.Uint16("height", buf.Height()),
	).Info("bitmap written")

	return nil
}

func fill(buf *raster.Buffer, d *shape.Drawer, fetcher *source.Fetcher, logger *zap.Logger) error {
	switch {
	case *raw != "":
		r, err := fetcher.Raw(*raw)
		if err != nil {
			return err
		}
		defer func() {
			_ = r.Close()
		}()
		logger.With(zap.String("raw", *raw)).Debug("loading")
		return buf.Load(r)

	case *src != "":
		img, err := fetcher.Image(*src)
		if err != nil {
			return err
		}
		return pattern.Picture(img).Paint(d, buf)
	}

	p, err := pattern.ByName(*patternName, *pen)
	if err != nil {
		return err
	}
	logger.With(zap.String("pattern", p.Name()), zap.Uint16("pen", *pen)).Debug("painting")
	return p.Paint(d, buf)
}

func openSink(fs afero.Fs) (bmp.Sink, string, error) {
	if *serialName != "" {
		s := sink.NewSerial(*serialName)
		if err := s.Open(&sink.SerialOptions{DTR: true, RTS: true, BaudRate: *baud}); err != nil {
			return nil, "", err
		}
		return s, *serialName, nil
	}

	f, err := sink.NewFile(fs, *out)
	if err != nil {
		return nil, "", err
	}
	return f, f.Path(), nil
}

type teeSink struct {
	bmp.Sink
	w io.Writer
}

func (t *teeSink) Write(p []byte) (int, error) {
	n, err := t.Sink.Write(p)
	if n > 0 {
		_, _ = t.w.Write(p[:n])
	}
	return n, err
}
