package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"rasterbmp/pkg/raster"
)

type Option func(f *Fetcher)

// WithProgress shows a byte progress bar while downloading.
func WithProgress(on bool) Option {
	return func(f *Fetcher) {
		f.progress = on
	}
}

func WithClient(cli *resty.Client) Option {
	return func(f *Fetcher) {
		f.cli = cli
	}
}

func New(fs afero.Fs, logger *zap.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		fs:  fs,
		cli: resty.New(),
		log: logger,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.cli.SetDoNotParseResponse(true)
	return f
}

// Fetcher loads source material from local files or http(s) URLs.
type Fetcher struct {
	fs       afero.Fs
	cli      *resty.Client
	log      *zap.Logger
	progress bool
}

func isURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// Bytes returns the content at loc.
func (f *Fetcher) Bytes(loc string) ([]byte, error) {
	if loc == "" {
		return nil, errors.Wrap(raster.ErrInvalidParam, "empty location")
	}

	if !isURL(loc) {
		bs, err := afero.ReadFile(f.fs, loc)
		if err != nil {
			return nil, raster.Wrapf(raster.ErrIO, err, "read %s", loc)
		}
		return bs, nil
	}

	resp, err := f.cli.R().Get(loc)
	if err != nil {
		return nil, raster.Wrapf(raster.ErrIO, err, "get %s", loc)
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.StatusCode() >= 300 {
		return nil, errors.Wrapf(raster.ErrIO, "get %s: status %d", loc, resp.StatusCode())
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf
	if f.progress {
		bar := progressbar.DefaultBytes(resp.RawResponse.ContentLength, fmt.Sprintf("Downloading %s", loc))
		dst = io.MultiWriter(&buf, bar)
	}

	if _, err := io.Copy(dst, resp.RawBody()); err != nil {
		return nil, raster.Wrapf(raster.ErrIO, err, "download %s", loc)
	}

	f.log.With(zap.String("url", loc), zap.Int("bytes", buf.Len())).Debug("downloaded")
	return buf.Bytes(), nil
}

// Image decodes the PNG or JPEG picture at loc.
func (f *Fetcher) Image(loc string) (image.Image, error) {
	bs, err := f.Bytes(loc)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return nil, raster.Wrapf(raster.ErrInvalidParam, err, "decode %s", loc)
	}

	f.log.With(zap.String("src", loc), zap.String("format", format)).Debug("decoded")
	return img, nil
}

// Raw opens loc as a raw unit stream for raster.Buffer.Load.
func (f *Fetcher) Raw(loc string) (io.ReadCloser, error) {
	if isURL(loc) {
		bs, err := f.Bytes(loc)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(bs)), nil
	}

	file, err := f.fs.Open(loc)
	if err != nil {
		return nil, raster.Wrapf(raster.ErrIO, err, "open %s", loc)
	}
	return file, nil
}
