package sink

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"rasterbmp/pkg/raster"
)

func TestFileCommit(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))

	f, err := NewFile(fs, "/out/frame.bmp")
	require.NoError(t, err)

	_, err = f.Write([]byte("BM"))
	require.NoError(t, err)

	exists, _ := afero.Exists(fs, "/out/frame.bmp")
	assert.False(t, exists)

	require.NoError(t, f.Commit())
	bs, err := afero.ReadFile(fs, "/out/frame.bmp")
	require.NoError(t, err)
	assert.Equal(t, []byte("BM"), bs)

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = f.Write([]byte("x"))
	assert.Error(t, err)
}

func TestFileDiscard(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))
	require.NoError(t, afero.WriteFile(fs, "/out/frame.bmp", []byte("old"), 0644))

	f, err := NewFile(fs, "/out/frame.bmp")
	require.NoError(t, err)
	_, _ = f.Write([]byte("partial"))
	require.NoError(t, f.Discard())
	require.NoError(t, f.Discard())

	bs, err := afero.ReadFile(fs, "/out/frame.bmp")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), bs)

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileMissingDir(t *testing.T) {
	_, err := NewFile(afero.NewMemMapFs(), "/nowhere/frame.bmp")
	assert.ErrorIs(t, err, raster.ErrIO)

	_, err = NewFile(afero.NewMemMapFs(), "")
	assert.ErrorIs(t, err, raster.ErrInvalidParam)
}

func TestFileReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/out", 0755))

	_, err := NewFile(afero.NewReadOnlyFs(base), "/out/frame.bmp")
	assert.ErrorIs(t, err, raster.ErrIO)
	assert.ErrorIs(t, err, os.ErrPermission)
}

type fakePort struct {
	serial.Port
	out    bytes.Buffer
	dtr    bool
	rts    bool
	closed bool
}

func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }
func (p *fakePort) SetDTR(dtr bool) error       { p.dtr = dtr; return nil }
func (p *fakePort) SetRTS(rts bool) error       { p.rts = rts; return nil }
func (p *fakePort) Close() error                { p.closed = true; return nil }

func TestSerial(t *testing.T) {
	port := &fakePort{}
	var opened string
	var baud int

	s := NewSerial("USB35").WithPorts(
		func() ([]string, error) { return []string{"/dev/ttyS0", "/dev/cu.usbmodemUSB35INCH"}, nil },
		func(name string, mode *serial.Mode) (serial.Port, error) {
			opened, baud = name, mode.BaudRate
			return port, nil
		},
	)

	require.NoError(t, s.Open(&SerialOptions{DTR: true, RTS: true, BaudRate: 115200}))
	assert.Equal(t, "/dev/cu.usbmodemUSB35INCH", opened)
	assert.Equal(t, 115200, baud)
	assert.True(t, port.dtr)
	assert.True(t, port.rts)

	_, err := s.Write([]byte{1, 2})
	require.NoError(t, err)
	require.NoError(t, s.Commit())
	assert.True(t, port.closed)
	assert.Equal(t, []byte{1, 2}, port.out.Bytes())

	_, err = s.Write([]byte{3})
	assert.Error(t, err)
}

func TestSerialNotFound(t *testing.T) {
	s := NewSerial("missing").WithPorts(
		func() ([]string, error) { return []string{"/dev/ttyS0"}, nil },
		nil,
	)
	assert.ErrorIs(t, s.Open(&SerialOptions{}), raster.ErrIO)

	s = NewSerial("x").WithPorts(
		func() ([]string, error) { return nil, errors.New("boom") },
		nil,
	)
	assert.ErrorIs(t, s.Open(&SerialOptions{}), raster.ErrIO)
	assert.NoError(t, s.Discard())

	errBusy := errors.New("busy")
	s = NewSerial("ttyS").WithPorts(
		func() ([]string, error) { return []string{"/dev/ttyS0"}, nil },
		func(string, *serial.Mode) (serial.Port, error) { return nil, errBusy },
	)
	err := s.Open(&SerialOptions{})
	assert.ErrorIs(t, err, raster.ErrIO)
	assert.ErrorIs(t, err, errBusy)
}

func TestSerialNilOptions(t *testing.T) {
	port := &fakePort{dtr: true, rts: true}
	baud := -1

	s := NewSerial("ttyS").WithPorts(
		func() ([]string, error) { return []string{"/dev/ttyS0"}, nil },
		func(_ string, mode *serial.Mode) (serial.Port, error) {
			baud = mode.BaudRate
			return port, nil
		},
	)

	require.NoError(t, s.Open(nil))
	assert.Zero(t, baud)
	assert.False(t, port.dtr)
	assert.False(t, port.rts)
	require.NoError(t, s.Discard())
}
