package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/spf13/afero"

	"rasterbmp/pkg/raster"
)

const openFlags = os.O_CREATE | os.O_EXCL | os.O_WRONLY

// NewFile opens a temporary file next to path. Commit renames it over path,
// Discard removes it, so path never holds a partial bitmap.
func NewFile(fs afero.Fs, path string) (*File, error) {
	if fs == nil || path == "" {
		return nil, errors.Wrap(raster.ErrInvalidParam, "file sink without fs or path")
	}

	dir := filepath.Dir(path)
	if exists, err := afero.DirExists(fs, dir); err != nil {
		return nil, raster.Wrapf(raster.ErrIO, err, "stat %s", dir)
	} else if !exists {
		return nil, errors.Wrapf(raster.ErrIO, "dir %s not exists", dir)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), xid.New().String()))
	f, err := fs.OpenFile(tmp, openFlags, 0644)
	if err != nil {
		return nil, raster.Wrapf(raster.ErrIO, err, "open %s", tmp)
	}

	return &File{fs: fs, f: f, path: path, tmp: tmp}, nil
}

type File struct {
	fs   afero.Fs
	f    afero.File
	path string
	tmp  string
	done bool
}

func (f *File) Write(p []byte) (int, error) {
	if f.done {
		return 0, errors.New("sink closed")
	}
	return f.f.Write(p)
}

// Path is the final destination.
func (f *File) Path() string {
	return f.path
}

func (f *File) Commit() error {
	if f.done {
		return errors.New("sink closed")
	}
	f.done = true

	if err := f.f.Close(); err != nil {
		_ = f.fs.Remove(f.tmp)
		return err
	}
	if err := f.fs.Rename(f.tmp, f.path); err != nil {
		_ = f.fs.Remove(f.tmp)
		return err
	}
	return nil
}

func (f *File) Discard() error {
	if f.done {
		return nil
	}
	f.done = true

	_ = f.f.Close()
	return f.fs.Remove(f.tmp)
}
