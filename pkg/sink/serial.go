package sink

import (
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial"

	"rasterbmp/pkg/raster"
)

type SerialOptions struct {
	DTR      bool
	RTS      bool
	BaudRate int
}

// Lister returns the names of the available ports.
type Lister func() ([]string, error)

// Opener opens a port by its full name.
type Opener func(name string, mode *serial.Mode) (serial.Port, error)

// NewSerial streams into the first port whose name contains name. Nothing
// can be taken back once written, so Discard only closes the port.
func NewSerial(name string) *Serial {
	return &Serial{
		name: name,
		list: serial.GetPortsList,
		open: serial.Open,
	}
}

type Serial struct {
	name string
	list Lister
	open Opener
	port serial.Port
}

// WithPorts replaces the port enumeration and opening functions.
func (s *Serial) WithPorts(list Lister, open Opener) *Serial {
	s.list = list
	s.open = open
	return s
}

func (s *Serial) Ports() ([]string, error) {
	return s.list()
}

// Open connects to the matching port. Nil opts leave DTR and RTS low and
// the baud rate at the driver default.
func (s *Serial) Open(opts *SerialOptions) error {
	if opts == nil {
		opts = &SerialOptions{}
	}

	ports, err := s.Ports()
	if err != nil {
		return raster.Wrapf(raster.ErrIO, err, "list ports")
	}

	var matched string
	for _, name := range ports {
		if strings.Contains(name, s.name) {
			matched = name
			break
		}
	}
	if matched == "" {
		return errors.Wrapf(raster.ErrIO, "port %q not found", s.name)
	}

	port, err := s.open(matched, &serial.Mode{BaudRate: opts.BaudRate})
	if err != nil {
		return raster.Wrapf(raster.ErrIO, err, "open %s", matched)
	}

	if err := port.SetDTR(opts.DTR); err != nil {
		_ = port.Close()
		return raster.Wrapf(raster.ErrIO, err, "set DTR")
	}

	if err := port.SetRTS(opts.RTS); err != nil {
		_ = port.Close()
		return raster.Wrapf(raster.ErrIO, err, "set RTS")
	}

	s.port = port
	return nil
}

func (s *Serial) Write(p []byte) (n int, err error) {
	if s.port == nil {
		return 0, errors.New("port not open")
	}
	return s.port.Write(p)
}

func (s *Serial) Commit() error {
	return s.close()
}

func (s *Serial) Discard() error {
	return s.close()
}

func (s *Serial) close() error {
	if s.port == nil {
		return nil
	}
	port := s.port
	s.port = nil
	return port.Close()
}
