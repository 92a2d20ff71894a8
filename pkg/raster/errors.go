package raster

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Failure kinds shared by the buffer, the drawing primitives and the encoder.
// Wrapped errors still match with errors.Is.
var (
	ErrInvalidParam = pkgerrors.New("invalid param")
	ErrAllocation   = pkgerrors.New("allocation failed")
	ErrIO           = pkgerrors.New("io failed")
	ErrFailedDrawOp = pkgerrors.New("draw operation failed")
)

type Kind uint8

const (
	KindOK Kind = iota
	KindInvalidParam
	KindAllocation
	KindIO
	KindFailedDrawOp
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalidParam:
		return "invalid-param"
	case KindAllocation:
		return "allocation-error"
	case KindIO:
		return "io-error"
	case KindFailedDrawOp:
		return "failed-draw-op"
	}
	return "unknown"
}

// KindOf classifies err. A composite failure is reported as KindFailedDrawOp
// even if the failing sub-step was an invalid parameter.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrFailedDrawOp):
		return KindFailedDrawOp
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrAllocation):
		return KindAllocation
	case errors.Is(err, ErrInvalidParam):
		return KindInvalidParam
	}
	return KindUnknown
}

// Code maps err to a numeric status, 0 meaning success.
func Code(err error) int {
	return int(KindOf(err))
}

type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string { return e.cause.Error() }
func (e *kindError) Unwrap() error { return e.cause }
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// Wrapf tags cause with kind. Both stay reachable through errors.Is, so a
// caller can still match os.ErrPermission behind an ErrIO.
func Wrapf(kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return pkgerrors.Wrapf(kind, format, args...)
	}
	return pkgerrors.WithStack(pkgerrors.WithMessagef(&kindError{kind: kind, cause: cause}, format, args...))
}
