package desc

import "errors"

var (
	ErrBufferTooSmall    = errors.New("buffer too small")
	ErrInvalidSymbolPath = errors.New("invalid symbol path")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedType   = errors.New("unsupported type")
)
