package desc

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Value decodes one scalar element. Signed kinds yield int64, unsigned
// kinds uint64 and Float float32.
func Value(t Type, b []byte) (any, error) {
	w, err := TypeWidth(t)
	if err != nil {
		return nil, err
	}
	if len(b) < w {
		return nil, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrBufferTooSmall, t, w, len(b))
	}
	switch t {
	case Int8:
		return int64(int8(b[0])), nil
	case Int16:
		return int64(int16(binary.LittleEndian.Uint16(b))), nil
	case Int32:
		return int64(int32(binary.LittleEndian.Uint32(b))), nil
	case Uint8:
		return uint64(b[0]), nil
	case Uint16:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case Uint32:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	default:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	}
}

// AppendValue appends the text form of one scalar element: decimal for the
// integer kinds, six fraction digits for Float.
func AppendValue(dst []byte, t Type, b []byte) ([]byte, error) {
	v, err := Value(t, b)
	if err != nil {
		return dst, err
	}
	switch x := v.(type) {
	case int64:
		return strconv.AppendInt(dst, x, 10), nil
	case uint64:
		return strconv.AppendUint(dst, x, 10), nil
	default:
		return strconv.AppendFloat(dst, float64(x.(float32)), 'f', 6, 32), nil
	}
}

// PutValue encodes v into one scalar element of kind t. v may be any Go
// integer or float; integers must fit the kind.
func PutValue(t Type, b []byte, v any) error {
	w, err := TypeWidth(t)
	if err != nil {
		return err
	}
	if len(b) < w {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrBufferTooSmall, t, w, len(b))
	}
	if t == Float {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(f)))
		return nil
	}
	if t.IsSigned() {
		i, err := toInt(v)
		if err != nil {
			return err
		}
		lo, hi := int64(-1)<<(w*8-1), int64(1)<<(w*8-1)-1
		if i < lo || i > hi {
			return fmt.Errorf("%w: %d overflows %s", ErrUnsupportedType, i, t)
		}
		putUint(b, w, uint64(i))
		return nil
	}
	i, err := toInt(v)
	if err != nil {
		return err
	}
	if i < 0 || uint64(i) > uint64(1)<<(w*8)-1 {
		return fmt.Errorf("%w: %d overflows %s", ErrUnsupportedType, i, t)
	}
	putUint(b, w, uint64(i))
	return nil
}

func putUint(b []byte, w int, u uint64) {
	switch w {
	case 1:
		b[0] = byte(u)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(u))
	default:
		binary.LittleEndian.PutUint32(b, uint32(u))
	}
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d out of range", ErrUnsupportedType, x)
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrUnsupportedType, x)
		}
		return int64(x), nil
	case float32:
		return toInt(float64(x))
	}
	return 0, fmt.Errorf("%w: %T is not a number", ErrUnsupportedType, v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	}
	i, err := toInt(v)
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}
