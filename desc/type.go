package desc

import (
	"fmt"
	"strconv"
)

type Type uint16

const (
	BranchStart      Type = 0x0040
	BranchUnionStart Type = 0x0041
	BranchEnd        Type = 0x0042

	Int8   Type = 0x0070
	Int16  Type = 0x0071
	Int32  Type = 0x0072
	Uint8  Type = 0x0073
	Uint16 Type = 0x0074
	Uint32 Type = 0x0075
	Float  Type = 0x0076
)

// Layout says how the children of a branch share the data buffer.
type Layout int

const (
	// NoLayout is the layout of scalars and BranchEnd.
	NoLayout Layout = iota
	// Sequential children follow one another.
	Sequential
	// Overlapping children all start at the branch origin.
	Overlapping
)

func (t Type) Layout() Layout {
	switch t {
	case BranchStart:
		return Sequential
	case BranchUnionStart:
		return Overlapping
	default:
		return NoLayout
	}
}

func (t Type) IsBranch() bool { return t.Layout() != NoLayout }

func (t Type) IsUnion() bool { return t.Layout() == Overlapping }

func (t Type) IsScalar() bool {
	_, err := TypeWidth(t)
	return err == nil
}

func (t Type) IsSigned() bool {
	return t == Int8 || t == Int16 || t == Int32
}

// TypeWidth returns the byte width of one value of a scalar kind.
func TypeWidth(t Type) (int, error) {
	switch t {
	case Int8, Uint8:
		return 1, nil
	case Int16, Uint16:
		return 2, nil
	case Int32, Uint32, Float:
		return 4, nil
	}
	return 0, fmt.Errorf("%w: %s has no width", ErrUnsupportedType, t)
}

var typeNames = map[Type]string{
	BranchStart:      "branch",
	BranchUnionStart: "union",
	BranchEnd:        "end",
	Int8:             "int8",
	Int16:            "int16",
	Int32:            "int32",
	Uint8:            "uint8",
	Uint16:           "uint16",
	Uint32:           "uint32",
	Float:            "float",
}

// Types returns all known kinds, branches first.
func Types() []Type {
	return []Type{
		BranchStart, BranchUnionStart, BranchEnd,
		Int8, Int16, Int32, Uint8, Uint16, Uint32, Float,
	}
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

func ParseType(v string) (Type, error) {
	for t, s := range typeNames {
		if s == v {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, v)
}

func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, uint16(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	pt, err := ParseType(string(d))
	if err != nil {
		return err
	}
	*t = pt
	return nil
}
