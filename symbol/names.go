package symbol

import (
	"maps"
	"slices"
	"strconv"
)

// Names maps symbol identifiers to human readable names. A nil *Names is
// an empty table.
type Names struct {
	byID   map[uint16]string
	byName map[string]uint16
}

func NewNames() *Names {
	return &Names{byID: map[uint16]string{}, byName: map[string]uint16{}}
}

// NamesFromMap builds a table from name -> identifier pairs.
func NamesFromMap(m map[string]uint16) *Names {
	n := NewNames()
	for name, id := range m {
		n.Set(id, name)
	}
	return n
}

// Clone returns an independent copy of n. Cloning nil gives an empty
// table.
func (n *Names) Clone() *Names {
	if n == nil {
		return NewNames()
	}
	return &Names{byID: maps.Clone(n.byID), byName: maps.Clone(n.byName)}
}

func (n *Names) Set(id uint16, name string) {
	n.byID[id] = name
	n.byName[name] = id
}

func (n *Names) Name(id uint16) (string, bool) {
	if n == nil {
		return "", false
	}
	s, ok := n.byID[id]
	return s, ok
}

func (n *Names) Symbol(name string) (uint16, bool) {
	if n == nil {
		return 0, false
	}
	id, ok := n.byName[name]
	return id, ok
}

// Next returns the smallest identifier above every one in use.
func (n *Names) Next() uint16 {
	if n == nil || len(n.byID) == 0 {
		return 1
	}
	return slices.Max(slices.Collect(maps.Keys(n.byID))) + 1
}

// Map returns a copy of the table as name -> identifier.
func (n *Names) Map() map[string]uint16 {
	if n == nil {
		return map[string]uint16{}
	}
	return maps.Clone(n.byName)
}

// Quoted resolves id to a quoted name, falling back to the quoted decimal
// identifier. It is the default name lookup for serialization.
func (n *Names) Quoted(id uint16) string {
	if s, ok := n.Name(id); ok {
		return strconv.Quote(s)
	}
	return strconv.Quote(strconv.Itoa(int(id)))
}
