// Package symbol provides symbols and symbol paths, the addressing scheme
// used to find the same node in two different trees.
//
// A Symbol pairs a node's 16 bit identifier with an array index. A Path is
// the list of symbols from the root to a node instance. Paths have a text
// form in which segments are separated by dots and a non zero index is
// written in brackets:
//
//	settings.channel[1].level
//	1.3[1].5
//
// Names resolve through a [Names] table; bare numbers are always accepted.
package symbol

import (
	"strconv"
	"strings"
)

type Symbol struct {
	Name  uint16
	Index uint16
}

func New(name, index uint16) Symbol {
	return Symbol{Name: name, Index: index}
}

// Packed returns the 32 bit wire form, index in the high half.
func (s Symbol) Packed() uint32 {
	return uint32(s.Index)<<16 | uint32(s.Name)
}

func FromPacked(v uint32) Symbol {
	return Symbol{Name: uint16(v), Index: uint16(v >> 16)}
}

func (s Symbol) String() string {
	return s.Format(nil)
}

// Format renders s with names resolved through n, which may be nil.
func (s Symbol) Format(n *Names) string {
	var b strings.Builder
	s.format(&b, n)
	return b.String()
}

func (s Symbol) format(b *strings.Builder, n *Names) {
	if name, ok := n.Name(s.Name); ok {
		b.WriteString(name)
	} else {
		b.WriteString(strconv.Itoa(int(s.Name)))
	}
	if s.Index != 0 {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(int(s.Index)))
		b.WriteByte(']')
	}
}
