package desc

import (
	"encoding/binary"
	"fmt"
)

// Node is one descriptor record. Tag is carried for the application and is
// never interpreted here.
type Node struct {
	Type   Type
	Symbol uint16
	Count  uint16
	Tag    uint16
}

// NodeSize is the encoded size of a Node.
const NodeSize = 8

func (n Node) String() string {
	if n.Type == BranchEnd {
		return "end"
	}
	return fmt.Sprintf("%s sym=%d count=%d tag=%d", n.Type, n.Symbol, n.Count, n.Tag)
}

// AppendBinary appends the little-endian encoding of n to dst.
func (n Node) AppendBinary(dst []byte) ([]byte, error) {
	dst = binary.LittleEndian.AppendUint16(dst, uint16(n.Type))
	dst = binary.LittleEndian.AppendUint16(dst, n.Symbol)
	dst = binary.LittleEndian.AppendUint16(dst, n.Count)
	dst = binary.LittleEndian.AppendUint16(dst, n.Tag)
	return dst, nil
}

type Descriptor []Node

func (d Descriptor) MarshalBinary() ([]byte, error) {
	res := make([]byte, 0, len(d)*NodeSize)
	for _, n := range d {
		res, _ = n.AppendBinary(res)
	}
	return res, nil
}

func (d *Descriptor) UnmarshalBinary(b []byte) error {
	if len(b)%NodeSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of nodes", ErrInvalidDescriptor, len(b))
	}
	res := make(Descriptor, len(b)/NodeSize)
	for i := range res {
		p := b[i*NodeSize:]
		res[i] = Node{
			Type:   Type(binary.LittleEndian.Uint16(p)),
			Symbol: binary.LittleEndian.Uint16(p[2:]),
			Count:  binary.LittleEndian.Uint16(p[4:]),
			Tag:    binary.LittleEndian.Uint16(p[6:]),
		}
	}
	*d = res
	return nil
}

// Cursor is a position in a tree: a descriptor index paired with the data
// offset of the node at that index.
type Cursor struct {
	Node   int
	Offset int
}

// Skip returns the cursor of the next sibling. Siblings under an
// overlapping branch share their origin, so only the node index moves.
func (c Cursor) Skip(d Descriptor, layout Layout) (Cursor, error) {
	size, nodes, err := Span(d, c.Node)
	if err != nil {
		return c, err
	}
	c.Node += nodes
	if layout != Overlapping {
		c.Offset += size
	}
	return c, nil
}
