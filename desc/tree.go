package desc

import (
	"fmt"
	"slices"
)

// Tree pairs a descriptor with the data buffer it describes. Both are owned
// by the caller.
type Tree struct {
	Desc Descriptor
	Data []byte
}

// NewTree allocates a zeroed data buffer sized for d.
func NewTree(d Descriptor) (Tree, error) {
	size, err := d.Size()
	if err != nil {
		return Tree{}, err
	}
	return Tree{Desc: d, Data: make([]byte, size)}, nil
}

// Check verifies that the data buffer covers everything the descriptor
// lays out.
func (t Tree) Check() error {
	if len(t.Desc) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidDescriptor)
	}
	size, err := t.Desc.Size()
	if err != nil {
		return err
	}
	if len(t.Data) < size {
		return fmt.Errorf("%w: data is %d bytes, descriptor needs %d", ErrInvalidDescriptor, len(t.Data), size)
	}
	return nil
}

// Clone copies the data buffer. The descriptor is shared.
func (t Tree) Clone() Tree {
	return Tree{Desc: t.Desc, Data: slices.Clone(t.Data)}
}

// Bytes returns the n bytes at off, aliasing the data buffer.
func (t Tree) Bytes(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(t.Data) {
		return nil, fmt.Errorf("%w: [%d:%d] outside %d data bytes", ErrInvalidDescriptor, off, off+n, len(t.Data))
	}
	return t.Data[off : off+n : off+n], nil
}
