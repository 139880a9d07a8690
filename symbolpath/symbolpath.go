// Package symbolpath reconstructs symbol paths, either for a descriptor
// node or for a byte address inside a tree's data.
//
// Both forms write into a caller supplied path and fail with
// desc.ErrBufferTooSmall, before writing past it, when it is too short.
package symbolpath

import (
	"fmt"

	"github.com/signadot/kowhai/debug"
	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/symbol"
)

// FromNode writes the path of descriptor node d[node] into out and returns
// its length. Every segment has index 0: the descriptor alone does not
// identify an array element.
func FromNode(d desc.Descriptor, node int, out symbol.Path) (int, error) {
	if node < 0 || node >= len(d) || d[node].Type == desc.BranchEnd {
		return 0, fmt.Errorf("%w: no node at %d", desc.ErrNotFound, node)
	}
	depth := 0
	for i := 0; i <= node; i++ {
		n := d[i]
		if n.Type == desc.BranchEnd {
			depth--
			if depth < 0 {
				return 0, fmt.Errorf("%w: unexpected branch end at %d", desc.ErrInvalidDescriptor, i)
			}
			continue
		}
		if depth >= len(out) {
			return 0, fmt.Errorf("%w: path needs more than %d segments", desc.ErrBufferTooSmall, len(out))
		}
		out[depth] = symbol.New(n.Symbol, 0)
		if i == node {
			break
		}
		if n.Type.IsBranch() {
			depth++
		}
	}
	return depth + 1, nil
}

// NodePath is FromNode with an allocated result.
func NodePath(d desc.Descriptor, node int) (symbol.Path, error) {
	out := make(symbol.Path, len(d))
	n, err := FromNode(d, node, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// FromAddress writes into out the path of the scalar element of t that
// covers data offset addr, and returns the path length.
//
// Union alternatives all start at the union's origin; they are tried in
// descriptor order and the first one with a scalar covering addr wins.
func FromAddress(t desc.Tree, addr int, out symbol.Path) (int, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}
	if addr < 0 || addr >= len(t.Data) {
		return 0, fmt.Errorf("%w: address %d outside %d data bytes", desc.ErrNotFound, addr, len(t.Data))
	}
	w := &walker{d: t.Desc, addr: addr, out: out}
	n, err := w.run(desc.Cursor{}, desc.NoLayout, 0)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no node covers address %d", desc.ErrNotFound, addr)
	}
	return n, nil
}

// AddressPath is FromAddress with an allocated result.
func AddressPath(t desc.Tree, addr int) (symbol.Path, error) {
	out := make(symbol.Path, len(t.Desc))
	n, err := FromAddress(t, addr, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

type walker struct {
	d    desc.Descriptor
	addr int
	out  symbol.Path
}

// run searches the sibling run at c. It returns the length of the path
// found, or 0 when no sibling covers the address.
func (w *walker) run(c desc.Cursor, layout desc.Layout, depth int) (int, error) {
	origin := c.Offset
	for c.Node < len(w.d) && w.d[c.Node].Type != desc.BranchEnd {
		n := w.d[c.Node]
		size, _, err := desc.Span(w.d, c.Node)
		if err != nil {
			return 0, err
		}
		if layout == desc.Overlapping {
			c.Offset = origin
		}
		if w.addr >= c.Offset && w.addr < c.Offset+size {
			elem := size / int(n.Count)
			index := (w.addr - c.Offset) / elem
			if depth >= len(w.out) {
				return 0, fmt.Errorf("%w: path needs more than %d segments", desc.ErrBufferTooSmall, len(w.out))
			}
			w.out[depth] = symbol.New(n.Symbol, uint16(index))
			if debug.Path() {
				debug.Logf("(%d)%s %s covers %d\n", depth, debug.Indent(depth), w.out[depth], w.addr)
			}
			if !n.Type.IsBranch() {
				return depth + 1, nil
			}
			child := desc.Cursor{Node: c.Node + 1, Offset: c.Offset + index*elem}
			found, err := w.run(child, n.Type.Layout(), depth+1)
			if err != nil || found > 0 {
				return found, err
			}
			// only a shorter union alternative leaves bytes uncovered;
			// siblings of an overlapping run get their turn
			if layout != desc.Overlapping {
				return 0, nil
			}
		}
		if c, err = c.Skip(w.d, layout); err != nil {
			return 0, err
		}
	}
	return 0, nil
}
