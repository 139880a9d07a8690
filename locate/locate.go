// Package locate resolves symbols and symbol paths to descriptor nodes and
// data offsets.
//
// [Find] resolves one path segment against one sibling run. [Resolve]
// composes Find once per segment, re-basing at each matched branch element.
package locate

import (
	"fmt"

	"github.com/signadot/kowhai/debug"
	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/symbol"
)

// Loc is a located node instance.
type Loc struct {
	// Node is the descriptor index of the matched node.
	Node int
	// Offset is the byte offset of the addressed element, relative to the
	// origin Find was given or, for Resolve, to the start of the data.
	Offset int
	// Size is the size of one element of the node.
	Size int
}

// Find looks for seg among the siblings starting at d[first]. The run ends
// at a BranchEnd or at the end of d. layout is the layout of the enclosing
// branch: under an Overlapping branch every sibling starts at offset 0.
//
// The returned offset is relative to the origin of the run and includes
// seg.Index * element size.
func Find(d desc.Descriptor, first int, seg symbol.Symbol, layout desc.Layout) (Loc, error) {
	off := 0
	for i := first; i < len(d) && d[i].Type != desc.BranchEnd; {
		size, nodes, err := desc.Span(d, i)
		if err != nil {
			return Loc{}, err
		}
		n := d[i]
		if n.Symbol == seg.Name {
			if seg.Index >= n.Count {
				return Loc{}, fmt.Errorf("%w: index %d of %d[%d]",
					desc.ErrInvalidSymbolPath, seg.Index, n.Symbol, n.Count)
			}
			elem := size / int(n.Count)
			res := Loc{Node: i, Offset: off + int(seg.Index)*elem, Size: elem}
			if debug.Locate() {
				debug.Logf("locate %s at node %d offset %d\n", seg, res.Node, res.Offset)
			}
			return res, nil
		}
		if layout != desc.Overlapping {
			off += size
		}
		i += nodes
	}
	return Loc{}, fmt.Errorf("%w: no symbol %d", desc.ErrInvalidSymbolPath, seg.Name)
}

// Resolve locates the node instance addressed by path, starting with the
// top level run of d.
func Resolve(d desc.Descriptor, path symbol.Path) (Loc, error) {
	if len(path) == 0 {
		return Loc{}, fmt.Errorf("%w: empty path", desc.ErrInvalidSymbolPath)
	}
	first, base, layout := 0, 0, desc.NoLayout
	var loc Loc
	for i, seg := range path {
		l, err := Find(d, first, seg, layout)
		if err != nil {
			return Loc{}, fmt.Errorf("%w at %s", err, path[:i+1])
		}
		loc = l
		loc.Offset += base
		n := d[loc.Node]
		if i == len(path)-1 {
			break
		}
		if !n.Type.IsBranch() {
			return Loc{}, fmt.Errorf("%w: %s is a %s, not a branch",
				desc.ErrInvalidSymbolPath, path[:i+1], n.Type)
		}
		first, base, layout = loc.Node+1, loc.Offset, n.Type.Layout()
	}
	return loc, nil
}

// Element returns the bytes of the element addressed by path, aliasing
// t.Data.
func Element(t desc.Tree, path symbol.Path) ([]byte, Loc, error) {
	loc, err := Resolve(t.Desc, path)
	if err != nil {
		return nil, Loc{}, err
	}
	b, err := t.Bytes(loc.Offset, loc.Size)
	if err != nil {
		return nil, Loc{}, err
	}
	return b, loc, nil
}

// Node returns the whole array of the node addressed by path: all Count
// elements starting at element 0 of the last segment.
func Node(t desc.Tree, path symbol.Path) ([]byte, Loc, error) {
	loc, err := Resolve(t.Desc, path)
	if err != nil {
		return nil, Loc{}, err
	}
	n := t.Desc[loc.Node]
	start := loc.Offset - int(path[len(path)-1].Index)*loc.Size
	b, err := t.Bytes(start, loc.Size*int(n.Count))
	if err != nil {
		return nil, Loc{}, err
	}
	loc.Offset = start
	return b, loc, nil
}
