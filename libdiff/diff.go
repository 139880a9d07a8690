package libdiff

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/kowhai/debug"
	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/locate"
	"github.com/signadot/kowhai/symbol"
)

// Side is one tree's view of a reported node instance.
type Side struct {
	Node      desc.Node
	NodeIndex int
	// Path addresses the instance from the root.
	Path symbol.Path
	// Offset of the element in the tree's data.
	Offset int
	// Data holds the element bytes and aliases the tree's data buffer.
	Data []byte
}

type Visitor interface {
	// Unique is called for an instance found in one tree only; the other
	// side is nil.
	Unique(left, right *Side, index, depth int) error
	// Diff is called for a scalar element found in both trees whose
	// contents differ.
	Diff(left, right *Side, index, depth int) error
}

// VisitorFuncs adapts functions to a Visitor. Nil functions ignore their
// events.
type VisitorFuncs struct {
	OnUnique func(left, right *Side, index, depth int) error
	OnDiff   func(left, right *Side, index, depth int) error
}

func (v VisitorFuncs) Unique(left, right *Side, index, depth int) error {
	if v.OnUnique == nil {
		return nil
	}
	return v.OnUnique(left, right, index, depth)
}

func (v VisitorFuncs) Diff(left, right *Side, index, depth int) error {
	if v.OnDiff == nil {
		return nil
	}
	return v.OnDiff(left, right, index, depth)
}

// Diff reports every difference between left and right to v. The first
// error, from the trees or from v, stops the walk and is returned.
func Diff(left, right desc.Tree, v Visitor) error {
	if err := checkTrees(left, right); err != nil {
		return err
	}
	if debug.Diff() {
		debug.Logf("diff left against right\n")
	}
	fwd := &pass{v: v, unique: true, diffs: true}
	if err := fwd.walk(run{t: left}, run{t: right}, 0); err != nil {
		return err
	}
	if debug.Diff() {
		debug.Logf("diff right against left\n")
	}
	rev := &pass{v: v, unique: true, swap: true}
	return rev.walk(run{t: right}, run{t: left}, 0)
}

// DiffL2R is the first pass of Diff alone: instances only in left, and
// value differences. Instances only in right are not reported.
func DiffL2R(left, right desc.Tree, v Visitor) error {
	if err := checkTrees(left, right); err != nil {
		return err
	}
	p := &pass{v: v, unique: true, diffs: true}
	return p.walk(run{t: left}, run{t: right}, 0)
}

func checkTrees(left, right desc.Tree) error {
	if err := left.Check(); err != nil {
		return fmt.Errorf("left: %w", err)
	}
	if err := right.Check(); err != nil {
		return fmt.Errorf("right: %w", err)
	}
	return nil
}

// run is a sibling run: a cursor on its current node and the layout of the
// branch that encloses it.
type run struct {
	t      desc.Tree
	c      desc.Cursor
	layout desc.Layout
}

type pass struct {
	v      Visitor
	unique bool
	diffs  bool
	// swap marks the reverse pass, whose left is the caller's right.
	swap bool
	path symbol.Path
}

func (p *pass) walk(l, r run, depth int) error {
	origin := l.c.Offset
	for {
		if l.c.Node >= len(l.t.Desc) {
			return fmt.Errorf("%w: run at depth %d has no end", desc.ErrInvalidDescriptor, depth)
		}
		ln := l.t.Desc[l.c.Node]
		if ln.Type == desc.BranchEnd {
			if debug.Diff() {
				debug.Logf("(%d)%s pop\n", depth, debug.Indent(depth))
			}
			return nil
		}
		if l.layout == desc.Overlapping {
			l.c.Offset = origin
		}
		lsize, lnodes, err := desc.Span(l.t.Desc, l.c.Node)
		if err != nil {
			return err
		}
		lelem := lsize / int(ln.Count)
		shared := 0
		loc, err := locate.Find(r.t.Desc, r.c.Node, symbol.New(ln.Symbol, 0), r.layout)
		switch {
		case err == nil:
			rn := r.t.Desc[loc.Node]
			shared = min(int(ln.Count), int(rn.Count))
			rbase := r.c.Offset + loc.Offset
			if ln.Type.IsBranch() && rn.Type.IsBranch() {
				for i := range shared {
					if debug.Diff() {
						debug.Logf("(%d)%s drill %d[%d]\n", depth, debug.Indent(depth), ln.Symbol, i)
					}
					p.path = append(p.path, symbol.New(ln.Symbol, uint16(i)))
					err := p.walk(
						run{t: l.t, c: desc.Cursor{Node: l.c.Node + 1, Offset: l.c.Offset + i*lelem}, layout: ln.Type.Layout()},
						run{t: r.t, c: desc.Cursor{Node: loc.Node + 1, Offset: rbase + i*loc.Size}, layout: rn.Type.Layout()},
						depth+1)
					p.path = p.path[:len(p.path)-1]
					if err != nil {
						return err
					}
				}
				break
			}
			if !p.diffs {
				break
			}
			for i := range shared {
				ls, err := p.side(l.t, l.c.Node, l.c.Offset+i*lelem, lelem, i)
				if err != nil {
					return err
				}
				rs, err := p.side(r.t, loc.Node, rbase+i*loc.Size, loc.Size, i)
				if err != nil {
					return err
				}
				if lelem == loc.Size && ln.Type.IsBranch() == rn.Type.IsBranch() && bytes.Equal(ls.Data, rs.Data) {
					continue
				}
				if err := p.reportDiff(ls, rs, i, depth); err != nil {
					return err
				}
			}
		case errors.Is(err, desc.ErrInvalidSymbolPath):
		default:
			return err
		}
		if p.unique {
			for i := shared; i < int(ln.Count); i++ {
				ls, err := p.side(l.t, l.c.Node, l.c.Offset+i*lelem, lelem, i)
				if err != nil {
					return err
				}
				if err := p.reportUnique(ls, i, depth); err != nil {
					return err
				}
			}
		}
		// a root that is not wrapped in a branch may be followed by
		// anything, so stop after one node
		if depth == 0 {
			return nil
		}
		l.c.Node += lnodes
		l.c.Offset += lsize
	}
}

func (p *pass) side(t desc.Tree, node, off, size, index int) (*Side, error) {
	data, err := t.Bytes(off, size)
	if err != nil {
		return nil, err
	}
	path := slices.Clone(p.path)
	path = append(path, symbol.New(t.Desc[node].Symbol, uint16(index)))
	return &Side{
		Node:      t.Desc[node],
		NodeIndex: node,
		Path:      path,
		Offset:    off,
		Data:      data,
	}, nil
}

func (p *pass) reportUnique(s *Side, index, depth int) error {
	if debug.Diff() {
		debug.Logf("(%d)%s unique %s\n", depth, debug.Indent(depth), s.Path)
	}
	if p.swap {
		return p.v.Unique(nil, s, index, depth)
	}
	return p.v.Unique(s, nil, index, depth)
}

func (p *pass) reportDiff(a, b *Side, index, depth int) error {
	if debug.Diff() {
		debug.Logf("(%d)%s differ %s: %s != %s\n", depth, debug.Indent(depth), a.Path, a.Data, b.Data)
	}
	if p.swap {
		a, b = b, a
	}
	return p.v.Diff(a, b, index, depth)
}
