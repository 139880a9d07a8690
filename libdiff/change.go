package libdiff

import (
	"errors"
	"iter"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/symbol"
)

type Kind int

const (
	// Removed instances exist in the left tree only.
	Removed Kind = iota
	// Added instances exist in the right tree only.
	Added
	// Changed scalar elements exist in both trees with different contents.
	Changed
)

func (k Kind) String() string {
	switch k {
	case Removed:
		return "removed"
	case Added:
		return "added"
	case Changed:
		return "changed"
	}
	return "unknown"
}

// Change is one difference between two trees.
type Change struct {
	Kind        Kind
	Left, Right *Side
	Index       int
	Depth       int
}

// Side returns whichever side is present, preferring left.
func (c Change) Side() *Side {
	if c.Left != nil {
		return c.Left
	}
	return c.Right
}

func (c Change) Path() symbol.Path {
	return c.Side().Path
}

func (c Change) Node() desc.Node {
	return c.Side().Node
}

var errStop = errors.New("stop")

// Changes returns an iterator over the differences between left and right,
// in the order Diff reports them. A failure is yielded once, as the last
// element.
func Changes(left, right desc.Tree) iter.Seq2[Change, error] {
	return func(yield func(Change, error) bool) {
		v := VisitorFuncs{
			OnUnique: func(l, r *Side, index, depth int) error {
				k := Removed
				if l == nil {
					k = Added
				}
				if !yield(Change{Kind: k, Left: l, Right: r, Index: index, Depth: depth}, nil) {
					return errStop
				}
				return nil
			},
			OnDiff: func(l, r *Side, index, depth int) error {
				if !yield(Change{Kind: Changed, Left: l, Right: r, Index: index, Depth: depth}, nil) {
					return errStop
				}
				return nil
			},
		}
		err := Diff(left, right, v)
		if err != nil && !errors.Is(err, errStop) {
			yield(Change{}, err)
		}
	}
}

// Collect gathers all changes between left and right.
func Collect(left, right desc.Tree) ([]Change, error) {
	var res []Change
	for c, err := range Changes(left, right) {
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}
