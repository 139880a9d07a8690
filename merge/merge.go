// Package merge copies values between trees whose descriptors may differ.
//
// Nodes are matched the way libdiff matches them. Every scalar element
// present in both trees with the same kind and count is copied from the
// source into the destination; everything else in the destination is left
// as it was.
package merge

import (
	"fmt"

	"github.com/signadot/kowhai/debug"
	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/libdiff"
)

// Merger is the libdiff.Visitor behind Merge. Left is the destination and
// right the source.
type Merger struct {
	// Copied counts the elements written into the destination.
	Copied int
}

// Unique does nothing: a node in one tree only has nowhere to go.
func (m *Merger) Unique(left, right *libdiff.Side, index, depth int) error {
	return nil
}

func (m *Merger) Diff(left, right *libdiff.Side, index, depth int) error {
	ln, rn := left.Node, right.Node
	if ln.Type != rn.Type || ln.Count != rn.Count {
		if debug.Merge() {
			debug.Logf("(%d)%s skip %s: %s vs %s\n", depth, debug.Indent(depth), left.Path, ln, rn)
		}
		return nil
	}
	w, err := desc.TypeWidth(ln.Type)
	if err != nil {
		// branches
		return nil
	}
	if len(left.Data) < w || len(right.Data) < w {
		return fmt.Errorf("%w: element of %s", desc.ErrBufferTooSmall, left.Path)
	}
	copy(left.Data[:w], right.Data[:w])
	m.Copied++
	if debug.Merge() {
		debug.Logf("(%d)%s copy %s = %s\n", depth, debug.Indent(depth), left.Path, right.Data[:w])
	}
	return nil
}

// Merge copies every matching element of src into dst in place. Both roots
// must be plain branches. A failure part way leaves dst partly merged; use
// MergeCopy to avoid that.
func Merge(dst, src desc.Tree) error {
	_, err := merge(dst, src)
	return err
}

// MergeCopy merges src into a copy of dst's data and returns the copy,
// leaving dst untouched.
func MergeCopy(dst, src desc.Tree) ([]byte, error) {
	out := dst.Clone()
	if _, err := merge(out, src); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func merge(dst, src desc.Tree) (int, error) {
	if err := checkRoot(dst); err != nil {
		return 0, fmt.Errorf("destination: %w", err)
	}
	if err := checkRoot(src); err != nil {
		return 0, fmt.Errorf("source: %w", err)
	}
	m := &Merger{}
	if err := libdiff.Diff(dst, src, m); err != nil {
		return m.Copied, err
	}
	if debug.Merge() {
		debug.Logf("merged: ")
		debug.LogAny(m)
	}
	return m.Copied, nil
}

func checkRoot(t desc.Tree) error {
	if len(t.Desc) == 0 || t.Desc[0].Type != desc.BranchStart {
		return fmt.Errorf("%w: root must be a branch", desc.ErrInvalidDescriptor)
	}
	return nil
}
