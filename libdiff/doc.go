// Package libdiff computes structural differences between two kowhai trees.
//
// # Usage
//
//	// visit every difference
//	err := libdiff.Diff(left, right, libdiff.VisitorFuncs{
//		OnUnique: func(l, r *libdiff.Side, index, depth int) error { ... },
//		OnDiff:   func(l, r *libdiff.Side, index, depth int) error { ... },
//	})
//
//	// or range over change records
//	for c, err := range libdiff.Changes(left, right) {
//		...
//	}
//
// Nodes are matched by symbol, level by level, through the locator. A node
// instance present in only one tree is reported once through Unique; a
// scalar element present in both trees whose bytes (or element size)
// differ is reported once through Diff. Arguments are always in (left,
// right) order.
//
// The comparison runs in two passes. The first walks the left tree and
// reports left-only instances and value differences. The second walks the
// right tree and reports right-only instances only.
//
// # Related Packages
//
//   - github.com/signadot/kowhai/locate - symbol lookup used for matching
//   - github.com/signadot/kowhai/merge - a Visitor that copies matched values
package libdiff
