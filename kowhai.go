// Package kowhai works with trees of fixed layout binary data described by
// a flat schema.
//
// A descriptor lists the nodes of a tree in preorder: branches (plain or
// union) bracket their children, scalars carry a kind and a count. The
// data of a tree is a byte buffer whose layout follows from the descriptor
// alone. This package gathers the common entry points; the subpackages
// hold the details.
//
//   - desc: descriptors, trees, size arithmetic
//   - symbol: symbols, symbol paths and name tables
//   - locate: symbol path to node and offset
//   - symbolpath: node or data offset to symbol path
//   - libdiff: structural differences between trees
//   - merge: copying matching values between trees
//   - encode: text, JSON and YAML renditions
//   - treefile: YAML tree files and value views
//   - server: trees hosted in slots behind a request boundary
package kowhai

import (
	"fmt"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/encode"
	"github.com/signadot/kowhai/libdiff"
	"github.com/signadot/kowhai/locate"
	"github.com/signadot/kowhai/merge"
	"github.com/signadot/kowhai/symbol"
	"github.com/signadot/kowhai/symbolpath"
)

type (
	Tree       = desc.Tree
	Descriptor = desc.Descriptor
	Node       = desc.Node
	Path       = symbol.Path
	Change     = libdiff.Change
)

// Size returns the number of data bytes d lays out.
func Size(d Descriptor) (int, error) {
	return d.Size()
}

// Get returns the bytes of the element path addresses, aliasing t.Data.
func Get(t Tree, path Path) ([]byte, error) {
	b, _, err := locate.Element(t, path)
	return b, err
}

// Set copies v into the element path addresses. v must be exactly one
// element long.
func Set(t Tree, path Path, v []byte) error {
	b, loc, err := locate.Element(t, path)
	if err != nil {
		return err
	}
	if len(v) != loc.Size {
		return fmt.Errorf("%w: %d bytes for a %d byte element", desc.ErrBufferTooSmall, len(v), loc.Size)
	}
	copy(b, v)
	return nil
}

// Diff lists every difference between left and right.
func Diff(left, right Tree) ([]Change, error) {
	return libdiff.Collect(left, right)
}

// Merge copies matching values of src into dst.
func Merge(dst, src Tree) error {
	return merge.Merge(dst, src)
}

// Serialize returns the text form of t, names resolved through names.
func Serialize(t Tree, names *symbol.Names) (string, error) {
	n, err := encode.SerializedSize(t, names.Quoted)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if n, err = encode.Serialize(t, names.Quoted, buf); err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// PathOf returns the path of the element holding byte addr of t's data.
func PathOf(t Tree, addr int) (Path, error) {
	return symbolpath.AddressPath(t, addr)
}

// NodePath returns the path from the root to descriptor node i.
func NodePath(d Descriptor, i int) (Path, error) {
	return symbolpath.NodePath(d, i)
}
