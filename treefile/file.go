// Package treefile reads and writes trees as YAML documents.
//
//	symbols:
//	  settings: 1
//	tree:
//	  name: settings
//	  type: branch
//	  children:
//	  - name: gain
//	    type: int16
//	    count: 2
//	    value: [-1, 7]
//	values:
//	  settings:
//	    gain: [-1, 8]
//
// The tree section is the descriptor in nested form. Names missing from
// symbols get the next free identifier, in preorder; names that are
// decimal numbers are taken as identifiers. Trees that are diffed or
// merged must agree on identifiers: load the second one with LoadNames,
// passing the first one's Names. A scalar's value is a default
// applied to every instance of the node. The values section, in the form
// produced by Values, is applied last.
package treefile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/symbol"
)

// Node is one descriptor node in nested form.
type Node struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Count    uint16 `yaml:"count,omitempty"`
	Tag      uint16 `yaml:"tag,omitempty"`
	Children []Node `yaml:"children,omitempty"`
	Value    any    `yaml:"value,omitempty"`
}

type File struct {
	Symbols map[string]uint16 `yaml:"symbols,omitempty"`
	Root    Node              `yaml:"tree"`
	Values  any               `yaml:"values,omitempty"`

	// Tree and Names are built by Load and read by Marshal.
	Tree  desc.Tree     `yaml:"-"`
	Names *symbol.Names `yaml:"-"`
}

// ErrSymbolConflict reports a name and identifier pairing that disagrees
// with the table a file is loaded against.
var ErrSymbolConflict = errors.New("symbol conflict")

// Load parses a tree file and builds its descriptor and data.
func Load(d []byte) (*File, error) {
	return LoadNames(d, nil)
}

// LoadNames is Load with identifiers taken from names first. The file's
// own symbols must agree with names; names missing from both get fresh
// identifiers above every one in names. names itself is not modified.
func LoadNames(d []byte, names *symbol.Names) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(d, f); err != nil {
		return nil, err
	}
	if err := f.build(names); err != nil {
		return nil, err
	}
	return f, nil
}

// FromTree describes t as a file.
func FromTree(t desc.Tree, names *symbol.Names) (*File, error) {
	f := &File{Tree: t, Names: names}
	if err := f.refresh(); err != nil {
		return nil, err
	}
	return f, nil
}

// Marshal writes the file with symbols, schema and values taken from
// f.Tree and f.Names.
func (f *File) Marshal() ([]byte, error) {
	if err := f.refresh(); err != nil {
		return nil, err
	}
	return yaml.Marshal(f)
}

func (f *File) refresh() error {
	if err := f.Tree.Check(); err != nil {
		return err
	}
	root, _, err := schema(f.Tree.Desc, f.Names, 0)
	if err != nil {
		return err
	}
	vals, err := Values(f.Tree, f.Names)
	if err != nil {
		return err
	}
	f.Root, f.Values = root, vals
	f.Symbols = f.Names.Map()
	if len(f.Symbols) == 0 {
		f.Symbols = nil
	}
	return nil
}

func schema(d desc.Descriptor, names *symbol.Names, i int) (Node, int, error) {
	n := d[i]
	res := Node{
		Name: key(n, names),
		Type: n.Type.String(),
		Tag:  n.Tag,
	}
	if n.Count != 1 {
		res.Count = n.Count
	}
	if !n.Type.IsBranch() {
		return res, i + 1, nil
	}
	j := i + 1
	for j < len(d) && d[j].Type != desc.BranchEnd {
		var child Node
		var err error
		if child, j, err = schema(d, names, j); err != nil {
			return Node{}, 0, err
		}
		res.Children = append(res.Children, child)
	}
	if j >= len(d) {
		return Node{}, 0, fmt.Errorf("%w: branch at %d has no end", desc.ErrInvalidDescriptor, i)
	}
	return res, j + 1, nil
}

func (f *File) build(shared *symbol.Names) error {
	names, err := seedNames(shared, f.Symbols)
	if err != nil {
		return err
	}
	b := desc.NewBuilder()
	if err := addNode(b, names, &f.Root); err != nil {
		return err
	}
	d, err := b.Descriptor()
	if err != nil {
		return err
	}
	t, err := desc.NewTree(d)
	if err != nil {
		return err
	}
	if _, err := applyDefaults(t, desc.Cursor{}, &f.Root); err != nil {
		return err
	}
	if f.Values != nil {
		if err := SetValues(t, names, f.Values); err != nil {
			return err
		}
	}
	f.Tree, f.Names = t, names
	return nil
}

func addNode(b *desc.Builder, names *symbol.Names, n *Node) error {
	sym, err := symbolFor(names, n.Name)
	if err != nil {
		return err
	}
	t, err := desc.ParseType(n.Type)
	if err != nil {
		return fmt.Errorf("%s: %w", n.Name, err)
	}
	count := n.Count
	if count == 0 {
		count = 1
	}
	switch t {
	case desc.BranchStart, desc.BranchUnionStart:
		if n.Value != nil {
			return fmt.Errorf("%w: branch %s has a value", desc.ErrInvalidDescriptor, n.Name)
		}
		if t == desc.BranchStart {
			b.Branch(sym, count)
		} else {
			b.Union(sym, count)
		}
		b.Tag(n.Tag)
		for i := range n.Children {
			if err := addNode(b, names, &n.Children[i]); err != nil {
				return err
			}
		}
		b.End()
	case desc.BranchEnd:
		return fmt.Errorf("%w: %s cannot be an end node", desc.ErrInvalidDescriptor, n.Name)
	default:
		if len(n.Children) != 0 {
			return fmt.Errorf("%w: scalar %s has children", desc.ErrInvalidDescriptor, n.Name)
		}
		b.Scalar(t, sym, count).Tag(n.Tag)
	}
	return nil
}

func symbolFor(names *symbol.Names, name string) (uint16, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: node without a name", desc.ErrInvalidDescriptor)
	}
	if id, ok := names.Symbol(name); ok {
		return id, nil
	}
	if id, err := strconv.ParseUint(name, 10, 16); err == nil {
		return uint16(id), nil
	}
	id := names.Next()
	names.Set(id, name)
	return id, nil
}

func seedNames(shared *symbol.Names, syms map[string]uint16) (*symbol.Names, error) {
	names := shared.Clone()
	for _, name := range slices.Sorted(maps.Keys(syms)) {
		id := syms[name]
		if have, ok := names.Symbol(name); ok && have != id {
			return nil, fmt.Errorf("%w: %s is %d, already %d", ErrSymbolConflict, name, id, have)
		}
		if have, ok := names.Name(id); ok && have != name {
			return nil, fmt.Errorf("%w: %d is %s, already %s", ErrSymbolConflict, id, name, have)
		}
		names.Set(id, name)
	}
	return names, nil
}

// applyDefaults writes the schema values of n, at c, into every element.
func applyDefaults(t desc.Tree, c desc.Cursor, n *Node) (desc.Cursor, error) {
	dn := t.Desc[c.Node]
	size, nodes, err := desc.Span(t.Desc, c.Node)
	if err != nil {
		return c, err
	}
	next := desc.Cursor{Node: c.Node + nodes, Offset: c.Offset + size}
	if !dn.Type.IsBranch() {
		if n.Value == nil {
			return next, nil
		}
		return next, setNode(t, nil, c, n.Value, n.Name)
	}
	elem := size / int(dn.Count)
	layout := dn.Type.Layout()
	for i := range int(dn.Count) {
		origin := c.Offset + i*elem
		child := desc.Cursor{Node: c.Node + 1, Offset: origin}
		for j := range n.Children {
			if layout == desc.Overlapping {
				child.Offset = origin
			}
			if child, err = applyDefaults(t, child, &n.Children[j]); err != nil {
				return c, err
			}
		}
	}
	return next, nil
}
