package treefile

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/symbol"
)

// Values returns the data of t as nested maps and lists, keyed by node
// name: a branch is a map of its children, a union a map of its
// alternatives all read over the same bytes, and any node with Count > 1 a
// list of its elements. Scalars are int64, uint64 or float32.
func Values(t desc.Tree, names *symbol.Names) (map[string]any, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}
	v, err := viewNode(t, names, desc.Cursor{})
	if err != nil {
		return nil, err
	}
	return map[string]any{key(t.Desc[0], names): v}, nil
}

func viewNode(t desc.Tree, names *symbol.Names, c desc.Cursor) (any, error) {
	n := t.Desc[c.Node]
	elem, err := desc.ElementSize(t.Desc, c.Node)
	if err != nil {
		return nil, err
	}
	vals := make([]any, n.Count)
	for i := range vals {
		off := c.Offset + i*elem
		if n.Type.IsBranch() {
			vals[i], err = viewBranch(t, names, desc.Cursor{Node: c.Node, Offset: off})
		} else {
			var b []byte
			if b, err = t.Bytes(off, elem); err == nil {
				vals[i], err = desc.Value(n.Type, b)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if n.Count == 1 {
		return vals[0], nil
	}
	return vals, nil
}

func viewBranch(t desc.Tree, names *symbol.Names, c desc.Cursor) (map[string]any, error) {
	layout := t.Desc[c.Node].Type.Layout()
	res := map[string]any{}
	child := desc.Cursor{Node: c.Node + 1, Offset: c.Offset}
	for t.Desc[child.Node].Type != desc.BranchEnd {
		v, err := viewNode(t, names, child)
		if err != nil {
			return nil, err
		}
		res[key(t.Desc[child.Node], names)] = v
		if child, err = child.Skip(t.Desc, layout); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// SetValues writes v, in the form returned by Values, into t. Nodes absent
// from v keep their data; names v has and t does not are an error. Numbers
// may be of any Go numeric type but must fit the node kind.
//
// Of the alternatives given for a union element only those whose value
// differs from what is stored are written, the last one winning, so a
// view read with Values and edited in one alternative writes back that
// edit.
func SetValues(t desc.Tree, names *symbol.Names, v any) error {
	if err := t.Check(); err != nil {
		return err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: values must be a map, got %T", desc.ErrUnsupportedType, v)
	}
	root := key(t.Desc[0], names)
	for k := range m {
		if k != root {
			return fmt.Errorf("%w: no node %q at the root", desc.ErrInvalidSymbolPath, k)
		}
	}
	x, ok := m[root]
	if !ok {
		return nil
	}
	return setNode(t, names, desc.Cursor{}, x, root)
}

func setNode(t desc.Tree, names *symbol.Names, c desc.Cursor, v any, path string) error {
	n := t.Desc[c.Node]
	elem, err := desc.ElementSize(t.Desc, c.Node)
	if err != nil {
		return err
	}
	elems := []any{v}
	if n.Count > 1 {
		list, ok := v.([]any)
		if !ok || len(list) != int(n.Count) {
			return fmt.Errorf("%w: %s needs a list of %d values", desc.ErrUnsupportedType, path, n.Count)
		}
		elems = list
	}
	for i, x := range elems {
		off := c.Offset + i*elem
		if n.Type.IsBranch() {
			err = setBranch(t, names, desc.Cursor{Node: c.Node, Offset: off}, elem, x, path)
		} else {
			var b []byte
			if b, err = t.Bytes(off, elem); err == nil {
				err = desc.PutValue(n.Type, b, x)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func setBranch(t desc.Tree, names *symbol.Names, c desc.Cursor, size int, v any, path string) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %s needs a map, got %T", desc.ErrUnsupportedType, path, v)
	}
	layout := t.Desc[c.Node].Type.Layout()
	var order []string
	children := map[string]desc.Cursor{}
	child := desc.Cursor{Node: c.Node + 1, Offset: c.Offset}
	for t.Desc[child.Node].Type != desc.BranchEnd {
		k := key(t.Desc[child.Node], names)
		order = append(order, k)
		children[k] = child
		var err error
		if child, err = child.Skip(t.Desc, layout); err != nil {
			return err
		}
	}
	for k := range m {
		if _, ok := children[k]; !ok {
			return fmt.Errorf("%w: no node %q in %s", desc.ErrInvalidSymbolPath, k, path)
		}
	}
	if layout != desc.Overlapping {
		for _, k := range order {
			if x, ok := m[k]; ok {
				if err := setNode(t, names, children[k], x, path+"."+k); err != nil {
					return err
				}
			}
		}
		return nil
	}
	cur, err := t.Bytes(c.Offset, size)
	if err != nil {
		return err
	}
	var pending []byte
	for _, k := range order {
		x, ok := m[k]
		if !ok {
			continue
		}
		scratch := t.Clone()
		if err := setNode(scratch, names, children[k], x, path+"."+k); err != nil {
			return err
		}
		alt := scratch.Data[c.Offset : c.Offset+size]
		if !bytes.Equal(alt, cur) {
			pending = alt
		}
	}
	if pending != nil {
		copy(cur, pending)
	}
	return nil
}

// Patch applies an RFC 6902 JSON patch to the value view of t. The patch
// is applied to a copy; t changes only if every operation succeeds.
func Patch(t desc.Tree, names *symbol.Names, patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return err
	}
	view, err := Values(t, names)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(view)
	if err != nil {
		return err
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(out, &v); err != nil {
		return err
	}
	scratch := t.Clone()
	if err := SetValues(scratch, names, v); err != nil {
		return err
	}
	copy(t.Data, scratch.Data)
	return nil
}

func key(n desc.Node, names *symbol.Names) string {
	return symbol.New(n.Symbol, 0).Format(names)
}
