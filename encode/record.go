package encode

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/symbol"
)

// Record is the structured form of one node, mirroring the fields of the
// text format. Value holds a single scalar, or a list when Count > 1.
type Record struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	Symbol   uint16   `json:"symbol" yaml:"symbol"`
	Count    uint16   `json:"count" yaml:"count"`
	Tag      uint16   `json:"tag" yaml:"tag"`
	Children []Record `json:"children,omitempty" yaml:"children,omitempty"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Records builds the structured form of t. Branch arrays list the children
// of every element in order; union alternatives all read the same bytes.
func Records(t desc.Tree, names *symbol.Names) (Record, error) {
	if err := t.Check(); err != nil {
		return Record{}, err
	}
	r, _, err := record(t, names, desc.Cursor{})
	return r, err
}

func record(t desc.Tree, names *symbol.Names, c desc.Cursor) (Record, desc.Cursor, error) {
	n := t.Desc[c.Node]
	size, nodes, err := desc.Span(t.Desc, c.Node)
	if err != nil {
		return Record{}, c, err
	}
	r := Record{
		Name:   symbol.New(n.Symbol, 0).Format(names),
		Type:   n.Type.String(),
		Symbol: n.Symbol,
		Count:  n.Count,
		Tag:    n.Tag,
	}
	next := desc.Cursor{Node: c.Node + nodes, Offset: c.Offset + size}
	if !n.Type.IsBranch() {
		r.Value, err = recordValue(t, n, c.Offset)
		return r, next, err
	}
	elem := size / int(n.Count)
	layout := n.Type.Layout()
	for i := range int(n.Count) {
		origin := c.Offset + i*elem
		child := desc.Cursor{Node: c.Node + 1, Offset: origin}
		for t.Desc[child.Node].Type != desc.BranchEnd {
			if layout == desc.Overlapping {
				child.Offset = origin
			}
			var cr Record
			if cr, child, err = record(t, names, child); err != nil {
				return Record{}, c, err
			}
			r.Children = append(r.Children, cr)
		}
	}
	return r, next, nil
}

func recordValue(t desc.Tree, n desc.Node, off int) (any, error) {
	w, err := desc.TypeWidth(n.Type)
	if err != nil {
		return nil, err
	}
	vals := make([]any, n.Count)
	for i := range vals {
		b, err := t.Bytes(off+i*w, w)
		if err != nil {
			return nil, err
		}
		if vals[i], err = desc.Value(n.Type, b); err != nil {
			return nil, err
		}
	}
	if len(vals) == 1 {
		return vals[0], nil
	}
	return vals, nil
}

func encodeJSON(t desc.Tree, w io.Writer, es *EncState) error {
	r, err := Records(t, es.names)
	if err != nil {
		return err
	}
	d, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	d = append(d, '\n')
	_, err = w.Write(d)
	return err
}

func encodeYAML(t desc.Tree, w io.Writer, es *EncState) error {
	r, err := Records(t, es.names)
	if err != nil {
		return err
	}
	d, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
