package encode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/format"
)

// NameFunc resolves a symbol to the text of the "name" field, quotes
// included.
type NameFunc func(symbol uint16) string

// Serialize writes the text form of t into dst and returns the number of
// bytes written. Every fragment is checked against the remaining capacity
// before it is copied; if the text does not fit Serialize fails with
// desc.ErrBufferTooSmall and the contents of dst are unspecified.
func Serialize(t desc.Tree, names NameFunc, dst []byte) (int, error) {
	out := &bounded{buf: dst}
	if err := serialize(t, names, out); err != nil {
		return 0, err
	}
	return out.n, nil
}

// SerializedSize returns the exact length of the text form of t.
func SerializedSize(t desc.Tree, names NameFunc) (int, error) {
	out := &counter{}
	if err := serialize(t, names, out); err != nil {
		return 0, err
	}
	return out.n, nil
}

// Encode writes t to w in the format selected by opts, text by default.
func Encode(t desc.Tree, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.JSONFormat:
		return encodeJSON(t, w, es)
	case format.YAMLFormat:
		return encodeYAML(t, w, es)
	}
	names := es.nameFunc
	if names == nil {
		names = es.names.Quoted
	}
	bw := bufio.NewWriter(w)
	out := &writer{w: bw, color: es.Color}
	if err := serialize(t, names, out); err != nil {
		return err
	}
	return bw.Flush()
}

func serialize(t desc.Tree, names NameFunc, out sink) error {
	if err := t.Check(); err != nil {
		return err
	}
	if names == nil {
		names = defaultName
	}
	e := &emitter{t: t, names: names, out: out}
	_, err := e.node(desc.Cursor{}, 0)
	return err
}

func defaultName(sym uint16) string {
	return strconv.Quote(strconv.Itoa(int(sym)))
}

type sink interface {
	put(s string, t desc.Type, a ColorAttr) error
}

type bounded struct {
	buf []byte
	n   int
}

func (b *bounded) put(s string, _ desc.Type, _ ColorAttr) error {
	if len(s) > len(b.buf)-b.n {
		return fmt.Errorf("%w: %d bytes left, need %d", desc.ErrBufferTooSmall, len(b.buf)-b.n, len(s))
	}
	b.n += copy(b.buf[b.n:], s)
	return nil
}

type counter struct {
	n int
}

func (c *counter) put(s string, _ desc.Type, _ ColorAttr) error {
	c.n += len(s)
	return nil
}

type writer struct {
	w     *bufio.Writer
	color func(desc.Type, ColorAttr, string) string
}

func (w *writer) put(s string, t desc.Type, a ColorAttr) error {
	if w.color != nil {
		s = w.color(t, a, s)
	}
	_, err := w.w.WriteString(s)
	return err
}

type emitter struct {
	t       desc.Tree
	names   NameFunc
	out     sink
	scratch []byte
}

const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

func (e *emitter) indent(level int) error {
	for level > 0 {
		n := min(level, len(tabs))
		if err := e.out.put(tabs[:n], 0, SepColor); err != nil {
			return err
		}
		level -= n
	}
	return nil
}

func (e *emitter) field(t desc.Type, key string, v int) error {
	if err := e.out.put(key, t, FieldColor); err != nil {
		return err
	}
	e.scratch = strconv.AppendInt(e.scratch[:0], int64(v), 10)
	return e.out.put(string(e.scratch), t, HeaderColor)
}

// node writes the record of the node at c, all of its elements included,
// and returns the cursor just past it.
func (e *emitter) node(c desc.Cursor, level int) (desc.Cursor, error) {
	d := e.t.Desc
	n := d[c.Node]
	size, nodes, err := desc.Span(d, c.Node)
	if err != nil {
		return c, err
	}
	if err := e.indent(level); err != nil {
		return c, err
	}
	if err := e.out.put(`{"name": `, n.Type, FieldColor); err != nil {
		return c, err
	}
	if err := e.out.put(e.names(n.Symbol), n.Type, NameColor); err != nil {
		return c, err
	}
	for _, f := range []struct {
		key string
		v   int
	}{
		{`, "type": `, int(n.Type)},
		{`, "symbol": `, int(n.Symbol)},
		{`, "count": `, int(n.Count)},
		{`, "tag": `, int(n.Tag)},
	} {
		if err := e.field(n.Type, f.key, f.v); err != nil {
			return c, err
		}
	}
	if n.Type.IsBranch() {
		if err := e.branch(c, n, size, level); err != nil {
			return c, err
		}
	} else if err := e.values(c, n); err != nil {
		return c, err
	}
	return desc.Cursor{Node: c.Node + nodes, Offset: c.Offset + size}, nil
}

func (e *emitter) branch(c desc.Cursor, n desc.Node, size, level int) error {
	if err := e.out.put(`, "children": [`+"\n", n.Type, FieldColor); err != nil {
		return err
	}
	elem := size / int(n.Count)
	layout := n.Type.Layout()
	for i := range int(n.Count) {
		origin := c.Offset + i*elem
		child := desc.Cursor{Node: c.Node + 1, Offset: origin}
		for e.t.Desc[child.Node].Type != desc.BranchEnd {
			if layout == desc.Overlapping {
				child.Offset = origin
			}
			var err error
			if child, err = e.node(child, level+1); err != nil {
				return err
			}
		}
	}
	if err := e.indent(level); err != nil {
		return err
	}
	return e.out.put("]}\n", n.Type, SepColor)
}

func (e *emitter) values(c desc.Cursor, n desc.Node) error {
	w, err := desc.TypeWidth(n.Type)
	if err != nil {
		return err
	}
	if err := e.out.put(`, "value": `, n.Type, FieldColor); err != nil {
		return err
	}
	if n.Count > 1 {
		if err := e.out.put("[", n.Type, SepColor); err != nil {
			return err
		}
	}
	for i := range int(n.Count) {
		if i > 0 {
			if err := e.out.put(", ", n.Type, SepColor); err != nil {
				return err
			}
		}
		b, err := e.t.Bytes(c.Offset+i*w, w)
		if err != nil {
			return err
		}
		if e.scratch, err = desc.AppendValue(e.scratch[:0], n.Type, b); err != nil {
			return err
		}
		if err := e.out.put(string(e.scratch), n.Type, ValueColor); err != nil {
			return err
		}
	}
	if n.Count > 1 {
		if err := e.out.put("]", n.Type, SepColor); err != nil {
			return err
		}
	}
	return e.out.put(" }\n", n.Type, SepColor)
}
