package symbol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadPath = errors.New("bad symbol path")

type Path []Symbol

func (p Path) String() string {
	return p.Format(nil)
}

func (p Path) Format(n *Names) string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		s.format(&b, n)
	}
	return b.String()
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Parse reads the text form of a path. Segment names are looked up in n
// (which may be nil); numeric segments are taken as symbol identifiers.
func Parse(v string, n *Names) (Path, error) {
	if v == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadPath)
	}
	parts := strings.Split(v, ".")
	res := make(Path, 0, len(parts))
	for _, part := range parts {
		s, err := parseSegment(part, n)
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, v)
		}
		res = append(res, s)
	}
	return res, nil
}

func parseSegment(v string, n *Names) (Symbol, error) {
	name, index := v, ""
	if i := strings.IndexByte(v, '['); i != -1 {
		if !strings.HasSuffix(v, "]") {
			return Symbol{}, fmt.Errorf("%w: unterminated index %q", ErrBadPath, v)
		}
		name, index = v[:i], v[i+1:len(v)-1]
	}
	if name == "" {
		return Symbol{}, fmt.Errorf("%w: empty segment", ErrBadPath)
	}
	res := Symbol{}
	if sym, ok := n.Symbol(name); ok {
		res.Name = sym
	} else {
		u, err := strconv.ParseUint(name, 10, 16)
		if err != nil {
			return Symbol{}, fmt.Errorf("%w: unknown symbol %q", ErrBadPath, name)
		}
		res.Name = uint16(u)
	}
	if index != "" {
		u, err := strconv.ParseUint(index, 10, 16)
		if err != nil {
			return Symbol{}, fmt.Errorf("%w: bad index %q", ErrBadPath, index)
		}
		res.Index = uint16(u)
	}
	return res, nil
}
