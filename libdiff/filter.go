package libdiff

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/kowhai/symbol"
)

// Predicate selects changes.
type Predicate func(Change) (bool, error)

// Filter compiles a boolean expression over a change. The expression sees
//
//	kind    "removed", "added" or "changed"
//	symbol  symbol identifier of the node
//	name    symbol name, or the decimal identifier
//	index   array index of the element
//	depth   depth of the node, 0 at the root
//	type    node kind, e.g. "int16" or "branch"
//	path    text form of the symbol path
//
// for example `kind == "changed" && depth > 1`.
func Filter(expression string, names *symbol.Names) (Predicate, error) {
	prg, err := expr.Compile(expression, expr.Env(filterEnv(Change{}, names)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("bad filter %q: %w", expression, err)
	}
	return func(c Change) (bool, error) {
		return runFilter(prg, c, names)
	}, nil
}

func runFilter(prg *vm.Program, c Change, names *symbol.Names) (bool, error) {
	out, err := expr.Run(prg, filterEnv(c, names))
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T", out)
	}
	return b, nil
}

func filterEnv(c Change, names *symbol.Names) map[string]any {
	env := map[string]any{
		"kind":   c.Kind.String(),
		"symbol": 0,
		"name":   "",
		"index":  c.Index,
		"depth":  c.Depth,
		"type":   "",
		"path":   "",
	}
	s := c.Side()
	if s == nil {
		return env
	}
	sym := symbol.New(s.Node.Symbol, 0)
	env["symbol"] = int(s.Node.Symbol)
	env["name"] = sym.Format(names)
	env["type"] = s.Node.Type.String()
	env["path"] = s.Path.Format(names)
	return env
}
