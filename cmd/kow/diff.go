package main

import (
	"fmt"
	"io"

	"github.com/signadot/kowhai/encode"
	"github.com/signadot/kowhai/libdiff"
	"github.com/signadot/kowhai/symbol"
	"github.com/signadot/kowhai/treefile"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := loadTreeFile(cc, args[0], nil)
	if err != nil {
		return err
	}
	b, err := loadTreeFile(cc, args[1], a.Names)
	if err != nil {
		return err
	}
	var differs bool
	if cfg.Text {
		differs, err = diffText(cfg, cc.Out, a, b)
	} else {
		differs, err = diffTrees(cfg, cc.Out, a, b)
	}
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffTrees lists the changes from a to b. b must have been loaded against
// a's names, so its table holds every name of both trees.
func diffTrees(cfg *DiffConfig, w io.Writer, a, b *treefile.File) (bool, error) {
	var where libdiff.Predicate
	if cfg.Where != "" {
		p, err := libdiff.Filter(cfg.Where, b.Names)
		if err != nil {
			return false, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		where = p
	}
	colors := cfg.colors(w)
	differs := false
	for c, err := range libdiff.Changes(a.Tree, b.Tree) {
		if err != nil {
			return differs, err
		}
		if where != nil {
			ok, err := where(c)
			if err != nil {
				return differs, err
			}
			if !ok {
				continue
			}
		}
		differs = true
		if _, err := io.WriteString(w, changeLine(c, a.Names, b.Names, colors)); err != nil {
			return differs, err
		}
	}
	return differs, nil
}

// changeLine formats c, naming its path from the tree it belongs to.
func changeLine(c libdiff.Change, left, right *symbol.Names, colors *encode.Colors) string {
	attr, names := encode.HeaderColor, left
	switch c.Kind {
	case libdiff.Removed:
		attr = encode.DeleteColor
	case libdiff.Added:
		attr, names = encode.InsertColor, right
	}
	line := fmt.Sprintf("%-8s %s", c.Kind, c.Path().Format(names))
	for _, s := range []*libdiff.Side{c.Left, c.Right} {
		if s == nil {
			line += " -"
			continue
		}
		line += fmt.Sprintf(" %x", s.Data)
	}
	return colors.Get(0, attr)(line) + "\n"
}

func diffText(cfg *DiffConfig, w io.Writer, a, b *treefile.File) (bool, error) {
	at, err := textOf(a)
	if err != nil {
		return false, err
	}
	bt, err := textOf(b)
	if err != nil {
		return false, err
	}
	if at == bt {
		return false, nil
	}
	return true, libdiff.WriteTextDiff(w, libdiff.TextDiff(at, bt), cfg.colors(w))
}

func textOf(f *treefile.File) (string, error) {
	n, err := encode.SerializedSize(f.Tree, f.Names.Quoted)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if n, err = encode.Serialize(f.Tree, f.Names.Quoted, buf); err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
