package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/locate"
	"github.com/signadot/kowhai/symbol"
	"github.com/signadot/kowhai/treefile"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a symbol path", cli.ErrUsage)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		f, err := loadTreeFile(cc, file, nil)
		if err != nil {
			return err
		}
		p, err := symbol.Parse(args[0], f.Names)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		v, err := getValue(f.Tree, p, cfg.Array)
		if err != nil {
			return fmt.Errorf("error getting %s from %s: %w", args[0], file, err)
		}
		if _, err := fmt.Fprintln(cc.Out, v); err != nil {
			return err
		}
	}
	return nil
}

// getValue renders the element at p, or all elements of its node when
// whole is set, the way the text form renders values.
func getValue(t desc.Tree, p symbol.Path, whole bool) (string, error) {
	var (
		b   []byte
		loc locate.Loc
		err error
	)
	if whole {
		b, loc, err = locate.Node(t, p)
	} else {
		b, loc, err = locate.Element(t, p)
	}
	if err != nil {
		return "", err
	}
	n := t.Desc[loc.Node]
	if n.Type.IsBranch() {
		return fmt.Sprintf("%x", b), nil
	}
	var out []byte
	for i := 0; i < len(b); i += loc.Size {
		if i > 0 {
			out = append(out, ", "...)
		}
		if out, err = desc.AppendValue(out, n.Type, b[i:i+loc.Size]); err != nil {
			return "", err
		}
	}
	if len(b) > loc.Size {
		return "[" + string(out) + "]", nil
	}
	return string(out), nil
}

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: set requires assignments and a file", cli.ErrUsage)
	}
	f, err := loadTreeFile(cc, args[len(args)-1], nil)
	if err != nil {
		return err
	}
	for _, a := range args[:len(args)-1] {
		if err := setValue(f, a); err != nil {
			return fmt.Errorf("error setting %s: %w", a, err)
		}
	}
	return writeTreeFile(cc.Out, f)
}

func setValue(f *treefile.File, assign string) error {
	ps, vs, ok := strings.Cut(assign, "=")
	if !ok {
		return fmt.Errorf("%w: expected path=value", cli.ErrUsage)
	}
	p, err := symbol.Parse(ps, f.Names)
	if err != nil {
		return err
	}
	b, loc, err := locate.Element(f.Tree, p)
	if err != nil {
		return err
	}
	n := f.Tree.Desc[loc.Node]
	var v any
	if n.Type == desc.Float {
		v, err = strconv.ParseFloat(vs, 32)
	} else {
		v, err = strconv.ParseInt(vs, 0, 64)
	}
	if err != nil {
		return err
	}
	return desc.PutValue(n.Type, b, v)
}
