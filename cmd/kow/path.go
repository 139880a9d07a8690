package main

import (
	"fmt"
	"strconv"

	"github.com/signadot/kowhai/symbol"
	"github.com/signadot/kowhai/symbolpath"

	"github.com/scott-cotton/cli"
)

func path(cfg *PathConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Path.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: path requires a number and a file", cli.ErrUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	f, err := loadTreeFile(cc, args[1], nil)
	if err != nil {
		return err
	}
	var p symbol.Path
	if cfg.Node {
		p, err = symbolpath.NodePath(f.Tree.Desc, n)
	} else {
		p, err = symbolpath.AddressPath(f.Tree, n)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cc.Out, p.Format(f.Names))
	return err
}
