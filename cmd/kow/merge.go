package main

import (
	"fmt"

	"github.com/signadot/kowhai/merge"

	"github.com/scott-cotton/cli"
)

func mergeTrees(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: merge requires 2 args, dst and src", cli.ErrUsage)
	}
	dst, err := loadTreeFile(cc, args[0], nil)
	if err != nil {
		return err
	}
	src, err := loadTreeFile(cc, args[1], dst.Names)
	if err != nil {
		return err
	}
	if err := merge.Merge(dst.Tree, src.Tree); err != nil {
		return fmt.Errorf("error merging %s into %s: %w", args[1], args[0], err)
	}
	return writeTreeFile(cc.Out, dst)
}
