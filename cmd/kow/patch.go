package main

import (
	"fmt"

	"github.com/signadot/kowhai/treefile"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a patch and a file to which to apply it", cli.ErrUsage)
	}
	var p []byte
	if cfg.String {
		p = []byte(args[0])
	} else if p, err = readArg(cc, args[0]); err != nil {
		return err
	}
	f, err := loadTreeFile(cc, args[1], nil)
	if err != nil {
		return err
	}
	if err := treefile.Patch(f.Tree, f.Names, p); err != nil {
		return fmt.Errorf("error patching %s: %w", args[1], err)
	}
	return writeTreeFile(cc.Out, f)
}
