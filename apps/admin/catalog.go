package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/storage/catalog"
)

func (cli *commandLine) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return usage(cmd)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [FILE]",
		Short: "Validate a YAML catalog (default: the embedded catalog)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return cli.checkCatalog(path)
		},
	})
	return cmd
}

func (cli *commandLine) checkCatalog(path string) error {
	cat, err := catalog.Load(path)
	if err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			for _, f := range vErr.Fields {
				cli.printf("%s: %s\n", f.Field, f.Error)
			}
		}
		return err
	}
	cli.printf("catalog OK: %d plays, %d movies\n", len(cat.Plays), len(cat.Movies))
	return nil
}
