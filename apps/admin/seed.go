package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/aucontent/storage/catalog"
	sqlxrepo "github.com/trezcool/aucontent/storage/database/sqlx"
)

func (cli *commandLine) seedCmd() *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the content of the SQL database with a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.seed(cmd.Context(), catalogPath)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog file (default: the embedded catalog)")
	return cmd
}

func (cli *commandLine) seed(ctx context.Context, catalogPath string) error {
	if catalogPath == "" {
		catalogPath = cli.conf.Storage.CatalogPath
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	db, closeDB, err := cli.openDB(true)
	if err != nil {
		return err
	}
	defer closeDB()

	repo := sqlxrepo.NewContentRepository(db)
	if err = repo.Load(ctx, cat); err != nil {
		return errors.Wrap(err, "seeding database")
	}
	cli.printf("seeded %d plays and %d movies\n", len(cat.Plays), len(cat.Movies))
	return nil
}
