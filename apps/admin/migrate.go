package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/aucontent/storage/database"
)

var gooseRunFunc = database.RunMigration // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a goose command against the configured SQL database",
		Long: "Run a goose command (up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset,\n" +
			"status, version, fix) against the configured SQL database.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage(cmd)
			}
			return cli.migrate(args)
		},
	}
}

func (cli *commandLine) migrate(args []string) error {
	db, closeDB, err := cli.openDB(false)
	if err != nil {
		return err
	}
	defer closeDB()

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(db.DB, cli.conf.Storage.Engine, args[0], arguments...)
}
