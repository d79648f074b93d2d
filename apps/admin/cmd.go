package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/storage/database"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	out    io.Writer

	// openDB opens the configured SQL database, migrated or not. closeDB releases it.
	openDB func(migrated bool) (db *sqlx.DB, closeDB func(), err error)
}

func newCommandLine(conf *core.Config, logger core.Logger, out io.Writer) *commandLine {
	cli := &commandLine{conf: conf, logger: logger, out: out}
	cli.openDB = cli.openConfiguredDB
	return cli
}

func (cli *commandLine) openConfiguredDB(migrated bool) (*sqlx.DB, func(), error) {
	if !cli.conf.Storage.IsSQL() {
		return nil, nil, errors.Errorf("storage engine %q has no database", cli.conf.Storage.Engine)
	}
	database.SetMigrationLogger(cli.logger)

	var (
		db  *sqlx.DB
		err error
	)
	if migrated {
		db, err = database.Setup(cli.conf.Storage)
	} else if err = database.CreateIfNotExist(cli.conf.Storage); err == nil {
		db, err = database.Open(cli.conf.Storage)
	}
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administration of the Australian content API",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.migrateCmd(),
		cli.seedCmd(),
		cli.catalogCmd(),
		cli.contentCmd(),
	)
	return root
}

// run executes the command line args (program name included).
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

// usage prints the usage of cmd and returns errHelp.
func usage(cmd *cobra.Command) error {
	_ = cmd.Usage()
	return errHelp
}

func (cli *commandLine) printJSON(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding output")
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}
