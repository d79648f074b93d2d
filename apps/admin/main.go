package main

import (
	"log"
	"os"

	"github.com/trezcool/aucontent/core"
	logsvc "github.com/trezcool/aucontent/services/logger"
)

func main() {
	stdLogger := logsvc.NewStdLogger("ADMIN : ")

	conf, err := core.NewConfig()
	errAndDie(stdLogger, err)

	cli := newCommandLine(conf, logsvc.NewRollbarLogger(stdLogger, conf), os.Stdout)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger *log.Logger, err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
