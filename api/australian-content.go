// Package handler is the serverless entry point of the Australian content API.
// Each instance builds the API once, on its first request, and serves the catalog from memory.
package handler

import (
	"net/http"
	"sync"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/aucontent/apps/api/echo"
	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
	logsvc "github.com/trezcool/aucontent/services/logger"
	"github.com/trezcool/aucontent/storage/catalog"
	dummydb "github.com/trezcool/aucontent/storage/database/dummy"
)

var (
	once    sync.Once
	app     http.Handler
	initErr error
)

func newApp() (http.Handler, error) {
	conf, err := core.NewConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("API : "), conf)

	cat, err := catalog.Load(conf.Storage.CatalogPath)
	if err != nil {
		logger.Error("loading catalog", err)
		return nil, errors.Wrap(err, "loading catalog")
	}
	svc := content.NewService(dummydb.NewContentRepository(dummydb.Open(cat)))
	return echoapi.NewServer(conf, logger, svc), nil
}

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		app, initErr = newApp()
	})
	if initErr != nil {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Internal server error"}`))
		return
	}
	app.ServeHTTP(w, r)
}
