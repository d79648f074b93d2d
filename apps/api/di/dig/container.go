package dig_container

import (
	"context"
	"fmt"
	"log"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/aucontent/apps/api/echo"
	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
	logsvc "github.com/trezcool/aucontent/services/logger"
	"github.com/trezcool/aucontent/storage/catalog"
	"github.com/trezcool/aucontent/storage/database"
	dummydb "github.com/trezcool/aucontent/storage/database/dummy"
	sqlxrepo "github.com/trezcool/aucontent/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Cleanup releases the resources held by the container (the database).
type Cleanup func()

func newLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(logsvc.NewStdLogger("API : "), conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(logsvc.NewStdLogger("DB : "), conf)
}

func newCatalog(conf *core.Config) (content.Catalog, error) {
	cat, err := catalog.Load(conf.Storage.CatalogPath)
	return cat, errors.Wrap(err, "loading catalog")
}

// newRepository serves the catalog from memory, or from the configured SQL database
// which is seeded with the catalog when it is empty.
func newRepository(conf *core.Config, cat content.Catalog, loggerParam DBLoggerParam) (content.Repository, Cleanup, error) {
	if !conf.Storage.IsSQL() {
		return dummydb.NewContentRepository(dummydb.Open(cat)), func() {}, nil
	}

	logger := loggerParam.Logger
	database.SetMigrationLogger(logger)
	db, err := database.Setup(conf.Storage)
	if err != nil {
		return nil, nil, errors.Wrap(err, "setting up database")
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close", err)
		}
	}

	repo := sqlxrepo.NewContentRepository(db)
	if err = seedIfEmpty(repo, conf, cat, logger); err != nil {
		cleanup()
		return nil, nil, err
	}
	return repo, cleanup, nil
}

func seedIfEmpty(repo *sqlxrepo.ContentRepository, conf *core.Config, cat content.Catalog, logger core.Logger) error {
	if !conf.Storage.SeedOnStart {
		return nil
	}
	ctx := context.Background()
	plays, movies, err := repo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "counting content")
	}
	if plays+movies > 0 {
		return nil
	}
	if err = repo.Load(ctx, cat); err != nil {
		return errors.Wrap(err, "seeding content")
	}
	logger.Info(fmt.Sprintf("Seeded %d plays and %d movies", len(cat.Plays), len(cat.Movies)))
	return nil
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newCatalog))
	must(c.Provide(newRepository))
	must(c.Provide(content.NewService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
