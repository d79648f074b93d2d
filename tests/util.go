package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
	"github.com/trezcool/aucontent/storage/catalog"
	"github.com/trezcool/aucontent/storage/database"
)

// Catalog returns a fresh copy of the embedded catalog.
func Catalog(t *testing.T) content.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Catalog() failed: %v", err)
	}
	return cat
}

func NewPlay(id, title, playwright string, themes ...string) content.Play {
	return content.Play{
		ID:         id,
		Title:      title,
		Playwright: playwright,
		Year:       2000,
		Type:       content.TypePlay,
		Themes:     themes,
		Synopsis:   title + " synopsis",
		Curriculum: content.Curriculum{Year: "11-12"},
	}.Clone()
}

func NewMovie(id, title, director string, themes ...string) content.Movie {
	return content.Movie{
		ID:         id,
		Title:      title,
		Director:   director,
		Year:       2000,
		Type:       content.TypeMovie,
		Rating:     "PG",
		Themes:     themes,
		Synopsis:   title + " synopsis",
		Curriculum: content.Curriculum{Year: "9-10"},
	}.Clone()
}

// OpenDB opens a migrated in-memory SQLite database, closed when the test ends.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB, core.EngineSQLite); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}
