// Package sqlxrepo stores the content collections in a SQL database (postgres or sqlite).
// List fields are stored as JSON text.
package sqlxrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/aucontent/core/content"
)

const (
	playColumns  = "id, title, playwright, year, type, category, themes, synopsis, educational_resources, curriculum"
	movieColumns = "id, title, director, year, type, category, rating, themes, synopsis, educational_resources, curriculum"
)

type (
	playRow struct {
		ID                   string `db:"id"`
		Position             int    `db:"position"`
		Title                string `db:"title"`
		Playwright           string `db:"playwright"`
		Year                 int    `db:"year"`
		Type                 string `db:"type"`
		Category             string `db:"category"`
		Themes               string `db:"themes"`
		Synopsis             string `db:"synopsis"`
		EducationalResources string `db:"educational_resources"`
		Curriculum           string `db:"curriculum"`
	}

	movieRow struct {
		ID                   string `db:"id"`
		Position             int    `db:"position"`
		Title                string `db:"title"`
		Director             string `db:"director"`
		Year                 int    `db:"year"`
		Type                 string `db:"type"`
		Category             string `db:"category"`
		Rating               string `db:"rating"`
		Themes               string `db:"themes"`
		Synopsis             string `db:"synopsis"`
		EducationalResources string `db:"educational_resources"`
		Curriculum           string `db:"curriculum"`
	}

	// jsonFields holds the JSON encoded list fields of a record.
	jsonFields struct {
		themes, resources, curriculum string
	}
)

func encodeFields(themes []string, er content.EducationalResources, cur content.Curriculum) (jsonFields, error) {
	var (
		f   jsonFields
		b   []byte
		err error
	)
	if b, err = json.Marshal(themes); err != nil {
		return f, errors.Wrap(err, "encoding themes")
	}
	f.themes = string(b)
	if b, err = json.Marshal(er); err != nil {
		return f, errors.Wrap(err, "encoding educational resources")
	}
	f.resources = string(b)
	if b, err = json.Marshal(cur); err != nil {
		return f, errors.Wrap(err, "encoding curriculum")
	}
	f.curriculum = string(b)
	return f, nil
}

func decodeFields(f jsonFields, themes *[]string, er *content.EducationalResources, cur *content.Curriculum) error {
	if err := json.Unmarshal([]byte(f.themes), themes); err != nil {
		return errors.Wrap(err, "decoding themes")
	}
	if err := json.Unmarshal([]byte(f.resources), er); err != nil {
		return errors.Wrap(err, "decoding educational resources")
	}
	if err := json.Unmarshal([]byte(f.curriculum), cur); err != nil {
		return errors.Wrap(err, "decoding curriculum")
	}
	return nil
}

func newPlayRow(p content.Play, position int) (playRow, error) {
	f, err := encodeFields(p.Themes, p.EducationalResources, p.Curriculum)
	if err != nil {
		return playRow{}, errors.Wrapf(err, "encoding play %s", p.ID)
	}
	return playRow{
		ID:                   p.ID,
		Position:             position,
		Title:                p.Title,
		Playwright:           p.Playwright,
		Year:                 p.Year,
		Type:                 p.Type,
		Category:             p.Category,
		Themes:               f.themes,
		Synopsis:             p.Synopsis,
		EducationalResources: f.resources,
		Curriculum:           f.curriculum,
	}, nil
}

func (r playRow) toPlay() (content.Play, error) {
	p := content.Play{
		ID:         r.ID,
		Title:      r.Title,
		Playwright: r.Playwright,
		Year:       r.Year,
		Type:       r.Type,
		Category:   r.Category,
		Synopsis:   r.Synopsis,
	}
	f := jsonFields{themes: r.Themes, resources: r.EducationalResources, curriculum: r.Curriculum}
	if err := decodeFields(f, &p.Themes, &p.EducationalResources, &p.Curriculum); err != nil {
		return content.Play{}, errors.Wrapf(err, "decoding play %s", r.ID)
	}
	return p.Clone(), nil
}

func newMovieRow(m content.Movie, position int) (movieRow, error) {
	f, err := encodeFields(m.Themes, m.EducationalResources, m.Curriculum)
	if err != nil {
		return movieRow{}, errors.Wrapf(err, "encoding movie %s", m.ID)
	}
	return movieRow{
		ID:                   m.ID,
		Position:             position,
		Title:                m.Title,
		Director:             m.Director,
		Year:                 m.Year,
		Type:                 m.Type,
		Category:             m.Category,
		Rating:               m.Rating,
		Themes:               f.themes,
		Synopsis:             m.Synopsis,
		EducationalResources: f.resources,
		Curriculum:           f.curriculum,
	}, nil
}

func (r movieRow) toMovie() (content.Movie, error) {
	m := content.Movie{
		ID:       r.ID,
		Title:    r.Title,
		Director: r.Director,
		Year:     r.Year,
		Type:     r.Type,
		Category: r.Category,
		Rating:   r.Rating,
		Synopsis: r.Synopsis,
	}
	f := jsonFields{themes: r.Themes, resources: r.EducationalResources, curriculum: r.Curriculum}
	if err := decodeFields(f, &m.Themes, &m.EducationalResources, &m.Curriculum); err != nil {
		return content.Movie{}, errors.Wrapf(err, "decoding movie %s", r.ID)
	}
	return m.Clone(), nil
}

// ContentRepository is a content.Repository backed by a SQL database.
type ContentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*ContentRepository)(nil) // interface compliance check

func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (repo *ContentRepository) QueryAllPlays(ctx context.Context) ([]content.Play, error) {
	var rows []playRow
	q := "SELECT " + playColumns + " FROM plays ORDER BY position"
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting plays")
	}

	plays := make([]content.Play, 0, len(rows))
	for _, r := range rows {
		p, err := r.toPlay()
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, nil
}

func (repo *ContentRepository) QueryAllMovies(ctx context.Context) ([]content.Movie, error) {
	var rows []movieRow
	q := "SELECT " + movieColumns + " FROM movies ORDER BY position"
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting movies")
	}

	movies := make([]content.Movie, 0, len(rows))
	for _, r := range rows {
		m, err := r.toMovie()
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func (repo *ContentRepository) GetPlayByID(ctx context.Context, id string) (content.Play, error) {
	var row playRow
	q := repo.db.Rebind("SELECT " + playColumns + " FROM plays WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return content.Play{}, content.ErrPlayNotFound
		}
		return content.Play{}, errors.Wrap(err, "selecting play")
	}
	return row.toPlay()
}

func (repo *ContentRepository) GetMovieByID(ctx context.Context, id string) (content.Movie, error) {
	var row movieRow
	q := repo.db.Rebind("SELECT " + movieColumns + " FROM movies WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return content.Movie{}, content.ErrMovieNotFound
		}
		return content.Movie{}, errors.Wrap(err, "selecting movie")
	}
	return row.toMovie()
}

// Count returns the number of plays and movies stored.
func (repo *ContentRepository) Count(ctx context.Context) (plays, movies int, err error) {
	if err = repo.db.GetContext(ctx, &plays, "SELECT COUNT(*) FROM plays"); err != nil {
		return 0, 0, errors.Wrap(err, "counting plays")
	}
	if err = repo.db.GetContext(ctx, &movies, "SELECT COUNT(*) FROM movies"); err != nil {
		return 0, 0, errors.Wrap(err, "counting movies")
	}
	return plays, movies, nil
}

// Load replaces the stored collections with the catalog, in a single transaction.
// Catalog order is kept through the position column.
func (repo *ContentRepository) Load(ctx context.Context, cat content.Catalog) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM movies"); err != nil {
		return errors.Wrap(err, "deleting movies")
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM plays"); err != nil {
		return errors.Wrap(err, "deleting plays")
	}

	insertPlay := "INSERT INTO plays (position, " + playColumns + ") VALUES " +
		"(:position, :id, :title, :playwright, :year, :type, :category, :themes, :synopsis, :educational_resources, :curriculum)"
	for i, p := range cat.Plays {
		var row playRow
		if row, err = newPlayRow(p, i); err != nil {
			return err
		}
		if _, err = tx.NamedExecContext(ctx, insertPlay, row); err != nil {
			return errors.Wrapf(err, "inserting play %s", p.ID)
		}
	}

	insertMovie := "INSERT INTO movies (position, " + movieColumns + ") VALUES " +
		"(:position, :id, :title, :director, :year, :type, :category, :rating, :themes, :synopsis, :educational_resources, :curriculum)"
	for i, m := range cat.Movies {
		var row movieRow
		if row, err = newMovieRow(m, i); err != nil {
			return err
		}
		if _, err = tx.NamedExecContext(ctx, insertMovie, row); err != nil {
			return errors.Wrapf(err, "inserting movie %s", m.ID)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}
