package dummydb

import (
	"context"

	"github.com/trezcool/aucontent/core/content"
)

type contentRepository struct {
	plays  *playTable
	movies *movieTable
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{plays: db.plays, movies: db.movies}
}

func (repo *contentRepository) QueryAllPlays(context.Context) ([]content.Play, error) {
	plays := make([]content.Play, 0, len(repo.plays.rows))
	for _, p := range repo.plays.rows {
		plays = append(plays, p.Clone())
	}
	return plays, nil
}

func (repo *contentRepository) QueryAllMovies(context.Context) ([]content.Movie, error) {
	movies := make([]content.Movie, 0, len(repo.movies.rows))
	for _, m := range repo.movies.rows {
		movies = append(movies, m.Clone())
	}
	return movies, nil
}

func (repo *contentRepository) GetPlayByID(_ context.Context, id string) (content.Play, error) {
	if i, ok := repo.plays.index[id]; ok {
		return repo.plays.rows[i].Clone(), nil
	}
	return content.Play{}, content.ErrPlayNotFound
}

func (repo *contentRepository) GetMovieByID(_ context.Context, id string) (content.Movie, error) {
	if i, ok := repo.movies.index[id]; ok {
		return repo.movies.rows[i].Clone(), nil
	}
	return content.Movie{}, content.ErrMovieNotFound
}
