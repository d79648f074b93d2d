package content

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/aucontent/core"
)

var (
	// errors
	ErrNotFound            = errors.New("not found")
	ErrPlayNotFound        = &NotFoundError{Resource: TypePlay}
	ErrMovieNotFound       = &NotFoundError{Resource: TypeMovie}
	ErrSearchQueryRequired = errors.New("Search query is required")
)

// NotFoundError is returned when a requested id is absent from its collection.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string        { return e.Resource + " not found" }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type (
	// Repository gives read access to the content collections.
	// Lists are returned in catalog order; returned values are copies.
	Repository interface {
		QueryAllPlays(ctx context.Context) ([]Play, error)
		QueryAllMovies(ctx context.Context) ([]Movie, error)
		GetPlayByID(ctx context.Context, id string) (Play, error)
		GetMovieByID(ctx context.Context, id string) (Movie, error)
	}

	Service interface {
		GetAllPlays(ctx context.Context) ([]Play, error)
		GetAllMovies(ctx context.Context) ([]Movie, error)
		GetPlay(ctx context.Context, id string) (Play, error)
		GetMovie(ctx context.Context, id string) (Movie, error)
		// Search does a case-insensitive match of query on the title, the author
		// or any of the themes of every record.
		Search(ctx context.Context, query string) (SearchResult, error)
		GetResourceSummaries(ctx context.Context) (ResourceSummaries, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) GetAllPlays(ctx context.Context) ([]Play, error) {
	plays, err := svc.repo.QueryAllPlays(ctx)
	return plays, errors.Wrap(err, "querying plays")
}

func (svc *service) GetAllMovies(ctx context.Context) ([]Movie, error) {
	movies, err := svc.repo.QueryAllMovies(ctx)
	return movies, errors.Wrap(err, "querying movies")
}

func (svc *service) GetPlay(ctx context.Context, id string) (Play, error) {
	play, err := svc.repo.GetPlayByID(ctx, id)
	return play, errors.Wrap(err, "getting play")
}

func (svc *service) GetMovie(ctx context.Context, id string) (Movie, error) {
	movie, err := svc.repo.GetMovieByID(ctx, id)
	return movie, errors.Wrap(err, "getting movie")
}

// Search rejects an empty query. The query is not trimmed: a whitespace-only query
// is a valid query which matches any field containing that whitespace.
func (svc *service) Search(ctx context.Context, query string) (SearchResult, error) {
	if query == "" {
		return SearchResult{}, core.NewValidationError(ErrSearchQueryRequired)
	}

	plays, err := svc.GetAllPlays(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	movies, err := svc.GetAllMovies(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{Plays: make([]Play, 0), Movies: make([]Movie, 0)}
	for _, p := range plays {
		if Matches(query, p.Title, p.Playwright, p.Themes) {
			res.Plays = append(res.Plays, p)
		}
	}
	for _, m := range movies {
		if Matches(query, m.Title, m.Director, m.Themes) {
			res.Movies = append(res.Movies, m)
		}
	}
	return res, nil
}

func (svc *service) GetResourceSummaries(ctx context.Context) (ResourceSummaries, error) {
	plays, err := svc.GetAllPlays(ctx)
	if err != nil {
		return ResourceSummaries{}, err
	}
	movies, err := svc.GetAllMovies(ctx)
	if err != nil {
		return ResourceSummaries{}, err
	}

	res := ResourceSummaries{
		Plays:  make([]ResourceSummary, 0, len(plays)),
		Movies: make([]ResourceSummary, 0, len(movies)),
	}
	for _, p := range plays {
		res.Plays = append(res.Plays, p.Summary())
	}
	for _, m := range movies {
		res.Movies = append(res.Movies, m.Summary())
	}
	return res, nil
}

// Matches reports whether query is a case-insensitive substring of title, author or any theme.
func Matches(query, title, author string, themes []string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(title), q) || strings.Contains(strings.ToLower(author), q) {
		return true
	}
	for _, theme := range themes {
		if strings.Contains(strings.ToLower(theme), q) {
			return true
		}
	}
	return false
}
