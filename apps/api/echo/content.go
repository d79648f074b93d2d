package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/aucontent/core/content"
)

type contentApi struct {
	svc content.Service
}

func registerContentAPI(g *echo.Group, svc content.Service) {
	api := contentApi{svc: svc}

	g.GET("/plays", api.queryPlays)
	g.GET("/plays/:id", api.retrievePlay)
	g.GET("/movies", api.queryMovies)
	g.GET("/movies/:id", api.retrieveMovie)
	g.GET("/search", api.search)
	g.GET("/resources", api.queryResources)
}

// Handlers

func (api *contentApi) queryPlays(ctx echo.Context) error {
	plays, err := api.svc.GetAllPlays(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, plays)
}

func (api *contentApi) retrievePlay(ctx echo.Context) error {
	play, err := api.svc.GetPlay(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, play)
}

func (api *contentApi) queryMovies(ctx echo.Context) error {
	movies, err := api.svc.GetAllMovies(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, movies)
}

func (api *contentApi) retrieveMovie(ctx echo.Context) error {
	movie, err := api.svc.GetMovie(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, movie)
}

// search: ?query=<q>; a missing or empty query is a 400
func (api *contentApi) search(ctx echo.Context) error {
	res, err := api.svc.Search(ctx.Request().Context(), ctx.QueryParam("query"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *contentApi) queryResources(ctx echo.Context) error {
	res, err := api.svc.GetResourceSummaries(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
