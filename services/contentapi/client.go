// Package contentapi is the client of the Australian content API.
//
// Lists and searches degrade to a local copy of the embedded catalog when the API cannot
// serve them, so callers never get an empty screen. A server holding an empty collection
// cannot be told apart from a failed call: both are answered from the local catalog.
// Lookups by id and resource summaries have no fallback; their errors are returned as is.
package contentapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
	"github.com/trezcool/aucontent/storage/catalog"
	dummydb "github.com/trezcool/aucontent/storage/database/dummy"
)

// BasePath is the path prefix of every content route.
const BasePath = "/api/australian-content"

const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	http    *http.Client
	local   content.Service
	logger  core.Logger
}

var _ content.Service = (*Client)(nil)

// NewClient returns a client of the API served at conf.BaseURL that falls back on local.
func NewClient(conf core.ClientConfig, local content.Service, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		http:    newHTTPClient(conf.Timeout, conf.RetryMax),
		local:   local,
		logger:  logger,
	}
}

// NewDefaultClient returns a client falling back on the catalog embedded in the binary.
func NewDefaultClient(conf core.ClientConfig, logger core.Logger) (*Client, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, errors.Wrap(err, "loading local catalog")
	}
	local := content.NewService(dummydb.NewContentRepository(dummydb.Open(cat)))
	return NewClient(conf, local, logger), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + BasePath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		sErr := &StatusError{URL: u, StatusCode: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&envelope) == nil {
			sErr.Message = envelope.Message
		}
		return sErr
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func (c *Client) fallback(what string, err error) {
	if err == nil {
		c.logger.Warn("API returned no " + what + ", using local catalog")
		return
	}
	c.logger.Warn("fetching "+what+" failed, using local catalog", err)
}

func (c *Client) GetAllPlays(ctx context.Context) ([]content.Play, error) {
	var plays []content.Play
	err := c.get(ctx, "/plays", nil, &plays)
	if err == nil && len(plays) > 0 {
		return plays, nil
	}
	c.fallback("plays", err)
	return c.local.GetAllPlays(ctx)
}

func (c *Client) GetAllMovies(ctx context.Context) ([]content.Movie, error) {
	var movies []content.Movie
	err := c.get(ctx, "/movies", nil, &movies)
	if err == nil && len(movies) > 0 {
		return movies, nil
	}
	c.fallback("movies", err)
	return c.local.GetAllMovies(ctx)
}

// Search falls back on a local search whenever the API call fails.
func (c *Client) Search(ctx context.Context, query string) (content.SearchResult, error) {
	var res content.SearchResult
	err := c.get(ctx, "/search", url.Values{"query": {query}}, &res)
	if err == nil {
		if res.Plays == nil {
			res.Plays = make([]content.Play, 0)
		}
		if res.Movies == nil {
			res.Movies = make([]content.Movie, 0)
		}
		return res, nil
	}
	c.fallback("search results", err)
	return c.local.Search(ctx, query)
}

func (c *Client) GetPlay(ctx context.Context, id string) (content.Play, error) {
	var play content.Play
	if err := c.get(ctx, "/plays/"+url.PathEscape(id), nil, &play); err != nil {
		return content.Play{}, errors.Wrap(err, "getting play")
	}
	return play, nil
}

func (c *Client) GetMovie(ctx context.Context, id string) (content.Movie, error) {
	var movie content.Movie
	if err := c.get(ctx, "/movies/"+url.PathEscape(id), nil, &movie); err != nil {
		return content.Movie{}, errors.Wrap(err, "getting movie")
	}
	return movie, nil
}

func (c *Client) GetResourceSummaries(ctx context.Context) (content.ResourceSummaries, error) {
	var res content.ResourceSummaries
	if err := c.get(ctx, "/resources", nil, &res); err != nil {
		return content.ResourceSummaries{}, errors.Wrap(err, "getting resource summaries")
	}
	return res, nil
}
