package tests

import (
	"encoding/json"
	"net/http"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/aucontent/apps/api/echo"
	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
)

func TestContentAPI(t *testing.T) {
	club := cat.Plays[0]
	castle := cat.Movies[1]

	summaries := content.ResourceSummaries{
		Plays:  make([]content.ResourceSummary, 0),
		Movies: make([]content.ResourceSummary, 0),
	}
	for _, p := range cat.Plays {
		summaries.Plays = append(summaries.Plays, p.Summary())
	}
	for _, m := range cat.Movies {
		summaries.Movies = append(summaries.Movies, m.Summary())
	}

	tests := []httpTest{
		{
			name:     "all plays",
			method:   http.MethodGet,
			path:     "/api/australian-content/plays",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, cat.Plays),
		},
		{
			name:     "all plays, trailing slash",
			method:   http.MethodGet,
			path:     "/api/australian-content/plays/",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, cat.Plays),
		},
		{
			name:     "all movies",
			method:   http.MethodGet,
			path:     "/api/australian-content/movies",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, cat.Movies),
		},
		{
			name:     "search by theme",
			method:   http.MethodGet,
			path:     "/api/australian-content/search?query=football",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, content.SearchResult{Plays: []content.Play{club}, Movies: []content.Movie{}}),
		},
		{
			name:     "search is case insensitive",
			method:   http.MethodGet,
			path:     "/api/australian-content/search?query=CASTLE",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, content.SearchResult{Plays: []content.Play{}, Movies: []content.Movie{castle}}),
		},
		{
			name:     "search with an encoded query",
			method:   http.MethodGet,
			path:     "/api/australian-content/search?query=Rob%20Sitch",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, content.SearchResult{Plays: []content.Play{}, Movies: []content.Movie{castle}}),
		},
		{
			name:     "search without match",
			method:   http.MethodGet,
			path:     "/api/australian-content/search?query=zzz",
			wantCode: http.StatusOK,
			wantData: []byte(`{"plays":[],"movies":[]}`),
		},
		{
			name:     "search without query",
			method:   http.MethodGet,
			path:     "/api/australian-content/search",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "Search query is required"}),
		},
		{
			name:     "search with an empty query",
			method:   http.MethodGet,
			path:     "/api/australian-content/search?query=",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "Search query is required"}),
		},
		{
			name:     "resources",
			method:   http.MethodGet,
			path:     "/api/australian-content/resources",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, summaries),
		},
		{
			name:     "play by id",
			method:   http.MethodGet,
			path:     "/api/australian-content/plays/play1",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, club),
		},
		{
			name:     "movie by id",
			method:   http.MethodGet,
			path:     "/api/australian-content/movies/movie2",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, castle),
		},
		{
			name:     "unknown play",
			method:   http.MethodGet,
			path:     "/api/australian-content/plays/movie1",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: "play not found"}),
		},
		{
			name:     "unknown movie",
			method:   http.MethodGet,
			path:     "/api/australian-content/movies/play1",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: "movie not found"}),
		},
		{
			name:     "unknown path",
			method:   http.MethodGet,
			path:     "/api/australian-content/unknown-path",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errRouteNotFound),
		},
		{
			name:     "unknown root path",
			method:   http.MethodGet,
			path:     "/",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errRouteNotFound),
		},
		{
			name:     "unsupported method",
			method:   http.MethodPost,
			path:     "/api/australian-content/plays",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errRouteNotFound),
		},
		{
			name:     "health",
			method:   http.MethodGet,
			path:     "/health",
			wantCode: http.StatusOK,
			wantData: []byte(`{"status":"ok","build":"test"}`),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := newRequest(tc.method, tc.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tc, rec)
			checkCORS(t, rec)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestContentAPI_PlaysContainTheClub(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/api/australian-content/plays")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var plays []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plays))
	require.NotEmpty(t, plays)
	assert.Equal(t, "play1", plays[0]["id"])
	assert.Equal(t, "The Club", plays[0]["title"])
}

func TestContentAPI_ResourcesProjection(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/api/australian-content/resources")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res map[string][]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res["plays"], len(cat.Plays))
	require.Len(t, res["movies"], len(cat.Movies))

	want := []string{"curriculum", "educationalResources", "id", "title"}
	for _, records := range res {
		for _, r := range records {
			keys := make([]string, 0, len(r))
			for k := range r {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			assert.Equal(t, want, keys)
		}
	}
}

func TestContentAPI_Preflight(t *testing.T) {
	paths := []string{
		"/api/australian-content/plays",
		"/api/australian-content/search",
		"/api/australian-content/unknown-path",
		"/anywhere",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req, rec := newRequest(http.MethodOptions, path)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Body.String())
			checkCORS(t, rec)
		})
	}
}

func TestContentAPI_InternalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "error", err: errors.Wrap(errors.New("pq: connection refused"), "querying plays")},
		{name: "panic"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger := &recordingLogger{}
			srv := NewServer(conf, logger, failingService{err: tc.err})

			req, rec := newRequest(http.MethodGet, "/api/australian-content/plays")
			srv.ServeHTTP(rec, req)

			checkCodeAndData(t, httpTest{wantCode: http.StatusInternalServerError, wantData: marchallObj(t, errInternal)}, rec)
			checkCORS(t, rec)
			assert.NotContains(t, rec.Body.String(), "connection refused")
			assert.NotContains(t, rec.Body.String(), "exploded")
			require.Len(t, logger.errors, 1)
			assert.Equal(t, "Internal server error", logger.errors[0])
		})
	}
}

func TestContentAPI_ValidationErrorFields(t *testing.T) {
	vErr := core.NewValidationError(
		errors.New("validation failed"),
		core.FieldError{Field: "query", Error: "query is too long"},
	)
	srv := NewServer(conf, &recordingLogger{}, failingService{err: vErr})

	req, rec := newRequest(http.MethodGet, "/api/australian-content/search?query=x")
	srv.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: []byte(`{"message":"validation failed","fields":{"query":"query is too long"}}`),
	}, rec)
}

func TestContentAPI_ShutdownError(t *testing.T) {
	srv := NewServer(conf, &recordingLogger{}, failingService{err: core.NewShutdownError("database is gone")})

	req, rec := newRequest(http.MethodGet, "/api/australian-content/movies")
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	select {
	case <-srv.ShutdownSignal():
	default:
		t.Fatal("shutdown was not signaled")
	}
}
