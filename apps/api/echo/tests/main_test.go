package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/aucontent/apps/api/echo"
	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
	"github.com/trezcool/aucontent/storage/catalog"
	"github.com/trezcool/aucontent/storage/database/dummy"
)

var (
	conf = &core.Config{
		Env:      "TEST",
		Build:    "test",
		AppName:  "Australian Content API",
		TestMode: true,
		Server:   core.ServerConfig{DisableReqLogs: true},
	}

	cat        content.Catalog
	contentSvc content.Service
	app        *Server

	errRouteNotFound = httpErr{Message: "Route not found"}
	errInternal      = httpErr{Message: "Internal server error"}
)

func TestMain(m *testing.M) {
	var err error

	// set up DB & repos
	cat, err = catalog.Default()
	if err != nil {
		fmt.Printf("catalog.Default(): %v", err)
		os.Exit(1)
	}
	repo := dummydb.NewContentRepository(dummydb.Open(cat))

	// set up services
	contentSvc = content.NewService(repo)

	// set up server
	app = NewServer(conf, &recordingLogger{}, contentSvc)

	os.Exit(m.Run())
}

// recordingLogger keeps the messages logged at error level.
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
	args   [][]interface{}
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Fatal(string, ...interface{}) {}
func (l *recordingLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
	l.args = append(l.args, args)
}

// failingService fails every call with err, or panics when err is nil.
type failingService struct {
	err error
}

func (s failingService) fail() error {
	if s.err == nil {
		panic("repository exploded")
	}
	return s.err
}

func (s failingService) GetAllPlays(context.Context) ([]content.Play, error) {
	return nil, s.fail()
}

func (s failingService) GetAllMovies(context.Context) ([]content.Movie, error) {
	return nil, s.fail()
}

func (s failingService) GetPlay(context.Context, string) (content.Play, error) {
	return content.Play{}, s.fail()
}

func (s failingService) GetMovie(context.Context, string) (content.Movie, error) {
	return content.Movie{}, s.fail()
}

func (s failingService) Search(context.Context, string) (content.SearchResult, error) {
	return content.SearchResult{}, s.fail()
}

func (s failingService) GetResourceSummaries(context.Context) (content.ResourceSummaries, error) {
	return content.ResourceSummaries{}, s.fail()
}

type httpErr struct {
	Message string `json:"message"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func checkCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Headers"))
}
