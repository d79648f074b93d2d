package logsvc

import (
	"bytes"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRollbarLogger_prepare(t *testing.T) {
	l := NewDiscardLogger()
	req := httptest.NewRequest("GET", "/api/australian-content/plays", nil)
	req.Header.Set(RequestIDHeader, "abc")
	err := errors.New("boom")

	args := l.prepare("failed", []interface{}{err, req, map[string]interface{}{"path": "/plays"}})
	assert.Equal(t, []interface{}{
		"failed",
		err,
		req,
		map[string]interface{}{"path": "/plays", "requestId": "abc"},
	}, args)

	assert.Equal(t, []interface{}{"plain"}, l.prepare("plain", nil))
}

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	l := RollbarLogger{std: log.New(&buf, "API : ", 0)}
	req := httptest.NewRequest("GET", "/api/australian-content/search?q=x", nil)
	req.Header.Set(RequestIDHeader, "abc")

	l.print("searching", []interface{}{req, errors.New("boom")})
	out := buf.String()
	assert.Contains(t, out, "API : searching\n")
	assert.Contains(t, out, "request: GET /api/australian-content/search [abc]")
	assert.Contains(t, out, "boom")
}
