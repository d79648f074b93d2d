package contentapi

import (
	"fmt"
	"net/http"

	"github.com/trezcool/aucontent/core/content"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string // the "message" of the error envelope, if any
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, msg)
}

// Is makes a 404 match content.ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == content.ErrNotFound && e.StatusCode == http.StatusNotFound
}
