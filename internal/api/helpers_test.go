package api

import (
	"io"
	"net/http"
	"strings"
)

func responseWithBody(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
