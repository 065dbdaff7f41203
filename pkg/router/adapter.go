package router

import (
	"bytes"
	"context"
	"net/http"
)

// bufferedWriter collects what an http.Handler writes.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// Adapt turns an http.Handler into a Handler by buffering its output.
// A panic in h propagates to the caller like any other Handler panic.
func Adapt(h http.Handler) Handler {
	return func(ctx context.Context, r *http.Request) (*Response, error) {
		w := &bufferedWriter{header: make(http.Header)}
		h.ServeHTTP(w, r.WithContext(ctx))

		status := w.status
		if status == 0 {
			status = http.StatusOK
		}
		return &Response{
			Status: status,
			Header: w.header,
			Body:   w.body.Bytes(),
		}, nil
	}
}
