package router

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a fully materialised HTTP response. Handlers build one and the
// isolation middleware writes it, so a panic can never leave a half-written
// response on the wire.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Text builds a plain text response.
func Text(status int, body string) *Response {
	h := make(http.Header)
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return &Response{
		Status: status,
		Header: h,
		Body:   []byte(body),
	}
}

// JSON builds a JSON response from v.
func JSON(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &Response{
		Status: status,
		Header: h,
		Body:   body,
	}, nil
}

// WriteTo copies the response onto w.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}
