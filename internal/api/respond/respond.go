// Package respond writes the JSON replies of the story service and turns
// handler errors into error bodies.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// HTTPError is a handler failure that already knows its status. Message is
// shown to the client; Err is only logged.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

func BadRequest(msg string) *HTTPError  { return &HTTPError{Status: http.StatusBadRequest, Message: msg} }
func NotFound(msg string) *HTTPError    { return &HTTPError{Status: http.StatusNotFound, Message: msg} }
func TooLarge(msg string) *HTTPError    { return &HTTPError{Status: http.StatusRequestEntityTooLarge, Message: msg} }
func Unsupported(msg string) *HTTPError { return &HTTPError{Status: http.StatusUnsupportedMediaType, Message: msg} }

// Internal hides err from the client behind msg.
func Internal(msg string, err error) *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// Handler is an HTTP handler that reports failure by returning an error
// instead of writing one.
type Handler func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP writes the reply for a returned error. An *HTTPError keeps its
// status and message; anything else is a 500 with a generic message. 5xx
// causes are logged with the request line.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}
	var he *HTTPError
	if !errors.As(err, &he) {
		he = Internal(http.StatusText(http.StatusInternalServerError), err)
	}
	if he.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", he.Status).Msg("request failed")
	}
	WriteError(w, he.Status, he.Message)
}

// WriteJSON encodes v before touching w, so an encoding failure still gets a
// clean 500 instead of a truncated body under the original status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg("encode response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: http.StatusText(status), Code: status})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: http.StatusText(status), Code: status, Message: message})
}
