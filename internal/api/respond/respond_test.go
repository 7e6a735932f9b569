package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h Handler) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stories/x", nil))
	var body ErrorResponse
	if rec.Code >= http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandler_HTTPErrorKeepsStatusAndMessage(t *testing.T) {
	rec, body := serve(t, func(http.ResponseWriter, *http.Request) error {
		return fmt.Errorf("lookup: %w", NotFound("story not found"))
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorResponse{Error: "Not Found", Code: 404, Message: "story not found"}, body)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandler_InternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	rec, body := serve(t, func(http.ResponseWriter, *http.Request) error {
		return Internal("could not load story", cause)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "could not load story", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	assert.ErrorIs(t, Internal("x", cause), cause)
}

func TestHandler_PlainErrorIsGeneric500(t *testing.T) {
	rec, body := serve(t, func(http.ResponseWriter, *http.Request) error {
		return errors.New("secret detail")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestHandler_SuccessWritesNothingExtra(t *testing.T) {
	rec, _ := serve(t, func(w http.ResponseWriter, _ *http.Request) error {
		WriteJSON(w, http.StatusCreated, map[string]string{"url": "https://cdn/a.jpg"})
		return nil
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"url":"https://cdn/a.jpg"}`, rec.Body.String())
}

func TestWriteJSON_EncodeFailureIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]float64{"bad": math.Inf(1)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","code":500}`, rec.Body.String())
}

func TestHTTPError_Error(t *testing.T) {
	assert.Equal(t, "413 too big", TooLarge("too big").Error())
	assert.Equal(t, "415 no", Unsupported("no").Error())
	assert.Equal(t, "400 bad", BadRequest("bad").Error())
	assert.Equal(t, "500 x: boom", Internal("x", errors.New("boom")).Error())
}
