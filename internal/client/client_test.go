package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/respond"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/media"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store/sqlite"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/storybuilder"
)

type discardPutter struct{}

func (discardPutter) PutObject(_ context.Context, _, _ string, body io.Reader, _ int64, _ string) error {
	_, err := io.Copy(io.Discard, body)
	return err
}

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "stories.db"))
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.Migrate(context.Background(), db); err != nil {
		t.Fatalf("sqlite migrate: %v", err)
	}
	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Engine:    storybuilder.New(sqlite.NewWithDB(db), zerolog.Nop()),
		Uploader:  media.NewService(discardPutter{}, media.Options{Bucket: "story-media", PublicBaseURL: "http://media.test/story-media"}, zerolog.Nop()),
		IsHealthy: func() bool { return true },
		Log:       zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(url, WithRetries(2, time.Millisecond), WithHTTPTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestClient_RoundTrip(t *testing.T) {
	c := newClient(t, newService(t).URL)
	ctx := context.Background()

	res, err := c.GetStory(ctx, "p1")
	require.NoError(t, err)
	require.True(t, res.Document.IsNew())

	doc := res.Document
	doc.Title = "Palm Island"
	_, err = doc.AppendSection(model.KindQuote)
	require.NoError(t, err)

	saved, err := c.SaveStory(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Len(t, saved.Sections, 1)
	assert.NotEmpty(t, saved.Sections[0].ID)

	pub, err := c.GetPublished(ctx, saved.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Palm Island", pub.Title)

	_, err = c.GetPublished(ctx, "missing-story")
	assert.ErrorIs(t, err, ErrNotFound)

	editors, err := c.Editors(ctx)
	require.NoError(t, err)
	assert.Len(t, editors, len(model.Kinds))

	m, err := c.Upload(ctx, "hero.jpg", "image/jpeg", strings.NewReader("jpeg"), "image")
	require.NoError(t, err)
	assert.Equal(t, model.MediaImage, m.Kind)
	assert.True(t, strings.HasPrefix(m.URL, "http://media.test/story-media/stories/"))

	_, err = c.Upload(ctx, "clip.mp4", "video/mp4", strings.NewReader("mp4"), "image")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnsupportedMediaType, apiErr.StatusCode)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			respond.WriteError(w, http.StatusServiceUnavailable, "warming up")
			return
		}
		respond.WriteJSON(w, http.StatusOK, api.StoryResponse{Document: model.NewDocument("p1")})
	}))
	defer srv.Close()

	res, err := newClient(t, srv.URL).GetStory(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", res.Document.ProjectID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond.WriteError(w, http.StatusInternalServerError, "failed to save story: db down")
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).SaveStory(context.Background(), model.NewDocument("p1"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "failed to save story: db down", apiErr.Message)
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond.WriteError(w, http.StatusBadRequest, "title: the length must be no more than 300.")
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).SaveStory(context.Background(), model.NewDocument("p1"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNew_Validation(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	_, err = New("http://x", WithHTTPTimeout(0))
	require.Error(t, err)
	_, err = New("http://x", WithRetries(-1, time.Second))
	require.Error(t, err)
}
