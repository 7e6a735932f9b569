package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/media"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store/sqlite"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/storybuilder"
)

func newSQLiteEngine(t *testing.T) *storybuilder.Engine {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "stories.db"))
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.Migrate(context.Background(), db); err != nil {
		t.Fatalf("sqlite migrate: %v", err)
	}
	return storybuilder.New(sqlite.NewWithDB(db), zerolog.Nop())
}

type memPutter struct {
	objects map[string][]byte
}

func (m *memPutter) PutObject(_ context.Context, _, key string, body io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func newTestServer(t *testing.T, engine StoryEngine) (*httptest.Server, *memPutter) {
	t.Helper()
	putter := &memPutter{objects: map[string][]byte{}}
	uploader := media.NewService(putter, media.Options{Bucket: "story-media", PublicBaseURL: "https://cdn.test/story-media", MaxBytes: 1024}, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(Deps{
		Engine:         engine,
		Uploader:       uploader,
		MaxUploadBytes: 1024,
		IsHealthy:      func() bool { return true },
		Log:            zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv, putter
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			buf, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(buf)
		}
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeStory(t *testing.T, b []byte) StoryResponse {
	t.Helper()
	var out StoryResponse
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode story response: %v: %s", err, b)
	}
	return out
}

func TestStoryRoutes_SaveLoadPublish(t *testing.T) {
	srv, _ := newTestServer(t, newSQLiteEngine(t))

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/projects/p1/story", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh := decodeStory(t, body)
	assert.True(t, fresh.Document.IsNew())
	assert.Empty(t, fresh.LoadError)
	assert.Equal(t, "p1", fresh.Document.ProjectID)

	doc := model.NewDocument("")
	doc.Title = "Our Stories, Our Camera"
	_, err := doc.AppendSection(model.KindText)
	require.NoError(t, err)
	g, err := doc.AppendSection(model.KindGallery)
	require.NoError(t, err)
	require.NoError(t, doc.ReplacePayload(g.Ref(), model.GalleryPayload{Images: []model.GalleryImage{{URL: "a.jpg"}, {URL: ""}}}))

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/projects/p1/story", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	saved := decodeStory(t, body).Document
	require.NotEmpty(t, saved.ID)
	require.NotEmpty(t, saved.Slug)
	assert.Equal(t, "p1", saved.ProjectID)
	require.Len(t, saved.Sections, 2)
	assert.Len(t, saved.Sections[1].Data.(model.GalleryPayload).Images, 1)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/projects/p1/story", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, saved.ID, decodeStory(t, body).Document.ID)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/stories/"+saved.Slug, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Our Stories, Our Camera", decodeStory(t, body).Document.Title)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/stories/no-such-story", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutStory_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, newSQLiteEngine(t))

	cases := map[string]string{
		"invalid json":     `{"title":`,
		"unknown kind":     `{"title":"x","sections":[{"kind":"hero","data":{}}]}`,
		"project mismatch": `{"projectId":"other","title":"x","sections":[]}`,
		"bad media kind":   `{"title":"x","heroMedia":{"url":"h.jpg","kind":"audio"},"sections":[]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, out := doJSON(t, http.MethodPut, srv.URL+"/api/projects/p1/story", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(out))
		})
	}

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/projects/has%20space/story", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type fakeEngine struct {
	loadErr error
	slugErr error
	saveErr error
}

func (f *fakeEngine) Load(_ context.Context, projectID string) (*model.Document, error) {
	if f.loadErr != nil {
		return model.NewDocument(projectID), f.loadErr
	}
	return model.NewDocument(projectID), nil
}

func (f *fakeEngine) LoadBySlug(_ context.Context, _ string) (*model.Document, error) {
	return nil, f.slugErr
}

func (f *fakeEngine) Save(_ context.Context, doc *model.Document) (*model.Document, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return doc, nil
}

func TestGetStory_LoadErrorStillReturnsDocument(t *testing.T) {
	srv, _ := newTestServer(t, &fakeEngine{loadErr: storybuilder.ErrCouldNotLoad})

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/projects/p1/story", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeStory(t, body)
	assert.Equal(t, "could not load story", out.LoadError)
	assert.True(t, out.Document.IsNew())
}

func TestPutStory_SaveErrors(t *testing.T) {
	srv, _ := newTestServer(t, &fakeEngine{saveErr: &storybuilder.SaveError{Err: errors.New("db down")}})
	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/projects/p1/story", `{"title":"x","sections":[]}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "failed to save story")

	srv, _ = newTestServer(t, &fakeEngine{saveErr: &storybuilder.SaveError{Err: storybuilder.NewValidationError("id", "belongs to another project")}})
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/projects/p1/story", `{"title":"x","sections":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublishedStory_InternalError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeEngine{slugErr: errors.New("boom")})
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/stories/some-story", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func multipartBody(t *testing.T, contentType string, content []byte, accept string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if accept != "" {
		require.NoError(t, mw.WriteField("accept", accept))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="clip.bin"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	srv, putter := newTestServer(t, &fakeEngine{})

	tests := []struct {
		name        string
		contentType string
		size        int
		accept      string
		wantStatus  int
	}{
		{"image", "image/png", 10, "", http.StatusCreated},
		{"video for video field", "video/mp4", 10, "video", http.StatusCreated},
		{"image for video field", "image/png", 10, "video", http.StatusUnsupportedMediaType},
		{"pdf", "application/pdf", 10, "", http.StatusUnsupportedMediaType},
		{"too large", "image/png", 2048, "", http.StatusRequestEntityTooLarge},
		{"bad accept", "image/png", 10, "audio", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.contentType, bytes.Repeat([]byte{1}, tt.size), tt.accept)
			resp, err := http.Post(srv.URL+"/api/media", ct, body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusCreated {
				return
			}
			var m model.Media
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
			assert.True(t, strings.HasPrefix(m.URL, "https://cdn.test/story-media/stories/"), m.URL)
			assert.NotEmpty(t, m.Kind)
		})
	}
	assert.Len(t, putter.objects, 2)
}

func TestUploadMedia_MissingFile(t *testing.T) {
	srv, _ := newTestServer(t, &fakeEngine{})
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("accept", "image"))
	require.NoError(t, mw.Close())
	resp, err := http.Post(srv.URL+"/api/media", mw.FormDataContentType(), buf)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListEditors(t *testing.T) {
	srv, _ := newTestServer(t, &fakeEngine{})
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/editors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Editors []EditorSpec `json:"editors"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Editors, len(model.Kinds))
	for _, e := range out.Editors {
		assert.NotEmptyf(t, e.Fields, "kind %s has no fields", e.Kind)
		if e.Kind == model.KindGallery || e.Kind == model.KindTimeline {
			assert.NotEmptyf(t, e.EntryFields, "kind %s has no entry fields", e.Kind)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, &fakeEngine{})
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"healthy"`)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	h := NewHealthHandler(nil)
	rec := httptest.NewRecorder()
	h.CheckHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Contains(t, rec.Body.String(), `"unhealthy"`)
}
