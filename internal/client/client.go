// Package client is the HTTP client for the story service used by storyctl.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/respond"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

// ErrNotFound is returned when the service answers 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("story service: %d %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to one story service instance.
type Client struct {
	http       *resty.Client
	maxRetries uint64
	baseDelay  time.Duration
}

// New constructs a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second),
		maxRetries: 3,
		baseDelay:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// StoryResult is the editor view of a project's story.
type StoryResult = api.StoryResponse

// GetStory loads the project's story. A story that could not be read comes
// back as an empty document with LoadError set.
func (c *Client) GetStory(ctx context.Context, projectID string) (*StoryResult, error) {
	var out StoryResult
	err := c.do(ctx, "get_story", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetPathParam("projectId", projectID).
			SetResult(&out).
			SetError(&respond.ErrorResponse{}).
			Get("/api/projects/{projectId}/story")
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveStory replaces the project's stored story with doc and returns the
// saved document with its persisted ids.
func (c *Client) SaveStory(ctx context.Context, doc *model.Document) (*model.Document, error) {
	var out StoryResult
	err := c.do(ctx, "save_story", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetPathParam("projectId", doc.ProjectID).
			SetHeader("Content-Type", "application/json").
			SetBody(doc).
			SetResult(&out).
			SetError(&respond.ErrorResponse{}).
			Put("/api/projects/{projectId}/story")
	})
	if err != nil {
		return nil, err
	}
	return out.Document, nil
}

// GetPublished loads a story by its public slug.
func (c *Client) GetPublished(ctx context.Context, slug string) (*model.Document, error) {
	var out StoryResult
	err := c.do(ctx, "get_published", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetPathParam("slug", slug).
			SetResult(&out).
			SetError(&respond.ErrorResponse{}).
			Get("/api/stories/{slug}")
	})
	if err != nil {
		return nil, err
	}
	return out.Document, nil
}

// Editors lists the form fields of every section kind.
func (c *Client) Editors(ctx context.Context) ([]api.EditorSpec, error) {
	var out struct {
		Editors []api.EditorSpec `json:"editors"`
	}
	err := c.do(ctx, "editors", func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetResult(&out).
			SetError(&respond.ErrorResponse{}).
			Get("/api/editors")
	})
	if err != nil {
		return nil, err
	}
	return out.Editors, nil
}

// Upload sends one media file. accept is image, video or both (empty means
// both). Uploads are not retried since body cannot be replayed.
func (c *Client) Upload(ctx context.Context, fileName, contentType string, body io.Reader, accept string) (model.Media, error) {
	var out model.Media
	req := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", fileName, contentType, body).
		SetResult(&out).
		SetError(&respond.ErrorResponse{})
	if accept != "" {
		req.SetMultipartFormData(map[string]string{"accept": accept})
	}
	resp, err := req.Post("/api/media")
	if err := checkResponse(resp, err); err != nil {
		requestsTotal.WithLabelValues("upload", "error").Inc()
		return model.Media{}, err
	}
	requestsTotal.WithLabelValues("upload", "ok").Inc()
	return out, nil
}

// do runs send with exponential backoff. Transport errors and 5xx answers
// are retried; anything else returns immediately.
func (c *Client) do(ctx context.Context, op string, send func() (*resty.Response, error)) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.baseDelay
	exp.Multiplier = 2
	exp.Reset()

	attempt := 0
	err := backoff.Retry(func() error {
		if attempt > 0 {
			retriesTotal.WithLabelValues(op).Inc()
		}
		attempt++
		err := checkResponse(send())
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(exp, c.maxRetries), ctx))
	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		return err
	}
	requestsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("story service request: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	if e, ok := resp.Error().(*respond.ErrorResponse); ok && e.Message != "" {
		apiErr.Message = e.Message
	}
	return apiErr
}
