package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/respond"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/validate"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/storybuilder"
)

// StoryEngine is the part of storybuilder.Engine the handlers use.
type StoryEngine interface {
	Load(ctx context.Context, projectID string) (*model.Document, error)
	LoadBySlug(ctx context.Context, slug string) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) (*model.Document, error)
}

// StoryResponse wraps a document. LoadError is set when the stored story
// could not be read and Document is a fresh empty one.
type StoryResponse struct {
	Document  *model.Document `json:"document"`
	LoadError string          `json:"loadError,omitempty"`
}

type StoryHandler struct {
	engine StoryEngine
	log    zerolog.Logger
}

func NewStoryHandler(engine StoryEngine, log zerolog.Logger) *StoryHandler {
	return &StoryHandler{engine: engine, log: log}
}

// GetProjectStory GET /api/projects/{projectId}/story
func (h *StoryHandler) GetProjectStory(w http.ResponseWriter, r *http.Request) error {
	projectID := mux.Vars(r)["projectId"]
	if err := validate.ProjectID(projectID); err != nil {
		return respond.BadRequest(err.Error())
	}
	doc, err := h.engine.Load(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, storybuilder.ErrCouldNotLoad) && doc != nil {
			respond.WriteJSON(w, http.StatusOK, StoryResponse{Document: doc, LoadError: storybuilder.ErrCouldNotLoad.Error()})
			return nil
		}
		h.log.Error().Stack().Err(err).Str("project_id", projectID).Msg("load story")
		return respond.Internal(storybuilder.ErrCouldNotLoad.Error(), err)
	}
	respond.WriteJSON(w, http.StatusOK, StoryResponse{Document: doc})
	return nil
}

// PutProjectStory PUT /api/projects/{projectId}/story
func (h *StoryHandler) PutProjectStory(w http.ResponseWriter, r *http.Request) error {
	projectID := mux.Vars(r)["projectId"]
	if err := validate.ProjectID(projectID); err != nil {
		return respond.BadRequest(err.Error())
	}
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return respond.BadRequest("Invalid JSON: " + err.Error())
	}
	if doc.ProjectID == "" {
		doc.ProjectID = projectID
	}
	if doc.ProjectID != projectID {
		return respond.BadRequest("projectId does not match the url")
	}
	if doc.Sections == nil {
		doc.Sections = []model.Section{}
	}
	// Order is assigned from array position on save.
	doc.Reindex()
	if err := validate.Document(&doc); err != nil {
		return respond.BadRequest(err.Error())
	}

	saved, err := h.engine.Save(r.Context(), &doc)
	switch {
	case storybuilder.IsValidationError(err):
		return respond.BadRequest(err.Error())
	case err != nil:
		// SaveError text names the failed step and is safe to show.
		return respond.Internal(err.Error(), err)
	}
	respond.WriteJSON(w, http.StatusOK, StoryResponse{Document: saved})
	return nil
}

// GetPublishedStory GET /api/stories/{slug}
func (h *StoryHandler) GetPublishedStory(w http.ResponseWriter, r *http.Request) error {
	slug := mux.Vars(r)["slug"]
	if err := validate.Slug(slug); err != nil {
		return respond.NotFound(storybuilder.ErrStoryNotFound.Error())
	}
	doc, err := h.engine.LoadBySlug(r.Context(), slug)
	switch {
	case errors.Is(err, storybuilder.ErrStoryNotFound):
		return respond.NotFound(err.Error())
	case err != nil:
		h.log.Error().Stack().Err(err).Str("slug", slug).Msg("load published story")
		return respond.Internal(storybuilder.ErrCouldNotLoad.Error(), err)
	}
	respond.WriteJSON(w, http.StatusOK, StoryResponse{Document: doc})
	return nil
}
