package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/recovery"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/respond"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/media"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Engine         StoryEngine
	Uploader       media.Uploader
	MaxUploadBytes int64
	IsHealthy      func() bool
	Log            zerolog.Logger
}

// NewRouter wires HTTP routes to handlers.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware(d.Log))

	story := NewStoryHandler(d.Engine, d.Log)
	root.Handle("/api/projects/{projectId}/story", respond.Handler(story.GetProjectStory)).Methods(http.MethodGet)
	root.Handle("/api/projects/{projectId}/story", respond.Handler(story.PutProjectStory)).Methods(http.MethodPut)
	root.Handle("/api/stories/{slug}", respond.Handler(story.GetPublishedStory)).Methods(http.MethodGet)

	root.HandleFunc("/api/editors", ListEditors).Methods(http.MethodGet)

	if d.Uploader != nil {
		mediaHandler := NewMediaHandler(d.Uploader, d.MaxUploadBytes, d.Log)
		root.Handle("/api/media", respond.Handler(mediaHandler.Upload)).Methods(http.MethodPost)
	}

	health := NewHealthHandler(d.IsHealthy)
	root.HandleFunc("/api/health", health.CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return root
}
