// Package storybuilder loads stories from the relational store into the
// document model and saves them back with a transactional full replace.
package storybuilder

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
)

// Cache holds published documents keyed by slug.
type Cache interface {
	Get(ctx context.Context, slug string) (*model.Document, bool, error)
	Set(ctx context.Context, slug string, doc *model.Document) error
	Delete(ctx context.Context, slug string) error
}

// Engine is the load/save entry point used by the API and CLI.
type Engine struct {
	store           store.Store
	cache           Cache
	log             zerolog.Logger
	loadConcurrency int
}

type Option func(*Engine)

// WithCache serves LoadBySlug through c and invalidates it on save.
func WithCache(c Cache) Option { return func(e *Engine) { e.cache = c } }

// WithLoadConcurrency bounds concurrent child fetches during load.
func WithLoadConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.loadConcurrency = n
		}
	}
}

func New(s store.Store, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{store: s, log: log, loadConcurrency: 4}
	for _, o := range opts {
		o(e)
	}
	return e
}
