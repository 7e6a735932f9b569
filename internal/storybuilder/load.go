package storybuilder

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
)

// Load reconstructs the story owned by projectID.
//
// A project without a story yields a new empty document and no error. When
// the story or its sections cannot be fetched Load returns a new empty
// document together with an error matching ErrCouldNotLoad, so callers can
// keep editing. A failed gallery or timeline fetch only leaves that section's
// entries empty.
func (e *Engine) Load(ctx context.Context, projectID string) (*model.Document, error) {
	row, err := e.store.Stories().GetByProject(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		loadsTotal.WithLabelValues("new").Inc()
		return model.NewDocument(projectID), nil
	}
	if err != nil {
		return e.loadFailed(projectID, err)
	}
	doc, _, err := e.reconstruct(ctx, row)
	if err != nil {
		return e.loadFailed(projectID, err)
	}
	return doc, nil
}

// LoadBySlug returns the published story with the given slug, reading
// through the cache when one is configured.
func (e *Engine) LoadBySlug(ctx context.Context, slug string) (*model.Document, error) {
	if e.cache != nil {
		doc, ok, err := e.cache.Get(ctx, slug)
		switch {
		case err != nil:
			cacheResultsTotal.WithLabelValues("error").Inc()
			e.log.Warn().Err(err).Str("slug", slug).Msg("published cache read failed")
		case ok:
			cacheResultsTotal.WithLabelValues("hit").Inc()
			return doc, nil
		default:
			cacheResultsTotal.WithLabelValues("miss").Inc()
		}
	}

	row, err := e.store.Stories().GetBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		loadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCouldNotLoad, err)
	}
	doc, partial, err := e.reconstruct(ctx, row)
	if err != nil {
		loadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCouldNotLoad, err)
	}
	// Partial documents are served but not cached.
	if e.cache != nil && !partial {
		if err := e.cache.Set(ctx, slug, doc); err != nil {
			e.log.Warn().Err(err).Str("slug", slug).Msg("published cache write failed")
		}
	}
	return doc, nil
}

func (e *Engine) loadFailed(projectID string, err error) (*model.Document, error) {
	loadsTotal.WithLabelValues("error").Inc()
	e.log.Error().Stack().Err(err).Str("project_id", projectID).Msg("could not load story")
	return model.NewDocument(projectID), fmt.Errorf("%w: %v", ErrCouldNotLoad, err)
}

// reconstruct builds the document for a story row. partial reports whether
// any child fetch failed.
func (e *Engine) reconstruct(ctx context.Context, row *store.StoryRow) (doc *model.Document, partial bool, err error) {
	doc = documentFromRow(row)

	rows, err := e.store.Sections().List(ctx, row.ID)
	if err != nil {
		return nil, false, fmt.Errorf("list sections: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		p, err := fromRow(r)
		if err != nil {
			e.log.Warn().Err(err).Str("story_id", row.ID).Str("section_id", r.ID).Msg("skipping section with unknown kind")
			continue
		}
		doc.Sections = append(doc.Sections, model.Section{ID: r.ID, Data: p})
		ids = append(ids, r.ID)
	}
	doc.Reindex()

	failed := make([]bool, len(doc.Sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.loadConcurrency)
	for i := range doc.Sections {
		i := i
		switch doc.Sections[i].Kind() {
		case model.KindGallery:
			g.Go(func() error {
				imgs, err := e.store.GalleryImages().List(gctx, ids[i])
				if err != nil {
					failed[i] = true
					e.childFailed(row.ID, ids[i], model.KindGallery, err)
					return nil
				}
				p := doc.Sections[i].Data.(model.GalleryPayload)
				for _, img := range imgs {
					p.Images = append(p.Images, galleryImageFromRow(img))
				}
				doc.Sections[i].Data = p
				return nil
			})
		case model.KindTimeline:
			g.Go(func() error {
				evs, err := e.store.TimelineEvents().List(gctx, ids[i])
				if err != nil {
					failed[i] = true
					e.childFailed(row.ID, ids[i], model.KindTimeline, err)
					return nil
				}
				p := doc.Sections[i].Data.(model.TimelinePayload)
				for _, ev := range evs {
					p.Events = append(p.Events, timelineEventFromRow(ev))
				}
				doc.Sections[i].Data = p
				return nil
			})
		}
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	for _, f := range failed {
		partial = partial || f
	}
	if partial {
		loadsTotal.WithLabelValues("partial").Inc()
	} else {
		loadsTotal.WithLabelValues("ok").Inc()
	}
	return doc, partial, nil
}

func (e *Engine) childFailed(storyID, sectionID string, kind model.Kind, err error) {
	childFetchFailuresTotal.WithLabelValues(string(kind)).Inc()
	e.log.Warn().Err(err).
		Str("story_id", storyID).
		Str("section_id", sectionID).
		Str("kind", string(kind)).
		Msg("child fetch failed; section loads empty")
}
