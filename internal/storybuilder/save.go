package storybuilder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
)

// Save makes persisted state match doc exactly. It resolves or creates the
// story row, deletes every existing section with its children and inserts
// the current sections in array order, all inside one transaction.
//
// doc is not modified. The returned document is the saved state: sections
// carry their new ids and orders, draft ids are cleared, and gallery entries
// without a url are gone. Any failure is a *SaveError and nothing is
// committed.
func (e *Engine) Save(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc == nil || doc.ProjectID == "" {
		return nil, e.saveFailed(doc, NewValidationError("projectId", "is required"))
	}
	out := doc.Clone()

	err := e.store.WithinTx(ctx, func(tx store.Store) error {
		existing, err := resolveStory(ctx, tx, out)
		if err != nil {
			return err
		}
		storyID, err := upsertStory(ctx, tx, existing, out)
		if err != nil {
			return err
		}

		if err := tx.Sections().DeleteAll(ctx, storyID); err != nil {
			return err
		}
		for i := range out.Sections {
			if err := insertSection(ctx, tx, storyID, i, &out.Sections[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, e.saveFailed(doc, err)
	}

	savesTotal.WithLabelValues("ok").Inc()
	e.log.Info().Str("story_id", out.ID).Str("project_id", out.ProjectID).Int("sections", len(out.Sections)).Msg("story saved")
	e.invalidate(ctx, out.Slug)
	return out, nil
}

// resolveStory finds the story row for doc: by id when the document has
// one, otherwise by project. It returns nil when the story is new.
func resolveStory(ctx context.Context, tx store.Store, doc *model.Document) (*store.StoryRow, error) {
	if doc.ID != "" {
		row, err := tx.Stories().GetByID(ctx, doc.ID)
		switch {
		case err == nil:
			if row.ProjectID != doc.ProjectID {
				return nil, NewValidationError("id", "story belongs to a different project")
			}
			return row, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("get story: %w", err)
		}
	}
	row, err := tx.Stories().GetByProject(ctx, doc.ProjectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get story by project: %w", err)
	}
	return row, nil
}

func upsertStory(ctx context.Context, tx store.Store, existing *store.StoryRow, doc *model.Document) (string, error) {
	if doc.Hero != nil && doc.Hero.URL != "" {
		doc.Hero.Kind = mediaKindOrImage(doc.Hero.Kind)
	}
	if existing != nil {
		doc.ID, doc.Slug = existing.ID, existing.Slug
		f := storyFields(doc)
		if err := tx.Stories().Update(ctx, existing.ID, f); err != nil {
			return "", fmt.Errorf("update story: %w", err)
		}
		return existing.ID, nil
	}
	doc.Slug = newSlug(doc.Title)
	created, err := tx.Stories().Create(ctx, storyFields(doc))
	if err != nil {
		return "", fmt.Errorf("create story: %w", err)
	}
	doc.ID = created.ID
	return created.ID, nil
}

// insertSection writes s at position order and updates s with the saved
// identity and children.
func insertSection(ctx context.Context, tx store.Store, storyID string, order int, s *model.Section) error {
	row, err := toRow(storyID, order, s.Data)
	if err != nil {
		return err
	}
	inserted, err := tx.Sections().Insert(ctx, row)
	if err != nil {
		return fmt.Errorf("section %d: %w", order, err)
	}
	s.ID, s.DraftID, s.Order = inserted.ID, "", order

	switch p := s.Data.(type) {
	case model.SideBySidePayload:
		p.Media.Kind = mediaKindOrImage(p.Media.Kind)
		p.MediaPosition = positionOrRight(p.MediaPosition)
		s.Data = p
	case model.GalleryPayload:
		kept := make([]model.GalleryImage, 0, len(p.Images))
		for _, img := range p.Images {
			if img.URL == "" {
				continue
			}
			err := tx.GalleryImages().Insert(ctx, store.GalleryImageRow{
				SectionID:  inserted.ID,
				ImageOrder: len(kept),
				URL:        img.URL,
				AltText:    ptr(img.AltText),
				Caption:    ptr(img.Caption),
			})
			if err != nil {
				return fmt.Errorf("section %d image %d: %w", order, len(kept), err)
			}
			kept = append(kept, img)
		}
		p.Images = kept
		s.Data = p
	case model.TimelinePayload:
		for i, ev := range p.Events {
			err := tx.TimelineEvents().Insert(ctx, store.TimelineEventRow{
				SectionID:   inserted.ID,
				EventOrder:  i,
				Date:        ev.Date,
				Title:       ev.Title,
				Description: ptr(ev.Description),
				IsComplete:  ev.IsComplete,
			})
			if err != nil {
				return fmt.Errorf("section %d event %d: %w", order, i, err)
			}
		}
	}
	return nil
}

func (e *Engine) saveFailed(doc *model.Document, err error) error {
	savesTotal.WithLabelValues("error").Inc()
	ev := e.log.Error().Stack().Err(err)
	if doc != nil {
		ev = ev.Str("project_id", doc.ProjectID)
	}
	ev.Msg("failed to save story")
	return &SaveError{Err: err}
}

func (e *Engine) invalidate(ctx context.Context, key string) {
	if e.cache == nil || key == "" {
		return
	}
	if err := e.cache.Delete(ctx, key); err != nil {
		e.log.Warn().Err(err).Str("slug", key).Msg("published cache invalidation failed")
	}
}

// newSlug is the title slug plus a short random suffix.
func newSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "story"
	}
	return base + "-" + uuid.NewString()[:8]
}
