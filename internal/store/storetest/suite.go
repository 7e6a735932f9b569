package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	projectID := "p-" + uuid.New().String()
	slugName := "story-" + uuid.New().String()[:8]
	heroURL, heroKind := "https://cdn.test/hero.jpg", "image"

	// Stories
	if _, err := s.Stories().GetByProject(ctx, projectID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetByProject on empty store: want ErrNotFound, got %v", err)
	}
	st, err := s.Stories().Create(ctx, store.StoryFields{
		ProjectID: projectID, Slug: slugName, Title: "Title", Subtitle: "Sub",
		HeroMediaURL: &heroURL, HeroMediaKind: &heroKind,
	})
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	if st.ID == "" {
		t.Fatalf("CreateStory: empty story id")
	}
	if got, err := s.Stories().GetByID(ctx, st.ID); err != nil || got.ProjectID != projectID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := s.Stories().GetBySlug(ctx, slugName); err != nil || got.ID != st.ID {
		t.Fatalf("GetBySlug: got=%v err=%v", got, err)
	}
	got, err := s.Stories().GetByProject(ctx, projectID)
	if err != nil || got.ID != st.ID || got.Title != "Title" || got.HeroMediaURL == nil || *got.HeroMediaURL != heroURL {
		t.Fatalf("GetByProject: got=%+v err=%v", got, err)
	}
	if err := s.Stories().Update(ctx, st.ID, store.StoryFields{Title: "New", Subtitle: "S2"}); err != nil {
		t.Fatalf("UpdateStory: %v", err)
	}
	got, err = s.Stories().GetByID(ctx, st.ID)
	if err != nil || got.Title != "New" || got.HeroMediaURL != nil || got.Slug != slugName {
		t.Fatalf("GetByID after update: got=%+v err=%v", got, err)
	}
	if err := s.Stories().Update(ctx, "missing", store.StoryFields{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Update missing: want ErrNotFound, got %v", err)
	}

	// Sections come back ordered by SectionOrder regardless of insert order.
	text, author := "hello", "Aunty"
	second, err := s.Sections().Insert(ctx, store.SectionRow{StoryID: st.ID, SectionOrder: 1, Kind: "gallery", Title: &text})
	if err != nil {
		t.Fatalf("InsertSection: %v", err)
	}
	first, err := s.Sections().Insert(ctx, store.SectionRow{StoryID: st.ID, SectionOrder: 0, Kind: "quote", Content: &text, QuoteAuthor: &author})
	if err != nil {
		t.Fatalf("InsertSection: %v", err)
	}
	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("InsertSection ids: %q %q", first.ID, second.ID)
	}
	rows, err := s.Sections().List(ctx, st.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListSections: n=%d err=%v", len(rows), err)
	}
	if rows[0].ID != first.ID || rows[1].ID != second.ID {
		t.Fatalf("ListSections order: %v", rows)
	}
	if rows[0].QuoteAuthor == nil || *rows[0].QuoteAuthor != author || rows[0].Title != nil {
		t.Fatalf("ListSections nullable columns: %+v", rows[0])
	}

	// Children
	alt := "alt"
	for i, url := range []string{"b.jpg", "a.jpg"} {
		if err := s.GalleryImages().Insert(ctx, store.GalleryImageRow{SectionID: second.ID, ImageOrder: 1 - i, URL: url, AltText: &alt}); err != nil {
			t.Fatalf("InsertGalleryImage: %v", err)
		}
	}
	imgs, err := s.GalleryImages().List(ctx, second.ID)
	if err != nil || len(imgs) != 2 || imgs[0].URL != "a.jpg" || imgs[0].Caption != nil {
		t.Fatalf("ListGalleryImages: %+v err=%v", imgs, err)
	}
	if err := s.TimelineEvents().Insert(ctx, store.TimelineEventRow{SectionID: second.ID, EventOrder: 0, Date: "2019", Title: "Opened", IsComplete: false}); err != nil {
		t.Fatalf("InsertTimelineEvent: %v", err)
	}
	evs, err := s.TimelineEvents().List(ctx, second.ID)
	if err != nil || len(evs) != 1 || evs[0].IsComplete || evs[0].Date != "2019" {
		t.Fatalf("ListTimelineEvents: %+v err=%v", evs, err)
	}

	// WithinTx rolls back on error.
	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.Sections().DeleteAll(ctx, st.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx: want boom, got %v", err)
	}
	if rows, err := s.Sections().List(ctx, st.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListSections after rollback: n=%d err=%v", len(rows), err)
	}

	// DeleteAll removes sections together with their children.
	err = s.WithinTx(ctx, func(tx store.Store) error {
		return tx.Sections().DeleteAll(ctx, st.ID)
	})
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if rows, err := s.Sections().List(ctx, st.ID); err != nil || len(rows) != 0 {
		t.Fatalf("ListSections after DeleteAll: n=%d err=%v", len(rows), err)
	}
	if imgs, err := s.GalleryImages().List(ctx, second.ID); err != nil || len(imgs) != 0 {
		t.Fatalf("ListGalleryImages after DeleteAll: n=%d err=%v", len(imgs), err)
	}
	if evs, err := s.TimelineEvents().List(ctx, second.ID); err != nil || len(evs) != 0 {
		t.Fatalf("ListTimelineEvents after DeleteAll: n=%d err=%v", len(evs), err)
	}
}
