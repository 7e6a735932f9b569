package storybuilder

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "stories.db"))
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.Migrate(context.Background(), db); err != nil {
		t.Fatalf("sqlite migrate: %v", err)
	}
	return sqlite.NewWithDB(db)
}

func newTestEngine(t *testing.T, s store.Store, opts ...Option) *Engine {
	t.Helper()
	return New(s, zerolog.Nop(), opts...)
}

var errInjected = errors.New("injected failure")

// faults configures faultyStore. Zero value injects nothing.
type faults struct {
	mu sync.Mutex

	failGetByProject bool
	failSectionList  bool
	// failSectionInsert fails the n-th section insert (1-based) of a save.
	failSectionInsert int
	// failChildList fails gallery/timeline List for these section ids.
	failChildList map[string]bool

	sectionInserts int
}

// faultyStore wraps a real store and injects failures per faults.
type faultyStore struct {
	store.Store
	f *faults
}

func (s *faultyStore) Stories() store.Stories { return &faultyStories{s.Store.Stories(), s.f} }
func (s *faultyStore) Sections() store.Sections {
	return &faultySections{s.Store.Sections(), s.f}
}
func (s *faultyStore) GalleryImages() store.GalleryImages {
	return &faultyGallery{s.Store.GalleryImages(), s.f}
}
func (s *faultyStore) TimelineEvents() store.TimelineEvents {
	return &faultyTimeline{s.Store.TimelineEvents(), s.f}
}

func (s *faultyStore) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	s.f.mu.Lock()
	s.f.sectionInserts = 0
	s.f.mu.Unlock()
	return s.Store.WithinTx(ctx, func(tx store.Store) error {
		return fn(&faultyStore{Store: tx, f: s.f})
	})
}

type faultyStories struct {
	store.Stories
	f *faults
}

func (s *faultyStories) GetByProject(ctx context.Context, projectID string) (*store.StoryRow, error) {
	if s.f.failGetByProject {
		return nil, errInjected
	}
	return s.Stories.GetByProject(ctx, projectID)
}

type faultySections struct {
	store.Sections
	f *faults
}

func (s *faultySections) List(ctx context.Context, storyID string) ([]store.SectionRow, error) {
	if s.f.failSectionList {
		return nil, errInjected
	}
	return s.Sections.List(ctx, storyID)
}

func (s *faultySections) Insert(ctx context.Context, row store.SectionRow) (store.SectionRow, error) {
	s.f.mu.Lock()
	s.f.sectionInserts++
	n := s.f.sectionInserts
	s.f.mu.Unlock()
	if s.f.failSectionInsert > 0 && n == s.f.failSectionInsert {
		return store.SectionRow{}, errInjected
	}
	return s.Sections.Insert(ctx, row)
}

type faultyGallery struct {
	store.GalleryImages
	f *faults
}

func (g *faultyGallery) List(ctx context.Context, sectionID string) ([]store.GalleryImageRow, error) {
	if g.f.failChildList[sectionID] {
		return nil, errInjected
	}
	return g.GalleryImages.List(ctx, sectionID)
}

type faultyTimeline struct {
	store.TimelineEvents
	f *faults
}

func (tl *faultyTimeline) List(ctx context.Context, sectionID string) ([]store.TimelineEventRow, error) {
	if tl.f.failChildList[sectionID] {
		return nil, errInjected
	}
	return tl.TimelineEvents.List(ctx, sectionID)
}

// persisted is a snapshot of every row stored for a story, without ids.
type persisted struct {
	Sections []store.SectionRow
	Images   map[int][]store.GalleryImageRow
	Events   map[int][]store.TimelineEventRow
}

func snapshot(t *testing.T, s store.Store, storyID string) persisted {
	t.Helper()
	ctx := context.Background()
	rows, err := s.Sections().List(ctx, storyID)
	if err != nil {
		t.Fatalf("list sections: %v", err)
	}
	out := persisted{Images: map[int][]store.GalleryImageRow{}, Events: map[int][]store.TimelineEventRow{}}
	for _, r := range rows {
		imgs, err := s.GalleryImages().List(ctx, r.ID)
		if err != nil {
			t.Fatalf("list images: %v", err)
		}
		for _, img := range imgs {
			img.ID, img.SectionID = "", ""
			out.Images[r.SectionOrder] = append(out.Images[r.SectionOrder], img)
		}
		evs, err := s.TimelineEvents().List(ctx, r.ID)
		if err != nil {
			t.Fatalf("list events: %v", err)
		}
		for _, ev := range evs {
			ev.ID, ev.SectionID = "", ""
			out.Events[r.SectionOrder] = append(out.Events[r.SectionOrder], ev)
		}
		r.ID = ""
		out.Sections = append(out.Sections, r)
	}
	return out
}

// everyKindDocument returns an unsaved document holding one populated
// section of each kind.
func everyKindDocument(projectID string) *model.Document {
	d := model.NewDocument(projectID)
	d.Title = "Our Stories, Our Camera"
	d.Subtitle = "Palm Island media"
	d.Hero = &model.Media{URL: "https://cdn.test/hero.mp4", Kind: model.MediaVideo}
	payloads := []model.Payload{
		model.TextPayload{Title: "T", Content: "C"},
		model.QuotePayload{Quote: "Hi", Author: "A", Role: "R"},
		model.SideBySidePayload{Title: "S", Content: "body", Media: model.Media{URL: "v.mp4", Kind: model.MediaVideo}, MediaPosition: model.PositionLeft},
		model.VideoPayload{Title: "V", VideoURL: "https://cdn.test/v.mp4", Caption: "cap"},
		model.FullBleedImagePayload{ImageURL: "fb.jpg", AltText: "alt", Caption: "cap"},
		model.GalleryPayload{Title: "G", Images: []model.GalleryImage{{URL: "a.jpg", AltText: "a"}, {URL: "b.jpg", Caption: "b"}}},
		model.TimelinePayload{Title: "TL", Events: []model.TimelineEvent{
			{Date: "2019", Title: "Opened", Description: "d", IsComplete: true},
			{Date: "Next year", Title: "Expand", IsComplete: false},
		}},
		model.ParallaxPayload{ImageURL: "p.jpg", MainText: "Main", Subtitle: "Sub"},
	}
	for _, p := range payloads {
		s, err := d.AppendSection(p.Kind())
		if err != nil {
			panic(err)
		}
		if err := d.ReplacePayload(s.Ref(), p); err != nil {
			panic(err)
		}
	}
	return d
}
