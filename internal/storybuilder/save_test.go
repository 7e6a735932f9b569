package storybuilder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
)

func TestSave_CreatesStoryAndAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	doc := everyKindDocument("p1")
	before := doc.Clone()

	saved, err := e.Save(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t, before, doc, "Save must not modify its input")
	assert.NotEmpty(t, saved.ID)
	assert.True(t, strings.HasPrefix(saved.Slug, "our-stories-our-camera-"), saved.Slug)
	for i, sec := range saved.Sections {
		assert.NotEmpty(t, sec.ID)
		assert.Empty(t, sec.DraftID)
		assert.Equal(t, i, sec.Order)
	}

	row, err := s.Stories().GetByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, row.ID)
	assert.Equal(t, "Palm Island media", row.Subtitle)
	require.NotNil(t, row.HeroMediaKind)
	assert.Equal(t, "video", *row.HeroMediaKind)
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	saved, err := e.Save(ctx, everyKindDocument("p1"))
	require.NoError(t, err)
	first := snapshot(t, s, saved.ID)

	loaded, err := e.Load(ctx, "p1")
	require.NoError(t, err)
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("loaded document differs from saved (-saved +loaded):\n%s", diff)
	}

	_, err = e.Save(ctx, loaded)
	require.NoError(t, err)
	if diff := cmp.Diff(first, snapshot(t, s, saved.ID)); diff != "" {
		t.Fatalf("rows changed on re-save (-first +second):\n%s", diff)
	}
}

func TestSave_FullReplaceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)
	doc := everyKindDocument("p1")

	saved, err := e.Save(ctx, doc)
	require.NoError(t, err)
	once := snapshot(t, s, saved.ID)

	_, err = e.Save(ctx, doc)
	require.NoError(t, err)
	twice := snapshot(t, s, saved.ID)

	assert.Len(t, twice.Sections, len(once.Sections))
	assert.Equal(t, len(once.Images[5]), len(twice.Images[5]))
	assert.Equal(t, len(once.Events[6]), len(twice.Events[6]))
}

func TestSave_RemovedSectionsDoNotSurvive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	saved, err := e.Save(ctx, everyKindDocument("p1"))
	require.NoError(t, err)

	saved.RemoveSection(saved.Sections[5].Ref()) // gallery
	saved.MoveSection(0, model.Down)
	_, err = e.Save(ctx, saved)
	require.NoError(t, err)

	snap := snapshot(t, s, saved.ID)
	require.Len(t, snap.Sections, 7)
	assert.Equal(t, "quote", snap.Sections[0].Kind)
	assert.Equal(t, "text", snap.Sections[1].Kind)
	assert.Empty(t, snap.Images)
	for i, r := range snap.Sections {
		assert.Equal(t, i, r.SectionOrder)
	}
}

func TestSave_GalleryDropsEmptyURLs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	doc := model.NewDocument("p1")
	sec, _ := doc.AppendSection(model.KindGallery)
	require.NoError(t, doc.ReplacePayload(sec.Ref(), model.GalleryPayload{Images: []model.GalleryImage{
		{URL: "a"}, {URL: ""}, {URL: "b"},
	}}))

	saved, err := e.Save(ctx, doc)
	require.NoError(t, err)

	imgs := snapshot(t, s, saved.ID).Images[0]
	require.Len(t, imgs, 2)
	assert.Equal(t, "a", imgs[0].URL)
	assert.Equal(t, 0, imgs[0].ImageOrder)
	assert.Equal(t, "b", imgs[1].URL)
	assert.Equal(t, 1, imgs[1].ImageOrder)
	assert.Len(t, saved.Sections[0].Data.(model.GalleryPayload).Images, 2)
}

func TestSave_TimelineKeepsPlaceholderEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	doc := model.NewDocument("p1")
	sec, _ := doc.AppendSection(model.KindTimeline)
	require.NoError(t, doc.ReplacePayload(sec.Ref(), model.TimelinePayload{Events: []model.TimelineEvent{model.NewTimelineEvent()}}))

	saved, err := e.Save(ctx, doc)
	require.NoError(t, err)

	evs := snapshot(t, s, saved.ID).Events[0]
	require.Len(t, evs, 1)
	assert.True(t, evs[0].IsComplete)
	assert.Equal(t, "", evs[0].Title)
}

func TestSave_KindFieldIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	doc := model.NewDocument("p1")
	sec, _ := doc.AppendSection(model.KindQuote)
	require.NoError(t, doc.ReplacePayload(sec.Ref(), model.QuotePayload{Quote: "Hi", Author: "A", Role: "R"}))

	saved, err := e.Save(ctx, doc)
	require.NoError(t, err)

	rows := snapshot(t, s, saved.ID).Sections
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "quote", r.Kind)
	assert.Equal(t, "Hi", *r.Content)
	assert.Equal(t, "A", *r.QuoteAuthor)
	assert.Equal(t, "R", *r.QuoteRole)
	assert.Nil(t, r.Title)
	assert.Nil(t, r.MediaURL)
	assert.Nil(t, r.MediaKind)
	assert.Nil(t, r.MediaPosition)
	assert.Nil(t, r.Caption)
	assert.Nil(t, r.AltText)
}

func TestSave_TextAndGalleryScenario(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, newTestStore(t))

	doc := model.NewDocument("p1")
	text, _ := doc.AppendSection(model.KindText)
	gallery, _ := doc.AppendSection(model.KindGallery)
	require.NoError(t, doc.ReplacePayload(text.Ref(), model.TextPayload{Title: "T", Content: "C"}))
	require.NoError(t, doc.ReplacePayload(gallery.Ref(), model.GalleryPayload{Images: []model.GalleryImage{
		{URL: "https://cdn.test/1.jpg"}, {URL: "https://cdn.test/2.jpg"},
	}}))

	_, err := e.Save(ctx, doc)
	require.NoError(t, err)
	got, err := e.Load(ctx, "p1")
	require.NoError(t, err)

	require.Len(t, got.Sections, 2)
	assert.Equal(t, model.TextPayload{Title: "T", Content: "C"}, got.Sections[0].Data)
	imgs := got.Sections[1].Data.(model.GalleryPayload).Images
	require.Len(t, imgs, 2)
	assert.Equal(t, "https://cdn.test/1.jpg", imgs[0].URL)
	assert.Equal(t, "https://cdn.test/2.jpg", imgs[1].URL)
}

func TestSave_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	f := &faults{}
	e := newTestEngine(t, &faultyStore{Store: s, f: f})

	saved, err := e.Save(ctx, everyKindDocument("p1"))
	require.NoError(t, err)
	before := snapshot(t, s, saved.ID)

	changed := saved.Clone()
	changed.Title = "Changed"
	changed.RemoveSection(changed.Sections[0].Ref())
	f.failSectionInsert = 3

	out, err := e.Save(ctx, changed)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, IsSaveError(err))
	assert.True(t, errors.Is(err, errInjected))
	assert.True(t, strings.HasPrefix(err.Error(), "failed to save story: "), err.Error())

	if diff := cmp.Diff(before, snapshot(t, s, saved.ID)); diff != "" {
		t.Fatalf("failed save left partial writes (-before +after):\n%s", diff)
	}
	row, err := s.Stories().GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Our Stories, Our Camera", row.Title)
}

func TestSave_Validation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	_, err := e.Save(ctx, model.NewDocument(""))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, IsSaveError(err))

	_, err = e.Save(ctx, nil)
	assert.True(t, IsValidationError(err))

	saved, err := e.Save(ctx, model.NewDocument("p1"))
	require.NoError(t, err)
	foreign := model.NewDocument("p2")
	foreign.ID = saved.ID
	_, err = e.Save(ctx, foreign)
	assert.True(t, IsValidationError(err))
	_, err = s.Stories().GetByProject(ctx, "p2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSave_UpdateKeepsSlug(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, newTestStore(t))

	doc := model.NewDocument("p1")
	doc.Title = "First title"
	first, err := e.Save(ctx, doc)
	require.NoError(t, err)

	// A stale client without the id still resolves the project's story.
	doc.Title = "Second title"
	second, err := e.Save(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Slug, second.Slug)
	assert.Equal(t, "Second title", second.Title)
}

func TestNewSlug(t *testing.T) {
	assert.True(t, strings.HasPrefix(newSlug("Palm Island: Our Story"), "palm-island-our-story-"))
	assert.True(t, strings.HasPrefix(newSlug(""), "story-"))
	assert.NotEqual(t, newSlug("x"), newSlug("x"))
}

func TestSave_SideBySideEmptyDefaultsArePersisted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	doc := model.NewDocument("p1")
	doc.Sections = []model.Section{{DraftID: "draft-1", Data: model.SideBySidePayload{
		Title: "Country", Media: model.Media{URL: "m.jpg"},
	}}}

	saved, err := e.Save(ctx, doc)
	require.NoError(t, err)
	p := saved.Sections[0].Data.(model.SideBySidePayload)
	assert.Equal(t, model.PositionRight, p.MediaPosition)
	assert.Equal(t, model.MediaImage, p.Media.Kind)

	first := snapshot(t, s, saved.ID)
	require.NotNil(t, first.Sections[0].MediaPosition)
	assert.Equal(t, "right", *first.Sections[0].MediaPosition)

	loaded, err := e.Load(ctx, "p1")
	require.NoError(t, err)
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("loaded document differs from saved (-saved +loaded):\n%s", diff)
	}
	_, err = e.Save(ctx, loaded)
	require.NoError(t, err)
	if diff := cmp.Diff(first, snapshot(t, s, saved.ID)); diff != "" {
		t.Fatalf("rows changed on re-save (-first +second):\n%s", diff)
	}
}

func TestSave_HeroWithoutKindDefaultsToImage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	e := newTestEngine(t, s)

	doc := model.NewDocument("p1")
	doc.Hero = &model.Media{URL: "hero.jpg"}
	saved, err := e.Save(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, model.MediaImage, saved.Hero.Kind)
	assert.Empty(t, doc.Hero.Kind)

	row, err := s.Stories().GetByProject(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, row.HeroMediaKind)
	assert.Equal(t, "image", *row.HeroMediaKind)

	loaded, err := e.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved.Hero, loaded.Hero)
}
