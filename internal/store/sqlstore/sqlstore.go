// Package sqlstore implements store.Store over database/sql. The postgres and
// sqlite driver packages open the connection, run their migrations and pick
// the placeholder style; the queries are shared.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
)

// Placeholder selects how bind parameters are written.
type Placeholder int

const (
	// Question keeps "?" placeholders (sqlite).
	Question Placeholder = iota
	// Dollar rewrites placeholders to "$1", "$2", ... (postgres).
	Dollar
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the shared store.Store implementation.
type Store struct {
	db *sql.DB
	q  querier
	ph Placeholder

	now func() time.Time
}

// New returns a Store backed by db.
func New(db *sql.DB, ph Placeholder) *Store {
	return &Store{db: db, q: db, ph: ph, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Stories() store.Stories               { return &stories{s} }
func (s *Store) Sections() store.Sections             { return &sections{s} }
func (s *Store) GalleryImages() store.GalleryImages   { return &galleryImages{s} }
func (s *Store) TimelineEvents() store.TimelineEvents { return &timelineEvents{s} }

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// HealthPing pings the database.
func (s *Store) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// WithinTx runs fn inside one transaction. Nested calls reuse the outer
// transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	txStore := &Store{db: s.db, q: tx, ph: s.ph, now: s.now}
	if err := fn(txStore); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) bind(query string) string {
	if s.ph != Dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.q.ExecContext(ctx, s.bind(query), args...)
	return err
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.bind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.bind(query), args...)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// ---------------- Stories ----------------

type stories struct{ s *Store }

const storyColumns = `id, project_id, slug, title, subtitle, hero_media_url, hero_media_kind, created_at, updated_at`

func scanStory(row interface{ Scan(...any) error }) (*store.StoryRow, error) {
	var out store.StoryRow
	if err := row.Scan(&out.ID, &out.ProjectID, &out.Slug, &out.Title, &out.Subtitle,
		&out.HeroMediaURL, &out.HeroMediaKind, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (st *stories) GetByID(ctx context.Context, id string) (*store.StoryRow, error) {
	return scanStory(st.s.queryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id=?`, id))
}

func (st *stories) GetByProject(ctx context.Context, projectID string) (*store.StoryRow, error) {
	return scanStory(st.s.queryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE project_id=?`, projectID))
}

func (st *stories) GetBySlug(ctx context.Context, slug string) (*store.StoryRow, error) {
	return scanStory(st.s.queryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE slug=?`, slug))
}

func (st *stories) Create(ctx context.Context, f store.StoryFields) (*store.StoryRow, error) {
	now := st.s.now()
	out := &store.StoryRow{ID: uuid.New().String(), StoryFields: f, CreatedAt: now, UpdatedAt: now}
	err := st.s.exec(ctx, `
        INSERT INTO stories (`+storyColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, out.ID, f.ProjectID, f.Slug, f.Title, f.Subtitle, f.HeroMediaURL, f.HeroMediaKind, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert story: %w", err)
	}
	return out, nil
}

func (st *stories) Update(ctx context.Context, id string, f store.StoryFields) error {
	res, err := st.s.q.ExecContext(ctx, st.s.bind(`
        UPDATE stories SET title=?, subtitle=?, hero_media_url=?, hero_media_kind=?, updated_at=?
        WHERE id=?
    `), f.Title, f.Subtitle, f.HeroMediaURL, f.HeroMediaKind, st.s.now(), id)
	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------------- Sections ----------------

type sections struct{ s *Store }

func (sc *sections) List(ctx context.Context, storyID string) ([]store.SectionRow, error) {
	rows, err := sc.s.query(ctx, `
        SELECT id, story_id, section_order, section_type, title, content, media_url, media_kind,
               media_position, media_caption, media_alt, quote_author, quote_role
        FROM story_sections WHERE story_id=? ORDER BY section_order ASC
    `, storyID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []store.SectionRow{}
	for rows.Next() {
		var r store.SectionRow
		if err := rows.Scan(&r.ID, &r.StoryID, &r.SectionOrder, &r.Kind, &r.Title, &r.Content,
			&r.MediaURL, &r.MediaKind, &r.MediaPosition, &r.Caption, &r.AltText,
			&r.QuoteAuthor, &r.QuoteRole); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (sc *sections) DeleteAll(ctx context.Context, storyID string) error {
	const owned = `SELECT id FROM story_sections WHERE story_id=?`
	if err := sc.s.exec(ctx, `DELETE FROM story_gallery_images WHERE section_id IN (`+owned+`)`, storyID); err != nil {
		return fmt.Errorf("delete gallery images: %w", err)
	}
	if err := sc.s.exec(ctx, `DELETE FROM story_timeline_events WHERE section_id IN (`+owned+`)`, storyID); err != nil {
		return fmt.Errorf("delete timeline events: %w", err)
	}
	if err := sc.s.exec(ctx, `DELETE FROM story_sections WHERE story_id=?`, storyID); err != nil {
		return fmt.Errorf("delete sections: %w", err)
	}
	return nil
}

func (sc *sections) Insert(ctx context.Context, r store.SectionRow) (store.SectionRow, error) {
	r.ID = uuid.New().String()
	err := sc.s.exec(ctx, `
        INSERT INTO story_sections (id, story_id, section_order, section_type, title, content, media_url,
                                    media_kind, media_position, media_caption, media_alt, quote_author, quote_role)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, r.ID, r.StoryID, r.SectionOrder, r.Kind, r.Title, r.Content, r.MediaURL, r.MediaKind,
		r.MediaPosition, r.Caption, r.AltText, r.QuoteAuthor, r.QuoteRole)
	if err != nil {
		return store.SectionRow{}, fmt.Errorf("insert section: %w", err)
	}
	return r, nil
}

// ---------------- Gallery images ----------------

type galleryImages struct{ s *Store }

func (g *galleryImages) List(ctx context.Context, sectionID string) ([]store.GalleryImageRow, error) {
	rows, err := g.s.query(ctx, `
        SELECT id, section_id, image_order, image_url, alt_text, caption
        FROM story_gallery_images WHERE section_id=? ORDER BY image_order ASC
    `, sectionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []store.GalleryImageRow{}
	for rows.Next() {
		var r store.GalleryImageRow
		if err := rows.Scan(&r.ID, &r.SectionID, &r.ImageOrder, &r.URL, &r.AltText, &r.Caption); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (g *galleryImages) Insert(ctx context.Context, r store.GalleryImageRow) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	err := g.s.exec(ctx, `
        INSERT INTO story_gallery_images (id, section_id, image_order, image_url, alt_text, caption)
        VALUES (?, ?, ?, ?, ?, ?)
    `, r.ID, r.SectionID, r.ImageOrder, r.URL, r.AltText, r.Caption)
	if err != nil {
		return fmt.Errorf("insert gallery image: %w", err)
	}
	return nil
}

// ---------------- Timeline events ----------------

type timelineEvents struct{ s *Store }

func (te *timelineEvents) List(ctx context.Context, sectionID string) ([]store.TimelineEventRow, error) {
	rows, err := te.s.query(ctx, `
        SELECT id, section_id, event_order, event_date, title, description, is_complete
        FROM story_timeline_events WHERE section_id=? ORDER BY event_order ASC
    `, sectionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []store.TimelineEventRow{}
	for rows.Next() {
		var r store.TimelineEventRow
		if err := rows.Scan(&r.ID, &r.SectionID, &r.EventOrder, &r.Date, &r.Title, &r.Description, &r.IsComplete); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (te *timelineEvents) Insert(ctx context.Context, r store.TimelineEventRow) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	err := te.s.exec(ctx, `
        INSERT INTO story_timeline_events (id, section_id, event_order, event_date, title, description, is_complete)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, r.ID, r.SectionID, r.EventOrder, r.Date, r.Title, r.Description, r.IsComplete)
	if err != nil {
		return fmt.Errorf("insert timeline event: %w", err)
	}
	return nil
}
