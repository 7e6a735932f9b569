package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("store: not found")

// Store exposes the persistence operations the story builder needs.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Stories() Stories
	Sections() Sections
	GalleryImages() GalleryImages
	TimelineEvents() TimelineEvents

	// WithinTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type Stories interface {
	GetByID(ctx context.Context, id string) (*StoryRow, error)
	GetByProject(ctx context.Context, projectID string) (*StoryRow, error)
	GetBySlug(ctx context.Context, slug string) (*StoryRow, error)
	Create(ctx context.Context, f StoryFields) (*StoryRow, error)
	Update(ctx context.Context, id string, f StoryFields) error
}

type Sections interface {
	// List returns the story's sections ordered by SectionOrder ascending.
	List(ctx context.Context, storyID string) ([]SectionRow, error)
	// DeleteAll removes the story's sections together with their gallery
	// images and timeline events. Children are deleted explicitly; the
	// schema does not cascade.
	DeleteAll(ctx context.Context, storyID string) error
	// Insert stores row and returns it with its assigned ID.
	Insert(ctx context.Context, row SectionRow) (SectionRow, error)
}

type GalleryImages interface {
	List(ctx context.Context, sectionID string) ([]GalleryImageRow, error)
	Insert(ctx context.Context, row GalleryImageRow) error
}

type TimelineEvents interface {
	List(ctx context.Context, sectionID string) ([]TimelineEventRow, error)
	Insert(ctx context.Context, row TimelineEventRow) error
}

// StoryFields are the scalar attributes written by create and update.
// Slug is only written on create.
type StoryFields struct {
	ProjectID     string
	Slug          string
	Title         string
	Subtitle      string
	HeroMediaURL  *string
	HeroMediaKind *string
}

// StoryRow is a persisted story.
type StoryRow struct {
	ID string
	StoryFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SectionRow is the wide row shared by every section kind. Every column
// besides ID, StoryID, SectionOrder and Kind is nullable; which ones are set
// depends on Kind.
type SectionRow struct {
	ID            string
	StoryID       string
	SectionOrder  int
	Kind          string
	Title         *string
	Content       *string
	MediaURL      *string
	MediaKind     *string
	MediaPosition *string
	Caption       *string
	AltText       *string
	QuoteAuthor   *string
	QuoteRole     *string
}

type GalleryImageRow struct {
	ID         string
	SectionID  string
	ImageOrder int
	URL        string
	AltText    *string
	Caption    *string
}

type TimelineEventRow struct {
	ID          string
	SectionID   string
	EventOrder  int
	Date        string
	Title       string
	Description *string
	IsComplete  bool
}
