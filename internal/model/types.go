package model

import (
	"fmt"

	"github.com/lithammer/shortuuid/v4"
)

// Kind selects the payload shape of a Section.
type Kind string

const (
	KindText           Kind = "text"
	KindQuote          Kind = "quote"
	KindSideBySide     Kind = "side_by_side"
	KindVideo          Kind = "video"
	KindFullBleedImage Kind = "full_bleed_image"
	KindGallery        Kind = "gallery"
	KindTimeline       Kind = "timeline"
	KindParallax       Kind = "parallax"
)

// Kinds lists every section kind in the order the editor offers them.
var Kinds = []Kind{
	KindText,
	KindQuote,
	KindSideBySide,
	KindVideo,
	KindFullBleedImage,
	KindGallery,
	KindTimeline,
	KindParallax,
}

// Valid reports whether k belongs to the closed set of section kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown section kind %q", s)
	}
	return k, nil
}

// MediaKind distinguishes images from videos.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool { return k == MediaImage || k == MediaVideo }

// MediaPosition places side-by-side media relative to the text.
type MediaPosition string

const (
	PositionLeft  MediaPosition = "left"
	PositionRight MediaPosition = "right"
)

func (p MediaPosition) Valid() bool { return p == PositionLeft || p == PositionRight }

// Media is an opaque url+kind pair produced by the upload collaborator.
type Media struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// Document is the in-memory model of one story: scalar attributes plus the
// ordered section list. An empty ID means the story has never been saved.
type Document struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"projectId"`
	Slug      string    `json:"slug,omitempty"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Hero      *Media    `json:"heroMedia,omitempty"`
	Sections  []Section `json:"sections"`
}

// NewDocument returns an empty, unsaved document for a project.
func NewDocument(projectID string) *Document {
	return &Document{ProjectID: projectID, Sections: []Section{}}
}

// IsNew reports whether the document has no persisted story row yet.
func (d *Document) IsNew() bool { return d.ID == "" }

// Section is one ordered unit of a story.
//
// ID is set only for sections loaded from storage. Sections created in the
// editor carry a DraftID instead; the draft id is never written to storage.
type Section struct {
	ID      string  `json:"id,omitempty"`
	DraftID string  `json:"draftId,omitempty"`
	Order   int     `json:"order"`
	Data    Payload `json:"data"`
}

// Kind is derived from the payload.
func (s Section) Kind() Kind {
	if s.Data == nil {
		return ""
	}
	return s.Data.Kind()
}

// Ref is the identifier callers use to address the section: the persisted
// id when there is one, the draft id otherwise.
func (s Section) Ref() string {
	if s.ID != "" {
		return s.ID
	}
	return s.DraftID
}

// Persisted reports whether the section came from storage.
func (s Section) Persisted() bool { return s.ID != "" }

func newDraftID() string { return "draft-" + shortuuid.New() }
