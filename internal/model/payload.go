package model

import "encoding/json"

// Payload is the kind-specific content of a Section. The set of
// implementations is closed: only the eight payload types in this package
// satisfy it.
type Payload interface {
	Kind() Kind
	clone() Payload
}

type TextPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type QuotePayload struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role"`
}

type SideBySidePayload struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Media         Media         `json:"media"`
	MediaPosition MediaPosition `json:"mediaPosition"`
}

type VideoPayload struct {
	Title    string `json:"title"`
	VideoURL string `json:"videoUrl"`
	Caption  string `json:"caption"`
}

type FullBleedImagePayload struct {
	ImageURL string `json:"imageUrl"`
	AltText  string `json:"altText"`
	Caption  string `json:"caption"`
}

type GalleryPayload struct {
	Title  string         `json:"title"`
	Images []GalleryImage `json:"images"`
}

// GalleryImage is one gallery entry. An entry with an empty URL has not been
// given a file yet and is dropped when the story is saved.
type GalleryImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Caption string `json:"caption"`
}

type TimelinePayload struct {
	Title  string          `json:"title"`
	Events []TimelineEvent `json:"events"`
}

// TimelineEvent is one timeline entry. Date is a free-text label.
type TimelineEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsComplete  bool   `json:"isComplete"`
}

// NewTimelineEvent returns the placeholder event the editor appends.
func NewTimelineEvent() TimelineEvent { return TimelineEvent{IsComplete: true} }

// UnmarshalJSON defaults IsComplete to true when the field is absent.
func (e *TimelineEvent) UnmarshalJSON(b []byte) error {
	type alias TimelineEvent
	out := alias(NewTimelineEvent())
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*e = TimelineEvent(out)
	return nil
}

type ParallaxPayload struct {
	ImageURL string `json:"imageUrl"`
	MainText string `json:"mainText"`
	Subtitle string `json:"subtitle"`
}

func (TextPayload) Kind() Kind           { return KindText }
func (QuotePayload) Kind() Kind          { return KindQuote }
func (SideBySidePayload) Kind() Kind     { return KindSideBySide }
func (VideoPayload) Kind() Kind          { return KindVideo }
func (FullBleedImagePayload) Kind() Kind { return KindFullBleedImage }
func (GalleryPayload) Kind() Kind        { return KindGallery }
func (TimelinePayload) Kind() Kind       { return KindTimeline }
func (ParallaxPayload) Kind() Kind       { return KindParallax }

func (p TextPayload) clone() Payload           { return p }
func (p QuotePayload) clone() Payload          { return p }
func (p SideBySidePayload) clone() Payload     { return p }
func (p VideoPayload) clone() Payload          { return p }
func (p FullBleedImagePayload) clone() Payload { return p }
func (p ParallaxPayload) clone() Payload       { return p }

func (p GalleryPayload) clone() Payload {
	p.Images = append([]GalleryImage{}, p.Images...)
	return p
}

func (p TimelinePayload) clone() Payload {
	p.Events = append([]TimelineEvent{}, p.Events...)
	return p
}

// DefaultPayload returns the empty payload for kind: every field present
// with a neutral value and sub-lists empty but non-nil.
func DefaultPayload(kind Kind) (Payload, error) {
	switch kind {
	case KindText:
		return TextPayload{}, nil
	case KindQuote:
		return QuotePayload{}, nil
	case KindSideBySide:
		return SideBySidePayload{
			Media:         Media{Kind: MediaImage},
			MediaPosition: PositionRight,
		}, nil
	case KindVideo:
		return VideoPayload{}, nil
	case KindFullBleedImage:
		return FullBleedImagePayload{}, nil
	case KindGallery:
		return GalleryPayload{Images: []GalleryImage{}}, nil
	case KindTimeline:
		return TimelinePayload{Events: []TimelineEvent{}}, nil
	case KindParallax:
		return ParallaxPayload{}, nil
	}
	_, err := ParseKind(string(kind))
	return nil, err
}

// ClonePayload deep-copies p.
func ClonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	return p.clone()
}
