package editor

import (
	"fmt"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

var textEditor = fieldEditor[model.TextPayload]{
	kind: model.KindText,
	fields: []Field{
		{Name: "title", Label: "Section title", Type: FieldText},
		{Name: "content", Label: "Content", Type: FieldTextArea},
	},
	setters: map[string]func(*model.TextPayload, string) error{
		"title":   func(p *model.TextPayload, v string) error { return str(&p.Title)(v) },
		"content": func(p *model.TextPayload, v string) error { return str(&p.Content)(v) },
	},
}

var quoteEditor = fieldEditor[model.QuotePayload]{
	kind: model.KindQuote,
	fields: []Field{
		{Name: "quote", Label: "Quote", Type: FieldTextArea},
		{Name: "author", Label: "Author", Type: FieldText},
		{Name: "role", Label: "Role or community", Type: FieldText},
	},
	setters: map[string]func(*model.QuotePayload, string) error{
		"quote":  func(p *model.QuotePayload, v string) error { return str(&p.Quote)(v) },
		"author": func(p *model.QuotePayload, v string) error { return str(&p.Author)(v) },
		"role":   func(p *model.QuotePayload, v string) error { return str(&p.Role)(v) },
	},
}

var sideBySideEditor = fieldEditor[model.SideBySidePayload]{
	kind: model.KindSideBySide,
	fields: []Field{
		{Name: "title", Label: "Title", Type: FieldText},
		{Name: "content", Label: "Content", Type: FieldTextArea},
		{Name: "mediaUrl", Label: "Media", Type: FieldURL, Accept: "both"},
		{Name: "mediaKind", Label: "Media type", Type: FieldSelect, Options: []string{"image", "video"}},
		{Name: "mediaPosition", Label: "Media position", Type: FieldSelect, Options: []string{"left", "right"}},
	},
	setters: map[string]func(*model.SideBySidePayload, string) error{
		"title":    func(p *model.SideBySidePayload, v string) error { return str(&p.Title)(v) },
		"content":  func(p *model.SideBySidePayload, v string) error { return str(&p.Content)(v) },
		"mediaUrl": func(p *model.SideBySidePayload, v string) error { return str(&p.Media.URL)(v) },
		"mediaKind": func(p *model.SideBySidePayload, v string) error {
			k, err := parseMediaKind(v)
			if err != nil {
				return err
			}
			p.Media.Kind = k
			return nil
		},
		"mediaPosition": func(p *model.SideBySidePayload, v string) error {
			pos, err := parseMediaPosition(v)
			if err != nil {
				return err
			}
			p.MediaPosition = pos
			return nil
		},
	},
}

var videoEditor = fieldEditor[model.VideoPayload]{
	kind: model.KindVideo,
	fields: []Field{
		{Name: "title", Label: "Video title", Type: FieldText},
		{Name: "videoUrl", Label: "Video", Type: FieldURL, Accept: "video"},
		{Name: "caption", Label: "Caption", Type: FieldText},
	},
	setters: map[string]func(*model.VideoPayload, string) error{
		"title":    func(p *model.VideoPayload, v string) error { return str(&p.Title)(v) },
		"videoUrl": func(p *model.VideoPayload, v string) error { return str(&p.VideoURL)(v) },
		"caption":  func(p *model.VideoPayload, v string) error { return str(&p.Caption)(v) },
	},
}

var fullBleedEditor = fieldEditor[model.FullBleedImagePayload]{
	kind: model.KindFullBleedImage,
	fields: []Field{
		{Name: "imageUrl", Label: "Image", Type: FieldURL, Accept: "image"},
		{Name: "altText", Label: "Alt text", Type: FieldText},
		{Name: "caption", Label: "Caption", Type: FieldText},
	},
	setters: map[string]func(*model.FullBleedImagePayload, string) error{
		"imageUrl": func(p *model.FullBleedImagePayload, v string) error { return str(&p.ImageURL)(v) },
		"altText":  func(p *model.FullBleedImagePayload, v string) error { return str(&p.AltText)(v) },
		"caption":  func(p *model.FullBleedImagePayload, v string) error { return str(&p.Caption)(v) },
	},
}

var parallaxEditor = fieldEditor[model.ParallaxPayload]{
	kind: model.KindParallax,
	fields: []Field{
		{Name: "imageUrl", Label: "Background image", Type: FieldURL, Accept: "image"},
		{Name: "mainText", Label: "Main text", Type: FieldText},
		{Name: "subtitle", Label: "Subtitle", Type: FieldText},
	},
	setters: map[string]func(*model.ParallaxPayload, string) error{
		"imageUrl": func(p *model.ParallaxPayload, v string) error { return str(&p.ImageURL)(v) },
		"mainText": func(p *model.ParallaxPayload, v string) error { return str(&p.MainText)(v) },
		"subtitle": func(p *model.ParallaxPayload, v string) error { return str(&p.Subtitle)(v) },
	},
}

// galleryEditor edits the gallery title and its image entries.
type galleryEditor struct{}

var galleryTitle = fieldEditor[model.GalleryPayload]{
	kind:   model.KindGallery,
	fields: []Field{{Name: "title", Label: "Gallery title", Type: FieldText}},
	setters: map[string]func(*model.GalleryPayload, string) error{
		"title": func(p *model.GalleryPayload, v string) error { return str(&p.Title)(v) },
	},
}

func (galleryEditor) Kind() model.Kind { return model.KindGallery }
func (galleryEditor) Fields() []Field  { return galleryTitle.Fields() }

func (galleryEditor) Set(p model.Payload, field, value string) (model.Payload, error) {
	return galleryTitle.Set(p, field, value)
}

func (galleryEditor) EntryFields() []Field {
	return []Field{
		{Name: "url", Label: "Image", Type: FieldURL, Accept: "image"},
		{Name: "altText", Label: "Alt text", Type: FieldText},
		{Name: "caption", Label: "Caption", Type: FieldText},
	}
}

// AddEntry appends an image without a url; it is dropped on save until one
// is set.
func (galleryEditor) AddEntry(p model.Payload) (model.Payload, error) {
	cur, err := payloadAs[model.GalleryPayload](model.KindGallery, p)
	if err != nil {
		return nil, err
	}
	cur.Images = append(cur.Images, model.GalleryImage{})
	return cur, nil
}

func (galleryEditor) RemoveEntry(p model.Payload, index int) (model.Payload, error) {
	cur, err := payloadAs[model.GalleryPayload](model.KindGallery, p)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cur.Images) {
		return nil, fmt.Errorf("%w: %d of %d", ErrEntryIndex, index, len(cur.Images))
	}
	cur.Images = append(cur.Images[:index], cur.Images[index+1:]...)
	return cur, nil
}

func (galleryEditor) SetEntry(p model.Payload, index int, field, value string) (model.Payload, error) {
	cur, err := payloadAs[model.GalleryPayload](model.KindGallery, p)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cur.Images) {
		return nil, fmt.Errorf("%w: %d of %d", ErrEntryIndex, index, len(cur.Images))
	}
	img := &cur.Images[index]
	switch field {
	case "url":
		img.URL = value
	case "altText":
		img.AltText = value
	case "caption":
		img.Caption = value
	default:
		return nil, fmt.Errorf("%w %q for gallery image", ErrUnknownField, field)
	}
	return cur, nil
}

// timelineEditor edits the timeline title and its events.
type timelineEditor struct{}

var timelineTitle = fieldEditor[model.TimelinePayload]{
	kind:   model.KindTimeline,
	fields: []Field{{Name: "title", Label: "Timeline title", Type: FieldText}},
	setters: map[string]func(*model.TimelinePayload, string) error{
		"title": func(p *model.TimelinePayload, v string) error { return str(&p.Title)(v) },
	},
}

func (timelineEditor) Kind() model.Kind { return model.KindTimeline }
func (timelineEditor) Fields() []Field  { return timelineTitle.Fields() }

func (timelineEditor) Set(p model.Payload, field, value string) (model.Payload, error) {
	return timelineTitle.Set(p, field, value)
}

func (timelineEditor) EntryFields() []Field {
	return []Field{
		{Name: "date", Label: "Date", Type: FieldText},
		{Name: "title", Label: "Title", Type: FieldText},
		{Name: "description", Label: "Description", Type: FieldTextArea},
		{Name: "isComplete", Label: "Completed", Type: FieldCheckbox},
	}
}

func (timelineEditor) AddEntry(p model.Payload) (model.Payload, error) {
	cur, err := payloadAs[model.TimelinePayload](model.KindTimeline, p)
	if err != nil {
		return nil, err
	}
	cur.Events = append(cur.Events, model.NewTimelineEvent())
	return cur, nil
}

func (timelineEditor) RemoveEntry(p model.Payload, index int) (model.Payload, error) {
	cur, err := payloadAs[model.TimelinePayload](model.KindTimeline, p)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cur.Events) {
		return nil, fmt.Errorf("%w: %d of %d", ErrEntryIndex, index, len(cur.Events))
	}
	cur.Events = append(cur.Events[:index], cur.Events[index+1:]...)
	return cur, nil
}

func (timelineEditor) SetEntry(p model.Payload, index int, field, value string) (model.Payload, error) {
	cur, err := payloadAs[model.TimelinePayload](model.KindTimeline, p)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cur.Events) {
		return nil, fmt.Errorf("%w: %d of %d", ErrEntryIndex, index, len(cur.Events))
	}
	ev := &cur.Events[index]
	switch field {
	case "date":
		ev.Date = value
	case "title":
		ev.Title = value
	case "description":
		ev.Description = value
	case "isComplete":
		b, err := parseBool(value)
		if err != nil {
			return nil, fmt.Errorf("timeline.isComplete: %w", err)
		}
		ev.IsComplete = b
	default:
		return nil, fmt.Errorf("%w %q for timeline event", ErrUnknownField, field)
	}
	return cur, nil
}
