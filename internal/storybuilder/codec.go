package storybuilder

import (
	"fmt"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
)

// Kind to wide-row column mapping. Columns not listed stay NULL.
//
//	text              title, content
//	quote             content=quote, quote_author, quote_role
//	side_by_side      title, content, media_url, media_kind, media_position
//	video             title, media_url=videoUrl, caption
//	full_bleed_image  media_url=imageUrl, alt_text, caption
//	gallery           title (images are child rows)
//	timeline          title (events are child rows)
//	parallax          title=mainText, content=subtitle, media_url=imageUrl

// toRow flattens a payload onto the shared section row.
func toRow(storyID string, order int, p model.Payload) (store.SectionRow, error) {
	row := store.SectionRow{StoryID: storyID, SectionOrder: order}
	switch v := p.(type) {
	case model.TextPayload:
		row.Title, row.Content = ptr(v.Title), ptr(v.Content)
	case model.QuotePayload:
		row.Content, row.QuoteAuthor, row.QuoteRole = ptr(v.Quote), ptr(v.Author), ptr(v.Role)
	case model.SideBySidePayload:
		row.Title, row.Content = ptr(v.Title), ptr(v.Content)
		row.MediaURL = ptr(v.Media.URL)
		row.MediaKind = ptr(string(mediaKindOrImage(v.Media.Kind)))
		row.MediaPosition = ptr(string(positionOrRight(v.MediaPosition)))
	case model.VideoPayload:
		row.Title, row.MediaURL, row.Caption = ptr(v.Title), ptr(v.VideoURL), ptr(v.Caption)
	case model.FullBleedImagePayload:
		row.MediaURL, row.AltText, row.Caption = ptr(v.ImageURL), ptr(v.AltText), ptr(v.Caption)
	case model.GalleryPayload:
		row.Title = ptr(v.Title)
	case model.TimelinePayload:
		row.Title = ptr(v.Title)
	case model.ParallaxPayload:
		row.Title, row.Content, row.MediaURL = ptr(v.MainText), ptr(v.Subtitle), ptr(v.ImageURL)
	default:
		return store.SectionRow{}, fmt.Errorf("section %d: unsupported payload %T", order, p)
	}
	row.Kind = string(p.Kind())
	return row, nil
}

// fromRow builds the payload for row's kind from the columns that kind owns.
// Gallery images and timeline events are attached by the caller.
func fromRow(row store.SectionRow) (model.Payload, error) {
	kind, err := model.ParseKind(row.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case model.KindText:
		return model.TextPayload{Title: val(row.Title), Content: val(row.Content)}, nil
	case model.KindQuote:
		return model.QuotePayload{Quote: val(row.Content), Author: val(row.QuoteAuthor), Role: val(row.QuoteRole)}, nil
	case model.KindSideBySide:
		p := model.SideBySidePayload{
			Title:         val(row.Title),
			Content:       val(row.Content),
			Media:         model.Media{URL: val(row.MediaURL), Kind: model.MediaKind(val(row.MediaKind))},
			MediaPosition: model.MediaPosition(val(row.MediaPosition)),
		}
		p.Media.Kind = mediaKindOrImage(p.Media.Kind)
		p.MediaPosition = positionOrRight(p.MediaPosition)
		return p, nil
	case model.KindVideo:
		return model.VideoPayload{Title: val(row.Title), VideoURL: val(row.MediaURL), Caption: val(row.Caption)}, nil
	case model.KindFullBleedImage:
		return model.FullBleedImagePayload{ImageURL: val(row.MediaURL), AltText: val(row.AltText), Caption: val(row.Caption)}, nil
	case model.KindGallery:
		return model.GalleryPayload{Title: val(row.Title), Images: []model.GalleryImage{}}, nil
	case model.KindTimeline:
		return model.TimelinePayload{Title: val(row.Title), Events: []model.TimelineEvent{}}, nil
	case model.KindParallax:
		return model.ParallaxPayload{ImageURL: val(row.MediaURL), MainText: val(row.Title), Subtitle: val(row.Content)}, nil
	}
	return nil, fmt.Errorf("unknown section kind %q", row.Kind)
}

func galleryImageFromRow(r store.GalleryImageRow) model.GalleryImage {
	return model.GalleryImage{URL: r.URL, AltText: val(r.AltText), Caption: val(r.Caption)}
}

func timelineEventFromRow(r store.TimelineEventRow) model.TimelineEvent {
	return model.TimelineEvent{Date: r.Date, Title: r.Title, Description: val(r.Description), IsComplete: r.IsComplete}
}

func storyFields(d *model.Document) store.StoryFields {
	f := store.StoryFields{ProjectID: d.ProjectID, Slug: d.Slug, Title: d.Title, Subtitle: d.Subtitle}
	if d.Hero != nil && d.Hero.URL != "" {
		f.HeroMediaURL = ptr(d.Hero.URL)
		f.HeroMediaKind = ptr(string(mediaKindOrImage(d.Hero.Kind)))
	}
	return f
}

func documentFromRow(r *store.StoryRow) *model.Document {
	d := &model.Document{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Slug:      r.Slug,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Sections:  []model.Section{},
	}
	if r.HeroMediaURL != nil && *r.HeroMediaURL != "" {
		d.Hero = &model.Media{URL: *r.HeroMediaURL, Kind: mediaKindOrImage(model.MediaKind(val(r.HeroMediaKind)))}
	}
	return d
}

// mediaKindOrImage and positionOrRight apply the same fallback on write and
// read, so a stored row always decodes to what was written.
func mediaKindOrImage(k model.MediaKind) model.MediaKind {
	if !k.Valid() {
		return model.MediaImage
	}
	return k
}

func positionOrRight(p model.MediaPosition) model.MediaPosition {
	if !p.Valid() {
		return model.PositionRight
	}
	return p
}

func ptr(s string) *string { return &s }

func val(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
