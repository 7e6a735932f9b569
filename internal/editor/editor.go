// Package editor holds the per-kind section editors and the editing session
// that drives them against a document.
package editor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidValue  = errors.New("invalid value")
	ErrEntryIndex    = errors.New("entry index out of range")
	ErrNotListEditor = errors.New("section kind has no entries")
)

// FieldType tells a form which control renders the field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextArea FieldType = "textarea"
	FieldURL      FieldType = "url"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

// Field describes one input control.
type Field struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Options []string  `json:"options,omitempty"`
	// Accept is the media accept mode for upload-backed url fields.
	Accept string `json:"accept,omitempty"`
}

// Editor edits one section kind. Editors are stateless: Set returns a new
// payload and never modifies the one passed in.
type Editor interface {
	Kind() model.Kind
	Fields() []Field
	Set(p model.Payload, field, value string) (model.Payload, error)
}

// ListEditor additionally edits the entries of gallery and timeline
// sections. Entry positions are array positions.
type ListEditor interface {
	Editor
	EntryFields() []Field
	AddEntry(p model.Payload) (model.Payload, error)
	RemoveEntry(p model.Payload, index int) (model.Payload, error)
	SetEntry(p model.Payload, index int, field, value string) (model.Payload, error)
}

var editors = map[model.Kind]Editor{
	model.KindText:           textEditor,
	model.KindQuote:          quoteEditor,
	model.KindSideBySide:     sideBySideEditor,
	model.KindVideo:          videoEditor,
	model.KindFullBleedImage: fullBleedEditor,
	model.KindGallery:        galleryEditor{},
	model.KindTimeline:       timelineEditor{},
	model.KindParallax:       parallaxEditor,
}

// For returns the editor of kind.
func For(kind model.Kind) (Editor, error) {
	e, ok := editors[kind]
	if !ok {
		return nil, fmt.Errorf("no editor for section kind %q", kind)
	}
	return e, nil
}

// fieldEditor is an Editor over a payload type T driven by a setter table.
type fieldEditor[T model.Payload] struct {
	kind    model.Kind
	fields  []Field
	setters map[string]func(p *T, value string) error
}

func (e fieldEditor[T]) Kind() model.Kind { return e.kind }

func (e fieldEditor[T]) Fields() []Field { return append([]Field(nil), e.fields...) }

func (e fieldEditor[T]) Set(p model.Payload, field, value string) (model.Payload, error) {
	cur, err := payloadAs[T](e.kind, p)
	if err != nil {
		return nil, err
	}
	set, ok := e.setters[field]
	if !ok {
		return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, field, e.kind)
	}
	if err := set(&cur, value); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", e.kind, field, err)
	}
	return cur, nil
}

// payloadAs returns a deep copy of p as T.
func payloadAs[T model.Payload](kind model.Kind, p model.Payload) (T, error) {
	var zero T
	cur, ok := model.ClonePayload(p).(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s editor got %T", model.ErrKindMismatch, kind, p)
	}
	return cur, nil
}

func str(dst *string) func(string) error {
	return func(v string) error { *dst = v; return nil }
}

func parseMediaKind(v string) (model.MediaKind, error) {
	k := model.MediaKind(v)
	if !k.Valid() {
		return "", fmt.Errorf("%w: media kind must be image or video, got %q", ErrInvalidValue, v)
	}
	return k, nil
}

func parseMediaPosition(v string) (model.MediaPosition, error) {
	pos := model.MediaPosition(v)
	if !pos.Valid() {
		return "", fmt.Errorf("%w: media position must be left or right, got %q", ErrInvalidValue, v)
	}
	return pos, nil
}

func parseBool(v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
	}
	return b, nil
}
