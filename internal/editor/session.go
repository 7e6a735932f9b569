package editor

import (
	"fmt"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

// Session is an editing session over one document. Editing holds the ref of
// the section open in the editor, or "" when none is.
type Session struct {
	Doc     *model.Document `json:"document"`
	Editing string          `json:"editing,omitempty"`
}

func NewSession(doc *model.Document) *Session {
	if doc == nil {
		doc = model.NewDocument("")
	}
	return &Session{Doc: doc}
}

// Add appends a section of kind and focuses it.
func (s *Session) Add(kind model.Kind) (model.Section, error) {
	sec, err := s.Doc.AppendSection(kind)
	if err != nil {
		return model.Section{}, err
	}
	s.Editing = sec.Ref()
	return sec, nil
}

// Remove drops the section and clears the focus if it was focused.
func (s *Session) Remove(ref string) bool {
	if !s.Doc.RemoveSection(ref) {
		return false
	}
	if s.Editing == ref {
		s.Editing = ""
	}
	return true
}

// Move shifts the section at index; see model.Document.MoveSection.
func (s *Session) Move(index int, dir model.Direction) bool {
	return s.Doc.MoveSection(index, dir)
}

// Focus opens the section addressed by ref in the editor.
func (s *Session) Focus(ref string) error {
	if _, ok := s.Doc.Section(ref); !ok {
		return fmt.Errorf("%w: %s", model.ErrSectionNotFound, ref)
	}
	s.Editing = ref
	return nil
}

func (s *Session) Blur() { s.Editing = "" }

// Current returns the focused section.
func (s *Session) Current() (model.Section, bool) {
	i, ok := s.Doc.Section(s.Editing)
	if !ok {
		return model.Section{}, false
	}
	return s.Doc.Sections[i], true
}

// Set edits one field of the section addressed by ref.
func (s *Session) Set(ref, field, value string) error {
	return s.apply(ref, func(e Editor, p model.Payload) (model.Payload, error) {
		return e.Set(p, field, value)
	})
}

func (s *Session) AddEntry(ref string) error {
	return s.applyList(ref, func(e ListEditor, p model.Payload) (model.Payload, error) {
		return e.AddEntry(p)
	})
}

func (s *Session) RemoveEntry(ref string, index int) error {
	return s.applyList(ref, func(e ListEditor, p model.Payload) (model.Payload, error) {
		return e.RemoveEntry(p, index)
	})
}

func (s *Session) SetEntry(ref string, index int, field, value string) error {
	return s.applyList(ref, func(e ListEditor, p model.Payload) (model.Payload, error) {
		return e.SetEntry(p, index, field, value)
	})
}

// Rebase swaps in a freshly saved or loaded document. A focus whose ref is
// gone, as with a draft that save gave an id, moves to the section at the
// same position when that section has the same kind. Otherwise it is cleared.
func (s *Session) Rebase(doc *model.Document) {
	prev, hadFocus := -1, false
	var prevKind model.Kind
	if s.Doc != nil {
		if i, ok := s.Doc.Section(s.Editing); ok {
			prev, hadFocus, prevKind = i, true, s.Doc.Sections[i].Kind()
		}
	}
	s.Doc = doc
	if _, ok := doc.Section(s.Editing); ok {
		return
	}
	s.Editing = ""
	if hadFocus && prev < len(doc.Sections) && doc.Sections[prev].Kind() == prevKind {
		s.Editing = doc.Sections[prev].Ref()
	}
}

func (s *Session) apply(ref string, fn func(Editor, model.Payload) (model.Payload, error)) error {
	i, ok := s.Doc.Section(ref)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrSectionNotFound, ref)
	}
	sec := s.Doc.Sections[i]
	e, err := For(sec.Kind())
	if err != nil {
		return err
	}
	p, err := fn(e, sec.Data)
	if err != nil {
		return err
	}
	return s.Doc.ReplacePayload(ref, p)
}

func (s *Session) applyList(ref string, fn func(ListEditor, model.Payload) (model.Payload, error)) error {
	return s.apply(ref, func(e Editor, p model.Payload) (model.Payload, error) {
		le, ok := e.(ListEditor)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotListEditor, e.Kind())
		}
		return fn(le, p)
	})
}
