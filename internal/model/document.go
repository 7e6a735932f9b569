package model

import (
	"errors"
	"fmt"
)

// Direction is the way MoveSection shifts a section.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrKindMismatch    = errors.New("payload kind does not match section kind")
)

// AppendSection adds an empty section of the given kind at the end of the
// document and returns a copy of it.
func (d *Document) AppendSection(kind Kind) (Section, error) {
	data, err := DefaultPayload(kind)
	if err != nil {
		return Section{}, err
	}
	s := Section{
		DraftID: newDraftID(),
		Order:   len(d.Sections),
		Data:    data,
	}
	d.Sections = append(d.Sections, s)
	return s, nil
}

// MoveSection swaps the section at index with its neighbour in dir. Moving
// past either end leaves the document untouched and returns false.
func (d *Document) MoveSection(index int, dir Direction) bool {
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if index < 0 || index >= len(d.Sections) || target < 0 || target >= len(d.Sections) {
		return false
	}
	d.Sections[index], d.Sections[target] = d.Sections[target], d.Sections[index]
	d.Reindex()
	return true
}

// RemoveSection drops the section addressed by ref and reports whether one
// was removed.
func (d *Document) RemoveSection(ref string) bool {
	kept := d.Sections[:0]
	removed := false
	for _, s := range d.Sections {
		if !removed && ref != "" && s.Ref() == ref {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	d.Sections = kept
	d.Reindex()
	return removed
}

// Section returns the index of the section addressed by ref.
func (d *Document) Section(ref string) (int, bool) {
	for i, s := range d.Sections {
		if ref != "" && s.Ref() == ref {
			return i, true
		}
	}
	return -1, false
}

// ReplacePayload swaps in a new payload for the section addressed by ref.
func (d *Document) ReplacePayload(ref string, p Payload) error {
	i, ok := d.Section(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, ref)
	}
	if p == nil || p.Kind() != d.Sections[i].Kind() {
		return ErrKindMismatch
	}
	d.Sections[i].Data = p
	return nil
}

// Reindex assigns every section its array index as order.
func (d *Document) Reindex() {
	for i := range d.Sections {
		d.Sections[i].Order = i
	}
}

// Validate checks that section orders are exactly 0..N-1 in array order and
// that every section has a payload.
func (d *Document) Validate() error {
	for i, s := range d.Sections {
		if s.Order != i {
			return fmt.Errorf("section %d has order %d", i, s.Order)
		}
		if s.Data == nil {
			return fmt.Errorf("section %d has no payload", i)
		}
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := *d
	if d.Hero != nil {
		hero := *d.Hero
		out.Hero = &hero
	}
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		s.Data = ClonePayload(s.Data)
		out.Sections[i] = s
	}
	return &out
}
