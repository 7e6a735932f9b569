// Package validate checks request input at the HTTP boundary.
package validate

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

var (
	projectIDRx = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	slugRx      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ProjectID must be 1-100 chars of letters, digits, hyphen or underscore.
func ProjectID(v string) error {
	return validation.Validate(v,
		validation.Required.Error("projectId is required"),
		validation.Length(1, 100),
		validation.Match(projectIDRx).Error("projectId contains invalid characters"),
	)
}

func Slug(v string) error {
	return validation.Validate(v,
		validation.Required,
		validation.Length(1, 200),
		validation.Match(slugRx).Error("invalid slug"),
	)
}

// Document checks the editable fields of a story submitted for save.
func Document(d *model.Document) error {
	if d == nil {
		return fmt.Errorf("document is required")
	}
	err := validation.ValidateStruct(d,
		validation.Field(&d.ProjectID, validation.By(func(any) error { return ProjectID(d.ProjectID) })),
		validation.Field(&d.Title, validation.Length(0, 300)),
		validation.Field(&d.Subtitle, validation.Length(0, 500)),
		validation.Field(&d.Hero, validation.By(heroRule)),
	)
	if err != nil {
		return err
	}
	for i, s := range d.Sections {
		if err := section(s); err != nil {
			return fmt.Errorf("sections[%d]: %w", i, err)
		}
	}
	return nil
}

func heroRule(v any) error {
	h, _ := v.(*model.Media)
	if h == nil || h.URL == "" {
		return nil
	}
	if !h.Kind.Valid() {
		return fmt.Errorf("kind must be image or video")
	}
	return nil
}

func section(s model.Section) error {
	switch p := s.Data.(type) {
	case nil:
		return fmt.Errorf("data is required")
	case model.SideBySidePayload:
		return validation.ValidateStruct(&p,
			validation.Field(&p.MediaPosition, validation.Required, validation.In(model.PositionLeft, model.PositionRight)),
			validation.Field(&p.Media, validation.By(func(any) error {
				if !p.Media.Kind.Valid() {
					return fmt.Errorf("kind must be image or video")
				}
				return nil
			})),
		)
	}
	return nil
}
