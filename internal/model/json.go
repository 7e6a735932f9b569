package model

import (
	"encoding/json"
	"fmt"
)

type sectionJSON struct {
	ID      string          `json:"id,omitempty"`
	DraftID string          `json:"draftId,omitempty"`
	Order   int             `json:"order"`
	Kind    Kind            `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

// MarshalJSON writes the kind discriminator next to the payload.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.Data == nil {
		return nil, fmt.Errorf("section %q has no payload", s.Ref())
	}
	data, err := json.Marshal(s.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionJSON{
		ID:      s.ID,
		DraftID: s.DraftID,
		Order:   s.Order,
		Kind:    s.Data.Kind(),
		Data:    data,
	})
}

// UnmarshalJSON decodes data into the payload type selected by kind. Fields
// missing from data keep the kind's default value.
func (s *Section) UnmarshalJSON(b []byte) error {
	var raw sectionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p, err := DecodePayload(raw.Kind, raw.Data)
	if err != nil {
		return err
	}
	*s = Section{ID: raw.ID, DraftID: raw.DraftID, Order: raw.Order, Data: p}
	return nil
}

// DecodePayload decodes a JSON payload of the given kind.
func DecodePayload(kind Kind, data []byte) (Payload, error) {
	def, err := DefaultPayload(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return def, nil
	}
	switch p := def.(type) {
	case TextPayload:
		return decodeInto(p, data)
	case QuotePayload:
		return decodeInto(p, data)
	case SideBySidePayload:
		return decodeInto(p, data)
	case VideoPayload:
		return decodeInto(p, data)
	case FullBleedImagePayload:
		return decodeInto(p, data)
	case GalleryPayload:
		out, err := decodeInto(p, data)
		if err == nil && out.Images == nil {
			out.Images = []GalleryImage{}
		}
		return out, err
	case TimelinePayload:
		out, err := decodeInto(p, data)
		if err == nil && out.Events == nil {
			out.Events = []TimelineEvent{}
		}
		return out, err
	case ParallaxPayload:
		return decodeInto(p, data)
	}
	return nil, fmt.Errorf("unknown section kind %q", kind)
}

func decodeInto[T Payload](p T, data []byte) (T, error) {
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", p.Kind(), err)
	}
	return p, nil
}
