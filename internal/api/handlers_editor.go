package api

import (
	"net/http"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api/respond"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/editor"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

// EditorSpec describes the form for one section kind.
type EditorSpec struct {
	Kind        model.Kind     `json:"kind"`
	Fields      []editor.Field `json:"fields"`
	EntryFields []editor.Field `json:"entryFields,omitempty"`
}

// EditorSpecs lists every section kind with its form fields.
func EditorSpecs() []EditorSpec {
	out := make([]EditorSpec, 0, len(model.Kinds))
	for _, k := range model.Kinds {
		e, err := editor.For(k)
		if err != nil {
			continue
		}
		spec := EditorSpec{Kind: k, Fields: e.Fields()}
		if le, ok := e.(editor.ListEditor); ok {
			spec.EntryFields = le.EntryFields()
		}
		out = append(out, spec)
	}
	return out
}

// ListEditors GET /api/editors
func ListEditors(w http.ResponseWriter, _ *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"editors": EditorSpecs()})
}
