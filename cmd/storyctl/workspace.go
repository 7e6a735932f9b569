package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/editor"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

// loadSession reads the editing session from the workspace file.
func loadSession(path string) (*editor.Session, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("no workspace at %s; run `storyctl pull PROJECT_ID` first", path)
	}
	if err != nil {
		return nil, err
	}
	var s editor.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("read workspace %s: %w", path, err)
	}
	if s.Doc == nil {
		return nil, fmt.Errorf("workspace %s has no document", path)
	}
	if s.Doc.Sections == nil {
		s.Doc.Sections = []model.Section{}
	}
	return &s, nil
}

// saveSession writes s to path through a temp file and rename.
func saveSession(path string, s *editor.Session) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// editSession loads the workspace, applies fn and writes it back when fn
// succeeds.
func editSession(fn func(s *editor.Session) error) error {
	s, err := loadSession(workspaceFlag)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return saveSession(workspaceFlag, s)
}

// resolveRef accepts a section ref or its zero-based position.
func resolveRef(doc *model.Document, arg string) (string, error) {
	if _, ok := doc.Section(arg); ok {
		return arg, nil
	}
	if i, err := strconv.Atoi(arg); err == nil {
		if i < 0 || i >= len(doc.Sections) {
			return "", fmt.Errorf("section position %d out of range [0,%d)", i, len(doc.Sections))
		}
		return doc.Sections[i].Ref(), nil
	}
	return "", fmt.Errorf("%w: %s", model.ErrSectionNotFound, arg)
}
