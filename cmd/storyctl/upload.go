package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/editor"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

func newUploadCmd() *cobra.Command {
	var accept, section, field string
	var entry int
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an image or video, optionally storing its url in a section field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *editor.Session
			ref := ""
			if section != "" {
				if field == "" {
					return fmt.Errorf("--field is required with --section")
				}
				var err error
				if s, err = loadSession(workspaceFlag); err != nil {
					return err
				}
				if ref, err = resolveRef(s.Doc, section); err != nil {
					return err
				}
				if accept == "" {
					accept = fieldAccept(s.Doc, ref, field, entry >= 0)
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			contentType, err := detectContentType(f)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			m, err := c.Upload(cmd.Context(), filepath.Base(args[0]), contentType, f, accept)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", m.Kind, m.URL)
			if s == nil {
				return nil
			}

			if entry >= 0 {
				err = s.SetEntry(ref, entry, field, m.URL)
			} else {
				err = s.Set(ref, field, m.URL)
				// side_by_side keeps the uploaded kind next to its url
				if err == nil && field == "mediaUrl" {
					err = s.Set(ref, "mediaKind", string(m.Kind))
				}
			}
			if err != nil {
				return err
			}
			return saveSession(workspaceFlag, s)
		},
	}
	cmd.Flags().StringVar(&accept, "accept", "", "image, video or both (defaults to what the target field takes)")
	cmd.Flags().StringVar(&section, "section", "", "Section ref or position to store the url in")
	cmd.Flags().StringVar(&field, "field", "", "Field to store the url in")
	cmd.Flags().IntVar(&entry, "entry", -1, "Entry index when the field belongs to a gallery image")
	return cmd
}

// fieldAccept is the accept mode declared for field, or "" when unknown.
func fieldAccept(doc *model.Document, ref, field string, isEntry bool) string {
	i, ok := doc.Section(ref)
	if !ok {
		return ""
	}
	e, err := editor.For(doc.Sections[i].Kind())
	if err != nil {
		return ""
	}
	fields := e.Fields()
	if isEntry {
		le, ok := e.(editor.ListEditor)
		if !ok {
			return ""
		}
		fields = le.EntryFields()
	}
	for _, f := range fields {
		if f.Name == field {
			return f.Accept
		}
	}
	return ""
}

// detectContentType uses the file extension, falling back to sniffing the
// first bytes. f is rewound afterwards.
func detectContentType(f *os.File) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
