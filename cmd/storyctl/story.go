package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/editor"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull PROJECT_ID",
		Short: "Load a project's story into the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.GetStory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.LoadError != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s; starting from an empty story\n", res.LoadError)
			}
			if err := saveSession(workspaceFlag, editor.NewSession(res.Document)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pulled %s (%d sections)\n", args[0], len(res.Document.Sections))
			return nil
		},
	}
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Save the workspace story to the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(workspaceFlag)
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			saved, err := c.SaveStory(cmd.Context(), s.Doc)
			if err != nil {
				// The workspace is left as it was so the push can be retried.
				return err
			}
			s.Rebase(saved)
			if err := saveSession(workspaceFlag, s); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved story %s (slug %s, %d sections)\n", saved.ID, saved.Slug, len(saved.Sections))
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the workspace story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(workspaceFlag)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s.Doc)
			}
			printSession(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the document as JSON")
	return cmd
}

func printSession(w io.Writer, s *editor.Session) {
	d := s.Doc
	state := "unsaved"
	if !d.IsNew() {
		state = "story " + d.ID + ", slug " + d.Slug
	}
	_, _ = fmt.Fprintf(w, "%s (%s)\n", d.ProjectID, state)
	_, _ = fmt.Fprintf(w, "title: %s\nsubtitle: %s\n", d.Title, d.Subtitle)
	if d.Hero != nil {
		_, _ = fmt.Fprintf(w, "hero: %s %s\n", d.Hero.Kind, d.Hero.URL)
	}
	for i, sec := range d.Sections {
		mark := " "
		if sec.Ref() == s.Editing {
			mark = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %2d  %-16s %s%s\n", mark, i, sec.Kind(), sec.Ref(), summary(sec.Data))
	}
}

func summary(p model.Payload) string {
	switch p := p.(type) {
	case model.TextPayload:
		return "  " + p.Title
	case model.QuotePayload:
		return "  " + p.Author
	case model.SideBySidePayload:
		return fmt.Sprintf("  %s [%s %s]", p.Title, p.Media.Kind, p.MediaPosition)
	case model.VideoPayload:
		return "  " + p.Title
	case model.GalleryPayload:
		return fmt.Sprintf("  %s (%d images)", p.Title, len(p.Images))
	case model.TimelinePayload:
		return fmt.Sprintf("  %s (%d events)", p.Title, len(p.Events))
	case model.ParallaxPayload:
		return "  " + p.MainText
	}
	return ""
}

func newMetaCmd() *cobra.Command {
	var title, subtitle, heroURL, heroKind string
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Edit the story title, subtitle and hero media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(func(s *editor.Session) error {
				f := cmd.Flags()
				if f.Changed("title") {
					s.Doc.Title = title
				}
				if f.Changed("subtitle") {
					s.Doc.Subtitle = subtitle
				}
				if f.Changed("hero-url") {
					if heroURL == "" {
						s.Doc.Hero = nil
						return nil
					}
					kind := model.MediaKind(heroKind)
					if !kind.Valid() {
						return fmt.Errorf("--hero-kind must be image or video, got %q", heroKind)
					}
					s.Doc.Hero = &model.Media{URL: heroURL, Kind: kind}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Story title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Story subtitle")
	cmd.Flags().StringVar(&heroURL, "hero-url", "", "Hero media url (empty removes the hero)")
	cmd.Flags().StringVar(&heroKind, "hero-kind", "image", "Hero media kind")
	return cmd
}
