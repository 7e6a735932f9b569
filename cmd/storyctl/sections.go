package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/editor"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

func newSectionCmd() *cobra.Command {
	sectionCmd := &cobra.Command{Use: "section", Short: "Section operations"}

	sectionCmd.AddCommand(&cobra.Command{
		Use:   "add KIND",
		Short: "Append a section of KIND and focus it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}
			return editSession(func(s *editor.Session) error {
				sec, err := s.Add(kind)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s at %d (%s)\n", kind, sec.Order, sec.Ref())
				return nil
			})
		},
	})

	sectionCmd.AddCommand(&cobra.Command{
		Use:   "move POSITION up|down",
		Short: "Swap a section with its neighbour",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("position must be a number: %w", err)
			}
			dir, err := model.ParseDirection(args[1])
			if err != nil {
				return err
			}
			return editSession(func(s *editor.Session) error {
				if !s.Move(index, dir) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to move")
				}
				return nil
			})
		},
	})

	sectionCmd.AddCommand(&cobra.Command{
		Use:   "remove REF",
		Short: "Remove a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(func(s *editor.Session) error {
				ref, err := resolveRef(s.Doc, args[0])
				if err != nil {
					return err
				}
				s.Remove(ref)
				return nil
			})
		},
	})

	sectionCmd.AddCommand(&cobra.Command{
		Use:   "set REF FIELD VALUE",
		Short: "Set one field of a section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(func(s *editor.Session) error {
				ref, err := resolveRef(s.Doc, args[0])
				if err != nil {
					return err
				}
				return s.Set(ref, args[1], args[2])
			})
		},
	})

	var clearFocus bool
	focusCmd := &cobra.Command{
		Use:   "focus [REF]",
		Short: "Open a section in the editor, or close it with --clear",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(func(s *editor.Session) error {
				if clearFocus {
					s.Blur()
					return nil
				}
				if len(args) == 0 {
					cur, ok := s.Current()
					if !ok {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no section focused")
						return nil
					}
					return printFields(cmd, cur)
				}
				ref, err := resolveRef(s.Doc, args[0])
				if err != nil {
					return err
				}
				return s.Focus(ref)
			})
		},
	}
	focusCmd.Flags().BoolVar(&clearFocus, "clear", false, "Close the focused section")
	sectionCmd.AddCommand(focusCmd)

	return sectionCmd
}

// printFields lists the editable fields of sec. The current values are in
// `storyctl show --json`.
func printFields(cmd *cobra.Command, sec model.Section) error {
	e, err := editor.For(sec.Kind())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s %s\n", sec.Kind(), sec.Ref())
	for _, f := range e.Fields() {
		_, _ = fmt.Fprintf(out, "  %-14s %-9s %s\n", f.Name, f.Type, f.Label)
	}
	return nil
}

func newEntryCmd() *cobra.Command {
	entryCmd := &cobra.Command{Use: "entry", Short: "Gallery image and timeline event operations"}

	entryCmd.AddCommand(&cobra.Command{
		Use:   "add REF",
		Short: "Append an empty entry to a gallery or timeline section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editSession(func(s *editor.Session) error {
				ref, err := resolveRef(s.Doc, args[0])
				if err != nil {
					return err
				}
				return s.AddEntry(ref)
			})
		},
	})

	entryCmd.AddCommand(&cobra.Command{
		Use:   "remove REF INDEX",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			return editSession(func(s *editor.Session) error {
				ref, err := resolveRef(s.Doc, args[0])
				if err != nil {
					return err
				}
				return s.RemoveEntry(ref, index)
			})
		},
	})

	entryCmd.AddCommand(&cobra.Command{
		Use:   "set REF INDEX FIELD VALUE",
		Short: "Set one field of an entry",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			return editSession(func(s *editor.Session) error {
				ref, err := resolveRef(s.Doc, args[0])
				if err != nil {
					return err
				}
				return s.SetEntry(ref, index, args[2], args[3])
			})
		},
	})

	return entryCmd
}
