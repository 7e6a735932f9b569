package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List section kinds and their editable fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			specs, err := c.Editors(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range specs {
				_, _ = fmt.Fprintln(out, s.Kind)
				for _, f := range s.Fields {
					_, _ = fmt.Fprintf(out, "  %-14s %s\n", f.Name, f.Type)
				}
				for _, f := range s.EntryFields {
					_, _ = fmt.Fprintf(out, "  entry.%-8s %s\n", f.Name, f.Type)
				}
			}
			return nil
		},
	}
}
