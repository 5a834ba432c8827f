package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "add <pathspec>...",
		Short: "Stage file contents, recursing into directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.open()
			if err != nil {
				return err
			}
			defer r.Close()
			return r.Add(args...)
		},
	}
}
