package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHashObjectCmd(g *globals) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "hash-object [-w] [file]",
		Short: "Compute the object id of a file and optionally store it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.open()
			if err != nil {
				return err
			}
			defer r.Close()

			if len(args) == 0 {
				return nil
			}
			h, err := r.HashObject(args[0], write)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object store")
	return cmd
}
