package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsFilesCmd(g *globals) *cobra.Command {
	var stage bool
	cmd := &cobra.Command{
		Use:   "ls-files [-s]",
		Short: "List tracked paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.open()
			if err != nil {
				return err
			}
			defer r.Close()

			lines, err := r.LsFiles(stage)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&stage, "stage", "s", false, "show the staged object id of each path")
	return cmd
}
