package main

import (
	"github.com/spf13/cobra"
)

func newUpdateIndexCmd(g *globals) *cobra.Command {
	var add bool
	cmd := &cobra.Command{
		Use:   "update-index [--add] [file]",
		Short: "Stage a single file",
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
			return r.UpdateIndex(args[0], add)
		},
	}
	cmd.Flags().BoolVar(&add, "add", false, "allow files not yet tracked to be added")
	return cmd
}
