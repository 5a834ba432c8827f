package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/grove/pkg/object"
)

func newLsTreeCmd(g *globals) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "ls-tree [-r] <tree>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.open()
			if err != nil {
				return err
			}
			defer r.Close()

			h := object.Hash(args[0])
			out := cmd.OutOrStdout()
			if recursive {
				files, err := r.FlattenTree(h)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintf(out, "%s %s\t%s\n", object.TypeBlob, f.Hash, f.Path)
				}
				return nil
			}

			tr, err := r.Store.ReadTree(h)
			if err != nil {
				return err
			}
			for _, e := range tr.Entries {
				fmt.Fprintf(out, "%s %s\t%s\n", e.Type(), e.Hash, e.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees")
	return cmd
}
