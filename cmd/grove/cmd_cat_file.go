package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/grove/pkg/object"
)

func newCatFileCmd(g *globals) *cobra.Command {
	var showType bool
	cmd := &cobra.Command{
		Use:   "cat-file [-t] <object>",
		Short: "Print the content or type of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.open()
			if err != nil {
				return err
			}
			defer r.Close()

			objType, data, err := r.CatFile(object.Hash(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showType {
				fmt.Fprintln(out, objType)
				return nil
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type instead of its content")
	return cmd
}
