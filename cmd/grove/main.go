package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/grove/pkg/logger"
	"github.com/odvcencio/grove/pkg/repo"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// globals carries state shared by every subcommand.
type globals struct {
	verbose bool
	log     *zap.Logger
}

// open finds the repository containing the current directory.
func (g *globals) open() (*repo.Repo, error) {
	return repo.Open(".", repo.WithLogger(g.log))
}

func newRootCmd() *cobra.Command {
	g := &globals{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "grove",
		Short:         "Content-addressed object store and staging index",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger.New(g.verbose)
			if err != nil {
				return err
			}
			g.log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = g.log.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(g))
	root.AddCommand(newHashObjectCmd(g))
	root.AddCommand(newAddCmd(g))
	root.AddCommand(newUpdateIndexCmd(g))
	root.AddCommand(newLsFilesCmd(g))
	root.AddCommand(newWriteTreeCmd(g))
	root.AddCommand(newCatFileCmd(g))
	root.AddCommand(newLsTreeCmd(g))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "grove 0.1.0-dev")
		},
	}
}
