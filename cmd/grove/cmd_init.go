package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/grove/pkg/object"
	"github.com/odvcencio/grove/pkg/repo"
)

func newInitCmd(g *globals) *cobra.Command {
	var format, storage string
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty grove repository or reinitialize an existing one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			// Ensure the target directory exists.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			_, statErr := os.Stat(filepath.Join(abs, repo.DirName))
			existed := statErr == nil

			cfg := repo.DefaultConfig()
			cfg.Core.ObjectFormat = format
			cfg.Core.Storage = storage
			r, err := repo.Init(abs, repo.WithLogger(g.log), repo.WithConfig(cfg))
			if err != nil {
				return err
			}
			defer r.Close()

			verb := "initialized empty"
			if existed {
				verb = "reinitialized existing"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s grove repository in %s\n", verb, r.GroveDir+string(filepath.Separator))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "object-format", string(object.DefaultFormat), "object hash algorithm (sha256 or blake3)")
	cmd.Flags().StringVar(&storage, "storage", repo.StorageLoose, "object storage backend (loose or bolt)")
	return cmd
}
