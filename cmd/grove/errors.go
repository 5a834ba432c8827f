package main

import (
	"errors"

	"github.com/odvcencio/grove/pkg/repo"
)

// formatError renders a command failure the way it is shown to users.
func formatError(err error) string {
	var pe *repo.PathError
	switch {
	case errors.As(err, &pe):
		return "error: " + pe.Error() + "\nfatal: unable to process path " + pe.Path
	case errors.Is(err, repo.ErrNothingSpecified):
		return err.Error()
	default:
		return "fatal: " + err.Error()
	}
}
