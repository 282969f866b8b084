package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mailcron/cmd/mailcron/handlers"
)

// Stages returns the command that lists the stage registry.
func Stages() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List stages with their settings and tags",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Stages()
		},
	}
}
