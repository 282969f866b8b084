package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mailcron/cmd/mailcron/handlers"
	"github.com/imamik/mailcron/internal/config"
)

// Init returns the command that writes a starter configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "mailcron.yaml")
//	--interactive, -i: Ask for the deployment inputs
//	--force, -f: Overwrite an existing file
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a mailcron configuration file.

Without --interactive the file contains placeholders to edit by hand.
With --interactive you are asked for the account, region, VPC, SSM
parameter and worker artifact location.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Ask for the deployment inputs")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
