package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mailcron/cmd/mailcron/handlers"
)

// Deploy returns the command that hands the stage templates to CloudFormation.
//
// Environment variables:
//
//	AWS_PROFILE, AWS_REGION, ...: standard AWS SDK configuration
//	MAILCRON_TIMEOUT_*, MAILCRON_RETRY_*: wait tuning
func Deploy() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the stage stacks",
		Long: `Synthesize every stage, upload the templates to the artifact bucket and
create one change set per stack. Staging is deployed before production.

Nothing is deployed if any stage fails to assemble.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: mailcron.yaml)")
	cmd.Flags().StringVarP(&opts.Stage, "stage", "s", "", "Only deploy this stage")

	return cmd
}
