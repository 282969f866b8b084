package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mailcron/cmd/mailcron/handlers"
)

// Synth returns the command that renders one template per stage.
//
// Optional flags:
//
//	--config, -c: Path to configuration file (default: auto-detect mailcron.yaml)
//	--stage, -s: Only synthesize this stage
//	--out, -o: Output directory (default "cdk.out")
//	--format: json or yaml
//	--metrics-file: Write assembly metrics in textfile format
func Synth() *cobra.Command {
	var opts handlers.SynthOptions

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Render the stage templates",
		Long: `Assemble the network, compute and schedule resources of every stage
and write one CloudFormation template per stage.

The VPC is looked up once per run through EC2 unless its subnets are cached
in the config file (network.subnet_ids).

Examples:
  # Render both stages using mailcron.yaml in current directory
  mailcron synth

  # Render only staging as YAML
  mailcron synth --stage staging --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Synth(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: mailcron.yaml)")
	cmd.Flags().StringVarP(&opts.Stage, "stage", "s", "", "Only synthesize this stage")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "cdk.out", "Output directory")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "Template format (json or yaml)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write assembly metrics to this file")

	return cmd
}
