// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the mailcron CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mailcron",
		Short:         "Provision the scheduled email worker per stage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Synth())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Stages())
	cmd.AddCommand(Version())

	return cmd
}
