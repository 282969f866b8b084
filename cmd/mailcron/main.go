// Package main is the entry point for the mailcron CLI.
//
// mailcron assembles the infrastructure of a scheduled email worker for the
// staging and production stages and hands the result to CloudFormation.
//
// Commands: synth, deploy, stages, init, version.
//
// For detailed usage information, run:
//
//	mailcron --help
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/imamik/mailcron/cmd/mailcron/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A missing .env is fine; values may come from the real environment.
	_ = godotenv.Load()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
