// Package wizard provides the interactive form behind "mailcron init".
//
// It uses charmbracelet/huh to collect the deployment inputs a starter
// config cannot guess (account, region, network, parameter and artifact
// location) and applies them to a config.Config.
package wizard
