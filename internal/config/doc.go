// Package config defines the deployment configuration for the mailcron stacks.
//
// Two kinds of configuration live here. The [Registry] is the closed, hardcoded
// table of stages with their [Settings] and [StandardTags]; it is built once and
// never changes at runtime. [Config] holds the deployment inputs (account,
// region, network identifier, worker artifact location) loaded from
// mailcron.yaml and MAILCRON_* environment variables.
package config
