// Package provisioning provides shared types, interfaces, and orchestration for
// assembling a stage's resource graph.
//
// # Subpackages
//
//   - network: resolves the pre-existing VPC into a Handle
//   - compute: the worker function with its execution role and environment
//   - schedule: the fixed-rate trigger invoking the worker
//
// # Core Types
//
// Context carries the deployment config, the stage record, the template being
// built, the observer and the metrics sink. Phase defines a provisioning step
// with Name() and Provision() methods. State accumulates what each phase
// declared (network handle, function reference, taggable units).
package provisioning
