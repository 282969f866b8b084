// Package compute declares the stage's worker function.
//
// A compute unit is one Lambda function placed in the resolved network, its
// IAM execution role, and the runtime environment derived from the stage
// settings. Non-production stages always redirect outgoing mail to
// [NonProductionEmailRedirect]; callers cannot override it.
package compute
