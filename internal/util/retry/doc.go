// Package retry retries operations and polls for remote state with
// exponential backoff.
//
// [Do] retries a failing operation; [Poll] waits until a condition reports
// done. Both stop on [Fatal] errors and on context cancellation. Deploy uses
// them to wait for CloudFormation change sets and stacks to settle.
package retry
