// Package awsplatform provides the AWS clients mailcron talks to: EC2 for
// network lookups at synth time, S3 for template artifacts and
// CloudFormation for the hand-off to the reconciliation engine.
package awsplatform
