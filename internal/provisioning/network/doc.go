// Package network resolves the pre-existing VPC the worker is placed in.
//
// The VPC is never created here. A [Provider] memoizes lookups per
// identifier, so every stage pipeline of one assembly run shares a single
// lookup call and a single [provisioning.NetworkHandle].
package network
