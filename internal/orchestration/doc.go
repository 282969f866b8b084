// Package orchestration assembles the per-stage deployment graphs.
//
// The Assembler runs one provisioning pipeline per registered stage:
//  1. Network - resolve the shared VPC and declare the stage security group
//  2. Compute - declare the worker function and its execution identity
//  3. Schedule - bind the function to its fixed-rate trigger
//  4. Tags - apply the stage's standard tags to every declared unit
//
// Stage pipelines share nothing except the network handle, which is looked
// up once per run unless network.shared is false. A failing stage does not
// stop the others; Assemble reports every failure.
//
// # Usage
//
//	asm := orchestration.NewAssembler(cfg, config.DefaultRegistry(), lookup)
//	result, err := asm.Assemble(ctx)
package orchestration
