// Package naming provides consistent naming functions for mailcron resources.
//
// Physical names follow the pattern {app}-{type}-{stage} so that the staging
// and production stacks never collide inside one account. Logical ids (the
// keys of a CloudFormation template) are stage independent because each stage
// is its own stack.
package naming
