package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errAccountInvalid   = errors.New("account must be a 12 digit AWS account id")
	errRegionRequired   = errors.New("region is required")
	errVpcInvalid       = errors.New("network id must start with vpc-")
	errParameterInvalid = errors.New("parameter name must start with / and contain only letters, digits and ._-/")
	errBucketInvalid    = errors.New("bucket name must be 3-63 lowercase letters, digits, dots or hyphens")
	errKeyRequired      = errors.New("object key is required")
)
