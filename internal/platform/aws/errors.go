package awsplatform

import (
	"errors"
	"strings"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// errorCode returns the API error code of err, or "" for non-API errors.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// isVpcNotFound reports whether EC2 rejected a VPC id as unknown.
func isVpcNotFound(err error) bool {
	return errorCode(err) == "InvalidVpcID.NotFound"
}

// isNotFoundError checks if the error is an S3 not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	switch errorCode(err) {
	case "NotFound", "NoSuchBucket", "NoSuchKey", "404":
		return true
	}
	return false
}

// isStackMissing reports whether CloudFormation rejected a stack name as
// unknown. CloudFormation reports this as a generic ValidationError.
func isStackMissing(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist")
}

// isNoChanges reports whether a failed change set only failed because the
// template matches the deployed stack.
func isNoChanges(reason string) bool {
	return strings.Contains(reason, "didn't contain changes") ||
		strings.Contains(reason, "No updates are to be performed")
}

// isThrottled reports whether err is a retryable throttling error.
func isThrottled(err error) bool {
	switch errorCode(err) {
	case "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException":
		return true
	}
	return false
}
