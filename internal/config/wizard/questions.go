package wizard

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/mailcron/internal/config"
)

var (
	accountRegex = regexp.MustCompile(`^[0-9]{12}$`)
	bucketRegex  = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
)

// runTargetGroup prompts for the AWS account and region.
func runTargetGroup(ctx context.Context, result *Result) error {
	if result.Region == "" {
		result.Region = Regions[0].Value
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("AWS Account").
				Description("12 digit account id both stages deploy into").
				Placeholder("123456789012").
				Value(&result.Account).
				Validate(validateAccount),
			huh.NewSelect[string]().
				Title("Region").
				Options(RegionOptions()...).
				Value(&result.Region).
				Validate(validateRegion),
		).Title("Target"),
	).RunWithContext(ctx)
}

// runNetworkGroup prompts for the pre-existing VPC.
func runNetworkGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("VPC ID").
				Description("Existing VPC with private subnets; it is never created or modified").
				Placeholder("vpc-0123456789abcdef0").
				Value(&result.NetworkID).
				Validate(validateVpcID),
			huh.NewConfirm().
				Title("Share one network lookup across stages?").
				Affirmative("Yes").
				Negative("No, look up per stage").
				Value(&result.SharedNetwork),
		).Title("Network"),
	).RunWithContext(ctx)
}

// runWorkerGroup prompts for the worker artifact and its runtime settings.
func runWorkerGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSM Parameter").
				Description("The only parameter the worker may read").
				Placeholder("/mailcron/smtp-credentials").
				Value(&result.ParameterName).
				Validate(validateParameterName),
			huh.NewInput().
				Title("Code Bucket").
				Value(&result.CodeBucket).
				Validate(validateBucket),
			huh.NewInput().
				Title("Code Key").
				Placeholder("worker/bootstrap.zip").
				Value(&result.CodeKey).
				Validate(validateKey),
			huh.NewSelect[string]().
				Title("Architecture").
				Options(ArchitectureOptions...).
				Value(&result.Architecture),
			huh.NewSelect[int]().
				Title("Memory").
				Options(MemoryOptions...).
				Value(&result.MemorySize),
		).Title("Worker"),
	).RunWithContext(ctx)
}

func validateAccount(s string) error {
	if !accountRegex.MatchString(strings.TrimSpace(s)) {
		return errAccountInvalid
	}
	return nil
}

func validateRegion(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRegionRequired
	}
	return nil
}

func validateVpcID(s string) error {
	if !strings.HasPrefix(strings.TrimSpace(s), "vpc-") {
		return errVpcInvalid
	}
	return nil
}

func validateParameterName(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "/") || !config.ValidParameterName(s) {
		return errParameterInvalid
	}
	return nil
}

func validateBucket(s string) error {
	if !bucketRegex.MatchString(strings.TrimSpace(s)) {
		return errBucketInvalid
	}
	return nil
}

func validateKey(s string) error {
	if strings.TrimSpace(s) == "" {
		return errKeyRequired
	}
	return nil
}
