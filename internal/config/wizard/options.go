package wizard

import "github.com/charmbracelet/huh"

// Region is a selectable AWS region.
type Region struct {
	Value string
	Label string
}

// Regions offered by the form. Any other region can be set in the file.
var Regions = []Region{
	{"eu-central-1", "Frankfurt"},
	{"eu-west-1", "Ireland"},
	{"eu-north-1", "Stockholm"},
	{"us-east-1", "N. Virginia"},
	{"us-west-2", "Oregon"},
	{"ap-southeast-2", "Sydney"},
}

// RegionOptions converts Regions to huh options.
func RegionOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Regions))
	for i, r := range Regions {
		opts[i] = huh.NewOption(r.Value+" ("+r.Label+")", r.Value)
	}
	return opts
}

// ArchitectureOptions lists the Lambda instruction sets.
var ArchitectureOptions = []huh.Option[string]{
	huh.NewOption("arm64 (Graviton, recommended)", "arm64"),
	huh.NewOption("x86_64", "x86_64"),
}

// MemoryOptions lists common memory sizes in MB.
var MemoryOptions = []huh.Option[int]{
	huh.NewOption("128 MB", 128),
	huh.NewOption("256 MB (Recommended)", 256),
	huh.NewOption("512 MB", 512),
	huh.NewOption("1024 MB", 1024),
}
