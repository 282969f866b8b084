// Package template models the declarative resource graph handed to
// CloudFormation.
//
// A [Template] is pure data. Provisioning phases declare resources into it,
// cross-resource references are expressed with [Ref] and [GetAtt], and
// [Render] serializes the finished graph as JSON or YAML.
package template

import (
	"fmt"
	"sort"
)

// FormatVersion is the CloudFormation template format version.
const FormatVersion = "2010-09-09"

// Template is one CloudFormation stack template.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty"`
	Metadata                 map[string]any       `json:"Metadata,omitempty"`
	Resources                map[string]*Resource `json:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty"`
}

// Resource is a single declared resource.
type Resource struct {
	Type       string         `json:"Type"`
	DependsOn  []string       `json:"DependsOn,omitempty"`
	Properties map[string]any `json:"Properties"`
}

// Output is a stack output.
type Output struct {
	Description string `json:"Description,omitempty"`
	Value       any    `json:"Value"`
	Export      any    `json:"Export,omitempty"`
}

// New returns an empty template.
func New(description string) *Template {
	return &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              description,
		Resources:                make(map[string]*Resource),
		Outputs:                  make(map[string]Output),
	}
}

// Add declares a resource under logicalID. Declaring the same id twice is an
// error.
func (t *Template) Add(logicalID string, r *Resource) error {
	if logicalID == "" {
		return fmt.Errorf("resource of type %s has no logical id", r.Type)
	}
	if _, exists := t.Resources[logicalID]; exists {
		return fmt.Errorf("resource %s declared twice", logicalID)
	}
	if r.Properties == nil {
		r.Properties = map[string]any{}
	}
	t.Resources[logicalID] = r
	return nil
}

// Resource returns the resource declared under logicalID, or nil.
func (t *Template) Resource(logicalID string) *Resource {
	return t.Resources[logicalID]
}

// AddOutput declares a stack output.
func (t *Template) AddOutput(name string, out Output) {
	t.Outputs[name] = out
}

// LogicalIDs returns the declared logical ids, sorted.
func (t *Template) LogicalIDs() []string {
	ids := make([]string, 0, len(t.Resources))
	for id := range t.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CountByType returns how many resources of each type are declared.
func (t *Template) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, r := range t.Resources {
		counts[r.Type]++
	}
	return counts
}

// Validate checks that every Ref, GetAtt and DependsOn points at a declared
// resource.
func (t *Template) Validate() error {
	for _, id := range t.LogicalIDs() {
		r := t.Resources[id]
		for _, dep := range r.DependsOn {
			if _, ok := t.Resources[dep]; !ok {
				return fmt.Errorf("resource %s depends on undeclared %s", id, dep)
			}
		}
		for _, ref := range collectRefs(r.Properties) {
			if _, ok := t.Resources[ref]; !ok {
				return fmt.Errorf("resource %s references undeclared %s", id, ref)
			}
		}
	}
	return nil
}
