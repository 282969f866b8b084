package template

import "sort"

// taggableTypes lists the resource types that accept a Tags property.
var taggableTypes = map[string]bool{
	TypeLambdaFunction: true,
	TypeIAMRole:        true,
	TypeSecurityGroup:  true,
}

// Resource types declared by the provisioning phases.
const (
	TypeLambdaFunction   = "AWS::Lambda::Function"
	TypeLambdaPermission = "AWS::Lambda::Permission"
	TypeIAMRole          = "AWS::IAM::Role"
	TypeSecurityGroup    = "AWS::EC2::SecurityGroup"
	TypeEventsRule       = "AWS::Events::Rule"
)

// Taggable reports whether resources of type t accept tags.
func Taggable(t string) bool {
	return taggableTypes[t]
}

// SetTags replaces the Tags property with tags in CloudFormation's
// Key/Value list form, sorted by key. It is a no-op for types that do not
// accept tags.
func (r *Resource) SetTags(tags map[string]string) {
	if !Taggable(r.Type) {
		return
	}
	r.Properties["Tags"] = TagList(tags)
}

// Tags returns the Tags property decoded back into a map.
func (r *Resource) Tags() map[string]string {
	list, ok := r.Properties["Tags"].([]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(list))
	for _, item := range list {
		kv, ok := item.(map[string]any)
		if !ok {
			continue
		}
		k, _ := kv["Key"].(string)
		v, _ := kv["Value"].(string)
		out[k] = v
	}
	return out
}

// TagList converts tags into CloudFormation's Key/Value list form.
func TagList(tags map[string]string) []any {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]any, 0, len(keys))
	for _, k := range keys {
		list = append(list, map[string]any{"Key": k, "Value": tags[k]})
	}
	return list
}
