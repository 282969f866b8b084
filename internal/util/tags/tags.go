package tags

import (
	"sort"

	"github.com/imamik/mailcron/internal/config"
)

// Standard tag keys.
const (
	KeyApplicationID  = "ApplicationID"
	KeyBillingService = "Billing-Service"
	KeyServiceType    = "Service-Type"
	KeyEnvironment    = "Environment"
)

// StandardKeys returns the keys Build always produces, sorted.
func StandardKeys() []string {
	return []string{KeyApplicationID, KeyBillingService, KeyEnvironment, KeyServiceType}
}

// Set is a finalized tag set.
type Set map[string]string

// Build returns the standard tag set for st. Service-Type and Environment
// both carry the stage. It has no side effects; the returned map is owned by
// the caller.
func Build(st config.StandardTags) Set {
	return Set{
		KeyApplicationID:  st.ApplicationTag,
		KeyBillingService: st.BillingServiceTag,
		KeyServiceType:    st.Stage.String(),
		KeyEnvironment:    st.Stage.String(),
	}
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a copy of s with other's entries written over it.
func (s Set) Merge(other Set) Set {
	out := s.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the keys of s, sorted.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Taggable is implemented by every provisioning unit.
type Taggable interface {
	Tags() Set
	SetTags(Set)
}

// Apply merges set into unit's tags, last write wins per key. Applying the
// same set again leaves the unit unchanged.
func Apply(unit Taggable, set Set) {
	current := unit.Tags()
	if current == nil {
		current = Set{}
	}
	unit.SetTags(current.Merge(set))
}

// ApplyAll applies set to each unit.
func ApplyAll(set Set, units ...Taggable) {
	for _, u := range units {
		Apply(u, set)
	}
}
