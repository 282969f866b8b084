package provisioning

import (
	"github.com/imamik/mailcron/internal/template"
	"github.com/imamik/mailcron/internal/util/tags"
)

// ResourceUnit groups resources declared in one template so they can be
// tagged together.
type ResourceUnit struct {
	name       string
	tpl        *template.Template
	logicalIDs []string
	tags       tags.Set
}

// NewResourceUnit returns a unit covering logicalIDs in tpl.
func NewResourceUnit(name string, tpl *template.Template, logicalIDs ...string) *ResourceUnit {
	return &ResourceUnit{
		name:       name,
		tpl:        tpl,
		logicalIDs: logicalIDs,
	}
}

// UnitName implements Unit.
func (u *ResourceUnit) UnitName() string {
	return u.name
}

// LogicalIDs returns the resources covered by the unit.
func (u *ResourceUnit) LogicalIDs() []string {
	return append([]string(nil), u.logicalIDs...)
}

// Tags implements tags.Taggable.
func (u *ResourceUnit) Tags() tags.Set {
	return u.tags.Clone()
}

// SetTags implements tags.Taggable. The set is written to every taggable
// resource of the unit.
func (u *ResourceUnit) SetTags(set tags.Set) {
	u.tags = set.Clone()
	for _, id := range u.logicalIDs {
		if r := u.tpl.Resource(id); r != nil {
			r.SetTags(u.tags)
		}
	}
}
