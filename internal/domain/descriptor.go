package domain

// UpgradeTarget is one entry of a descriptor's upgradesTo list.
type UpgradeTarget struct {
	TargetID   string `json:"targetId"`
	Reason     string `json:"reason"`
	Icon       string `json:"icon,omitempty"`
	IconPrefix string `json:"iconPrefix,omitempty"`
}

// CriteriaInclude carries the explicit unit-type id list a descriptor selects.
type CriteriaInclude struct {
	Sizes []string `json:"sizes"`
}

// Criteria matches the RapidStor descriptor criteria block.
type Criteria struct {
	Include CriteriaInclude `json:"include"`
}

// Descriptor is a customer-facing storage-unit listing definition as stored by
// the RapidStor API. The API owns persistence; this service only derives
// statistics from it and orchestrates edits.
type Descriptor struct {
	ID                       string          `json:"id" validate:"required"`
	Name                     string          `json:"name" validate:"required"`
	Description              string          `json:"description"`
	SpecialText              string          `json:"specialText"`
	OrdinalPosition          int             `json:"ordinalPosition" validate:"gte=0"`
	Enabled                  bool            `json:"enabled"`
	Hidden                   bool            `json:"hidden"`
	UseForCarousel           bool            `json:"useForCarousel"`
	Keywords                 []string        `json:"keywords,omitempty"`
	Criteria                 Criteria        `json:"criteria"`
	UnitTypes                []string        `json:"unitTypes,omitempty"`
	Deals                    []string        `json:"deals"`
	DefaultInsuranceCoverage string          `json:"defaultInsuranceCoverage,omitempty"`
	UpgradesTo               []UpgradeTarget `json:"upgradesTo,omitempty"`
	GroupLabel               string          `json:"groupLabel,omitempty"`
}

// Clone returns a deep copy so mutation flows never alias slices with the
// fetched catalog (saves are full-document overwrites of the copy).
func (d Descriptor) Clone() Descriptor {
	out := d
	out.Keywords = append([]string(nil), d.Keywords...)
	out.Criteria.Include.Sizes = append([]string(nil), d.Criteria.Include.Sizes...)
	out.UnitTypes = append([]string(nil), d.UnitTypes...)
	out.Deals = append([]string(nil), d.Deals...)
	out.UpgradesTo = append([]UpgradeTarget(nil), d.UpgradesTo...)
	return out
}
