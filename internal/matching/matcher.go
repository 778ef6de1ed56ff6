package matching

import (
	"strconv"

	"rapidstor-backend/internal/domain"
)

// MatchStrategy resolves the unit types one descriptor selects. applicable is
// false when the strategy's source field is absent, letting the chain fall
// through; when a strategy applies, its result is final even if id resolution
// left it empty (stale explicit ids never fall back to name matching).
type MatchStrategy interface {
	Name() string
	Match(d domain.Descriptor, catalog []domain.UnitType) (matched []domain.UnitType, applicable bool)
}

// explicitCriteria resolves criteria.include.sizes ids against the catalog.
// Unknown ids are dropped silently (stale client state, not an error).
type explicitCriteria struct{}

func (explicitCriteria) Name() string { return "explicit_criteria" }

func (explicitCriteria) Match(d domain.Descriptor, catalog []domain.UnitType) ([]domain.UnitType, bool) {
	if len(d.Criteria.Include.Sizes) == 0 {
		return nil, false
	}
	return resolveIDs(d.Criteria.Include.Sizes, catalog), true
}

// directUnitTypes resolves the legacy top-level unitTypes id list.
type directUnitTypes struct{}

func (directUnitTypes) Name() string { return "direct_unit_types" }

func (directUnitTypes) Match(d domain.Descriptor, catalog []domain.UnitType) ([]domain.UnitType, bool) {
	if len(d.UnitTypes) == 0 {
		return nil, false
	}
	return resolveIDs(d.UnitTypes, catalog), true
}

// upgradeTargets treats upgradesTo[].targetId entries as matched unit types.
// This conflates "upgrade target" with "inventory source" and is kept for
// output compatibility with the existing manager; it sits behind its own
// strategy value so it can be dropped from the chain without touching the
// rest. See DESIGN.md.
type upgradeTargets struct{}

func (upgradeTargets) Name() string { return "upgrade_targets" }

func (upgradeTargets) Match(d domain.Descriptor, catalog []domain.UnitType) ([]domain.UnitType, bool) {
	if len(d.UpgradesTo) == 0 {
		return nil, false
	}
	ids := make([]string, 0, len(d.UpgradesTo))
	for _, u := range d.UpgradesTo {
		ids = append(ids, u.TargetID)
	}
	return resolveIDs(ids, catalog), true
}

// sizeTokenMatch pairs descriptors and unit types whose names carry the same
// extracted size token. String equality only; a side with no extractable
// token never matches.
type sizeTokenMatch struct{}

func (sizeTokenMatch) Name() string { return "size_token" }

func (sizeTokenMatch) Match(d domain.Descriptor, catalog []domain.UnitType) ([]domain.UnitType, bool) {
	token := ExtractSizeToken(d.Name)
	if token == "" {
		return nil, true // terminal strategy: applies, matches nothing
	}
	var out []domain.UnitType
	for _, ut := range catalog {
		if ExtractSizeToken(ut.TypeName) == token {
			out = append(out, ut)
		}
	}
	return out, true
}

// Matcher runs the fallback chain in priority order and stops at the first
// applicable strategy. Results are deduplicated by unit-type id.
type Matcher struct {
	chain []MatchStrategy
}

// NewMatcher builds the production chain: explicit criteria ids, then the
// direct unitTypes list, then upgrade targets, then size-token name matching.
func NewMatcher() *Matcher {
	return &Matcher{chain: []MatchStrategy{
		explicitCriteria{},
		directUnitTypes{},
		upgradeTargets{},
		sizeTokenMatch{},
	}}
}

// Match returns the unit types the descriptor selects and the name of the
// strategy that decided. An empty catalog yields an empty match, not an error.
func (m *Matcher) Match(d domain.Descriptor, catalog []domain.UnitType) ([]domain.UnitType, string) {
	for _, s := range m.chain {
		matched, applicable := s.Match(d, catalog)
		if applicable {
			return dedupe(matched), s.Name()
		}
	}
	return nil, ""
}

func resolveIDs(ids []string, catalog []domain.UnitType) []domain.UnitType {
	byID := make(map[string]domain.UnitType, len(catalog))
	for _, ut := range catalog {
		byID[ut.ID] = ut
	}
	var out []domain.UnitType
	for _, id := range ids {
		if ut, ok := byID[id]; ok {
			out = append(out, ut)
		}
	}
	return out
}

func dedupe(uts []domain.UnitType) []domain.UnitType {
	if len(uts) < 2 {
		return uts
	}
	seen := make(map[string]bool, len(uts))
	out := uts[:0]
	for _, ut := range uts {
		if !seen[ut.ID] {
			seen[ut.ID] = true
			out = append(out, ut)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
