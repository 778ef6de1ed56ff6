package matching

import (
	"testing"

	"rapidstor-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []domain.UnitType {
	return []domain.UnitType{
		{ID: "U1", TypeName: "10 sq ft Regular", TotalUnits: 10, Occupied: 6, Reserved: 1, Vacant: 3},
		{ID: "U2", TypeName: "10 sq ft Premium", TotalUnits: 5, Vacant: 5},
		{ID: "U3", TypeName: "25 sqft Drive-Up", TotalUnits: 8, Occupied: 8},
		{ID: "U4", TypeName: "10.0 sq ft Legacy", TotalUnits: 4, Vacant: 4},
	}
}

func ids(uts []domain.UnitType) []string {
	out := make([]string, len(uts))
	for i, ut := range uts {
		out[i] = ut.ID
	}
	return out
}

func TestMatch_ExplicitCriteriaWinsOverKeyword(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{
		Name:     "10 sq ft Regular",
		Criteria: domain.Criteria{Include: domain.CriteriaInclude{Sizes: []string{"U1"}}},
	}
	matched, strategy := m.Match(d, catalog())
	assert.Equal(t, "explicit_criteria", strategy)
	assert.Equal(t, []string{"U1"}, ids(matched))
}

func TestMatch_UnknownExplicitIDsDroppedSilently(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{
		Name:     "10 sq ft Regular",
		Criteria: domain.Criteria{Include: domain.CriteriaInclude{Sizes: []string{"U1", "GONE"}}},
	}
	matched, _ := m.Match(d, catalog())
	assert.Equal(t, []string{"U1"}, ids(matched))
}

func TestMatch_StaleExplicitIDsDoNotFallBackToKeyword(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{
		Name:     "10 sq ft Regular",
		Criteria: domain.Criteria{Include: domain.CriteriaInclude{Sizes: []string{"GONE"}}},
	}
	matched, strategy := m.Match(d, catalog())
	assert.Equal(t, "explicit_criteria", strategy)
	assert.Empty(t, matched)
}

func TestMatch_DirectUnitTypesSecondPriority(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{Name: "10 sq ft Regular", UnitTypes: []string{"U3"}}
	matched, strategy := m.Match(d, catalog())
	assert.Equal(t, "direct_unit_types", strategy)
	assert.Equal(t, []string{"U3"}, ids(matched))
}

func TestMatch_UpgradeTargetsUsedAsInventorySource(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{
		Name: "no size here",
		UpgradesTo: []domain.UpgradeTarget{
			{TargetID: "U2", Reason: "Premium upgrade"},
			{TargetID: "U2"}, // duplicate target dedupes
		},
	}
	matched, strategy := m.Match(d, catalog())
	assert.Equal(t, "upgrade_targets", strategy)
	assert.Equal(t, []string{"U2"}, ids(matched))
}

func TestMatch_SizeTokenFallback(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{Name: "10 sq ft Value Unit"}
	matched, strategy := m.Match(d, catalog())
	require.Equal(t, "size_token", strategy)
	// U4 is "10.0" — token strings compare, not numbers
	assert.Equal(t, []string{"U1", "U2"}, ids(matched))
}

func TestMatch_TokenEqualityIsStringNotNumeric(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{Name: "10 sq ft Special"}
	matched, _ := m.Match(d, catalog())
	for _, ut := range matched {
		assert.NotEqual(t, "U4", ut.ID)
	}
}

func TestMatch_NoTokenMatchesNothing(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{Name: "Wine Storage Locker"}
	matched, strategy := m.Match(d, catalog())
	assert.Equal(t, "size_token", strategy)
	assert.Empty(t, matched)
}

func TestMatch_EmptyCatalog(t *testing.T) {
	m := NewMatcher()
	d := domain.Descriptor{Name: "10 sq ft Regular"}
	matched, _ := m.Match(d, nil)
	assert.Empty(t, matched)
}

func TestExtractSizeToken(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"10 sq ft Regular", "10"},
		{"10sqft Premium", "10"},
		{"10 SQ FT upper", "10"},
		{"50-75 sq ft Large", "50-75"},
		{"50 - 75 sqft Large", "50-75"},
		{"10.0 sq ft Legacy", "10.0"},
		{"12' locker", "12"},
		{"25 feet shed", "25"},
		{"25 sq. ft. unit", "25"},
		{"no size", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractSizeToken(tc.name), tc.name)
	}
}

func TestSizeBounds(t *testing.T) {
	lower, upper, ok := SizeBounds("50-75 sq ft Large")
	require.True(t, ok)
	assert.Equal(t, 50.0, lower)
	assert.Equal(t, 75.0, upper)

	lower, upper, ok = SizeBounds("10 sq ft Regular")
	require.True(t, ok)
	assert.Equal(t, 10.0, lower)
	assert.Equal(t, 10.0, upper)

	_, _, ok = SizeBounds("Wine Locker")
	assert.False(t, ok)
}
