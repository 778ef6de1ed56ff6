package viewmodel

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"rapidstor-backend/internal/domain"
	"rapidstor-backend/internal/inventory"
	"rapidstor-backend/internal/matching"
)

// UngroupedLabel is the bucket for descriptors whose name has no size token.
const UngroupedLabel = "Ungrouped"

// DescriptorView is one descriptor with its derived inventory block attached.
type DescriptorView struct {
	domain.Descriptor
	Inventory        domain.InventoryStats `json:"inventory"`
	MatchedUnitTypes []string              `json:"matchedUnitTypes"`
	MatchedBy        string                `json:"matchedBy,omitempty"`
}

// Group is one size-token bucket with its own aggregated stats.
type Group struct {
	Label       string                `json:"label"`
	Descriptors []DescriptorView      `json:"descriptors"`
	Inventory   domain.InventoryStats `json:"inventory"`
}

// Lookups are O(1) id maps for the display join.
type Lookups struct {
	Deals     map[string]domain.Deal              `json:"deals"`
	Insurance map[string]domain.InsuranceCoverage `json:"insurance"`
	UnitTypes map[string]domain.UnitType          `json:"unitTypes"`
}

// AggregateStats is the request-level header block: sums across the filtered
// descriptor set plus raw catalog totals.
type AggregateStats struct {
	DescriptorCount int                   `json:"descriptorCount"`
	EnabledCount    int                   `json:"enabledCount"`
	Descriptors     domain.InventoryStats `json:"descriptors"`
	Catalog         domain.InventoryStats `json:"catalog"`
}

// ViewModel is the full payload consumed by the manager UI.
type ViewModel struct {
	Views     []DescriptorView           `json:"descriptors"`
	Deals     []domain.Deal              `json:"deals"`
	Insurance []domain.InsuranceCoverage `json:"insurance"`
	UnitTypes []domain.UnitType          `json:"unitTypes"`
	Lookups   Lookups                    `json:"lookups"`
	Stats     AggregateStats             `json:"stats"`
	Groups    []Group                    `json:"groupedDescriptors,omitempty"`
}

// Params are the request-scoped build options. All state is explicit; the
// builder holds nothing between requests.
type Params struct {
	Search      string
	SortKey     string
	SortDesc    bool
	GroupBySize bool
}

// Builder assembles the view model from freshly fetched catalogs. Inputs are
// never mutated in place; output is deterministic for identical inputs.
type Builder struct {
	matcher *matching.Matcher
}

// NewBuilder returns a Builder using the production matching chain.
func NewBuilder() *Builder {
	return &Builder{matcher: matching.NewMatcher()}
}

// Build runs match → aggregate → filter → sort → (optionally) group.
func (b *Builder) Build(descriptors []domain.Descriptor, unitTypes []domain.UnitType, deals []domain.Deal, insurance []domain.InsuranceCoverage, p Params) *ViewModel {
	views := make([]DescriptorView, 0, len(descriptors))
	for _, d := range descriptors {
		matched, strategy := b.matcher.Match(d, unitTypes)
		ids := make([]string, 0, len(matched))
		for _, ut := range matched {
			ids = append(ids, ut.ID)
		}
		views = append(views, DescriptorView{
			Descriptor:       d,
			Inventory:        inventory.Aggregate(matched),
			MatchedUnitTypes: ids,
			MatchedBy:        strategy,
		})
	}

	views = filterViews(views, p.Search)
	sortViews(views, p.SortKey, p.SortDesc)

	vm := &ViewModel{
		Views:     views,
		Deals:     deals,
		Insurance: insurance,
		UnitTypes: unitTypes,
		Lookups:   buildLookups(deals, insurance, unitTypes),
		Stats:     buildStats(views, unitTypes),
	}
	if p.GroupBySize {
		vm.Groups = b.buildGroups(views, unitTypes)
	}
	return vm
}

// filterViews keeps descriptors where the term appears in name, description,
// or specialText (case-insensitive, OR semantics). Empty term keeps all.
func filterViews(views []DescriptorView, term string) []DescriptorView {
	if term == "" {
		return views
	}
	needle := strings.ToLower(term)
	out := views[:0]
	for _, v := range views {
		if strings.Contains(strings.ToLower(v.Name), needle) ||
			strings.Contains(strings.ToLower(v.Description), needle) ||
			strings.Contains(strings.ToLower(v.SpecialText), needle) {
			out = append(out, v)
		}
	}
	return out
}

// sortViews stable-sorts by the requested key: numeric comparison when both
// values parse as numbers, else case-insensitive string comparison. Unknown
// or empty keys sort by ordinalPosition, ties broken by document order
// (stability).
func sortViews(views []DescriptorView, key string, desc bool) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := sortValue(views[i], key), sortValue(views[j], key)
		if desc {
			a, b = b, a
		}
		return compareValues(a, b)
	})
}

func sortValue(v DescriptorView, key string) string {
	switch key {
	case "name":
		return v.Name
	case "description":
		return v.Description
	case "occupancy":
		return strconv.FormatFloat(v.Inventory.Occupancy, 'f', -1, 64)
	case "availability":
		return strconv.FormatFloat(v.Inventory.Availability, 'f', -1, 64)
	case "total":
		return strconv.Itoa(v.Inventory.Total)
	case "vacant":
		return strconv.Itoa(v.Inventory.Vacant)
	default:
		return strconv.Itoa(v.OrdinalPosition)
	}
}

func compareValues(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

func buildLookups(deals []domain.Deal, insurance []domain.InsuranceCoverage, unitTypes []domain.UnitType) Lookups {
	l := Lookups{
		Deals:     make(map[string]domain.Deal, len(deals)),
		Insurance: make(map[string]domain.InsuranceCoverage, len(insurance)),
		UnitTypes: make(map[string]domain.UnitType, len(unitTypes)),
	}
	for _, d := range deals {
		l.Deals[d.ID] = d
	}
	for _, ins := range insurance {
		l.Insurance[ins.ID] = ins
	}
	for _, ut := range unitTypes {
		l.UnitTypes[ut.ID] = ut
	}
	return l
}

// buildStats sums the already-computed per-descriptor blocks, so the header
// totals always equal the sum of what the table shows.
func buildStats(views []DescriptorView, unitTypes []domain.UnitType) AggregateStats {
	s := AggregateStats{DescriptorCount: len(views)}
	for _, v := range views {
		if v.Enabled {
			s.EnabledCount++
		}
		s.Descriptors.Total += v.Inventory.Total
		s.Descriptors.Occupied += v.Inventory.Occupied
		s.Descriptors.Reserved += v.Inventory.Reserved
		s.Descriptors.Vacant += v.Inventory.Vacant
	}
	if s.Descriptors.Total > 0 {
		s.Descriptors.Occupancy = percent(s.Descriptors.Occupied, s.Descriptors.Total)
		s.Descriptors.Availability = percent(s.Descriptors.Vacant, s.Descriptors.Total)
	}
	s.Catalog = inventory.Aggregate(unitTypes)
	return s
}

// buildGroups buckets by the size token of each descriptor's name; no token
// goes to "Ungrouped". Group stats re-aggregate every member's matched unit
// types, duplicates included (compatibility with the existing manager's
// group totals).
func (b *Builder) buildGroups(views []DescriptorView, unitTypes []domain.UnitType) []Group {
	order := []string{}
	buckets := map[string][]DescriptorView{}
	matchedSets := map[string][][]domain.UnitType{}

	for _, v := range views {
		label := matching.ExtractSizeToken(v.Name)
		if label == "" {
			label = UngroupedLabel
		}
		if _, ok := buckets[label]; !ok {
			order = append(order, label)
		}
		buckets[label] = append(buckets[label], v)
		matched, _ := b.matcher.Match(v.Descriptor, unitTypes)
		matchedSets[label] = append(matchedSets[label], matched)
	}

	groups := make([]Group, 0, len(order))
	for _, label := range order {
		groups = append(groups, Group{
			Label:       label,
			Descriptors: buckets[label],
			Inventory:   inventory.AggregateGroup(matchedSets[label]),
		})
	}
	return groups
}

func percent(part, total int) float64 {
	return math.Round(float64(part)/float64(total)*1000) / 10
}
