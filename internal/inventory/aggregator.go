package inventory

import (
	"math"

	"rapidstor-backend/internal/domain"
)

// Aggregate sums matched unit types into one stats block. Always returns a
// complete record; zero matches yield all zeros, never an error. Percentages
// round to one decimal and are 0 when total is 0.
func Aggregate(matched []domain.UnitType) domain.InventoryStats {
	var s domain.InventoryStats
	for _, ut := range matched {
		s.Total += ut.TotalUnits.Int()
		s.Occupied += ut.Occupied.Int()
		s.Reserved += ut.Reserved.Int()
		s.Vacant += ut.Vacant.Int()
	}
	if s.Total > 0 {
		s.Occupancy = round1(float64(s.Occupied) / float64(s.Total) * 100)
		s.Availability = round1(float64(s.Vacant) / float64(s.Total) * 100)
	}
	return s
}

// AggregateGroup sums across every descriptor's matched set in a group.
// A unit type claimed by two descriptors in the group counts twice: the
// existing manager's group totals work this way and downstream consumers
// read those numbers, so the double counting is kept. See DESIGN.md.
func AggregateGroup(matchedPerDescriptor [][]domain.UnitType) domain.InventoryStats {
	var all []domain.UnitType
	for _, matched := range matchedPerDescriptor {
		all = append(all, matched...)
	}
	return Aggregate(all)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
