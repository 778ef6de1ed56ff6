package suggest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rapidstor-backend/internal/domain"
	"rapidstor-backend/internal/matching"
)

const (
	maxSuggestions  = 3
	maxSizeStepUps  = 2
	minAvailability = 20.0
	premiumReason   = "Premium upgrade"
)

// Candidate is a descriptor paired with its current availability percentage.
type Candidate struct {
	Descriptor   domain.Descriptor
	Availability float64
}

// Engine generates advisory upsell suggestions from aggregated statistics.
// Nothing here persists; the caller decides whether to save the result.
type Engine struct{}

// Suggest applies the premium-upgrade rule then size step-ups, capped at
// three targets with no duplicates.
func (Engine) Suggest(current domain.Descriptor, candidates []Candidate) []domain.UpgradeTarget {
	var out []domain.UpgradeTarget
	seen := map[string]bool{current.ID: true}

	add := func(t domain.UpgradeTarget) {
		if len(out) >= maxSuggestions || seen[t.TargetID] {
			return
		}
		seen[t.TargetID] = true
		out = append(out, t)
	}

	// Rule A: same size token, "regular" -> "premium", enough availability.
	if strings.Contains(strings.ToLower(current.Name), "regular") {
		token := matching.ExtractSizeToken(current.Name)
		for _, c := range candidates {
			if token != "" &&
				matching.ExtractSizeToken(c.Descriptor.Name) == token &&
				strings.Contains(strings.ToLower(c.Descriptor.Name), "premium") &&
				c.Availability > minAvailability {
				add(domain.UpgradeTarget{TargetID: c.Descriptor.ID, Reason: premiumReason})
			}
		}
	}

	// Rule B: up to two strictly larger sizes with enough availability,
	// nearest first.
	if _, currentSize, ok := matching.SizeBounds(current.Name); ok {
		type stepUp struct {
			id    string
			size  float64
			delta float64
		}
		var steps []stepUp
		for _, c := range candidates {
			if c.Descriptor.ID == current.ID || c.Availability <= minAvailability {
				continue
			}
			_, size, ok := matching.SizeBounds(c.Descriptor.Name)
			if !ok || size <= currentSize {
				continue
			}
			steps = append(steps, stepUp{id: c.Descriptor.ID, size: size, delta: size - currentSize})
		}
		sort.SliceStable(steps, func(i, j int) bool { return steps[i].size < steps[j].size })
		taken := 0
		for _, s := range steps {
			if taken >= maxSizeStepUps {
				break
			}
			before := len(out)
			add(domain.UpgradeTarget{
				TargetID: s.id,
				Reason:   fmt.Sprintf("Larger Option +%ssqft", formatSize(s.delta)),
			})
			if len(out) > before {
				taken++
			}
		}
	}

	return out
}

func formatSize(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
