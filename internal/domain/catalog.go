package domain

// Deal is a promotion record owned by the remote catalog; consumed read-only
// for display and association.
type Deal struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Active      bool    `json:"active"`
	Amount      float64 `json:"amount,omitempty"`
}

// InsuranceCoverage is an insurance option owned by the remote catalog.
type InsuranceCoverage struct {
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	Active         bool    `json:"active"`
	CoverageAmount float64 `json:"coverageAmount,omitempty"`
	PremiumMonthly float64 `json:"premiumMonthly,omitempty"`
}
