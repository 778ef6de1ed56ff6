package domain

// FieldUpdate is a closed set of legal batch mutations. Each variant edits a
// fetched descriptor copy in place; the coordinator then re-saves the whole
// document (the remote API has no partial-update endpoint).
type FieldUpdate interface {
	Apply(d *Descriptor)
	Field() string
}

// SetEnabled flips the enabled flag.
type SetEnabled struct {
	Value bool `json:"value"`
}

func (u SetEnabled) Apply(d *Descriptor) { d.Enabled = u.Value }
func (u SetEnabled) Field() string       { return "enabled" }

// SetHidden flips the hidden flag.
type SetHidden struct {
	Value bool `json:"value"`
}

func (u SetHidden) Apply(d *Descriptor) { d.Hidden = u.Value }
func (u SetHidden) Field() string       { return "hidden" }

// SetCarousel flips the useForCarousel flag.
type SetCarousel struct {
	Value bool `json:"value"`
}

func (u SetCarousel) Apply(d *Descriptor) { d.UseForCarousel = u.Value }
func (u SetCarousel) Field() string       { return "useForCarousel" }

// AddDeal appends a deal id if not already associated.
type AddDeal struct {
	DealID string `json:"dealId"`
}

func (u AddDeal) Apply(d *Descriptor) {
	for _, id := range d.Deals {
		if id == u.DealID {
			return
		}
	}
	d.Deals = append(d.Deals, u.DealID)
}
func (u AddDeal) Field() string { return "deals" }

// RemoveDeal drops a deal id; absent ids are a no-op.
type RemoveDeal struct {
	DealID string `json:"dealId"`
}

func (u RemoveDeal) Apply(d *Descriptor) {
	out := d.Deals[:0]
	for _, id := range d.Deals {
		if id != u.DealID {
			out = append(out, id)
		}
	}
	d.Deals = out
}
func (u RemoveDeal) Field() string { return "deals" }

// SetInsurance sets or clears the default insurance coverage.
type SetInsurance struct {
	CoverageID string `json:"coverageId"` // empty clears
}

func (u SetInsurance) Apply(d *Descriptor) { d.DefaultInsuranceCoverage = u.CoverageID }
func (u SetInsurance) Field() string       { return "defaultInsuranceCoverage" }

// SetUpsells replaces the upgradesTo list.
type SetUpsells struct {
	Targets []UpgradeTarget `json:"targets"`
}

func (u SetUpsells) Apply(d *Descriptor) {
	d.UpgradesTo = append([]UpgradeTarget(nil), u.Targets...)
}
func (u SetUpsells) Field() string { return "upgradesTo" }

// SetGroupLabel stamps the client-side group membership label.
type SetGroupLabel struct {
	Label string `json:"label"`
}

func (u SetGroupLabel) Apply(d *Descriptor) { d.GroupLabel = u.Label }
func (u SetGroupLabel) Field() string       { return "groupLabel" }
