package domain

// InventoryStats is the derived occupancy block for one descriptor or one
// group. Recomputed fully on every fetch, never cached.
type InventoryStats struct {
	Total        int     `json:"total"`
	Occupied     int     `json:"occupied"`
	Reserved     int     `json:"reserved"`
	Vacant       int     `json:"vacant"`
	Occupancy    float64 `json:"occupancy"`
	Availability float64 `json:"availability"`
}
