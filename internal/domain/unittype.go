package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Count tolerates the RapidStor API sending unit counts as numbers, numeric
// strings, or null; anything unparseable reads as 0 (the API gives no schema
// guarantee and matching/aggregation must never fail on bad catalog data).
type Count int

// UnmarshalJSON implements json.Unmarshaler for number/string/null inputs.
func (n *Count) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = Count(int(f))
		return nil
	}
	*n = 0
	return nil
}

// MarshalJSON emits a plain number regardless of the source representation.
func (n Count) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(n))
}

// Int returns the count as a plain int.
func (n Count) Int() int { return int(n) }

// UnitType is one inventory category at a location, fetched read-only per
// request. The source system does not guarantee occupied+reserved+vacant ==
// totalUnits; counts are used as given.
type UnitType struct {
	ID         string `json:"id"`
	TypeName   string `json:"typeName"`
	TotalUnits Count  `json:"totalUnits"`
	Occupied   Count  `json:"occupied"`
	Reserved   Count  `json:"reserved"`
	Vacant     Count  `json:"vacant"`
}
