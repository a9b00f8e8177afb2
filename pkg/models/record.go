package models

import "time"

// DataRecord is one row of user data in a table, keyed by field name.
// Values are schema-typed at the edge (number fields hold float64 after JSON
// decoding, booleans hold bool, everything else strings).
type DataRecord struct {
	ID        string         `json:"id"`
	TableID   string         `json:"table_id"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
}

// Clone returns a deep copy of the record.
func (r *DataRecord) Clone() *DataRecord {
	out := *r
	out.Values = make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		out.Values[k] = v
	}
	return &out
}
