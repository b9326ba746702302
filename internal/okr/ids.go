package okr

import (
	"okr-tracker-api/internal/ident"
)

// NextSequentialID returns max(ids)+1, or 1 when no id is numeric. Unset and
// non-numeric ids are ignored.
//
// This only describes the numbering policy; concurrent writers must let the
// store assign ids atomically rather than calling this and inserting.
func NextSequentialID(ids []any) int64 {
	var max int64
	for _, raw := range ids {
		n, err := ident.Int64(raw)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}
