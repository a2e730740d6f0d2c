package variance

import "github.com/parksops/ar-api/internal/permissions"

// FilterByRoles reduces records to those the caller is entitled to view: an
// admin sees everything, otherwise a record survives only when its allow-list
// intersects the caller's roles. The input order is preserved and the input
// slice is never mutated. An unauthenticated caller sees nothing; the handler
// boundary rejects those requests before any store access, this is a backstop.
func FilterByRoles(records []Record, perm permissions.Permission) []Record {
	if !perm.IsAuthenticated {
		return nil
	}
	if perm.IsAdmin {
		return records
	}
	visible := make([]Record, 0, len(records))
	for _, record := range records {
		if intersects(record.Roles, perm.Roles) {
			visible = append(visible, record)
		}
	}
	return visible
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
