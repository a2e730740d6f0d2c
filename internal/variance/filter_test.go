package variance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parksops/ar-api/internal/permissions"
)

func record(subAreaID string, roles ...string) Record {
	return Record{
		ORCS:      "0330",
		SubAreaID: subAreaID,
		Activity:  "hiking",
		Date:      "202401",
		Roles:     roles,
	}
}

func TestFilterByRolesAdminSeesAll(t *testing.T) {
	records := []Record{
		record("SA1", "sysadmin", "0330:SA1"),
		record("SA2", "sysadmin", "0330:SA2"),
	}
	perm := permissions.Permission{IsAuthenticated: true, IsAdmin: true, Roles: []string{"sysadmin"}}
	assert.Equal(t, records, FilterByRoles(records, perm))
}

func TestFilterByRolesIntersection(t *testing.T) {
	records := []Record{
		record("SA1", "sysadmin", "0330:SA1"),
		record("SA2", "sysadmin", "0330:SA2"),
		record("SA3", "sysadmin", "0330:SA3"),
	}
	perm := permissions.Permission{IsAuthenticated: true, Roles: []string{"0330:SA1", "0330:SA3"}}

	visible := FilterByRoles(records, perm)
	assert.Len(t, visible, 2)
	assert.Equal(t, "SA1", visible[0].SubAreaID, "input order preserved")
	assert.Equal(t, "SA3", visible[1].SubAreaID)
}

func TestFilterByRolesEmptyIntersection(t *testing.T) {
	records := []Record{record("SA1", "sysadmin", "0330:SA1")}
	perm := permissions.Permission{IsAuthenticated: true, Roles: []string{"0220:SA1"}}
	assert.Empty(t, FilterByRoles(records, perm))
}

func TestFilterByRolesNoRoles(t *testing.T) {
	records := []Record{record("SA1", "sysadmin", "0330:SA1")}
	perm := permissions.Permission{IsAuthenticated: true}
	assert.Empty(t, FilterByRoles(records, perm))
}

func TestFilterByRolesUnauthenticated(t *testing.T) {
	records := []Record{record("SA1", "sysadmin", "0330:SA1")}
	assert.Empty(t, FilterByRoles(records, permissions.Permission{}))
}

func TestFilterByRolesDoesNotMutateInput(t *testing.T) {
	records := []Record{
		record("SA1", "sysadmin", "0330:SA1"),
		record("SA2", "sysadmin", "0330:SA2"),
	}
	snapshot := append([]Record(nil), records...)
	perm := permissions.Permission{IsAuthenticated: true, Roles: []string{"0330:SA2"}}

	FilterByRoles(records, perm)
	assert.Equal(t, snapshot, records)
}
