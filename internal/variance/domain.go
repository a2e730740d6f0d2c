// Package variance implements the role-scoped query and update engine for
// variance records: composite key construction, store query building, result
// filtering by role ownership, and authorized conditional updates.
package variance

import (
	"fmt"
	"strings"

	"github.com/parksops/ar-api/internal/shared"
)

// Record is one variance entry as stored. Roles is the exact allow-list
// attached at write time; it is the authority the role filter consults, not a
// recomputation from the park hierarchy.
type Record struct {
	PK        string   `dynamodbav:"pk" json:"pk"`
	SK        string   `dynamodbav:"sk" json:"sk"`
	ORCS      string   `dynamodbav:"orcs" json:"orcs"`
	SubAreaID string   `dynamodbav:"subAreaId" json:"subAreaId"`
	Activity  string   `dynamodbav:"activity" json:"activity"`
	Date      string   `dynamodbav:"date" json:"date"`
	Resolved  bool     `dynamodbav:"resolved" json:"resolved"`
	Notes     string   `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
	Fields    []string `dynamodbav:"fields,omitempty" json:"fields,omitempty"`
	Bundle    string   `dynamodbav:"bundle,omitempty" json:"bundle,omitempty"`
	Roles     []string `dynamodbav:"roles" json:"roles"`
}

// ListInput captures a read request for variance records.
type ListInput struct {
	ORCS      string
	Date      string
	SubAreaID string
	Activity  string
	// Resolved filters on resolution status when set; an explicit false is a
	// meaningful filter value, not an absent one.
	Resolved *bool
	// Cursor is the opaque continuation token from a prior page. Its internal
	// structure belongs to the store and is never inspected here.
	Cursor string
}

// Validate checks required parameters and the query shape. Orcs and date are
// mandatory; an activity without a sub-area cannot be expressed against the
// sort key and is rejected outright.
func (in ListInput) Validate() error {
	if strings.TrimSpace(in.ORCS) == "" {
		return fmt.Errorf("variance: orcs required: %w", shared.ErrInvalidRequest)
	}
	if strings.TrimSpace(in.Date) == "" {
		return fmt.Errorf("variance: date required: %w", shared.ErrInvalidRequest)
	}
	if in.Activity != "" && in.SubAreaID == "" {
		return fmt.Errorf("variance: activity requires subAreaId: %w", shared.ErrInvalidQueryCombination)
	}
	components := []string{in.ORCS, in.Date, in.SubAreaID, in.Activity}
	for _, c := range components {
		if err := checkKeyComponent(c); err != nil {
			return fmt.Errorf("%w: %w", err, shared.ErrInvalidRequest)
		}
	}
	return nil
}

// UpdatePatch is the explicit optional-field set for a partial update. A nil
// pointer means "leave unchanged"; a set pointer carries the new value.
type UpdatePatch struct {
	Notes    *string
	Resolved *bool
	Fields   []string
	Bundle   *string
}

// UpdateInput identifies one variance record and the attributes to change.
type UpdateInput struct {
	ORCS      string
	Date      string
	SubAreaID string
	Activity  string
	Patch     UpdatePatch
}

// Validate checks that the four identifying components are present and clean.
func (in UpdateInput) Validate() error {
	components := []struct {
		name  string
		value string
	}{
		{"orcs", in.ORCS},
		{"date", in.Date},
		{"subAreaId", in.SubAreaID},
		{"activity", in.Activity},
	}
	for _, c := range components {
		if strings.TrimSpace(c.value) == "" {
			return fmt.Errorf("variance: %s required: %w", c.name, shared.ErrInvalidRequest)
		}
		if err := checkKeyComponent(c.value); err != nil {
			return fmt.Errorf("%w: %w", err, shared.ErrInvalidRequest)
		}
	}
	return nil
}
