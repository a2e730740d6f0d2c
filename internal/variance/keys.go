package variance

import (
	"errors"
	"fmt"
	"strings"
)

// keyDelim separates composite key components. No component may contain it;
// the reverse mapping would no longer be lossless.
const keyDelim = "::"

// ErrInvalidKeyComponent indicates a key component containing the delimiter.
var ErrInvalidKeyComponent = errors.New("variance: key component contains delimiter")

func checkKeyComponent(c string) error {
	if strings.Contains(c, keyDelim) {
		return fmt.Errorf("%w: %q", ErrInvalidKeyComponent, c)
	}
	return nil
}

func checkKeyComponents(cs ...string) error {
	for _, c := range cs {
		if err := checkKeyComponent(c); err != nil {
			return err
		}
	}
	return nil
}

// Key is a composite partition/sort key pair.
type Key struct {
	PK string
	SK string
}

// ParkKey builds the key for a park record.
func ParkKey(orcs string) (Key, error) {
	if err := checkKeyComponent(orcs); err != nil {
		return Key{}, err
	}
	return Key{PK: "park" + keyDelim + orcs, SK: orcs}, nil
}

// ParseParkKey recovers the orcs from a park key.
func ParseParkKey(k Key) (string, error) {
	if k.PK != "park"+keyDelim+k.SK {
		return "", fmt.Errorf("variance: malformed park key %q/%q", k.PK, k.SK)
	}
	return k.SK, nil
}

// SubAreaKey builds the key for a sub-area record. Sub-areas share their
// park's partition and sort on their own id.
func SubAreaKey(orcs, subAreaID string) (Key, error) {
	if err := checkKeyComponents(orcs, subAreaID); err != nil {
		return Key{}, err
	}
	return Key{PK: "park" + keyDelim + orcs, SK: subAreaID}, nil
}

// ParseSubAreaKey recovers (orcs, subAreaId) from a sub-area key.
func ParseSubAreaKey(k Key) (orcs, subAreaID string, err error) {
	rest, ok := strings.CutPrefix(k.PK, "park"+keyDelim)
	if !ok || rest == "" || k.SK == "" {
		return "", "", fmt.Errorf("variance: malformed sub-area key %q/%q", k.PK, k.SK)
	}
	return rest, k.SK, nil
}

// ActivityKey builds the key for an activity record: one sub-area activity
// partition, sorted by year-month date.
func ActivityKey(subAreaID, activity, date string) (Key, error) {
	if err := checkKeyComponents(subAreaID, activity, date); err != nil {
		return Key{}, err
	}
	return Key{PK: subAreaID + keyDelim + activity, SK: date}, nil
}

// ParseActivityKey recovers (subAreaId, activity, date) from an activity key.
func ParseActivityKey(k Key) (subAreaID, activity, date string, err error) {
	parts := strings.Split(k.PK, keyDelim)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || k.SK == "" {
		return "", "", "", fmt.Errorf("variance: malformed activity key %q/%q", k.PK, k.SK)
	}
	return parts[0], parts[1], k.SK, nil
}

// VarianceKey builds the key for a variance record. Every variance key is
// derived from exactly (orcs, date, subAreaId, activity).
func VarianceKey(orcs, date, subAreaID, activity string) (Key, error) {
	if err := checkKeyComponents(orcs, date, subAreaID, activity); err != nil {
		return Key{}, err
	}
	return Key{
		PK: variancePK(orcs, date),
		SK: subAreaID + keyDelim + activity,
	}, nil
}

// VarianceKeyParts are the components recovered from a variance key.
type VarianceKeyParts struct {
	ORCS      string
	Date      string
	SubAreaID string
	Activity  string
}

// ParseVarianceKey recovers the components from a variance key.
func ParseVarianceKey(k Key) (VarianceKeyParts, error) {
	pkParts := strings.Split(k.PK, keyDelim)
	skParts := strings.Split(k.SK, keyDelim)
	if len(pkParts) != 3 || pkParts[0] != "variance" || len(skParts) != 2 {
		return VarianceKeyParts{}, fmt.Errorf("variance: malformed variance key %q/%q", k.PK, k.SK)
	}
	parts := VarianceKeyParts{
		ORCS:      pkParts[1],
		Date:      pkParts[2],
		SubAreaID: skParts[0],
		Activity:  skParts[1],
	}
	if parts.ORCS == "" || parts.Date == "" || parts.SubAreaID == "" || parts.Activity == "" {
		return VarianceKeyParts{}, fmt.Errorf("variance: malformed variance key %q/%q", k.PK, k.SK)
	}
	return parts, nil
}

func variancePK(orcs, date string) string {
	return "variance" + keyDelim + orcs + keyDelim + date
}

func varianceSKPrefix(subAreaID string) string {
	return subAreaID + keyDelim
}
