// Package entitykey derives the deterministic keys used to merge managers
// and addresses across companies in the graph store.
package entitykey

import (
	"sort"
	"strings"

	"company_profiler/pkg/models"
)

// ManagerKey returns "{date_of_birth}|{name}". A manager without a birth
// date cannot be told apart from namesakes and yields false.
func ManagerKey(m models.ManagementEntry) (string, bool) {
	name := normalize(m.Name)
	if m.DateOfBirth.IsZero() || name == "" {
		return "", false
	}
	return m.DateOfBirth.String() + "|" + name, true
}

// ManagerKeys keys every identifiable manager. The result is sorted and free
// of duplicates, so it does not depend on roster order or on a person
// holding several roles.
func ManagerKeys(management []models.ManagementEntry) []string {
	seen := make(map[string]bool, len(management))
	keys := make([]string, 0, len(management))
	for _, m := range management {
		k, ok := ManagerKey(m)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddressKey joins the "street house_number" and "postal_code city"
// fragments with ", ". Without a street line the postal code and city are
// separate fragments ("1010, Wien"). It returns nil when nothing is set.
func AddressKey(a *models.Address) *string {
	if a == nil {
		return nil
	}
	var parts []string
	if line := join(a.Street, a.HouseNumber); line != "" {
		parts = append(parts, line)
		if locality := join(a.PostalCode, a.City); locality != "" {
			parts = append(parts, locality)
		}
	} else {
		for _, v := range []string{a.PostalCode, a.City} {
			if v = normalize(v); v != "" {
				parts = append(parts, v)
			}
		}
	}
	if len(parts) == 0 {
		return nil
	}
	key := strings.Join(parts, ", ")
	return &key
}

func join(values ...string) string {
	var kept []string
	for _, v := range values {
		if v = normalize(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, " ")
}

// normalize trims and collapses internal whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
