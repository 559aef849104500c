package catalog

import (
	"sort"
	"strings"

	"envase-return-backend/internal/model"
)

// familyLabel normalizes an item's family: uppercase, blank -> GENERAL.
func familyLabel(item model.Envase) string {
	f := strings.ToUpper(strings.TrimSpace(item.Familia))
	if f == "" {
		return "GENERAL"
	}
	return f
}

// Families derives the ordered list of family buckets present in the
// given items: unique uppercase labels, blanks folded into GENERAL,
// sorted ascending. The first entry is the default active family.
func Families(items []model.Envase) []string {
	seen := make(map[string]struct{})
	var families []string
	for _, item := range items {
		f := familyLabel(item)
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		families = append(families, f)
	}
	sort.Strings(families)
	return families
}

// ItemsForFamily filters items down to one family bucket.
func ItemsForFamily(items []model.Envase, family string) []model.Envase {
	family = strings.ToUpper(strings.TrimSpace(family))
	var out []model.Envase
	for _, item := range items {
		if familyLabel(item) == family {
			out = append(out, item)
		}
	}
	return out
}
