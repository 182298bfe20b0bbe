package member

import (
	"strings"
	"time"
)

// GenderAll disables the gender criterion in a FilterSpec.
const GenderAll = "all"

// FilterSpec carries the active search/gender/date criteria for filtering a
// member collection. Zero values leave the corresponding criterion inactive.
// StartDate and EndDate use DateLayout; a malformed date string deactivates
// that bound rather than raising an error.
type FilterSpec struct {
	Search    string
	Gender    string // GenderAll or one of the gender values
	StartDate string
	EndDate   string
}

// ApplyFilter returns the members matching every active criterion in spec,
// preserving their relative order.
// PRE: members may be nil
// POST: Result is a subsequence of members; input is never mutated
func ApplyFilter(members []Member, spec FilterSpec) []Member {
	searchLower := strings.ToLower(spec.Search)
	start, hasStart := parseFilterDate(spec.StartDate)
	end, hasEnd := parseFilterDate(spec.EndDate)

	var out []Member
	for _, m := range members {
		if !matchesSearch(m, spec.Search, searchLower) {
			continue
		}
		if spec.Gender != "" && spec.Gender != GenderAll && m.Gender != spec.Gender {
			continue
		}
		if hasStart && m.RegistrationDate.Before(start) {
			continue
		}
		if hasEnd && m.RegistrationDate.After(end) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// matchesSearch checks the free-text criterion: case-insensitive substring
// over first name, last name and email, or a raw substring over phone.
// An empty search always matches.
func matchesSearch(m Member, raw, lower string) bool {
	if raw == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.FirstName), lower) ||
		strings.Contains(strings.ToLower(m.LastName), lower) ||
		strings.Contains(strings.ToLower(m.Email), lower) ||
		strings.Contains(m.Phone, raw)
}

// parseFilterDate parses a DateLayout string. Empty or malformed input leaves
// the bound inactive.
func parseFilterDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
