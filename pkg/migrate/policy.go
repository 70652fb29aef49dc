package migrate

import "fmt"

// PolicyTable is an ordered, read-only list of mappings. The first mapping
// that applies to a name wins. It is safe to share between goroutines.
type PolicyTable struct {
	mappings []LegacyPrefixMapping
	matcher  *NameMatcher
}

// NewPolicyTable builds a table over a copy of mappings, keeping their order.
func NewPolicyTable(mappings ...LegacyPrefixMapping) *PolicyTable {
	return &PolicyTable{
		mappings: append([]LegacyPrefixMapping(nil), mappings...),
		matcher:  NewNameMatcher(len(mappings)),
	}
}

// Len returns the number of mappings.
func (pt *PolicyTable) Len() int { return len(pt.mappings) }

// Mappings returns a copy of the mappings in priority order.
func (pt *PolicyTable) Mappings() []LegacyPrefixMapping {
	return append([]LegacyPrefixMapping(nil), pt.mappings...)
}

// Resolve returns the mapping that applies to name, if any.
func (pt *PolicyTable) Resolve(name string) (LegacyPrefixMapping, bool) {
	m, err := pt.Explain(name)

	return m, err == nil
}

// Explain is Resolve with the reason for a miss: ErrExcluded or ErrNoMatch.
//
// An exclusion hit ends the lookup: later mappings are not consulted even
// if one of them would match.
func (pt *PolicyTable) Explain(name string) (LegacyPrefixMapping, error) {
	for _, m := range pt.mappings {
		if m.Excludes(name) {
			return LegacyPrefixMapping{}, fmt.Errorf("%w: %s by %s", ErrExcluded, name, m)
		}

		if pt.matcher.Matches(name, m.Pattern()) {
			return m, nil
		}
	}

	return LegacyPrefixMapping{}, ErrNoMatch
}
