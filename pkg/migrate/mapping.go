package migrate

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/namespace"
)

// LegacyPrefixMapping maps class names beginning with a legacy prefix onto a
// target namespace. Values are immutable once built by NewLegacyPrefixMapping.
type LegacyPrefixMapping struct {
	legacyPrefix string
	newNamespace string
	excluded     map[string]struct{}
}

// NewLegacyPrefixMapping validates and builds a mapping. The exclusion list is
// copied; duplicates are ignored.
func NewLegacyPrefixMapping(legacyPrefix, newNamespace string, excludedClasses ...string) (LegacyPrefixMapping, error) {
	if legacyPrefix == "" {
		return LegacyPrefixMapping{}, ErrEmptyPrefix
	}

	if !namespace.IsIdentifier(legacyPrefix) {
		return LegacyPrefixMapping{}, fmt.Errorf("%w: %q", ErrInvalidPrefix, legacyPrefix)
	}

	if !namespace.IsValid(newNamespace) {
		return LegacyPrefixMapping{}, fmt.Errorf("%w: %q", ErrInvalidNamespace, newNamespace)
	}

	excluded := make(map[string]struct{}, len(excludedClasses))
	for _, class := range excludedClasses {
		excluded[namespace.Trim(class)] = struct{}{}
	}

	return LegacyPrefixMapping{
		legacyPrefix: legacyPrefix,
		newNamespace: namespace.Trim(newNamespace),
		excluded:     excluded,
	}, nil
}

// MustLegacyPrefixMapping is like NewLegacyPrefixMapping but panics on error.
// It is meant for package-level policy tables.
func MustLegacyPrefixMapping(legacyPrefix, newNamespace string, excludedClasses ...string) LegacyPrefixMapping {
	m, err := NewLegacyPrefixMapping(legacyPrefix, newNamespace, excludedClasses...)
	if err != nil {
		panic(err)
	}

	return m
}

// LegacyPrefix returns the legacy class name prefix, e.g. "JFormField".
func (m LegacyPrefixMapping) LegacyPrefix() string { return m.legacyPrefix }

// NewNamespace returns the target namespace without a leading separator.
func (m LegacyPrefixMapping) NewNamespace() string { return m.newNamespace }

// Pattern returns the glob that a name must match for this mapping.
func (m LegacyPrefixMapping) Pattern() string { return m.legacyPrefix + "*" }

// Excludes reports whether name is one of the excluded classes.
func (m LegacyPrefixMapping) Excludes(name string) bool {
	_, ok := m.excluded[name]

	return ok
}

// ExcludedClasses returns the excluded class names, sorted.
func (m LegacyPrefixMapping) ExcludedClasses() []string {
	out := make([]string, 0, len(m.excluded))
	for class := range m.excluded {
		out = append(out, class)
	}

	slices.Sort(out)

	return out
}

func (m LegacyPrefixMapping) String() string {
	return fmt.Sprintf("%s* -> %s", m.legacyPrefix, m.newNamespace)
}
