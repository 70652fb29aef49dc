package migrate

import (
	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultGlobCacheSize bounds the number of compiled patterns kept around.
const defaultGlobCacheSize = 256

// NameMatcher tests class names against glob patterns where "*" matches any
// suffix. Matching is case-sensitive and anchored at the start of the name.
// A NameMatcher is safe for concurrent use.
type NameMatcher struct {
	cache *lru.Cache[string, glob.Glob]
}

// NewNameMatcher creates a matcher that caches up to size compiled patterns.
// A non-positive size selects the default.
func NewNameMatcher(size int) *NameMatcher {
	if size <= 0 {
		size = defaultGlobCacheSize
	}

	cache, err := lru.New[string, glob.Glob](size)
	if err != nil {
		// Only returned for a non-positive size, which is excluded above.
		panic(err)
	}

	return &NameMatcher{cache: cache}
}

// Matches reports whether name matches pattern. Invalid patterns never match.
func (nm *NameMatcher) Matches(name, pattern string) bool {
	g, ok := nm.compile(pattern)
	if !ok {
		return false
	}

	return g.Match(name)
}

func (nm *NameMatcher) compile(pattern string) (glob.Glob, bool) {
	if g, ok := nm.cache.Get(pattern); ok {
		return g, true
	}

	// No separators, so "*" also spans namespace backslashes.
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, false
	}

	nm.cache.Add(pattern, g)

	return g, true
}
