package managed

import (
	"github.com/gogpu/shaderkit/internal/cache"
	"github.com/gogpu/shaderkit/ssl"
)

// ParseCache shares parsed sources between programs that include the same
// files. Entries are keyed by the source text, so an edited file is parsed
// again and a reverted one hits the old entry.
//
// ParseCache is safe for concurrent use.
type ParseCache struct {
	c *cache.Cache[parseKey, *ssl.ParsedSource]
}

type parseKey struct {
	text    string
	dialect ssl.Dialect
	strict  bool
}

// NewParseCache returns a cache holding about limit sources. A limit of 0
// means unlimited.
func NewParseCache(limit int) *ParseCache {
	return &ParseCache{c: cache.New[parseKey, *ssl.ParsedSource](limit)}
}

// WithParseCache makes the program look up parsed sources in pc.
func WithParseCache(pc *ParseCache) Option {
	return func(mp *ManagedProgram) { mp.parseCache = pc }
}

func (pc *ParseCache) parse(text string, dialect ssl.Dialect, strict bool) (*ssl.ParsedSource, error) {
	return pc.c.GetOrLoad(parseKey{text, dialect, strict}, func() (*ssl.ParsedSource, error) {
		return parseSource(text, dialect, strict)
	})
}

func parseSource(text string, dialect ssl.Dialect, strict bool) (*ssl.ParsedSource, error) {
	opts := []ssl.ParseOption{ssl.WithDialect(dialect)}
	if strict {
		opts = append(opts, ssl.WithStrict())
	}
	return ssl.Parse(text, opts...)
}

// Len returns the number of cached sources.
func (pc *ParseCache) Len() int { return pc.c.Len() }

// Stats returns the number of cache hits and misses.
func (pc *ParseCache) Stats() (hits, misses uint64) {
	s := pc.c.Stats()
	return s.Hits, s.Misses
}
