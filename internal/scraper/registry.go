// internal/scraper/registry.go
//
// Platform tag → adapter registry.
//
// Adapters call Register from an init() function, the same way components
// register widgets; cmd/aptscrape blank-imports the platforms package so
// every adapter is bound before the first scrape.  After process start the
// map is read-only — there is no re-registration path, and no other package
// holds the map.
package scraper

import "sync"

var (
	mu       sync.RWMutex
	registry = map[string]Adapter{}
)

// skipPlatforms marks tags whose buildings are excluded from batch runs:
// not-yet-classified rows from the registry sheet, and sites known dead.
var skipPlatforms = map[string]struct{}{
	"needs_classification": {},
	"dead":                 {},
}

// Register binds tag to adapter.  Called from init() only; a duplicate tag
// overwrites, which is deliberate so a test can shadow a real adapter.
func Register(tag string, a Adapter) {
	mu.Lock()
	registry[tag] = a
	mu.Unlock()
}

// Resolve returns the adapter for tag, or ErrUnknownPlatform.
func Resolve(tag string) (Adapter, error) {
	mu.RLock()
	defer mu.RUnlock()
	if a, ok := registry[tag]; ok {
		return a, nil
	}
	return nil, ErrUnknownPlatform
}

// Skippable reports whether buildings carrying tag are excluded from
// scraping.  The empty tag (unassigned platform) is always skippable.
func Skippable(tag string) bool {
	if tag == "" {
		return true
	}
	_, ok := skipPlatforms[tag]
	return ok
}

// SkipTags returns the tags excluded from batch runs, for repository
// filters.
func SkipTags() []string {
	out := make([]string, 0, len(skipPlatforms))
	for tag := range skipPlatforms {
		out = append(out, tag)
	}
	return out
}

// Tags returns the registered platform tags, for logs and sanity checks.
func Tags() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for tag := range registry {
		out = append(out, tag)
	}
	return out
}
