// Package gate bounds simultaneous adapter invocations per platform.
//
// One weighted semaphore per platform tag, sized from a static table at
// construction.  Browser-driven platforms get a single permit because each
// invocation owns a Chromium page and the sites throttle aggressively;
// plain HTTP platforms tolerate two.  A tag the table has never heard of
// defaults to one permit, the conservative choice.
//
// The gate is built once at process start and never resized.  A permit is
// held for the full work unit (network fetch through DB commit), so the
// per-platform cap applies to the whole scrape, not just the request.
package gate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// platformClass carries the per-platform courtesy knobs: how many scrapes
// may run at once, and how long a runner idles after finishing one.
type platformClass struct {
	permits int64
	pace    time.Duration
}

const (
	pacerBrowser = 1000 * time.Millisecond
	pacerHTTP    = 200 * time.Millisecond
)

var classes = map[string]platformClass{
	"rentcafe": {permits: 2, pace: pacerHTTP},
	"ppm":      {permits: 2, pace: pacerHTTP},
	"funnel":   {permits: 2, pace: pacerHTTP},
	"realpage": {permits: 2, pace: pacerHTTP},
	"appfolio": {permits: 2, pace: pacerHTTP},
	"sightmap": {permits: 2, pace: pacerHTTP},
	"entrata":  {permits: 2, pace: pacerHTTP},
	"bozzuto":  {permits: 1, pace: pacerBrowser},
	"groupfox": {permits: 1, pace: pacerBrowser},
	"mri":      {permits: 1, pace: pacerBrowser},
	"llm":      {permits: 1, pace: pacerBrowser},
}

// defaultClass applies to tags outside the table.
var defaultClass = platformClass{permits: 1, pace: pacerBrowser}

// Gate is the per-platform semaphore registry.  Safe for concurrent use;
// semaphores are created lazily for unknown tags and never removed.
type Gate struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// New builds a Gate with a semaphore for every platform in the static table.
func New() *Gate {
	g := &Gate{sems: make(map[string]*semaphore.Weighted, len(classes))}
	for tag, cl := range classes {
		g.sems[tag] = semaphore.NewWeighted(cl.permits)
	}
	return g
}

// Acquire blocks until a permit for tag is available, or ctx is done.
func (g *Gate) Acquire(ctx context.Context, tag string) error {
	return g.sem(tag).Acquire(ctx, 1)
}

// Release returns tag's permit.  Must pair with a successful Acquire.
func (g *Gate) Release(tag string) {
	g.sem(tag).Release(1)
}

// Permits reports the cap for tag.
func Permits(tag string) int64 {
	if cl, ok := classes[tag]; ok {
		return cl.permits
	}
	return defaultClass.permits
}

// Pace returns the courtesy delay a runner sleeps after releasing tag's
// permit.  It is pacing, not a concurrency mechanism.
func Pace(tag string) time.Duration {
	if cl, ok := classes[tag]; ok {
		return cl.pace
	}
	return defaultClass.pace
}

func (g *Gate) sem(tag string) *semaphore.Weighted {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sems[tag]
	if !ok {
		s = semaphore.NewWeighted(Permits(tag))
		g.sems[tag] = s
	}
	return s
}
