package application

import (
	"sync"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/agenda"
)

// timelineCache stores recently aggregated timelines so that panel refreshes
// between data changes do not hit the repositories again. Entries expire
// quickly; correctness only requires that stale timelines never outlive the
// TTL.
type timelineCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]timelineCacheEntry
}

type timelineCacheEntry struct {
	timeline  agenda.Timeline
	expiresAt time.Time
}

func newTimelineCache(ttl time.Duration, maxEntries int, now func() time.Time) *timelineCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &timelineCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]timelineCacheEntry),
	}
}

func (c *timelineCache) Get(key string) (agenda.Timeline, bool) {
	if c == nil {
		return agenda.Timeline{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return agenda.Timeline{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return agenda.Timeline{}, false
	}
	return cloneTimeline(entry.timeline), true
}

func (c *timelineCache) Store(key string, timeline agenda.Timeline) {
	if c == nil {
		return
	}
	cloned := cloneTimeline(timeline)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = timelineCacheEntry{timeline: cloned, expiresAt: expiry}
}

func (c *timelineCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]timelineCacheEntry)
	c.mu.Unlock()
}

func (c *timelineCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *timelineCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneTimeline(timeline agenda.Timeline) agenda.Timeline {
	out := agenda.Timeline{Empty: timeline.Empty}
	if len(timeline.Warnings) > 0 {
		out.Warnings = make([]string, len(timeline.Warnings))
		copy(out.Warnings, timeline.Warnings)
	}
	if len(timeline.Days) > 0 {
		out.Days = make([]agenda.DayGroup, len(timeline.Days))
		for i, group := range timeline.Days {
			events := make([]agenda.Event, len(group.Events))
			copy(events, group.Events)
			out.Days[i] = agenda.DayGroup{Day: group.Day, Events: events}
		}
	}
	return out
}
