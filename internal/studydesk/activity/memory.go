package activity

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	last time.Time
	idle bool
}

// Memory keeps activity in process. Sessions are not shared between
// replicas, so multi-instance deployments should use Redis.
type Memory struct {
	opts Options

	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory(opts Options) *Memory {
	return &Memory{opts: opts.withDefaults(), entries: make(map[string]entry)}
}

func (m *Memory) Touch(_ context.Context, key string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	switch {
	case ok && e.idle:
		return ErrIdle
	case ok && now.Sub(e.last) > m.opts.IdleTimeout:
		m.entries[key] = entry{last: e.last, idle: true}
		return ErrIdle
	}

	m.entries[key] = entry{last: now}
	return nil
}

func (m *Memory) Sweep(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k, e := range m.entries {
		if now.Sub(e.last) > m.opts.Retention {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len reports how many keys are tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
