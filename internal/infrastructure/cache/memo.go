package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"sync"
)

// ContentKey hashes the inputs into a stable memo key. Identical content
// always yields the same key, so recomputation is skipped even when the
// caller retries.
func ContentKey(prefix string, parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x1f")))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Memo is an in-process cache for expensive deterministic computations,
// keyed by content hash. It never evicts; entries are small and the process
// is restarted regularly.
type Memo struct {
	mu      sync.Mutex
	entries map[string]any
}

func NewMemo() *Memo {
	return &Memo{entries: make(map[string]any)}
}

// GetOrCompute returns the memoized value for key, computing and storing it
// on the first call. A compute error is returned without caching, so the
// next call retries.
func (m *Memo) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	m.mu.Lock()
	if v, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err := compute()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
	return v, nil
}

// Len reports the number of memoized entries.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
