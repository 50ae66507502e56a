package backoffice

import "sync"

// memo caches the last computed value for a dependency key. A different key
// recomputes and replaces the entry.
type memo[K comparable, V any] struct {
	mu    sync.Mutex
	valid bool
	key   K
	value V
}

func (m *memo[K, V]) get(key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.key == key {
		return m.value
	}
	m.value = compute()
	m.key = key
	m.valid = true
	return m.value
}

type productSearchKey struct {
	snapshot *Snapshot
	term     string
}

type inventoryKey struct {
	snapshot *Snapshot
	filter   InventoryFilter
}
