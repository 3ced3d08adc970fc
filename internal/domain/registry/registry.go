// Package registry tracks the category names a user has entered, in
// first-seen order, and drives typeahead suggestions.
package registry

import (
	"encoding/json"
	"strings"
	"sync"
)

// CategoriesKey is the settings key the registry mirrors itself to.
const CategoriesKey = "categories"

// SettingsStore is the persistence the registry seeds from and mirrors to.
type SettingsStore interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// Registry is a deduplicated, insertion-ordered set of category names.
// It grows monotonically: deleting items never removes their categories.
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	names []string
	seen  map[string]bool
	store SettingsStore
}

// NewRegistry creates a registry seeded from the store. A missing or
// malformed stored value seeds an empty registry.
func NewRegistry(store SettingsStore) *Registry {
	r := &Registry{
		seen:  make(map[string]bool),
		store: store,
	}

	if store == nil {
		return r
	}

	raw, ok, err := store.GetSetting(CategoriesKey)
	if err != nil || !ok {
		return r
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return r
	}

	for _, name := range names {
		if name == "" || r.seen[name] {
			continue
		}
		r.names = append(r.names, name)
		r.seen[name] = true
	}

	return r
}

// Register adds a category name if it is non-empty and not already present.
// Presence is checked with an exact, case-sensitive comparison even though
// Suggest matches case-insensitively; "Grocery" and "grocery" are distinct
// entries. Reports whether the name was added; every add is mirrored to the
// store.
func (r *Registry) Register(name string) bool {
	if name == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen[name] {
		return false
	}

	r.names = append(r.names, name)
	r.seen[name] = true
	r.persist()

	return true
}

// Suggest returns the registered names containing q, case-insensitively, in
// registry order. An empty query matches every name.
func (r *Registry) Suggest(q string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(q)
	matches := make([]string, 0, len(r.names))
	for _, name := range r.names {
		if strings.Contains(strings.ToLower(name), needle) {
			matches = append(matches, name)
		}
	}
	return matches
}

// All returns every registered name in insertion order.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}

// persist mirrors the full list to the store. Callers must hold the write
// lock. Store failures are swallowed: the in-memory registry stays usable
// and re-persists on the next change.
func (r *Registry) persist() {
	if r.store == nil {
		return
	}

	data, err := json.Marshal(r.names)
	if err != nil {
		return
	}
	_ = r.store.SetSetting(CategoriesKey, string(data))
}
