// Package admins holds the administrator identity registry. The set of
// administrator IDs is loaded once at startup from configuration and then
// changed only through explicit Add/Remove calls; nothing else in the
// application mutates it.
package admins

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Registry is a concurrency-safe set of administrator identifiers.
type Registry struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

// NewRegistry creates a registry pre-populated with the given IDs.
func NewRegistry(ids []int64) *Registry {
	r := &Registry{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		r.ids[id] = struct{}{}
	}
	return r
}

// FromStrings builds a registry from string-typed IDs, as they arrive from
// configuration. Blank entries are ignored; a non-numeric entry is an error.
func FromStrings(raw []string) (*Registry, error) {
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return NewRegistry(ids), nil
}

// IsAdmin reports whether id is currently an administrator.
func (r *Registry) IsAdmin(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.ids[id]
	return ok
}

// Add registers a new administrator. Returns false if the ID was already
// present.
func (r *Registry) Add(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; ok {
		return false
	}
	r.ids[id] = struct{}{}
	return true
}

// Remove deregisters an administrator. Returns false if the ID was not
// present.
func (r *Registry) Remove(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; !ok {
		return false
	}
	delete(r.ids, id)
	return true
}

// List returns the current administrator IDs in ascending order.
func (r *Registry) List() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of registered administrators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
