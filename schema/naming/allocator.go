// Package naming derives readable record names from document keys and keeps
// them unique within one generation run.
package naming

import "strconv"

// Allocator hands out unique names. The first request for a base returns it
// unchanged; later requests append 2, 3, ... skipping names already issued.
// Names are never reused within a run. Not safe for concurrent use.
type Allocator struct {
	used map[string]struct{}
	next map[string]int
}

// NewAllocator creates an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		used: make(map[string]struct{}),
		next: make(map[string]int),
	}
}

// Reserve marks names as taken without returning them, e.g. identifiers the
// target language already uses.
func (a *Allocator) Reserve(names ...string) {
	for _, n := range names {
		a.used[n] = struct{}{}
	}
}

// Uniquify returns base or the first free base+N with N >= 2.
func (a *Allocator) Uniquify(base string) string {
	if _, taken := a.used[base]; !taken {
		a.used[base] = struct{}{}
		return base
	}
	n := a.next[base]
	if n < 2 {
		n = 2
	}
	for {
		candidate := base + strconv.Itoa(n)
		n++
		if _, taken := a.used[candidate]; !taken {
			a.used[candidate] = struct{}{}
			a.next[base] = n
			return candidate
		}
	}
}

// Used reports whether name has been issued or reserved.
func (a *Allocator) Used(name string) bool {
	_, ok := a.used[name]
	return ok
}
