package form

import (
	"fmt"
	"sync"
)

// Ticket identifies one upload started for a row.
type Ticket struct {
	Section SectionName
	Key     string
	seq     uint64
}

// UploadTracker keeps at most one live upload per row. Starting a new upload
// for a row makes the previous one stale, and removing the row cancels it.
type UploadTracker struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewUploadTracker() *UploadTracker {
	return &UploadTracker{latest: make(map[string]uint64)}
}

func trackKey(section SectionName, key string) string {
	return fmt.Sprintf("%s/%s", section, key)
}

func (t *UploadTracker) Begin(section SectionName, key string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.latest[trackKey(section, key)] = t.seq
	return Ticket{Section: section, Key: key, seq: t.seq}
}

// Finish reports whether tk is still the current upload of its row, and
// clears the in-flight flag when it is.
func (t *UploadTracker) Finish(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := trackKey(tk.Section, tk.Key)
	if cur, ok := t.latest[k]; !ok || cur != tk.seq {
		return false
	}
	delete(t.latest, k)
	return true
}

func (t *UploadTracker) Cancel(section SectionName, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.latest, trackKey(section, key))
}

func (t *UploadTracker) InFlight(section SectionName, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.latest[trackKey(section, key)]
	return ok
}
