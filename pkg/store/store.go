package store

import (
	"sync"

	"github.com/fluidlab/gofluid/pkg/channel"
)

// DefaultWindow is the number of values retained per channel.
const DefaultWindow = 50

// ring is a fixed-capacity FIFO of values. Appending to a full ring
// overwrites the oldest value.
type ring struct {
	vals []float64
	head int // index of the oldest value
	n    int // number of stored values, n <= len(vals)
}

func (r *ring) append(v float64) {
	if r.n < len(r.vals) {
		r.vals[(r.head+r.n)%len(r.vals)] = v
		r.n++
		return
	}
	r.vals[r.head] = v
	r.head = (r.head + 1) % len(r.vals)
}

func (r *ring) snapshot() []float64 {
	out := make([]float64, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.vals[(r.head+i)%len(r.vals)]
	}
	return out
}

// Store holds the most recent values of every registered channel, one
// fixed-size window per channel. Rings are created up front and never
// removed; a channel with no samples yet simply has an empty window.
// Safe for one writer and any number of readers.
type Store struct {
	mu     sync.RWMutex
	rings  map[channel.ID]*ring
	window int
}

// New creates a store with one ring per registered channel. A window of 0
// means DefaultWindow.
func New(reg *channel.Registry, window int) *Store {
	if window <= 0 {
		window = DefaultWindow
	}

	s := &Store{
		rings:  make(map[channel.ID]*ring, reg.Len()),
		window: window,
	}
	for _, id := range reg.IDs() {
		s.rings[id] = &ring{vals: make([]float64, window)}
	}

	return s
}

// Append records a value for the given channel, evicting the oldest value
// once the window is full. Values for channels outside the registry are
// dropped.
func (s *Store) Append(id channel.ID, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rings[id]
	if !ok {
		return
	}
	r.append(v)
}

// Snapshot returns a copy of the channel's window ordered oldest first.
// Unknown channels yield nil. The returned slice is the caller's to keep.
func (s *Store) Snapshot(id channel.ID) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rings[id]
	if !ok {
		return nil
	}
	return r.snapshot()
}

// Len returns the number of values currently held for the channel.
func (s *Store) Len(id channel.ID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rings[id]
	if !ok {
		return 0
	}
	return r.n
}

// Capacity returns the per-channel window size.
func (s *Store) Capacity() int {
	return s.window
}
