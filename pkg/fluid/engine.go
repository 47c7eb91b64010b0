package fluid

import (
	"fmt"
	"sync"

	"github.com/fluidlab/gofluid/pkg/acquire"
	"github.com/fluidlab/gofluid/pkg/board"
	"github.com/fluidlab/gofluid/pkg/channel"
	"github.com/fluidlab/gofluid/pkg/config"
	"github.com/fluidlab/gofluid/pkg/store"
)

// View is one presentation's worth of channel snapshots, keyed by
// channel, each ordered oldest first.
type View map[channel.ID][]float64

// Engine wires the link, sampler, store and scheduler together behind
// the surface collaborators consume. History in the store survives
// stop/start cycles and reconnects; only process exit clears it.
type Engine struct {
	cfg  *config.Config
	reg  *channel.Registry
	link board.Link
	st   *store.Store

	sampler *acquire.Sampler
	sched   *acquire.Scheduler

	cbMu      sync.RWMutex
	callbacks []func(View)
}

// New creates an engine from the configuration. A nil configuration
// selects the defaults. A nil link selects the real serial link; the
// sim and tests pass their own.
func New(cfg *config.Config, link board.Link) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build channel registry: %w", err)
	}

	if link == nil {
		link = board.NewSerial(&cfg.Serial)
	}

	st := store.New(reg, cfg.Sampling.Window)
	sampler := acquire.New(link, reg, st, cfg.Sampling.Settle())

	e := &Engine{
		cfg:     cfg,
		reg:     reg,
		link:    link,
		st:      st,
		sampler: sampler,
	}
	e.sched = acquire.NewScheduler(sampler, e.present,
		cfg.Sampling.SamplePeriod(), cfg.Sampling.DisplayPeriod())

	return e, nil
}

// Connect opens the link. An empty portHint falls back to the configured
// port, and with that empty too, to discovery. A failed connect leaves
// the engine disconnected; rounds are no-ops until a later connect
// succeeds.
func (e *Engine) Connect(portHint string) error {
	if portHint == "" {
		portHint = e.cfg.Serial.Port
	}
	return e.link.Connect(portHint)
}

// Start launches the acquisition and presentation cadences together.
func (e *Engine) Start() error {
	return e.sched.Start()
}

// Stop halts both cadences together. An in-flight round completes; the
// stored history stays.
func (e *Engine) Stop() {
	e.sched.Stop()
}

// Close stops acquisition and closes the link.
func (e *Engine) Close() error {
	e.sched.Stop()
	return e.link.Close()
}

// Running returns whether acquisition is currently scheduled.
func (e *Engine) Running() bool {
	return e.sched.IsRunning()
}

// Connected returns whether the link is open.
func (e *Engine) Connected() bool {
	return e.link.IsConnected()
}

// Port returns the name of the open port, empty when disconnected.
func (e *Engine) Port() string {
	return e.link.Port()
}

// Channels returns the channel identifiers in acquisition order.
func (e *Engine) Channels() []channel.ID {
	return e.reg.IDs()
}

// Snapshot returns a copy of one channel's window, oldest first.
func (e *Engine) Snapshot(id channel.ID) []float64 {
	return e.st.Snapshot(id)
}

// Window returns the per-channel history capacity.
func (e *Engine) Window() int {
	return e.st.Capacity()
}

// Stats returns a copy of the acquisition counters.
func (e *Engine) Stats() acquire.Stats {
	return e.sampler.Stats()
}

// OnUpdate registers a callback invoked at the presentation cadence with
// fresh snapshots of every channel. Callbacks share one View per tick
// and should treat it as read-only and return quickly.
func (e *Engine) OnUpdate(cb func(View)) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.callbacks = append(e.callbacks, cb)
}

// present gathers snapshots and fans them out. Copies are taken under
// the store's read lock; callbacks run without any lock held.
func (e *Engine) present() {
	view := make(View, e.reg.Len())
	for _, id := range e.reg.IDs() {
		view[id] = e.st.Snapshot(id)
	}

	e.cbMu.RLock()
	callbacks := make([]func(View), len(e.callbacks))
	copy(callbacks, e.callbacks)
	e.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(view)
		}
	}
}
