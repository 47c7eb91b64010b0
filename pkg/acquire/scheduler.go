package acquire

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultSamplePeriod is the acquisition cadence.
	DefaultSamplePeriod = 100 * time.Millisecond
	// DefaultDisplayPeriod is the presentation cadence.
	DefaultDisplayPeriod = 110 * time.Millisecond
)

// Presenter is invoked at the presentation cadence with no arguments; it
// is expected to pull snapshots itself.
type Presenter func()

// Scheduler drives the two periodic activities: acquisition rounds and
// presentation. They start and stop together, never independently, so
// the presenter is never left running against a store nobody refreshes.
type Scheduler struct {
	sampler *Sampler
	present Presenter

	samplePeriod  time.Duration
	displayPeriod time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a stopped scheduler. Zero periods select the
// defaults; the display period is raised to the sample period if it
// undercuts it.
func NewScheduler(sampler *Sampler, present Presenter, samplePeriod, displayPeriod time.Duration) *Scheduler {
	if samplePeriod <= 0 {
		samplePeriod = DefaultSamplePeriod
	}
	if displayPeriod <= 0 {
		displayPeriod = DefaultDisplayPeriod
	}
	if displayPeriod < samplePeriod {
		displayPeriod = samplePeriod
	}
	if present == nil {
		present = func() {}
	}

	return &Scheduler{
		sampler:       sampler,
		present:       present,
		samplePeriod:  samplePeriod,
		displayPeriod: displayPeriod,
	}
}

// Start launches both periodic activities.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	s.wg.Add(2)
	go s.acquireLoop(ctx)
	go s.presentLoop(ctx)

	return nil
}

// Stop cancels future ticks and waits for both loops to exit. An
// in-flight round completes on its own; it is never interrupted
// mid-channel, so the wait is bounded by one round.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
}

// IsRunning returns whether the scheduler has been started and not yet
// stopped.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// acquireLoop runs sampler rounds at the sample cadence. Rounds never
// overlap: the next tick is not serviced until the current round
// returns, and ticks missed while a round overruns are dropped by the
// ticker rather than queued.
func (s *Scheduler) acquireLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.samplePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			s.sampler.Round()
			if d := time.Since(start); d > s.samplePeriod {
				log.Warn().Dur("round", d).Dur("period", s.samplePeriod).
					Msg("acquisition round overran its period")
			}
		}
	}
}

// presentLoop invokes the presenter at the display cadence.
func (s *Scheduler) presentLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.displayPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.present()
		}
	}
}
