package acquire

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, present Presenter) (*Scheduler, *Sampler) {
	t.Helper()
	link := newFakeLink(map[string][]byte{
		"READ A0\n": {0x52, 0x01, 0x07},
	})
	s, _ := newTestSampler(t, link)
	sched := NewScheduler(s, present, time.Millisecond, 2*time.Millisecond)
	return sched, s
}

func TestNewScheduler_Defaults(t *testing.T) {
	sched := NewScheduler(nil, nil, 0, 0)

	assert.Equal(t, DefaultSamplePeriod, sched.samplePeriod)
	assert.Equal(t, DefaultDisplayPeriod, sched.displayPeriod)
	assert.False(t, sched.IsRunning())
}

func TestNewScheduler_DisplayNeverUndercutsSample(t *testing.T) {
	sched := NewScheduler(nil, nil, 100*time.Millisecond, 10*time.Millisecond)

	assert.Equal(t, sched.samplePeriod, sched.displayPeriod)
}

func TestScheduler_RunsRounds(t *testing.T) {
	sched, sampler := newTestScheduler(t, nil)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.True(t, sched.IsRunning())
	assert.Eventually(t, func() bool {
		return sampler.Stats().Rounds >= 3
	}, time.Second, time.Millisecond)
}

func TestScheduler_InvokesPresenter(t *testing.T) {
	var presented atomic.Int64
	sched, _ := newTestScheduler(t, func() { presented.Add(1) })

	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		return presented.Load() >= 2
	}, time.Second, time.Millisecond)
}

func TestScheduler_StartTwice(t *testing.T) {
	sched, _ := newTestScheduler(t, nil)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Error(t, sched.Start())
}

func TestScheduler_StopHaltsBothActivities(t *testing.T) {
	var presented atomic.Int64
	sched, sampler := newTestScheduler(t, func() { presented.Add(1) })

	require.NoError(t, sched.Start())
	assert.Eventually(t, func() bool {
		return sampler.Stats().Rounds >= 1 && presented.Load() >= 1
	}, time.Second, time.Millisecond)

	sched.Stop()
	assert.False(t, sched.IsRunning())

	rounds := sampler.Stats().Rounds
	shown := presented.Load()

	// Nothing moves once stopped.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, rounds, sampler.Stats().Rounds)
	assert.Equal(t, shown, presented.Load())
}

func TestScheduler_StopIdempotent(t *testing.T) {
	sched, _ := newTestScheduler(t, nil)

	sched.Stop() // never started

	require.NoError(t, sched.Start())
	sched.Stop()
	sched.Stop()

	assert.False(t, sched.IsRunning())
}

func TestScheduler_Restart(t *testing.T) {
	sched, sampler := newTestScheduler(t, nil)

	require.NoError(t, sched.Start())
	assert.Eventually(t, func() bool {
		return sampler.Stats().Rounds >= 1
	}, time.Second, time.Millisecond)
	sched.Stop()

	rounds := sampler.Stats().Rounds

	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		return sampler.Stats().Rounds > rounds
	}, time.Second, time.Millisecond)
}
