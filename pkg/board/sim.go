package board

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/fluidlab/gofluid/pkg/channel"
	"github.com/fluidlab/gofluid/pkg/config"
	"github.com/fluidlab/gofluid/pkg/wire"
)

// SimPortName is what a simulated link reports as its port.
const SimPortName = "sim"

// Sim simulates the acquisition board for testing and development.
// It answers READ requests with well-formed frames: drifting 10-bit
// counts on uint channels and a slow sine flow on float32 channels.
type Sim struct {
	cfg config.SimConfig
	reg *channel.Registry

	mu        sync.Mutex
	connected bool
	start     time.Time
	pending   []byte
}

// NewSim creates a simulated board serving the given channels. A nil
// configuration, or zero fields within one, selects the defaults field
// by field, the same way the configuration loader fills gaps.
func NewSim(reg *channel.Registry, cfg *config.SimConfig) *Sim {
	def := config.Default().Sim

	var c config.SimConfig
	if cfg != nil {
		c = *cfg
	}
	if c.BaseFlow == 0 {
		c.BaseFlow = def.BaseFlow
	}
	if c.FlowSwing == 0 {
		c.FlowSwing = def.FlowSwing
	}
	if c.PeriodMs <= 0 {
		c.PeriodMs = def.PeriodMs
	}
	if c.NoiseLevel == 0 {
		c.NoiseLevel = def.NoiseLevel
	}

	if reg == nil {
		reg = channel.Default()
	}

	return &Sim{
		cfg: c,
		reg: reg,
	}
}

// Connect marks the simulated link open. The port hint is ignored.
func (s *Sim) Connect(portHint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	s.connected = true
	s.start = time.Now()
	s.pending = nil

	return nil
}

// Close marks the simulated link closed. Closing twice is a no-op.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false
	s.pending = nil

	return nil
}

// IsConnected returns whether the simulated link is open.
func (s *Sim) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Port returns the simulated port name, empty when closed.
func (s *Sim) Port() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ""
	}
	return SimPortName
}

// FlushInput drops any staged response.
func (s *Sim) FlushInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ErrNotOpen
	}

	s.pending = nil
	return nil
}

// Send accepts a request line and stages the response. Requests for
// unknown channels stage nothing, like a board that stays silent.
func (s *Sim) Send(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ErrNotOpen
	}

	line := strings.TrimSuffix(string(p), "\n")
	name, ok := strings.CutPrefix(line, wire.RequestPrefix)
	if !ok {
		return nil
	}

	id := channel.ID(name)
	kind, ok := s.reg.Lookup(id)
	if !ok {
		return nil
	}

	s.pending = wire.Encode(s.payload(id, kind))
	return nil
}

// Receive returns the staged response, if any.
func (s *Sim) Receive() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil, ErrNotOpen
	}

	out := s.pending
	s.pending = nil
	return out, nil
}

// payload synthesizes the next value for a channel. Deterministic noise
// keeps the signal lively without pulling in a random source.
func (s *Sim) payload(id channel.ID, kind channel.Kind) []byte {
	elapsed := time.Since(s.start)

	switch kind {
	case channel.KindFloat32:
		phase := float32(elapsed.Seconds()/s.cfg.Period().Seconds()) * 2 * math32.Pi
		flow := float32(s.cfg.BaseFlow) + float32(s.cfg.FlowSwing)*math32.Sin(phase)

		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math32.Float32bits(flow))
		return buf

	default:
		// Channels differ in phase so they do not move in lockstep.
		offset := float64(s.channelIndex(id)) * 1.7
		t := elapsed.Seconds()
		count := 512 +
			200*math.Sin(2*math.Pi*t/s.cfg.Period().Seconds()+offset) +
			s.cfg.NoiseLevel*math.Sin(t*37+offset)

		if count < 0 {
			count = 0
		} else if count > 1023 {
			count = 1023
		}

		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(count))
		return buf
	}
}

// channelIndex returns the registry position of a channel.
func (s *Sim) channelIndex(id channel.ID) int {
	for i, other := range s.reg.IDs() {
		if other == id {
			return i
		}
	}
	return 0
}
