package acquire

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fluidlab/gofluid/pkg/board"
	"github.com/fluidlab/gofluid/pkg/channel"
	"github.com/fluidlab/gofluid/pkg/store"
	"github.com/fluidlab/gofluid/pkg/wire"
)

// DefaultSettle is the wait between sending a request and reading the
// response, giving the board time to answer.
const DefaultSettle = 20 * time.Millisecond

// Stats counts what happened across acquisition rounds. A missed sample
// shows up in exactly one of the failure counters.
type Stats struct {
	Rounds       uint64 // rounds executed with the link open
	Samples      uint64 // values appended to the store
	NoData       uint64 // reads that returned nothing within the timeout
	FrameErrors  uint64 // responses rejected by frame parsing
	DecodeErrors uint64 // frames whose payload did not fit the channel kind
	LinkErrors   uint64 // flush, send or receive failures
}

// Sampler executes acquisition rounds: one poll of every registered
// channel, strictly in registry order. The protocol carries no channel
// tag, so the strict request/response alternation is what ties a
// response to its channel.
type Sampler struct {
	link   board.Link
	reg    *channel.Registry
	store  *store.Store
	settle time.Duration

	mu    sync.Mutex
	stats Stats
}

// New creates a sampler feeding the given store. A settle of 0 means
// DefaultSettle.
func New(link board.Link, reg *channel.Registry, st *store.Store, settle time.Duration) *Sampler {
	if settle <= 0 {
		settle = DefaultSettle
	}

	return &Sampler{
		link:   link,
		reg:    reg,
		store:  st,
		settle: settle,
	}
}

// Round polls every channel once. With the link closed the round is a
// complete no-op. A failure on one channel never aborts the round; the
// channel is skipped and the round moves on to the next one.
func (s *Sampler) Round() {
	if !s.link.IsConnected() {
		return
	}

	s.mu.Lock()
	s.stats.Rounds++
	s.mu.Unlock()

	for _, ch := range s.reg.Channels() {
		s.sampleOne(ch)
	}
}

// sampleOne performs the flush, request, settle, receive, parse, decode,
// append sequence for a single channel.
func (s *Sampler) sampleOne(ch channel.Channel) {
	if err := s.link.FlushInput(); err != nil {
		s.countLinkError(ch.ID, "flush", err)
		return
	}

	if err := s.link.Send(wire.Request(ch.ID)); err != nil {
		s.countLinkError(ch.ID, "send", err)
		return
	}

	time.Sleep(s.settle)

	raw, err := s.link.Receive()
	if err != nil {
		s.countLinkError(ch.ID, "receive", err)
		return
	}

	if len(raw) == 0 {
		// No answer within the timeout. Frequent and harmless under a
		// tight cadence; the channel keeps its last known values.
		s.mu.Lock()
		s.stats.NoData++
		s.mu.Unlock()
		log.Debug().Str("channel", string(ch.ID)).Msg("no data this round")
		return
	}

	frame, err := wire.Parse(raw)
	if err != nil {
		s.mu.Lock()
		s.stats.FrameErrors++
		s.mu.Unlock()
		log.Debug().Err(err).Str("channel", string(ch.ID)).
			Hex("raw", raw).Msg("rejected response")
		return
	}

	v, err := wire.Decode(frame, ch.Kind)
	if err != nil {
		s.mu.Lock()
		s.stats.DecodeErrors++
		s.mu.Unlock()
		log.Debug().Err(err).Str("channel", string(ch.ID)).
			Int("payload", len(frame.Payload)).Msg("undecodable payload")
		return
	}

	s.store.Append(ch.ID, v)

	s.mu.Lock()
	s.stats.Samples++
	s.mu.Unlock()
}

// countLinkError records a transport-level failure for one channel.
func (s *Sampler) countLinkError(id channel.ID, op string, err error) {
	s.mu.Lock()
	s.stats.LinkErrors++
	s.mu.Unlock()
	log.Debug().Err(err).Str("channel", string(id)).Str("op", op).Msg("link error")
}

// Stats returns a copy of the counters.
func (s *Sampler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
