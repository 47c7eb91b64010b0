package board

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/fluidlab/gofluid/pkg/config"
)

const (
	// DefaultBaudRate is the line rate of the reference board.
	DefaultBaudRate = 9600
	// DefaultReadTimeout bounds every single read on the port.
	DefaultReadTimeout = 50 * time.Millisecond
	// DefaultOpenGrace is the wait after opening the port. Opening the
	// line resets the board; anything sent before it has booted is lost.
	DefaultOpenGrace = 2 * time.Second
	// readBufferSize is more than enough for one response frame.
	readBufferSize = 256
)

// lister enumerates candidate serial ports. Swapped out in tests.
type lister func() ([]PortInfo, error)

// opener opens a named port. Swapped out in tests.
type opener func(name string, mode *serial.Mode) (serial.Port, error)

// Serial is a Link over a USB serial port.
type Serial struct {
	match       string
	baudRate    int
	readTimeout time.Duration
	openGrace   time.Duration

	list lister
	open opener

	mu        sync.RWMutex
	conn      serial.Port
	portName  string
	connected bool
}

// NewSerial creates a serial link from the given configuration. A nil
// configuration selects the defaults.
func NewSerial(cfg *config.SerialConfig) *Serial {
	s := &Serial{
		match:       "Arduino",
		baudRate:    DefaultBaudRate,
		readTimeout: DefaultReadTimeout,
		openGrace:   DefaultOpenGrace,
		list:        ListPorts,
		open:        serial.Open,
	}

	if cfg != nil {
		if cfg.Match != "" {
			s.match = cfg.Match
		}
		if cfg.BaudRate > 0 {
			s.baudRate = cfg.BaudRate
		}
		if cfg.ReadTimeoutMs > 0 {
			s.readTimeout = cfg.ReadTimeout()
		}
		if cfg.OpenGraceMs > 0 {
			s.openGrace = cfg.OpenGrace()
		}
	}

	return s
}

// ListPorts enumerates serial ports with their USB product descriptions
// where the platform exposes them.
func ListPorts() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		desc := p.Name
		if p.IsUSB && p.Product != "" {
			desc = p.Product
		}
		result = append(result, PortInfo{
			Name:        p.Name,
			Description: desc,
		})
	}

	return result, nil
}

// Connect opens the serial port and waits for the board to boot. An empty
// portHint picks the first port whose description contains the match
// substring. The link reads as closed until the boot grace has elapsed;
// the lock is never held across the wait, so state reads do not stall
// behind a connect in progress.
func (s *Serial) Connect(portHint string) error {
	s.mu.Lock()
	if s.connected {
		s.mu.Unlock()
		return fmt.Errorf("already connected")
	}
	s.mu.Unlock()

	name := portHint
	if name == "" {
		var err error
		name, err = s.discover()
		if err != nil {
			return err
		}
	}

	mode := &serial.Mode{
		BaudRate: s.baudRate,
	}

	port, err := s.open(name, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", name, err)
	}

	if err := port.SetReadTimeout(s.readTimeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	// The board reboots when the port opens. Give it time to come up
	// before anybody talks to it.
	time.Sleep(s.openGrace)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		// A concurrent connect won the race while we waited.
		port.Close()
		return fmt.Errorf("already connected")
	}

	s.conn = port
	s.portName = name
	s.connected = true

	log.Info().Str("port", name).Int("baud", s.baudRate).Msg("serial link open")

	return nil
}

// discover returns the first port whose description contains the match
// substring.
func (s *Serial) discover() (string, error) {
	ports, err := s.list()
	if err != nil {
		return "", fmt.Errorf("failed to list serial ports: %w", err)
	}

	for _, p := range ports {
		if strings.Contains(p.Description, s.match) {
			log.Debug().Str("port", p.Name).Str("description", p.Description).Msg("discovered board")
			return p.Name, nil
		}
	}

	return "", fmt.Errorf("no port matching %q: %w", s.match, ErrNoDevice)
}

// Close closes the port. Closing an already closed link is a no-op.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			log.Warn().Err(err).Str("port", s.portName).Msg("error closing serial port")
		}
		s.conn = nil
	}

	s.portName = ""
	s.connected = false

	return nil
}

// IsConnected returns whether the link is currently open.
func (s *Serial) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Port returns the name of the open port, empty when closed.
func (s *Serial) Port() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portName
}

// FlushInput drops whatever the board sent since the last read. Stale
// bytes in front of a response corrupt the framing.
func (s *Serial) FlushInput() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return ErrNotOpen
	}

	if err := s.conn.ResetInputBuffer(); err != nil {
		return fmt.Errorf("failed to flush input: %w", err)
	}
	return nil
}

// Send writes raw bytes to the board. There is no acknowledgment.
func (s *Serial) Send(p []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return ErrNotOpen
	}

	if _, err := s.conn.Write(p); err != nil {
		return fmt.Errorf("failed to write to serial port: %w", err)
	}
	return nil
}

// Receive performs one read bounded by the configured timeout and returns
// whatever arrived. A timeout with no data returns (nil, nil).
func (s *Serial) Receive() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return nil, ErrNotOpen
	}

	buf := make([]byte, readBufferSize)
	n, err := s.conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read from serial port: %w", err)
	}
	if n == 0 {
		// Timeout with nothing buffered.
		return nil, nil
	}

	return buf[:n], nil
}
