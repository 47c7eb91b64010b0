package board

import "errors"

var (
	// ErrNoDevice reports that discovery found no port whose description
	// matches the configured substring.
	ErrNoDevice = errors.New("no matching device found")
	// ErrNotOpen reports an operation on a link that is not open.
	ErrNotOpen = errors.New("link not open")
)

// Link is a request/response byte transport to the acquisition board
// (real or simulated).
type Link interface {
	// Connect opens the link. An empty portHint selects discovery.
	Connect(portHint string) error
	// Close shuts the link down. Closing a closed link is a no-op.
	Close() error
	// IsConnected returns whether the link is currently open.
	IsConnected() bool
	// Port returns the name of the open port, empty when closed.
	Port() string
	// FlushInput discards bytes buffered on the receive side.
	FlushInput() error
	// Send writes raw bytes to the board.
	Send(p []byte) error
	// Receive returns the bytes that arrived within the read timeout.
	// Nothing arriving in time is a normal outcome: (nil, nil).
	Receive() ([]byte, error)
}

// PortInfo describes one serial port for listing and discovery.
type PortInfo struct {
	Name        string
	Description string
}

// Ensure Serial implements Link.
var _ Link = (*Serial)(nil)

// Ensure Sim implements Link.
var _ Link = (*Sim)(nil)
