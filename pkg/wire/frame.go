package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/fluidlab/gofluid/pkg/channel"
)

const (
	// Marker is the first byte of every well-formed response frame.
	Marker byte = 'R'
	// HeaderLen is the size of the marker byte plus the length byte.
	HeaderLen = 2
	// RequestPrefix starts every request line sent to the device.
	RequestPrefix = "READ "
	// MaxUintPayload is the widest unsigned payload the codec can represent.
	MaxUintPayload = 8
)

var (
	// ErrInvalidFrame reports a response that does not follow the
	// marker/length framing.
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrPayloadLength reports a payload whose size does not fit the
	// requested decoding.
	ErrPayloadLength = errors.New("bad payload length")
)

// Frame is one length-prefixed response from the device.
type Frame struct {
	Marker  byte
	Length  byte
	Payload []byte
}

// Request builds the request line for one channel: "READ <id>\n".
func Request(id channel.ID) []byte {
	return []byte(RequestPrefix + string(id) + "\n")
}

// Encode builds the wire form of a response frame around the payload.
// The payload must fit the single length byte.
func Encode(payload []byte) []byte {
	out := make([]byte, 0, HeaderLen+len(payload))
	out = append(out, Marker, byte(len(payload)))
	return append(out, payload...)
}

// Parse validates the framing of a raw response and extracts its payload.
// The frame is marker 'R', one length byte L, then L payload bytes. Bytes
// beyond the declared length are ignored; the device may have started the
// next line before the read returned.
func Parse(raw []byte) (Frame, error) {
	if len(raw) == 0 {
		return Frame{}, fmt.Errorf("empty response: %w", ErrInvalidFrame)
	}
	if raw[0] != Marker {
		return Frame{}, fmt.Errorf("bad marker 0x%02x: %w", raw[0], ErrInvalidFrame)
	}
	if len(raw) < HeaderLen {
		return Frame{}, fmt.Errorf("missing length byte: %w", ErrInvalidFrame)
	}

	length := raw[1]
	if len(raw) < HeaderLen+int(length) {
		return Frame{}, fmt.Errorf("truncated payload: want %d bytes, have %d: %w",
			length, len(raw)-HeaderLen, ErrInvalidFrame)
	}

	payload := make([]byte, length)
	copy(payload, raw[HeaderLen:HeaderLen+int(length)])

	return Frame{
		Marker:  Marker,
		Length:  length,
		Payload: payload,
	}, nil
}

// Decode converts a frame's payload into a numeric value according to the
// channel kind.
func Decode(f Frame, kind channel.Kind) (float64, error) {
	switch kind {
	case channel.KindUint:
		return decodeUint(f.Payload)
	case channel.KindFloat32:
		return decodeFloat32(f.Payload)
	default:
		return 0, fmt.Errorf("unknown channel kind %v", kind)
	}
}

// decodeUint assembles a little-endian unsigned integer of any width up to
// 8 bytes. An empty payload decodes to zero. Values above 2^53 would lose
// precision in the float64 store; the reference board never sends more
// than 4 bytes.
func decodeUint(payload []byte) (float64, error) {
	if len(payload) > MaxUintPayload {
		return 0, fmt.Errorf("uint payload of %d bytes exceeds %d: %w",
			len(payload), MaxUintPayload, ErrPayloadLength)
	}

	var v uint64
	for i, b := range payload {
		v |= uint64(b) << (8 * i)
	}
	return float64(v), nil
}

// decodeFloat32 interprets exactly 4 little-endian bytes as an IEEE 754
// single-precision float.
func decodeFloat32(payload []byte) (float64, error) {
	if len(payload) != 4 {
		return 0, fmt.Errorf("float32 payload must be 4 bytes, have %d: %w",
			len(payload), ErrPayloadLength)
	}

	bits := binary.LittleEndian.Uint32(payload)
	return float64(math.Float32frombits(bits)), nil
}
