package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidlab/gofluid/pkg/channel"
)

func TestRequest(t *testing.T) {
	assert.Equal(t, []byte("READ A0\n"), Request("A0"))
	assert.Equal(t, []byte("READ FS\n"), Request("FS"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		raw         []byte
		wantPayload []byte
		wantErr     bool
	}{
		{
			name:        "single byte payload",
			raw:         []byte{'R', 0x01, 0x07},
			wantPayload: []byte{0x07},
		},
		{
			name:        "two byte payload",
			raw:         []byte{'R', 0x02, 0x34, 0x12},
			wantPayload: []byte{0x34, 0x12},
		},
		{
			name:        "empty payload",
			raw:         []byte{'R', 0x00},
			wantPayload: []byte{},
		},
		{
			name:        "trailing bytes ignored",
			raw:         []byte{'R', 0x02, 0xAA, 0xBB, 'R', 0x01, 0xCC},
			wantPayload: []byte{0xAA, 0xBB},
		},
		{name: "empty response", raw: nil, wantErr: true},
		{name: "wrong marker", raw: []byte{'X', 0x01, 0x07}, wantErr: true},
		{name: "marker only", raw: []byte{'R'}, wantErr: true},
		{name: "payload shorter than declared", raw: []byte{'R', 0x04, 0x01, 0x02}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Parse(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFrame)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Marker, frame.Marker)
			assert.Equal(t, byte(len(tt.wantPayload)), frame.Length)
			assert.Equal(t, tt.wantPayload, frame.Payload)
		})
	}
}

func TestParse_CopiesPayload(t *testing.T) {
	raw := []byte{'R', 0x02, 0x11, 0x22}

	frame, err := Parse(raw)
	require.NoError(t, err)

	// Mutating the read buffer must not reach into the parsed frame.
	raw[2] = 0xFF
	assert.Equal(t, []byte{0x11, 0x22}, frame.Payload)
}

func TestDecode_Uint(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    float64
	}{
		{name: "one byte", payload: []byte{0x07}, want: 7},
		{name: "two bytes little endian", payload: []byte{0x34, 0x12}, want: 0x1234},
		{name: "four bytes", payload: []byte{0xFF, 0xFF, 0xFF, 0xFF}, want: 4294967295},
		{name: "empty payload is zero", payload: []byte{}, want: 0},
		{name: "zero", payload: []byte{0x00, 0x00}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Parse(append([]byte{'R', byte(len(tt.payload))}, tt.payload...))
			require.NoError(t, err)

			got, err := Decode(frame, channel.KindUint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_UintTooWide(t *testing.T) {
	payload := make([]byte, 9)
	frame := Frame{Marker: Marker, Length: 9, Payload: payload}

	_, err := Decode(frame, channel.KindUint)
	assert.ErrorIs(t, err, ErrPayloadLength)
}

func TestDecode_Float32(t *testing.T) {
	frame, err := Parse([]byte{'R', 0x04, 0x00, 0x00, 0x80, 0x3F})
	require.NoError(t, err)

	got, err := Decode(frame, channel.KindFloat32)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestDecode_Float32BadLength(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "too short", payload: []byte{0x00, 0x00, 0x80}},
		{name: "too long", payload: []byte{0x00, 0x00, 0x80, 0x3F, 0x00}},
		{name: "empty", payload: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := Frame{Marker: Marker, Length: byte(len(tt.payload)), Payload: tt.payload}

			_, err := Decode(frame, channel.KindFloat32)
			assert.ErrorIs(t, err, ErrPayloadLength)
		})
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	frame := Frame{Marker: Marker, Length: 1, Payload: []byte{0x01}}

	_, err := Decode(frame, channel.Kind(99))
	assert.Error(t, err)
}
