package board

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidlab/gofluid/pkg/channel"
	"github.com/fluidlab/gofluid/pkg/config"
	"github.com/fluidlab/gofluid/pkg/wire"
)

func TestSim_ConnectClose(t *testing.T) {
	s := NewSim(nil, nil)

	assert.False(t, s.IsConnected())
	assert.Equal(t, "", s.Port())

	require.NoError(t, s.Connect("ignored"))
	assert.True(t, s.IsConnected())
	assert.Equal(t, SimPortName, s.Port())

	// Second connect mirrors the real link.
	assert.Error(t, s.Connect(""))

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.False(t, s.IsConnected())
}

func TestSim_OperationsWhenClosed(t *testing.T) {
	s := NewSim(nil, nil)

	assert.ErrorIs(t, s.FlushInput(), ErrNotOpen)
	assert.ErrorIs(t, s.Send([]byte("READ A0\n")), ErrNotOpen)

	_, err := s.Receive()
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestSim_RequestResponse(t *testing.T) {
	s := NewSim(nil, nil)
	require.NoError(t, s.Connect(""))

	require.NoError(t, s.Send(wire.Request("A0")))

	raw, err := s.Receive()
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	frame, err := wire.Parse(raw)
	require.NoError(t, err)

	v, err := wire.Decode(frame, channel.KindUint)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1023.0)
}

func TestSim_Float32Channel(t *testing.T) {
	s := NewSim(nil, nil)
	require.NoError(t, s.Connect(""))

	require.NoError(t, s.Send(wire.Request("FS")))

	raw, err := s.Receive()
	require.NoError(t, err)

	frame, err := wire.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(4), frame.Length)

	v, err := wire.Decode(frame, channel.KindFloat32)
	require.NoError(t, err)

	// Default sim flow stays within base +- swing.
	assert.InDelta(t, 6.0, v, 1.6)
}

func TestSim_ZeroConfigFieldsDefaulted(t *testing.T) {
	// A literal zero-valued configuration gets the same field defaults
	// as one loaded from an empty file.
	s := NewSim(nil, &config.SimConfig{})
	require.NoError(t, s.Connect(""))

	require.NoError(t, s.Send(wire.Request("FS")))
	raw, err := s.Receive()
	require.NoError(t, err)

	frame, err := wire.Parse(raw)
	require.NoError(t, err)

	v, err := wire.Decode(frame, channel.KindFloat32)
	require.NoError(t, err)
	require.False(t, math.IsNaN(v))
	assert.InDelta(t, 6.0, v, 1.6)

	require.NoError(t, s.Send(wire.Request("A0")))
	raw, err = s.Receive()
	require.NoError(t, err)

	frame, err = wire.Parse(raw)
	require.NoError(t, err)

	v, err = wire.Decode(frame, channel.KindUint)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1023.0)
}

func TestSim_UnknownChannelStaysSilent(t *testing.T) {
	s := NewSim(nil, nil)
	require.NoError(t, s.Connect(""))

	require.NoError(t, s.Send([]byte("READ A9\n")))

	raw, err := s.Receive()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestSim_GarbageRequestStaysSilent(t *testing.T) {
	s := NewSim(nil, nil)
	require.NoError(t, s.Connect(""))

	require.NoError(t, s.Send([]byte("HELLO\n")))

	raw, err := s.Receive()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestSim_ReceiveConsumesResponse(t *testing.T) {
	s := NewSim(nil, nil)
	require.NoError(t, s.Connect(""))

	require.NoError(t, s.Send(wire.Request("A0")))

	first, err := s.Receive()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := s.Receive()
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestSim_FlushDropsStagedResponse(t *testing.T) {
	s := NewSim(nil, nil)
	require.NoError(t, s.Connect(""))

	require.NoError(t, s.Send(wire.Request("A0")))
	require.NoError(t, s.FlushInput())

	raw, err := s.Receive()
	require.NoError(t, err)
	assert.Empty(t, raw)
}
