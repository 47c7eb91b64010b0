package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(
		Channel{ID: "A0", Kind: KindUint},
		Channel{ID: "FS", Kind: KindFloat32},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []ID{"A0", "FS"}, reg.IDs())

	kind, ok := reg.Lookup("FS")
	assert.True(t, ok)
	assert.Equal(t, KindFloat32, kind)

	_, ok = reg.Lookup("A7")
	assert.False(t, ok)
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		channels []Channel
	}{
		{name: "empty set", channels: nil},
		{
			name: "duplicate id",
			channels: []Channel{
				{ID: "A0", Kind: KindUint},
				{ID: "A0", Kind: KindFloat32},
			},
		},
		{
			name:     "empty id",
			channels: []Channel{{ID: "", Kind: KindUint}},
		},
		{
			name:     "whitespace in id",
			channels: []Channel{{ID: "A 0", Kind: KindUint}},
		},
		{
			name:     "newline in id",
			channels: []Channel{{ID: "A0\n", Kind: KindUint}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.channels...)
			assert.Error(t, err)
			assert.Nil(t, reg)
		})
	}
}

func TestNewRegistry_PreservesOrder(t *testing.T) {
	reg, err := NewRegistry(
		Channel{ID: "Z", Kind: KindUint},
		Channel{ID: "A", Kind: KindUint},
		Channel{ID: "M", Kind: KindFloat32},
	)
	require.NoError(t, err)

	// Declaration order, not lexical order.
	assert.Equal(t, []ID{"Z", "A", "M"}, reg.IDs())
}

func TestRegistry_ChannelsCopy(t *testing.T) {
	reg := Default()

	chans := reg.Channels()
	chans[0].ID = "mutated"

	// The registry must not observe mutations of the returned slice.
	assert.Equal(t, ID("A0"), reg.Channels()[0].ID)
}

func TestDefault(t *testing.T) {
	reg := Default()

	require.Equal(t, 3, reg.Len())
	assert.Equal(t, []ID{"A0", "A1", "FS"}, reg.IDs())

	kind, ok := reg.Lookup("A0")
	require.True(t, ok)
	assert.Equal(t, KindUint, kind)

	kind, ok = reg.Lookup("A1")
	require.True(t, ok)
	assert.Equal(t, KindUint, kind)

	kind, ok = reg.Lookup("FS")
	require.True(t, ok)
	assert.Equal(t, KindFloat32, kind)
}
