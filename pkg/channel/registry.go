package channel

import (
	"fmt"
	"strings"
)

// Registry is a fixed, ordered set of channels. The order is load-bearing:
// responses on the wire carry no channel tag, so the sampler walks the
// registry in order and attributes each response to the channel it just
// asked for. The set never changes after construction.
type Registry struct {
	channels []Channel
	kinds    map[ID]Kind
}

// NewRegistry builds a registry from the given channels, preserving order.
// IDs must be unique, non-empty and free of whitespace (they are sent
// verbatim inside the request line).
func NewRegistry(channels ...Channel) (*Registry, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("registry needs at least one channel")
	}

	r := &Registry{
		channels: make([]Channel, len(channels)),
		kinds:    make(map[ID]Kind, len(channels)),
	}
	copy(r.channels, channels)

	for _, ch := range channels {
		if ch.ID == "" {
			return nil, fmt.Errorf("channel with empty id")
		}
		if strings.ContainsAny(string(ch.ID), " \t\r\n") {
			return nil, fmt.Errorf("channel id %q contains whitespace", ch.ID)
		}
		if _, exists := r.kinds[ch.ID]; exists {
			return nil, fmt.Errorf("duplicate channel id %q", ch.ID)
		}
		r.kinds[ch.ID] = ch.Kind
	}

	return r, nil
}

// Default returns the registry of the reference board: two raw analog
// inputs and a float32 flow sensor.
func Default() *Registry {
	return &Registry{
		channels: []Channel{
			{ID: "A0", Kind: KindUint},
			{ID: "A1", Kind: KindUint},
			{ID: "FS", Kind: KindFloat32},
		},
		kinds: map[ID]Kind{
			"A0": KindUint,
			"A1": KindUint,
			"FS": KindFloat32,
		},
	}
}

// Channels returns a copy of the channel list in registry order.
func (r *Registry) Channels() []Channel {
	result := make([]Channel, len(r.channels))
	copy(result, r.channels)
	return result
}

// IDs returns the channel identifiers in registry order.
func (r *Registry) IDs() []ID {
	result := make([]ID, len(r.channels))
	for i, ch := range r.channels {
		result[i] = ch.ID
	}
	return result
}

// Lookup reports the kind of the given channel and whether it is registered.
func (r *Registry) Lookup(id ID) (Kind, bool) {
	k, ok := r.kinds[id]
	return k, ok
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	return len(r.channels)
}
