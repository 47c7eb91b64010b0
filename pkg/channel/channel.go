package channel

import "fmt"

// ID identifies a telemetry channel by the name used on the wire.
type ID string

// Kind selects how a channel's response payload decodes into a value.
type Kind int

const (
	// KindUint decodes the payload as a little-endian unsigned integer
	// of whatever width the device sent.
	KindUint Kind = iota
	// KindFloat32 decodes the payload as a little-endian IEEE 754
	// single-precision float. The payload must be exactly 4 bytes.
	KindFloat32
)

// kindNames and kindByName are the single source of truth for the textual
// form of a Kind. Adding a kind means adding one row here.
var kindNames = map[Kind]string{
	KindUint:    "uint",
	KindFloat32: "float32",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the textual form of the kind as used in configuration files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown channel kind %q", s)
	}
	return k, nil
}

// Channel pairs a wire name with the decoding of its payload.
type Channel struct {
	ID   ID
	Kind Kind
}
