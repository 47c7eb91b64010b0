package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{name: "uint", input: "uint", want: KindUint},
		{name: "float32", input: "float32", want: KindFloat32},
		{name: "unknown", input: "int16", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "case sensitive", input: "Float32", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "uint", KindUint.String())
	assert.Equal(t, "float32", KindFloat32.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestKind_StringParseRoundTrip(t *testing.T) {
	for k, name := range kindNames {
		parsed, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}
