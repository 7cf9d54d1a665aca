package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionType(t *testing.T) {
	tests := []struct {
		in      string
		want    OptionType
		wantErr bool
	}{
		{"c", Call, false},
		{"C", Call, false},
		{"call", Call, false},
		{" Call ", Call, false},
		{"p", Put, false},
		{"PUT", Put, false},
		{"", 0, true},
		{"calls", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseOptionType(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownOptionType, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestOptionType_JSON(t *testing.T) {
	var payload struct {
		Type OptionType `json:"type"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"type":"P"}`), &payload))
	assert.Equal(t, Put, payload.Type)

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"put"}`, string(b))

	err = json.Unmarshal([]byte(`{"type":"straddle"}`), &payload)
	assert.Error(t, err)

	_, err = json.Marshal(struct{ Type OptionType }{})
	assert.Error(t, err)
}

func TestOptionType_String(t *testing.T) {
	assert.Equal(t, "call", Call.String())
	assert.Equal(t, "put", Put.String())
	assert.Equal(t, "unknown", OptionType(0).String())
	assert.False(t, OptionType(0).Valid())
}
