package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in   string
		want Engine
	}{
		{"local", EngineLocal},
		{" Tavily", EngineTavily},
		{"BRAVE ", EngineBrave},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseEngine("bing")
	assert.ErrorIs(t, err, ErrInvalidEngine)
	assert.EqualError(t, err, "Invalid engine")
}

func TestEngine_RequiresAPIKey(t *testing.T) {
	assert.False(t, EngineLocal.RequiresAPIKey())
	assert.True(t, EngineTavily.RequiresAPIKey())
	assert.True(t, EngineBrave.RequiresAPIKey())
}
