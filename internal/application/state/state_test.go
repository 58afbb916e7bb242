package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameState_String(t *testing.T) {
	tests := []struct {
		state    GameState
		expected string
	}{
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{StateStageClear, "StageClear"},
		{GameState(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestGameState_Toggle(t *testing.T) {
	assert.Equal(t, StatePaused, StatePlaying.Toggle())
	assert.Equal(t, StatePlaying, StatePaused.Toggle())
	assert.Equal(t, StateStageClear, StateStageClear.Toggle())
}
