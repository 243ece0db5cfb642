package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMove(t *testing.T, raw string) MovePayload {
	t.Helper()
	var p MovePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestMovePayload_Validate(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{`{"dx":32,"dy":0}`, true},
		{`{"dx":-5.5}`, true},
		{`{"targetX":80,"targetY":80}`, true},
		{`{"dx":0,"dy":0}`, false},
		{`{}`, false},
		{`{"dx":33}`, false},
		{`{"dy":-100}`, false},
		{`{"targetX":80}`, false},
		{`{"dx":1,"targetX":80,"targetY":80}`, false},
	}

	for _, tt := range tests {
		err := decodeMove(t, tt.raw).Validate()
		if tt.ok {
			assert.NoError(t, err, tt.raw)
		} else {
			assert.Error(t, err, tt.raw)
		}
	}
}

func TestMovePayload_Delta(t *testing.T) {
	p := decodeMove(t, `{"dy":7}`)
	assert.False(t, p.IsAbsolute())
	dx, dy := p.Delta()
	assert.Equal(t, 0.0, dx)
	assert.Equal(t, 7.0, dy)
}

func TestChatPayload_Validate(t *testing.T) {
	assert.NoError(t, ChatPayload{Message: "hello"}.Validate())
	assert.NoError(t, ChatPayload{Message: strings.Repeat("ж", 256)}.Validate())
	assert.Error(t, ChatPayload{Message: strings.Repeat("x", 257)}.Validate())
	assert.Error(t, ChatPayload{Message: "   "}.Validate())
}

func TestItemPayloads_Validate(t *testing.T) {
	assert.NoError(t, EquipItemPayload{SlotPosition: 0, EquipmentSlot: "MainHand"}.Validate())
	assert.Error(t, EquipItemPayload{SlotPosition: 30, EquipmentSlot: "MainHand"}.Validate())
	assert.Error(t, EquipItemPayload{SlotPosition: 1, EquipmentSlot: "Tail"}.Validate())
	assert.NoError(t, UnequipItemPayload{EquipmentSlot: "ring1"}.Validate())
	assert.Error(t, SlotPayload{SlotPosition: -1}.Validate())
	assert.NoError(t, SlotPayload{SlotPosition: 29}.Validate())
	assert.Error(t, JoinPayload{Name: " "}.Validate())
}
