package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer_Defaults(t *testing.T) {
	p := NewPlayer("alice", "0xabc", Position{X: 48, Y: 48})

	assert.NotEqual(t, NilPlayerID, p.ID)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 100, p.MaxHealth)
	assert.Equal(t, 100, p.Mana)
	assert.Equal(t, 0, p.Exp)
	assert.Equal(t, 1000, p.MaxExp)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, "neutral", p.Faction)
	assert.Equal(t, Attributes{Strength: 10, Dexterity: 10, Intelligence: 10}, p.Attributes)
	assert.Equal(t, Wallet{Address: "0xabc"}, p.Wallet)
	assert.Len(t, p.Inventory.Items, MaxInventorySlots)
	assert.Empty(t, p.Inventory.Equipment)
}

func TestPlayer_CloneIsDeep(t *testing.T) {
	p := NewPlayer("bob", "", Position{})
	require.NoError(t, p.Inventory.AddItem(potion(3)))

	c := p.Clone()
	c.Inventory.Items[0].StackSize = 1
	c.Inventory.Equipment[SlotHead] = helmet()

	assert.Equal(t, 3, p.Inventory.Items[0].StackSize)
	assert.Empty(t, p.Inventory.Equipment)
}

func TestPlayer_ApplyConsumableClamps(t *testing.T) {
	p := NewPlayer("carol", "", Position{})
	p.Health = 90
	p.Mana = 10

	p.ApplyConsumable(&Item{Stats: ItemStats{HealthBonus: IntPtr(25), ManaBonus: IntPtr(5)}})

	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 15, p.Mana)
}

func TestNormalizeName(t *testing.T) {
	got, err := NormalizeName("  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	_, err = NormalizeName(strings.Repeat("я", MaxNameLength))
	assert.NoError(t, err)

	for _, bad := range []string{"", "   ", strings.Repeat("x", MaxNameLength+1), "a\x00b", "tab\tname"} {
		_, err := NormalizeName(bad)
		assert.ErrorIs(t, err, ErrInvalidName, "%q", bad)
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, CodePlayerNotFound, Code(ErrPlayerNotFound))
	assert.Equal(t, CodeInvalidItem, Code(ErrInventoryFull))
	assert.Equal(t, CodeInvalidPosition, Code(fmt.Errorf("move: %w", ErrInvalidPosition)))
	assert.Equal(t, CodeInternalError, Code(assert.AnError))
}
