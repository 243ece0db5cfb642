package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sword() *Item {
	return NewItem("Sword", ItemTypeWeapon, RarityCommon, ItemStats{Damage: IntPtr(5)}, false, "")
}

func helmet() *Item {
	return NewItem("Helmet", ItemTypeArmor, RarityUncommon, ItemStats{Armor: IntPtr(2)}, false, "")
}

func potion(n int) *Item {
	p := NewItem("Health Potion", ItemTypeConsumable, RarityCommon, ItemStats{HealthBonus: IntPtr(25)}, true, "")
	p.StackSize = n
	return p
}

func TestInventory_AddItemStacks(t *testing.T) {
	inv := NewInventory()

	require.NoError(t, inv.AddItem(potion(2)))
	require.NoError(t, inv.AddItem(potion(3)))

	assert.Equal(t, 5, inv.Items[0].StackSize)
	assert.Nil(t, inv.Items[1])

	rare := potion(1)
	rare.Rarity = RarityRare
	require.NoError(t, inv.AddItem(rare))
	assert.Equal(t, RarityRare, inv.Items[1].Rarity, "different rarity must not merge")
}

func TestInventory_Full(t *testing.T) {
	inv := NewInventory()
	for i := 0; i < MaxInventorySlots; i++ {
		require.NoError(t, inv.AddItem(sword()))
	}

	err := inv.AddItem(sword())
	assert.ErrorIs(t, err, ErrInventoryFull)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestInventory_EquipSwaps(t *testing.T) {
	inv := NewInventory()
	first, second := sword(), sword()
	require.NoError(t, inv.AddItem(first))
	require.NoError(t, inv.AddItem(second))

	require.NoError(t, inv.Equip(0, SlotMainHand))
	assert.Nil(t, inv.Items[0])
	assert.Equal(t, first.ID, inv.Equipment[SlotMainHand].ID)

	require.NoError(t, inv.Equip(1, SlotMainHand))
	assert.Equal(t, second.ID, inv.Equipment[SlotMainHand].ID)
	require.NotNil(t, inv.Items[1])
	assert.Equal(t, first.ID, inv.Items[1].ID, "previous item returns to the freed slot")
}

func TestInventory_EquipRules(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddItem(sword()))
	require.NoError(t, inv.AddItem(helmet()))
	require.NoError(t, inv.AddItem(potion(1)))

	tests := []struct {
		name string
		pos  int
		slot EquipmentSlot
	}{
		{"weapon on head", 0, SlotHead},
		{"armor in main hand", 1, SlotMainHand},
		{"consumable", 2, SlotChest},
		{"empty slot", 5, SlotHead},
		{"negative slot", -1, SlotHead},
		{"slot out of range", MaxInventorySlots, SlotHead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := inv.Clone()
			err := inv.Equip(tt.pos, tt.slot)
			assert.True(t, errors.Is(err, ErrInvalidItem))
			assert.Equal(t, before, inv, "failed equip must not mutate")
		})
	}

	require.NoError(t, inv.Equip(0, SlotOffHand))
	require.NoError(t, inv.Equip(1, SlotHead))
}

func TestInventory_UnequipFullKeepsItem(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddItem(helmet()))
	require.NoError(t, inv.Equip(0, SlotHead))
	for i := 0; i < MaxInventorySlots; i++ {
		require.NoError(t, inv.AddItem(sword()))
	}

	_, err := inv.Unequip(SlotHead)
	require.ErrorIs(t, err, ErrInventoryFull)
	assert.NotNil(t, inv.Equipment[SlotHead])

	inv.Items[4] = nil
	item, err := inv.Unequip(SlotHead)
	require.NoError(t, err)
	assert.Equal(t, "Helmet", item.Name)
	assert.Equal(t, item.ID, inv.Items[4].ID)
	assert.NotContains(t, inv.Equipment, SlotHead)

	_, err = inv.Unequip(SlotHead)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestInventory_ConsumeAt(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddItem(potion(2)))
	require.NoError(t, inv.AddItem(sword()))

	used, err := inv.ConsumeAt(0)
	require.NoError(t, err)
	assert.Equal(t, 1, used.StackSize)
	assert.Equal(t, 1, inv.Items[0].StackSize)

	_, err = inv.ConsumeAt(0)
	require.NoError(t, err)
	assert.Nil(t, inv.Items[0])

	_, err = inv.ConsumeAt(1)
	assert.ErrorIs(t, err, ErrInvalidItem)
	assert.NotNil(t, inv.Items[1])
}

func TestInventory_JSON(t *testing.T) {
	inv := NewInventory()
	require.NoError(t, inv.AddItem(helmet()))
	require.NoError(t, inv.Equip(0, SlotHead))

	raw, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Head":`)
	assert.Contains(t, string(raw), `"itemType":"Armor"`)

	var back Inventory
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Len(t, back.Items, MaxInventorySlots)
	assert.Equal(t, inv.Equipment[SlotHead].ID, back.Equipment[SlotHead].ID)
}

func TestParseEquipmentSlot(t *testing.T) {
	assert.Equal(t, SlotRing2, ParseEquipmentSlot("ring2"))
	assert.Equal(t, SlotMainHand, ParseEquipmentSlot("MainHand"))
	assert.Equal(t, SlotUnknown, ParseEquipmentSlot("Tail"))

	var s EquipmentSlot
	assert.Error(t, s.UnmarshalText([]byte("Tail")))
}
