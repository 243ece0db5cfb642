package domain

import (
	"fmt"
	"strings"
)

// MaxInventorySlots - фиксированная вместимость рюкзака.
const MaxInventorySlots = 30

// EquipmentSlot - слот экипировки.
type EquipmentSlot uint8

const (
	SlotUnknown EquipmentSlot = iota
	SlotMainHand
	SlotOffHand
	SlotHead
	SlotChest
	SlotLegs
	SlotFeet
	SlotHands
	SlotNeck
	SlotRing1
	SlotRing2
)

var equipmentSlotToString = map[EquipmentSlot]string{
	SlotMainHand: "MainHand",
	SlotOffHand:  "OffHand",
	SlotHead:     "Head",
	SlotChest:    "Chest",
	SlotLegs:     "Legs",
	SlotFeet:     "Feet",
	SlotHands:    "Hands",
	SlotNeck:     "Neck",
	SlotRing1:    "Ring1",
	SlotRing2:    "Ring2",
}

func (s EquipmentSlot) String() string {
	if val, ok := equipmentSlotToString[s]; ok {
		return val
	}
	return "Unknown"
}

// ParseEquipmentSlot нечувствителен к регистру.
func ParseEquipmentSlot(s string) EquipmentSlot {
	for k, v := range equipmentSlotToString {
		if strings.EqualFold(v, s) {
			return k
		}
	}
	return SlotUnknown
}

func (s EquipmentSlot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EquipmentSlot) UnmarshalText(data []byte) error {
	parsed := ParseEquipmentSlot(string(data))
	if parsed == SlotUnknown {
		return fmt.Errorf("unknown equipment slot %q", data)
	}
	*s = parsed
	return nil
}

// Accepts - оружие держат только в руках, броню и украшения - везде, кроме основной руки.
func (s EquipmentSlot) Accepts(item *Item) bool {
	switch item.Type {
	case ItemTypeWeapon:
		return s == SlotMainHand || s == SlotOffHand
	case ItemTypeArmor:
		return s != SlotMainHand && s != SlotUnknown
	}
	return false
}

// Inventory - рюкзак из MaxInventorySlots ячеек плюс экипировка.
// Предмет лежит ровно в одном месте: либо в ячейке, либо в слоте экипировки.
type Inventory struct {
	Items     []*Item                 `json:"items"`
	Equipment map[EquipmentSlot]*Item `json:"equipment"`
}

func NewInventory() Inventory {
	return Inventory{
		Items:     make([]*Item, MaxInventorySlots),
		Equipment: make(map[EquipmentSlot]*Item),
	}
}

// Clone делает глубокую копию, чтобы снапшоты не разделяли память с реестром.
func (inv Inventory) Clone() Inventory {
	c := Inventory{
		Items:     make([]*Item, len(inv.Items)),
		Equipment: make(map[EquipmentSlot]*Item, len(inv.Equipment)),
	}
	for i, item := range inv.Items {
		c.Items[i] = item.Clone()
	}
	for slot, item := range inv.Equipment {
		c.Equipment[slot] = item.Clone()
	}
	return c
}

// ItemAt возвращает предмет в ячейке или nil.
func (inv *Inventory) ItemAt(pos int) *Item {
	if pos < 0 || pos >= len(inv.Items) {
		return nil
	}
	return inv.Items[pos]
}

// CanAdd проверяет, поместится ли предмет (без изменения состояния).
func (inv *Inventory) CanAdd(item *Item) bool {
	if item == nil {
		return false
	}
	for _, existing := range inv.Items {
		if existing == nil || existing.StacksWith(item) {
			return true
		}
	}
	return false
}

// AddItem кладет предмет: сначала пытается слить стак, потом ищет первую пустую ячейку.
func (inv *Inventory) AddItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: nil item", ErrInvalidItem)
	}
	if item.Stackable {
		for _, existing := range inv.Items {
			if existing != nil && existing.StacksWith(item) {
				existing.StackSize += item.StackSize
				return nil
			}
		}
	}
	for i, existing := range inv.Items {
		if existing == nil {
			inv.Items[i] = item
			return nil
		}
	}
	return ErrInventoryFull
}

// TakeAt вынимает содержимое ячейки целиком.
func (inv *Inventory) TakeAt(pos int) (*Item, error) {
	item := inv.ItemAt(pos)
	if item == nil {
		return nil, fmt.Errorf("%w: slot %d is empty", ErrInvalidItem, pos)
	}
	inv.Items[pos] = nil
	return item, nil
}

// Equip переносит предмет из ячейки в слот. Ранее надетый предмет возвращается в освободившуюся ячейку.
func (inv *Inventory) Equip(pos int, slot EquipmentSlot) error {
	item := inv.ItemAt(pos)
	if item == nil {
		return fmt.Errorf("%w: slot %d is empty", ErrInvalidItem, pos)
	}
	if !item.IsEquippable() {
		return fmt.Errorf("%w: %s cannot be equipped", ErrInvalidItem, item.Name)
	}
	if !slot.Accepts(item) {
		return fmt.Errorf("%w: %s does not fit %s", ErrInvalidItem, item.Name, slot)
	}

	inv.Items[pos] = inv.Equipment[slot]
	inv.Equipment[slot] = item
	return nil
}

// Unequip снимает предмет обратно в рюкзак. При полном рюкзаке ничего не меняется.
func (inv *Inventory) Unequip(slot EquipmentSlot) (*Item, error) {
	item, ok := inv.Equipment[slot]
	if !ok || item == nil {
		return nil, fmt.Errorf("%w: nothing equipped in %s", ErrInvalidItem, slot)
	}
	if !inv.CanAdd(item) {
		return nil, ErrInventoryFull
	}
	delete(inv.Equipment, slot)
	if err := inv.AddItem(item); err != nil {
		// CanAdd уже проверил место
		inv.Equipment[slot] = item
		return nil, err
	}
	return item, nil
}

// ConsumeAt списывает одну единицу из стака; пустая ячейка очищается.
func (inv *Inventory) ConsumeAt(pos int) (*Item, error) {
	item := inv.ItemAt(pos)
	if item == nil {
		return nil, fmt.Errorf("%w: slot %d is empty", ErrInvalidItem, pos)
	}
	if !item.IsConsumable() {
		return nil, fmt.Errorf("%w: %s cannot be used", ErrInvalidItem, item.Name)
	}
	used := item.Clone()
	used.StackSize = 1
	item.StackSize--
	if item.StackSize <= 0 {
		inv.Items[pos] = nil
	}
	return used, nil
}
