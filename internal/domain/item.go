package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ItemType - категория предмета.
type ItemType uint8

const (
	ItemTypeUnknown ItemType = iota
	ItemTypeWeapon
	ItemTypeArmor
	ItemTypeConsumable
	ItemTypeResource
	ItemTypeQuest
	ItemTypeNFT
)

var itemTypeToString = map[ItemType]string{
	ItemTypeWeapon:     "Weapon",
	ItemTypeArmor:      "Armor",
	ItemTypeConsumable: "Consumable",
	ItemTypeResource:   "Resource",
	ItemTypeQuest:      "Quest",
	ItemTypeNFT:        "NFT",
}

func (t ItemType) String() string {
	if val, ok := itemTypeToString[t]; ok {
		return val
	}
	return "Unknown"
}

// ParseItemType нечувствителен к регистру.
func ParseItemType(s string) ItemType {
	for k, v := range itemTypeToString {
		if strings.EqualFold(v, s) {
			return k
		}
	}
	return ItemTypeUnknown
}

func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ItemType) UnmarshalText(data []byte) error {
	parsed := ParseItemType(string(data))
	if parsed == ItemTypeUnknown {
		return fmt.Errorf("unknown item type %q", data)
	}
	*t = parsed
	return nil
}

// Rarity - редкость предмета.
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityToString = map[Rarity]string{
	RarityCommon:    "Common",
	RarityUncommon:  "Uncommon",
	RarityRare:      "Rare",
	RarityEpic:      "Epic",
	RarityLegendary: "Legendary",
}

func (r Rarity) String() string {
	if val, ok := rarityToString[r]; ok {
		return val
	}
	return "Common"
}

func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(data []byte) error {
	for k, v := range rarityToString {
		if strings.EqualFold(v, string(data)) {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown rarity %q", data)
}

// ItemStats - бонусы предмета. Отсутствующее поле значит "бонуса нет".
type ItemStats struct {
	Damage            *int `json:"damage,omitempty"`
	Armor             *int `json:"armor,omitempty"`
	HealthBonus       *int `json:"healthBonus,omitempty"`
	ManaBonus         *int `json:"manaBonus,omitempty"`
	StrengthBonus     *int `json:"strengthBonus,omitempty"`
	DexterityBonus    *int `json:"dexterityBonus,omitempty"`
	IntelligenceBonus *int `json:"intelligenceBonus,omitempty"`
}

// Item - предмет в инвентаре или экипировке.
type Item struct {
	ID          ItemID    `json:"id"`
	Name        string    `json:"name"`
	Type        ItemType  `json:"itemType"`
	Rarity      Rarity    `json:"rarity"`
	Stats       ItemStats `json:"stats"`
	Stackable   bool      `json:"stackable"`
	StackSize   int       `json:"stackSize"`
	Description string    `json:"description"`

	// Ссылка на внешний актив, только для NFT
	NFTContract *string `json:"nftContract,omitempty"`
	NFTTokenID  *string `json:"nftTokenId,omitempty"`
}

// NewItem создает предмет со стаком в 1.
func NewItem(name string, itemType ItemType, rarity Rarity, stats ItemStats, stackable bool, description string) *Item {
	return &Item{
		ID:          uuid.New(),
		Name:        name,
		Type:        itemType,
		Rarity:      rarity,
		Stats:       stats,
		Stackable:   stackable,
		StackSize:   1,
		Description: description,
	}
}

// NewNFTItem создает невзаимозаменяемый предмет со ссылкой на контракт.
func NewNFTItem(name string, rarity Rarity, stats ItemStats, description, contract, tokenID string) *Item {
	item := NewItem(name, ItemTypeNFT, rarity, stats, false, description)
	item.NFTContract = &contract
	item.NFTTokenID = &tokenID
	return item
}

// IsEquippable - надеть можно только оружие и броню.
func (i *Item) IsEquippable() bool {
	return i.Type == ItemTypeWeapon || i.Type == ItemTypeArmor
}

func (i *Item) IsConsumable() bool {
	return i.Type == ItemTypeConsumable
}

// StacksWith - предметы сливаются в один слот, если оба стакаются и совпадают по виду.
func (i *Item) StacksWith(other *Item) bool {
	return i.Stackable && other.Stackable &&
		i.Name == other.Name && i.Type == other.Type && i.Rarity == other.Rarity
}

// Clone делает глубокую копию (бонусы хранятся по указателям).
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	c.Stats = ItemStats{
		Damage:            cloneInt(i.Stats.Damage),
		Armor:             cloneInt(i.Stats.Armor),
		HealthBonus:       cloneInt(i.Stats.HealthBonus),
		ManaBonus:         cloneInt(i.Stats.ManaBonus),
		StrengthBonus:     cloneInt(i.Stats.StrengthBonus),
		DexterityBonus:    cloneInt(i.Stats.DexterityBonus),
		IntelligenceBonus: cloneInt(i.Stats.IntelligenceBonus),
	}
	if i.NFTContract != nil {
		v := *i.NFTContract
		c.NFTContract = &v
	}
	if i.NFTTokenID != nil {
		v := *i.NFTTokenID
		c.NFTTokenID = &v
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr - помощник для литералов ItemStats.
func IntPtr(v int) *int {
	return &v
}
