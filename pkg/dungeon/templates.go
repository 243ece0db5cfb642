package dungeon

import (
	"crawler-server/internal/domain"
)

// ItemTemplate определяет шаблон для создания предмета
type ItemTemplate struct {
	Name        string
	Type        domain.ItemType
	Rarity      domain.Rarity
	Stats       domain.ItemStats
	Stackable   bool
	Description string
}

// Spawn создает экземпляр предмета из шаблона. count > 1 имеет смысл только для стакаемых.
func (t ItemTemplate) Spawn(count int) *domain.Item {
	item := domain.NewItem(t.Name, t.Type, t.Rarity, t.Stats, t.Stackable, t.Description)
	if t.Stackable && count > 1 {
		item.StackSize = count
	}
	return item
}

// --- ОРУЖИЕ ---

var TrainingSword = ItemTemplate{
	Name:        "Training Sword",
	Type:        domain.ItemTypeWeapon,
	Rarity:      domain.RarityCommon,
	Stats:       domain.ItemStats{Damage: domain.IntPtr(5)},
	Description: "A blunt blade for first steps in the dungeon.",
}

var SteelDagger = ItemTemplate{
	Name:        "Steel Dagger",
	Type:        domain.ItemTypeWeapon,
	Rarity:      domain.RarityUncommon,
	Stats:       domain.ItemStats{Damage: domain.IntPtr(4), DexterityBonus: domain.IntPtr(2)},
	Description: "Short and quick.",
}

// --- БРОНЯ ---

var LeatherCap = ItemTemplate{
	Name:        "Leather Cap",
	Type:        domain.ItemTypeArmor,
	Rarity:      domain.RarityCommon,
	Stats:       domain.ItemStats{Armor: domain.IntPtr(1)},
	Description: "Better than nothing.",
}

var WoodenShield = ItemTemplate{
	Name:        "Wooden Shield",
	Type:        domain.ItemTypeArmor,
	Rarity:      domain.RarityCommon,
	Stats:       domain.ItemStats{Armor: domain.IntPtr(3), StrengthBonus: domain.IntPtr(-1)},
	Description: "Heavy planks bound with iron.",
}

// --- ЗЕЛЬЯ ---

var HealthPotion = ItemTemplate{
	Name:        "Health Potion",
	Type:        domain.ItemTypeConsumable,
	Rarity:      domain.RarityCommon,
	Stats:       domain.ItemStats{HealthBonus: domain.IntPtr(25)},
	Stackable:   true,
	Description: "Restores 25 health.",
}

var ManaPotion = ItemTemplate{
	Name:        "Mana Potion",
	Type:        domain.ItemTypeConsumable,
	Rarity:      domain.RarityCommon,
	Stats:       domain.ItemStats{ManaBonus: domain.IntPtr(25)},
	Stackable:   true,
	Description: "Restores 25 mana.",
}

// ItemTemplates - каталог по имени (для админских выдач и тестов)
var ItemTemplates = map[string]ItemTemplate{
	TrainingSword.Name: TrainingSword,
	SteelDagger.Name:   SteelDagger,
	LeatherCap.Name:    LeatherCap,
	WoodenShield.Name:  WoodenShield,
	HealthPotion.Name:  HealthPotion,
	ManaPotion.Name:    ManaPotion,
}
