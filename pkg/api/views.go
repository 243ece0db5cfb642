package api

import (
	"crawler-server/internal/domain"
)

// NewPlayerView строит DTO игрока.
func NewPlayerView(p domain.Player) PlayerView {
	return PlayerView{
		ID:        p.ID.String(),
		Name:      p.Name,
		Position:  NewPositionView(p.Position),
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Mana:      p.Mana,
		MaxMana:   p.MaxMana,
		Exp:       p.Exp,
		MaxExp:    p.MaxExp,
		Level:     p.Level,
		Faction:   p.Faction,
		Attributes: AttributesView{
			Strength:     p.Attributes.Strength,
			Dexterity:    p.Attributes.Dexterity,
			Intelligence: p.Attributes.Intelligence,
		},
		Inventory: NewInventoryView(p.Inventory),
		Wallet:    NewWalletView(p.Wallet),
	}
}

func NewPositionView(pos domain.Position) PositionView {
	return PositionView{X: pos.X, Y: pos.Y}
}

func NewWalletView(w domain.Wallet) WalletView {
	return WalletView{Address: w.Address, Balance: w.Balance}
}

// NewInventoryView: пустые ячейки остаются null, чтобы клиент видел номера слотов.
func NewInventoryView(inv domain.Inventory) InventoryView {
	view := InventoryView{
		Items:     make([]*ItemView, len(inv.Items)),
		Equipment: make(map[string]*ItemView, len(inv.Equipment)),
	}
	for i, item := range inv.Items {
		view.Items[i] = NewItemView(item)
	}
	for slot, item := range inv.Equipment {
		if item != nil {
			view.Equipment[slot.String()] = NewItemView(item)
		}
	}
	return view
}

func NewItemView(item *domain.Item) *ItemView {
	if item == nil {
		return nil
	}
	v := &ItemView{
		ID:          item.ID.String(),
		Name:        item.Name,
		ItemType:    item.Type.String(),
		Rarity:      item.Rarity.String(),
		Stackable:   item.Stackable,
		StackSize:   item.StackSize,
		Description: item.Description,
		Stats: ItemStatsView{
			Damage:            item.Stats.Damage,
			Armor:             item.Stats.Armor,
			HealthBonus:       item.Stats.HealthBonus,
			ManaBonus:         item.Stats.ManaBonus,
			StrengthBonus:     item.Stats.StrengthBonus,
			DexterityBonus:    item.Stats.DexterityBonus,
			IntelligenceBonus: item.Stats.IntelligenceBonus,
		},
	}
	if item.NFTContract != nil {
		v.NFTContract = *item.NFTContract
	}
	if item.NFTTokenID != nil {
		v.NFTTokenID = *item.NFTTokenID
	}
	return v
}

// NewDungeonView переводит сетку в числовые коды построчно.
func NewDungeonView(d *domain.Dungeon) DungeonView {
	if d == nil {
		return DungeonView{Tiles: [][]int{}, Rooms: []RoomView{}}
	}
	rows := d.Grid.Rows()
	tiles := make([][]int, len(rows))
	for y, row := range rows {
		tiles[y] = make([]int, len(row))
		for x, t := range row {
			tiles[y][x] = int(t)
		}
	}
	rooms := make([]RoomView, len(d.Rooms))
	for i, r := range d.Rooms {
		rooms[i] = RoomView{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}
	return DungeonView{Width: d.Width, Height: d.Height, Tiles: tiles, Rooms: rooms}
}

// NewWorldSnapshot - список игроков и подземелье, снятые под одним локом.
func NewWorldSnapshot(players []domain.Player, d *domain.Dungeon) WorldSnapshot {
	views := make([]PlayerView, len(players))
	for i, p := range players {
		views[i] = NewPlayerView(p)
	}
	return WorldSnapshot{Players: views, Dungeon: NewDungeonView(d)}
}
