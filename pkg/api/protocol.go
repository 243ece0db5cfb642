package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
// Формат документа: {"type": "Move", "data": {...}}.
type ClientCommand struct {
	// Type название команды (Join, Move, Chat, EquipItem, UnequipItem, UseItem, DropItem).
	Type string `json:"type"`

	// Data JSON-объект с данными команды. Его структура зависит от Type.
	Data json.RawMessage `json:"data,omitempty"`
}

// --- Payloads ---

// JoinPayload первая команда сессии.
type JoinPayload struct {
	Name          string `json:"name"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// MovePayload либо относительный шаг (dx, dy), либо абсолютная цель (targetX, targetY).
// Одновременно обе формы недопустимы.
type MovePayload struct {
	Dx      *float64 `json:"dx,omitempty"`
	Dy      *float64 `json:"dy,omitempty"`
	TargetX *float64 `json:"targetX,omitempty"`
	TargetY *float64 `json:"targetY,omitempty"`
}

// IsAbsolute true, если клиент прислал целевую точку.
func (p MovePayload) IsAbsolute() bool {
	return p.TargetX != nil || p.TargetY != nil
}

// Delta возвращает смещение; отсутствующая ось считается нулем.
func (p MovePayload) Delta() (float64, float64) {
	var dx, dy float64
	if p.Dx != nil {
		dx = *p.Dx
	}
	if p.Dy != nil {
		dy = *p.Dy
	}
	return dx, dy
}

type ChatPayload struct {
	Message string `json:"message"`
}

// EquipItemPayload переносит предмет из ячейки рюкзака в слот экипировки.
type EquipItemPayload struct {
	SlotPosition  int    `json:"slotPosition"`
	EquipmentSlot string `json:"equipmentSlot"`
}

type UnequipItemPayload struct {
	EquipmentSlot string `json:"equipmentSlot"`
}

// SlotPayload используется для UseItem и DropItem.
type SlotPayload struct {
	SlotPosition int `json:"slotPosition"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerEvent исходящее событие. Data сериализуется как есть.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// IncomingEvent - то же событие на стороне клиента (бот, тесты): Data еще не разобрана.
type IncomingEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type WelcomeData struct {
	Player PlayerView `json:"player"`
}

type PlayerJoinedData struct {
	Player PlayerView `json:"player"`
}

type PlayerLeftData struct {
	ID string `json:"id"`
}

type PlayerMovedData struct {
	ID       string       `json:"id"`
	Position PositionView `json:"position"`
}

type ChatMessageData struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// ErrorData приватное сообщение об ошибке. Code совпадает с кодами HTTP-ответов.
type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type PlayerUpdatedData struct {
	Player PlayerView `json:"player"`
}

type InventoryUpdatedData struct {
	Inventory InventoryView `json:"inventory"`
}

// DungeonRegeneratedData рассылается всем после пересоздания подземелья.
type DungeonRegeneratedData struct {
	Snapshot WorldSnapshot `json:"snapshot"`
}

// --- Views ---

type PositionView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ItemStatsView отсутствующие поля значат "бонуса нет".
type ItemStatsView struct {
	Damage            *int `json:"damage,omitempty"`
	Armor             *int `json:"armor,omitempty"`
	HealthBonus       *int `json:"healthBonus,omitempty"`
	ManaBonus         *int `json:"manaBonus,omitempty"`
	StrengthBonus     *int `json:"strengthBonus,omitempty"`
	DexterityBonus    *int `json:"dexterityBonus,omitempty"`
	IntelligenceBonus *int `json:"intelligenceBonus,omitempty"`
}

// ItemView представляет предмет для клиента
type ItemView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ItemType    string        `json:"itemType"`
	Rarity      string        `json:"rarity"`
	Stats       ItemStatsView `json:"stats"`
	Stackable   bool          `json:"stackable"`
	StackSize   int           `json:"stackSize"`
	Description string        `json:"description"`
	NFTContract string        `json:"nftContract,omitempty"`
	NFTTokenID  string        `json:"nftTokenId,omitempty"`
}

// InventoryView: Items всегда полной длины, пустая ячейка - null.
type InventoryView struct {
	Items     []*ItemView          `json:"items"`
	Equipment map[string]*ItemView `json:"equipment"`
}

type AttributesView struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
}

type WalletView struct {
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
}

// PlayerView полная запись игрока.
type PlayerView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Position   PositionView   `json:"position"`
	Health     int            `json:"health"`
	MaxHealth  int            `json:"maxHealth"`
	Mana       int            `json:"mana"`
	MaxMana    int            `json:"maxMana"`
	Exp        int            `json:"exp"`
	MaxExp     int            `json:"maxExp"`
	Level      int            `json:"level"`
	Faction    string         `json:"faction"`
	Attributes AttributesView `json:"attributes"`
	Inventory  InventoryView  `json:"inventory"`
	Wallet     WalletView     `json:"wallet"`
}

type RoomView struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DungeonView: Tiles[y][x] числовые коды (0 пол, 1 стена, 2 дверь).
// Намеренно []int: []uint8 ушел бы в JSON строкой base64.
type DungeonView struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Tiles  [][]int    `json:"tiles"`
	Rooms  []RoomView `json:"rooms"`
}

// WorldSnapshot полный снимок мира для HTTP и регенерации.
type WorldSnapshot struct {
	Players []PlayerView `json:"players"`
	Dungeon DungeonView  `json:"dungeon"`
}

// ErrorResponse тело ошибки HTTP.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
