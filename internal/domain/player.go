package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Стартовые характеристики нового игрока
const (
	DefaultHealth    = 100
	DefaultMana      = 100
	DefaultMaxExp    = 1000
	DefaultLevel     = 1
	DefaultAttribute = 10
	DefaultFaction   = "neutral"
	MaxNameLength    = 32
)

type Attributes struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
}

type Wallet struct {
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
}

// Player - запись игрока в реестре мира.
type Player struct {
	ID         PlayerID   `json:"id"`
	Name       string     `json:"name"`
	Position   Position   `json:"position"`
	Health     int        `json:"health"`
	MaxHealth  int        `json:"maxHealth"`
	Mana       int        `json:"mana"`
	MaxMana    int        `json:"maxMana"`
	Exp        int        `json:"exp"`
	MaxExp     int        `json:"maxExp"`
	Level      int        `json:"level"`
	Faction    string     `json:"faction"`
	Attributes Attributes `json:"attributes"`
	Inventory  Inventory  `json:"inventory"`
	Wallet     Wallet     `json:"wallet"`
}

// NewPlayer создает игрока со стартовыми значениями. Имя должно пройти NormalizeName.
func NewPlayer(name, walletAddress string, pos Position) *Player {
	return &Player{
		ID:        NewPlayerID(),
		Name:      name,
		Position:  pos,
		Health:    DefaultHealth,
		MaxHealth: DefaultHealth,
		Mana:      DefaultMana,
		MaxMana:   DefaultMana,
		MaxExp:    DefaultMaxExp,
		Level:     DefaultLevel,
		Faction:   DefaultFaction,
		Attributes: Attributes{
			Strength:     DefaultAttribute,
			Dexterity:    DefaultAttribute,
			Intelligence: DefaultAttribute,
		},
		Inventory: NewInventory(),
		Wallet:    Wallet{Address: walletAddress},
	}
}

// Clone - глубокая копия (инвентарь не разделяется).
func (p *Player) Clone() Player {
	c := *p
	c.Inventory = p.Inventory.Clone()
	return c
}

// ApplyConsumable восстанавливает здоровье и ману, не выходя за максимум.
func (p *Player) ApplyConsumable(item *Item) {
	if item.Stats.HealthBonus != nil {
		p.Health = min(p.MaxHealth, p.Health+*item.Stats.HealthBonus)
	}
	if item.Stats.ManaBonus != nil {
		p.Mana = min(p.MaxMana, p.Mana+*item.Stats.ManaBonus)
	}
}

// NormalizeName обрезает пробелы и проверяет длину и отсутствие управляющих символов.
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 || n > MaxNameLength {
		return "", fmt.Errorf("%w: length must be 1..%d", ErrInvalidName, MaxNameLength)
	}
	if !utf8.ValidString(trimmed) {
		return "", fmt.Errorf("%w: not utf-8", ErrInvalidName)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: control characters", ErrInvalidName)
		}
	}
	return trimmed, nil
}
