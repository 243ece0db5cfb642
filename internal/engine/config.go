package engine

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/utils"
)

// Config хранит параметры мира
type Config struct {
	// Seed - зерно генерации. От него зависят подземелье и точки появления.
	Seed        int64
	Width       int
	Height      int
	MinRoomSize int
	MaxRoomSize int
	MaxRooms    int
	// StarterKit выдает каждому новому игроку стартовое снаряжение
	StarterKit bool
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:        utils.RandomSeed(),
		Width:       domain.DefaultDungeonWidth,
		Height:      domain.DefaultDungeonHeight,
		MinRoomSize: domain.DefaultMinRoomSize,
		MaxRoomSize: domain.DefaultMaxRoomSize,
		MaxRooms:    domain.DefaultMaxRooms,
	}
}
