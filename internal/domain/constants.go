package domain

// Параметры генерации по умолчанию
const (
	DefaultDungeonWidth  = 50
	DefaultDungeonHeight = 50
	DefaultMinRoomSize   = 4
	DefaultMaxRoomSize   = 8
	DefaultMaxRooms      = 10
)

// Запасная точка появления, если в подземелье не нашлось пола
var FallbackSpawn = Position{X: 64, Y: 64}

// Ограничения протокола
const (
	MaxChatLength = 256
	// Максимальный шаг за одну команду Move по каждой оси
	MaxMoveDelta = TileSize
)
