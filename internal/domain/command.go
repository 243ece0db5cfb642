package domain

import "encoding/json"

// InternalCommand - команда, уже привязанная к игроку сессии.
// Использует ActionType вместо строки.
type InternalCommand struct {
	Action   ActionType
	PlayerID PlayerID
	Payload  json.RawMessage // Сырые данные (парсятся хендлером)
}
