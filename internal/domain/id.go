package domain

import "github.com/google/uuid"

// PlayerID - глобально уникальный непрозрачный идентификатор игрока.
// Выдается при создании и никогда не переиспользуется.
type PlayerID = uuid.UUID

// ItemID - идентификатор конкретного экземпляра предмета.
type ItemID = uuid.UUID

// NilPlayerID - аналог nil для сессий, которые еще не вошли в мир.
var NilPlayerID = uuid.Nil

// NewPlayerID выдает новый случайный идентификатор (UUID v4).
func NewPlayerID() PlayerID {
	return uuid.New()
}

// ParsePlayerID разбирает идентификатор из строки (путь HTTP, журнал).
func ParsePlayerID(s string) (PlayerID, error) {
	return uuid.Parse(s)
}
