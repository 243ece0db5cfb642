package domain

import "encoding/json"

// JournalRecord - одна принятая сервером команда игрока
type JournalRecord struct {
	UnixMilli int64           `json:"unixMilli"`
	Action    ActionType      `json:"action"`
	PlayerID  PlayerID        `json:"playerId"`
	Payload   json.RawMessage `json:"payload"`
}

// JournalSession - заголовок журнала плюс записи.
// Seed позволяет заново сгенерировать то же подземелье.
type JournalSession struct {
	Seed      int64           `json:"seed"`
	Timestamp int64           `json:"timestamp"`
	Records   []JournalRecord `json:"records"`
}
