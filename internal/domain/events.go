package domain

import "strings"

// EventType - Внутренний числовой идентификатор события сервера
type EventType uint8

const (
	EventUnknown EventType = iota
	EventWelcome
	EventPlayerJoined
	EventPlayerLeft
	EventPlayerMoved
	EventChatMessage
	EventError
	EventPlayerUpdated
	EventInventoryUpdated
	EventDungeonRegenerated
)

var eventCmdToString = map[EventType]string{
	EventWelcome:            "Welcome",
	EventPlayerJoined:       "PlayerJoined",
	EventPlayerLeft:         "PlayerLeft",
	EventPlayerMoved:        "PlayerMoved",
	EventChatMessage:        "ChatMessage",
	EventError:              "Error",
	EventPlayerUpdated:      "PlayerUpdated",
	EventInventoryUpdated:   "InventoryUpdated",
	EventDungeonRegenerated: "DungeonRegenerated",
}

// ParseEvent конвертирует строку из JSON в EventType
func ParseEvent(s string) EventType {
	for k, v := range eventCmdToString {
		if strings.EqualFold(v, s) {
			return k
		}
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventCmdToString[e]; ok {
		return val
	}
	return "Unknown"
}
