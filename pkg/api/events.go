package api

import (
	"crawler-server/internal/domain"
)

func event(t domain.EventType, data any) ServerEvent {
	return ServerEvent{Type: t.String(), Data: data}
}

func Welcome(p domain.Player) ServerEvent {
	return event(domain.EventWelcome, WelcomeData{Player: NewPlayerView(p)})
}

func PlayerJoined(p domain.Player) ServerEvent {
	return event(domain.EventPlayerJoined, PlayerJoinedData{Player: NewPlayerView(p)})
}

func PlayerLeft(id domain.PlayerID) ServerEvent {
	return event(domain.EventPlayerLeft, PlayerLeftData{ID: id.String()})
}

func PlayerMoved(id domain.PlayerID, pos domain.Position) ServerEvent {
	return event(domain.EventPlayerMoved, PlayerMovedData{ID: id.String(), Position: NewPositionView(pos)})
}

func ChatMessage(sender, message string) ServerEvent {
	return event(domain.EventChatMessage, ChatMessageData{Sender: sender, Message: message})
}

// Error - приватная ошибка; код берется из таксономии ошибок ядра.
func Error(err error) ServerEvent {
	return event(domain.EventError, ErrorData{Message: err.Error(), Code: domain.Code(err)})
}

// ErrorMessage - ошибка протокола без типизированной причины.
func ErrorMessage(msg string) ServerEvent {
	return event(domain.EventError, ErrorData{Message: msg})
}

func PlayerUpdated(p domain.Player) ServerEvent {
	return event(domain.EventPlayerUpdated, PlayerUpdatedData{Player: NewPlayerView(p)})
}

func InventoryUpdated(inv domain.Inventory) ServerEvent {
	return event(domain.EventInventoryUpdated, InventoryUpdatedData{Inventory: NewInventoryView(inv)})
}

func DungeonRegenerated(snapshot WorldSnapshot) ServerEvent {
	return event(domain.EventDungeonRegenerated, DungeonRegeneratedData{Snapshot: snapshot})
}
