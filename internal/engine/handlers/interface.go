package handlers

import (
	"encoding/json"

	"crawler-server/internal/domain"
	"crawler-server/pkg/api"

	"github.com/sirupsen/logrus"
)

// World - операции реестра, доступные хендлерам.
// engine.World неявно реализует этот интерфейс.
type World interface {
	AddPlayer(name, walletAddress string) (domain.Player, error)
	GetPlayer(id domain.PlayerID) (domain.Player, error)
	MovePlayer(id domain.PlayerID, dx, dy float64) (domain.Position, error)
	UpdatePosition(id domain.PlayerID, pos domain.Position) (domain.Position, error)
	StepTo(id domain.PlayerID, target domain.Position) (domain.Position, error)
	GiveItem(id domain.PlayerID, item *domain.Item) (domain.Player, error)
	EquipItem(id domain.PlayerID, slotPos int, slot domain.EquipmentSlot) (domain.Player, error)
	UnequipItem(id domain.PlayerID, slot domain.EquipmentSlot) (domain.Player, error)
	UseItem(id domain.PlayerID, slotPos int) (domain.Player, error)
	DropItem(id domain.PlayerID, slotPos int) (domain.Player, *domain.Item, error)
}

// Context передает хендлеру мир и того, кто выполняет команду.
// До входа в мир PlayerID равен domain.NilPlayerID.
type Context struct {
	World    World
	PlayerID domain.PlayerID
	Log      *logrus.Entry
}

// Result - результат выполнения команды.
// Хендлер НЕ пишет в сеть напрямую, он возвращает события, а рассылкой занимается сессия.
type Result struct {
	Reply     []api.ServerEvent // только автору команды
	Broadcast []api.ServerEvent // всем остальным вошедшим сессиям
	Joined    domain.PlayerID   // заполняется командой Join
}

// HandlerFunc - это контракт для любой команды (Move, Chat, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
