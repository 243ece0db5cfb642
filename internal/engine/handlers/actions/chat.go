package actions

import (
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"
)

func HandleChat(ctx handlers.Context, p api.ChatPayload) (handlers.Result, error) {
	// 1. Поиск автора: имя берем из реестра, а не из сообщения
	player, err := ctx.World.GetPlayer(ctx.PlayerID)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	return handlers.Result{
		Broadcast: []api.ServerEvent{api.ChatMessage(player.Name, p.Message)},
	}, nil
}
