package actions

import (
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"
)

// HandleJoin регистрирует игрока. Автор получает Welcome с полной записью, остальные - PlayerJoined.
func HandleJoin(ctx handlers.Context, p api.JoinPayload) (handlers.Result, error) {
	player, err := ctx.World.AddPlayer(p.Name, p.WalletAddress)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	ctx.Log.WithField("player_id", player.ID).Infof("Player %s joined", player.Name)

	return handlers.Result{
		Reply:     []api.ServerEvent{api.Welcome(player)},
		Broadcast: []api.ServerEvent{api.PlayerJoined(player)},
		Joined:    player.ID,
	}, nil
}
