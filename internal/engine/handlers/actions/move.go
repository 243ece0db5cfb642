package actions

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"
)

// HandleMove применяет шаг или переход в соседнюю абсолютную точку.
// Отклоненный ход возвращает ошибку автору и ничего не рассылает.
func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	var (
		pos domain.Position
		err error
	)
	if p.IsAbsolute() {
		pos, err = ctx.World.StepTo(ctx.PlayerID, domain.Position{X: *p.TargetX, Y: *p.TargetY})
	} else {
		dx, dy := p.Delta()
		pos, err = ctx.World.MovePlayer(ctx.PlayerID, dx, dy)
	}
	if err != nil {
		return handlers.EmptyResult(), err
	}

	return handlers.Result{
		Broadcast: []api.ServerEvent{api.PlayerMoved(ctx.PlayerID, pos)},
	}, nil
}
