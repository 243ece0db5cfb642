package admin

import (
	"fmt"

	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"
	"crawler-server/pkg/dungeon"
)

// GiveItemPayload: { "template": "Health Potion", "count": 3 }
type GiveItemPayload struct {
	Template string `json:"template"`
	Count    int    `json:"count,omitempty"`
}

func (p GiveItemPayload) Validate() error {
	if _, ok := dungeon.ItemTemplates[p.Template]; !ok {
		return fmt.Errorf("unknown item template %q", p.Template)
	}
	if p.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	return nil
}

// HandleGiveItem выдает игроку предмет из каталога шаблонов.
func HandleGiveItem(ctx handlers.Context, p GiveItemPayload) (handlers.Result, error) {
	item := dungeon.ItemTemplates[p.Template].Spawn(max(p.Count, 1))

	player, err := ctx.World.GiveItem(ctx.PlayerID, item)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	ctx.Log.WithField("template", p.Template).Info("Admin gave item")
	return handlers.Result{
		Reply:     []api.ServerEvent{api.InventoryUpdated(player.Inventory)},
		Broadcast: []api.ServerEvent{api.PlayerUpdated(player)},
	}, nil
}

// TeleportPayload: { "x": 80, "y": 80 }
type TeleportPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandleTeleport ставит игрока в точку в обход ограничения на длину шага, но не в стену.
func HandleTeleport(ctx handlers.Context, p TeleportPayload) (handlers.Result, error) {
	pos, err := ctx.World.UpdatePosition(ctx.PlayerID, domain.Position{X: p.X, Y: p.Y})
	if err != nil {
		return handlers.EmptyResult(), err
	}

	ctx.Log.WithField("position", pos).Info("Teleported via admin")
	return handlers.Result{
		Broadcast: []api.ServerEvent{api.PlayerMoved(ctx.PlayerID, pos)},
	}, nil
}
