package actions

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"

	"github.com/sirupsen/logrus"
)

// inventoryResult - автор получает новый инвентарь, остальные - обновленную запись игрока.
func inventoryResult(p domain.Player) handlers.Result {
	return handlers.Result{
		Reply:     []api.ServerEvent{api.InventoryUpdated(p.Inventory)},
		Broadcast: []api.ServerEvent{api.PlayerUpdated(p)},
	}
}

// HandleEquip переносит предмет из рюкзака в слот экипировки
func HandleEquip(ctx handlers.Context, p api.EquipItemPayload) (handlers.Result, error) {
	slot := domain.ParseEquipmentSlot(p.EquipmentSlot)
	player, err := ctx.World.EquipItem(ctx.PlayerID, p.SlotPosition, slot)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return inventoryResult(player), nil
}

// HandleUnequip снимает предмет обратно в рюкзак
func HandleUnequip(ctx handlers.Context, p api.UnequipItemPayload) (handlers.Result, error) {
	slot := domain.ParseEquipmentSlot(p.EquipmentSlot)
	player, err := ctx.World.UnequipItem(ctx.PlayerID, slot)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return inventoryResult(player), nil
}

// HandleUse использует расходник (зелья)
func HandleUse(ctx handlers.Context, p api.SlotPayload) (handlers.Result, error) {
	player, err := ctx.World.UseItem(ctx.PlayerID, p.SlotPosition)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	ctx.Log.WithFields(logrus.Fields{
		"slot":   p.SlotPosition,
		"health": player.Health,
		"mana":   player.Mana,
	}).Debug("Item used")

	return inventoryResult(player), nil
}

// HandleDrop выбрасывает содержимое ячейки целиком
func HandleDrop(ctx handlers.Context, p api.SlotPayload) (handlers.Result, error) {
	player, item, err := ctx.World.DropItem(ctx.PlayerID, p.SlotPosition)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	ctx.Log.WithFields(logrus.Fields{
		"item_name":  item.Name,
		"stack_size": item.StackSize,
	}).Info("Item dropped")

	return inventoryResult(player), nil
}
