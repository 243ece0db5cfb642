package dungeon

import (
	"crawler-server/internal/domain"
)

// StarterKit - стартовое снаряжение нового игрока: учебный меч и три зелья лечения.
func StarterKit() []*domain.Item {
	return []*domain.Item{
		TrainingSword.Spawn(1),
		HealthPotion.Spawn(3),
	}
}
