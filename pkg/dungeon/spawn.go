package dungeon

import (
	"math/rand"

	"crawler-server/internal/domain"
)

// Сколько случайных клеток пробуем, если комнат нет
const spawnAttempts = 256

// PickSpawn выбирает точку появления: центр первой комнаты, иначе случайную проходимую клетку,
// иначе domain.FallbackSpawn. Результат всегда центр клетки.
func PickSpawn(d *domain.Dungeon, rng *rand.Rand) domain.Position {
	if d == nil {
		return domain.FallbackSpawn
	}
	if len(d.Rooms) > 0 {
		cx, cy := d.Rooms[0].Center()
		if d.Tile(cx, cy).IsWalkable() {
			return domain.TileCenter(cx, cy)
		}
	}

	if d.Width > 0 && d.Height > 0 {
		for i := 0; i < spawnAttempts; i++ {
			x, y := rng.Intn(d.Width), rng.Intn(d.Height)
			if d.Tile(x, y).IsWalkable() {
				return domain.TileCenter(x, y)
			}
		}
	}
	return domain.FallbackSpawn
}
