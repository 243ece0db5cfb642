package domain

import "math"

// TileSize - размер клетки в мировых единицах (пикселях).
const TileSize = 32.0

// Position - мировая координата игрока.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToTile переводит мировые координаты в индекс клетки (деление с отбрасыванием к нулю).
// ok == false для NaN и бесконечностей.
func (p Position) ToTile() (int, int, bool) {
	if !isFinite(p.X) || !isFinite(p.Y) {
		return 0, 0, false
	}
	tx := math.Trunc(p.X / TileSize)
	ty := math.Trunc(p.Y / TileSize)
	if math.Abs(tx) > math.MaxInt32 || math.Abs(ty) > math.MaxInt32 {
		return 0, 0, false
	}
	return int(tx), int(ty), true
}

// Shift возвращает новую позицию со смещением.
func (p Position) Shift(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// TileCenter - центр клетки в мировых координатах.
func TileCenter(tx, ty int) Position {
	return Position{
		X: float64(tx)*TileSize + TileSize/2,
		Y: float64(ty)*TileSize + TileSize/2,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
