package domain

// Dungeon - единственный источник истины о проходимости.
// Меняется только при собственной генерации; регенерация заменяет его целиком.
type Dungeon struct {
	Width  int
	Height int
	Grid   *TileGrid
	Rooms  []Room
}

// NewDungeon создает подземелье, полностью заполненное стенами.
func NewDungeon(width, height int) *Dungeon {
	return &Dungeon{
		Width:  width,
		Height: height,
		Grid:   NewTileGrid(width, height),
	}
}

// Tile - короткий доступ к сетке.
func (d *Dungeon) Tile(x, y int) TileKind {
	return d.Grid.At(x, y)
}

// IsWalkable проверяет мировую координату против текущей сетки.
func (d *Dungeon) IsWalkable(pos Position) bool {
	tx, ty, ok := pos.ToTile()
	if !ok {
		return false
	}
	return d.Grid.InBounds(tx, ty) && d.Grid.At(tx, ty).IsWalkable()
}

// CarveRoom вырезает комнату полом и добавляет ее в список.
func (d *Dungeon) CarveRoom(room Room) {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			d.Grid.Set(x, y, TileFloor)
		}
	}
	d.Rooms = append(d.Rooms, room)
}

// CarveCorridor прокладывает Г-образный коридор: сначала по горизонтали, потом по вертикали.
func (d *Dungeon) CarveCorridor(x1, y1, x2, y2 int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		d.Grid.Set(x, y1, TileFloor)
	}
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		d.Grid.Set(x2, y, TileFloor)
	}
}
