package domain

// TileKind - тип клетки подземелья. Числовые коды уходят клиенту как есть.
type TileKind uint8

const (
	TileFloor TileKind = iota // 0
	TileWall                  // 1
	TileDoor                  // 2
)

var tileKindToString = map[TileKind]string{
	TileFloor: "FLOOR",
	TileWall:  "WALL",
	TileDoor:  "DOOR",
}

func (k TileKind) String() string {
	if val, ok := tileKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsWalkable - по полу и дверям ходить можно, по стенам нет.
func (k TileKind) IsWalkable() bool {
	return k == TileFloor || k == TileDoor
}

// TileGrid - прямоугольная сетка клеток (row-major).
// Любое обращение проверяет границы: чтение за пределами возвращает стену,
// запись за пределами игнорируется.
type TileGrid struct {
	width  int
	height int
	tiles  []TileKind
}

// NewTileGrid создает сетку, целиком заполненную стенами.
func NewTileGrid(width, height int) *TileGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	tiles := make([]TileKind, width*height)
	for i := range tiles {
		tiles[i] = TileWall
	}
	return &TileGrid{width: width, height: height, tiles: tiles}
}

func (g *TileGrid) Width() int  { return g.width }
func (g *TileGrid) Height() int { return g.height }

// InBounds проверяет, что координата лежит внутри сетки.
func (g *TileGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At возвращает тип клетки. За пределами сетки всегда стена.
func (g *TileGrid) At(x, y int) TileKind {
	if !g.InBounds(x, y) {
		return TileWall
	}
	return g.tiles[y*g.width+x]
}

// Set меняет тип клетки. Возвращает false, если координата вне сетки.
func (g *TileGrid) Set(x, y int, kind TileKind) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.tiles[y*g.width+x] = kind
	return true
}

// Rows возвращает копию сетки построчно (для снапшотов).
func (g *TileGrid) Rows() [][]TileKind {
	rows := make([][]TileKind, g.height)
	for y := 0; y < g.height; y++ {
		row := make([]TileKind, g.width)
		copy(row, g.tiles[y*g.width:(y+1)*g.width])
		rows[y] = row
	}
	return rows
}

// Count считает клетки заданного типа.
func (g *TileGrid) Count(kind TileKind) int {
	n := 0
	for _, t := range g.tiles {
		if t == kind {
			n++
		}
	}
	return n
}
