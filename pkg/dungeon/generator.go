package dungeon

import (
	"errors"
	"fmt"
	"math/rand"

	"crawler-server/internal/domain"
)

// Вероятность превратить перекресток коридоров в дверь
const doorChance = 0.2

// ErrDegenerateBounds - параметры, при которых ни одна комната не помещается.
var ErrDegenerateBounds = errors.New("degenerate dungeon bounds")

// Generator строит подземелье: комнаты без наложений, Г-образные коридоры между
// соседними по порядку комнатами и двери на перекрестках.
// Генератор не потокобезопасен: rng принадлежит вызывающему (мир держит его под своим локом).
type Generator struct {
	MinRoomSize int
	MaxRoomSize int
	MaxRooms    int

	rng *rand.Rand
}

// NewGenerator создает генератор с параметрами по умолчанию.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		MinRoomSize: domain.DefaultMinRoomSize,
		MaxRoomSize: domain.DefaultMaxRoomSize,
		MaxRooms:    domain.DefaultMaxRooms,
		rng:         rng,
	}
}

// WithRoomSize задает диапазон сторон комнаты
func (g *Generator) WithRoomSize(minSize, maxSize int) *Generator {
	g.MinRoomSize = minSize
	g.MaxRoomSize = maxSize
	return g
}

// WithMaxRooms задает верхнюю границу числа комнат
func (g *Generator) WithMaxRooms(n int) *Generator {
	g.MaxRooms = n
	return g
}

// Validate проверяет, что хотя бы одна комната максимального размера помещается внутрь рамки.
func (g *Generator) Validate(width, height int) error {
	switch {
	case g.MinRoomSize < 1:
		return fmt.Errorf("%w: min room size %d < 1", ErrDegenerateBounds, g.MinRoomSize)
	case g.MinRoomSize > g.MaxRoomSize:
		return fmt.Errorf("%w: min room size %d > max %d", ErrDegenerateBounds, g.MinRoomSize, g.MaxRoomSize)
	case g.MaxRooms < 0:
		return fmt.Errorf("%w: max rooms %d < 0", ErrDegenerateBounds, g.MaxRooms)
	case width < 3 || height < 3:
		return fmt.Errorf("%w: grid %dx%d", ErrDegenerateBounds, width, height)
	case g.MaxRoomSize+2 > width || g.MaxRoomSize+2 > height:
		return fmt.Errorf("%w: room size %d does not fit %dx%d", ErrDegenerateBounds, g.MaxRoomSize, width, height)
	}
	return nil
}

// Generate создает новое подземелье. Исчерпание попыток не ошибка: возвращается
// то, что успело разместиться (при MaxRooms >= 1 это минимум одна комната).
func (g *Generator) Generate(width, height int) (*domain.Dungeon, error) {
	if err := g.Validate(width, height); err != nil {
		return nil, err
	}

	d := domain.NewDungeon(width, height)
	maxAttempts := g.MaxRooms * 3

	for attempt := 0; attempt < maxAttempts && len(d.Rooms) < g.MaxRooms; attempt++ {
		w := g.randRange(g.MinRoomSize, g.MaxRoomSize)
		h := g.randRange(g.MinRoomSize, g.MaxRoomSize)
		// Комната целиком внутри [1, width-2] x [1, height-2]
		x := g.randRange(1, width-w-1)
		y := g.randRange(1, height-h-1)

		newRoom := domain.Room{X: x, Y: y, Width: w, Height: h}

		failed := false
		for _, other := range d.Rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		// Соединяем с предыдущей принятой комнатой
		if len(d.Rooms) > 0 {
			prevX, prevY := d.Rooms[len(d.Rooms)-1].Center()
			currX, currY := newRoom.Center()
			d.CarveCorridor(prevX, prevY, currX, currY)
		}
		d.CarveRoom(newRoom)
	}

	g.addDoors(d)
	return d, nil
}

// addDoors превращает часть клеток пола, окруженных полом со всех четырех сторон, в двери.
// Рамка не трогается.
func (g *Generator) addDoors(d *domain.Dungeon) {
	for y := 1; y < d.Height-1; y++ {
		for x := 1; x < d.Width-1; x++ {
			if d.Tile(x, y) != domain.TileFloor {
				continue
			}
			horizontal := d.Tile(x-1, y) == domain.TileFloor && d.Tile(x+1, y) == domain.TileFloor
			vertical := d.Tile(x, y-1) == domain.TileFloor && d.Tile(x, y+1) == domain.TileFloor
			if horizontal && vertical && g.rng.Float64() < doorChance {
				d.Grid.Set(x, y, domain.TileDoor)
			}
		}
	}
}

func (g *Generator) randRange(min, max int) int {
	return g.rng.Intn(max-min+1) + min
}
