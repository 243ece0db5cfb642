package engine

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sort"
	"sync"

	"crawler-server/internal/domain"
	"crawler-server/pkg/dungeon"
)

// World - единственный источник истины: подземелье и реестр игроков под одним RWMutex.
// Все операции проверяют и применяют изменение внутри одной критической секции;
// неудачная операция ничего не меняет. Чтения возвращают копии.
// Под локом нет ни ввода-вывода, ни обращений к хабу.
type World struct {
	mu sync.RWMutex

	dungeon *domain.Dungeon
	players map[domain.PlayerID]*domain.Player
	joined  []domain.PlayerID // порядок входа, по нему идет перенос при регенерации

	generator  *dungeon.Generator
	rng        *rand.Rand
	width      int
	height     int
	starterKit bool
}

// AddPlayer регистрирует игрока в точке появления.
func (w *World) AddPlayer(name, walletAddress string) (domain.Player, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.Player{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p := domain.NewPlayer(name, walletAddress, dungeon.PickSpawn(w.dungeon, w.rng))
	if w.starterKit {
		for _, item := range dungeon.StarterKit() {
			if err := p.Inventory.AddItem(item); err != nil {
				return domain.Player{}, fmt.Errorf("%w: starter kit: %v", domain.ErrInternal, err)
			}
		}
	}
	w.players[p.ID] = p
	w.joined = append(w.joined, p.ID)
	return p.Clone(), nil
}

func (w *World) GetPlayer(id domain.PlayerID) (domain.Player, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	p, ok := w.players[id]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return p.Clone(), nil
}

// GetPlayers возвращает копии всех игроков, упорядоченные по имени и ID.
func (w *World) GetPlayers() []domain.Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.playersLocked()
}

func (w *World) playersLocked() []domain.Player {
	out := make([]domain.Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Count - число игроков в реестре.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}

// UpdatePosition ставит игрока в абсолютную точку, если она проходима.
func (w *World) UpdatePosition(id domain.PlayerID, pos domain.Position) (domain.Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok {
		return domain.Position{}, domain.ErrPlayerNotFound
	}
	if !w.dungeon.IsWalkable(pos) {
		return domain.Position{}, fmt.Errorf("%w: (%.1f, %.1f)", domain.ErrInvalidPosition, pos.X, pos.Y)
	}
	p.Position = pos
	return pos, nil
}

// MovePlayer сдвигает игрока относительно текущей позиции.
// Чтение, проверка и запись идут под одним локом, поэтому конкурентные сдвиги не теряются.
func (w *World) MovePlayer(id domain.PlayerID, dx, dy float64) (domain.Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok {
		return domain.Position{}, domain.ErrPlayerNotFound
	}
	next := p.Position.Shift(dx, dy)
	if !w.dungeon.IsWalkable(next) {
		return domain.Position{}, fmt.Errorf("%w: (%.1f, %.1f)", domain.ErrInvalidPosition, next.X, next.Y)
	}
	p.Position = next
	return next, nil
}

// StepTo - ход игрока в абсолютную точку. Цель не дальше одного шага
// (domain.MaxMoveDelta по каждой оси) от текущей позиции и проходима.
func (w *World) StepTo(id domain.PlayerID, target domain.Position) (domain.Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok {
		return domain.Position{}, domain.ErrPlayerNotFound
	}
	if math.Abs(target.X-p.Position.X) > domain.MaxMoveDelta || math.Abs(target.Y-p.Position.Y) > domain.MaxMoveDelta {
		return domain.Position{}, fmt.Errorf("%w: (%.1f, %.1f) is more than one step away", domain.ErrInvalidPosition, target.X, target.Y)
	}
	if !w.dungeon.IsWalkable(target) {
		return domain.Position{}, fmt.Errorf("%w: (%.1f, %.1f)", domain.ErrInvalidPosition, target.X, target.Y)
	}
	p.Position = target
	return target, nil
}

// RemovePlayer идемпотентен: повторный вызов возвращает false.
func (w *World) RemovePlayer(id domain.PlayerID) (domain.Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok {
		return domain.Player{}, false
	}
	delete(w.players, id)
	w.joined = slices.DeleteFunc(w.joined, func(v domain.PlayerID) bool { return v == id })
	return *p, true
}

// IsValid проверяет мировую координату против текущего подземелья.
func (w *World) IsValid(pos domain.Position) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dungeon.IsWalkable(pos)
}

// Dungeon возвращает текущее подземелье. После генерации оно не меняется
// (регенерация подменяет указатель), так что его можно читать без лока.
func (w *World) Dungeon() *domain.Dungeon {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dungeon
}

// Snapshot - согласованный снимок игроков и подземелья.
type Snapshot struct {
	Players []domain.Player
	Dungeon *domain.Dungeon
}

func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{Players: w.playersLocked(), Dungeon: w.dungeon}
}

// Regenerate строит новое подземелье и переносит всех игроков в новые точки появления.
// Подмена и перенос атомарны: ни один читатель не увидит игрока на старой позиции в новом подземелье.
func (w *World) Regenerate() (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := w.generator.Generate(w.width, w.height)
	if err != nil {
		return Snapshot{}, err
	}
	w.dungeon = d
	for _, id := range w.joined {
		w.players[id].Position = dungeon.PickSpawn(d, w.rng)
	}
	return Snapshot{Players: w.playersLocked(), Dungeon: d}, nil
}

// --- Инвентарь ---
// Все изменения делаются на копии игрока и подменяются только при успехе.

func (w *World) mutatePlayer(id domain.PlayerID, fn func(p *domain.Player) error) (domain.Player, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	stored, ok := w.players[id]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	draft := stored.Clone()
	if err := fn(&draft); err != nil {
		return domain.Player{}, err
	}
	*stored = draft
	return draft.Clone(), nil
}

// GiveItem кладет предмет в рюкзак игрока.
func (w *World) GiveItem(id domain.PlayerID, item *domain.Item) (domain.Player, error) {
	return w.mutatePlayer(id, func(p *domain.Player) error {
		return p.Inventory.AddItem(item.Clone())
	})
}

func (w *World) EquipItem(id domain.PlayerID, slotPos int, slot domain.EquipmentSlot) (domain.Player, error) {
	return w.mutatePlayer(id, func(p *domain.Player) error {
		return p.Inventory.Equip(slotPos, slot)
	})
}

func (w *World) UnequipItem(id domain.PlayerID, slot domain.EquipmentSlot) (domain.Player, error) {
	return w.mutatePlayer(id, func(p *domain.Player) error {
		_, err := p.Inventory.Unequip(slot)
		return err
	})
}

// UseItem применяет расходник из ячейки и списывает одну единицу.
func (w *World) UseItem(id domain.PlayerID, slotPos int) (domain.Player, error) {
	return w.mutatePlayer(id, func(p *domain.Player) error {
		used, err := p.Inventory.ConsumeAt(slotPos)
		if err != nil {
			return err
		}
		p.ApplyConsumable(used)
		return nil
	})
}

// DropItem выбрасывает содержимое ячейки целиком. Предмет исчезает из мира.
func (w *World) DropItem(id domain.PlayerID, slotPos int) (domain.Player, *domain.Item, error) {
	var dropped *domain.Item
	p, err := w.mutatePlayer(id, func(p *domain.Player) error {
		item, err := p.Inventory.TakeAt(slotPos)
		dropped = item
		return err
	})
	if err != nil {
		return domain.Player{}, nil, err
	}
	return p, dropped, nil
}
