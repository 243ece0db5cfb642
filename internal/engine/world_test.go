package engine

import (
	"math/rand"
	"sync"
	"testing"

	"crawler-server/internal/domain"
	"crawler-server/pkg/dungeon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper: мир 5x5 с одной комнатой 3x3 в центре
// # # # # #
// # . . . #
// # . . . #   <- точка появления: клетка (2,2) -> (80,80)
// # . . . #
// # # # # #
func createTestWorld(t *testing.T) *World {
	t.Helper()
	d := domain.NewDungeon(5, 5)
	d.CarveRoom(domain.Room{X: 1, Y: 1, Width: 3, Height: 3})

	rng := rand.New(rand.NewSource(1))
	return &World{
		dungeon:   d,
		players:   make(map[domain.PlayerID]*domain.Player),
		generator: dungeon.NewGenerator(rng),
		rng:       rng,
		width:     5,
		height:    5,
	}
}

func TestAddPlayer_Spawn(t *testing.T) {
	w := createTestWorld(t)

	p, err := w.AddPlayer("  Alice ", "0xabc")
	require.NoError(t, err)

	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, domain.Position{X: 80, Y: 80}, p.Position)
	assert.Equal(t, "0xabc", p.Wallet.Address)
	assert.Equal(t, domain.DefaultHealth, p.Health)
	assert.NotEqual(t, domain.NilPlayerID, p.ID)
	assert.Equal(t, 1, w.Count())
	assert.True(t, w.IsValid(p.Position))
}

func TestAddPlayer_InvalidName(t *testing.T) {
	w := createTestWorld(t)

	for _, name := range []string{"", "   ", "bad\x00name"} {
		_, err := w.AddPlayer(name, "")
		assert.ErrorIs(t, err, domain.ErrInvalidName, "name %q", name)
	}
	assert.Zero(t, w.Count())
}

func TestAddPlayer_StarterKit(t *testing.T) {
	w := createTestWorld(t)
	w.starterKit = true

	p, err := w.AddPlayer("Bob", "")
	require.NoError(t, err)

	require.Len(t, p.Inventory.Items, domain.MaxInventorySlots)
	require.NotNil(t, p.Inventory.Items[0])
	assert.Equal(t, dungeon.TrainingSword.Name, p.Inventory.Items[0].Name)
	require.NotNil(t, p.Inventory.Items[1])
	assert.Equal(t, 3, p.Inventory.Items[1].StackSize)
}

func TestMovePlayer(t *testing.T) {
	w := createTestWorld(t)
	p, _ := w.AddPlayer("Alice", "")

	// Вправо на клетку (3,2) - пол
	pos, err := w.MovePlayer(p.ID, domain.TileSize, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 112, Y: 80}, pos)

	// Еще вправо - стена (4,2): ход отклонен, позиция не меняется
	_, err = w.MovePlayer(p.ID, domain.TileSize, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)

	got, err := w.GetPlayer(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 112, Y: 80}, got.Position)
}

func TestMovePlayer_UnknownPlayer(t *testing.T) {
	w := createTestWorld(t)

	_, err := w.MovePlayer(domain.NewPlayerID(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)

	_, err = w.UpdatePosition(domain.NewPlayerID(), domain.Position{X: 80, Y: 80})
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestUpdatePosition(t *testing.T) {
	w := createTestWorld(t)
	p, _ := w.AddPlayer("Alice", "")

	// Текущая клетка игрока - допустимая цель
	pos, err := w.UpdatePosition(p.ID, p.Position)
	require.NoError(t, err)
	assert.Equal(t, p.Position, pos)

	pos, err = w.UpdatePosition(p.ID, domain.Position{X: 40, Y: 120})
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 40, Y: 120}, pos)

	// Стена, за пределами карты, отрицательные координаты
	for _, bad := range []domain.Position{{X: 10, Y: 10}, {X: 1000, Y: 80}, {X: -40, Y: 80}} {
		_, err := w.UpdatePosition(p.ID, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidPosition, "pos %+v", bad)
	}

	got, _ := w.GetPlayer(p.ID)
	assert.Equal(t, domain.Position{X: 40, Y: 120}, got.Position)
}

func TestStepTo(t *testing.T) {
	w := createTestWorld(t)
	p, _ := w.AddPlayer("Alice", "")

	pos, err := w.StepTo(p.ID, domain.Position{X: 112, Y: 48})
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 112, Y: 48}, pos)

	// Проходимо, но дальше одного шага
	_, err = w.StepTo(p.ID, domain.Position{X: 40, Y: 120})
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	// В пределах шага, но стена
	_, err = w.StepTo(p.ID, domain.Position{X: 140, Y: 48})
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)

	_, err = w.StepTo(domain.NewPlayerID(), domain.Position{X: 80, Y: 80})
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)

	got, _ := w.GetPlayer(p.ID)
	assert.Equal(t, domain.Position{X: 112, Y: 48}, got.Position)
}

func TestRemovePlayer_Idempotent(t *testing.T) {
	w := createTestWorld(t)
	p, _ := w.AddPlayer("Alice", "")

	removed, ok := w.RemovePlayer(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.ID, removed.ID)

	_, ok = w.RemovePlayer(p.ID)
	assert.False(t, ok)

	_, err := w.GetPlayer(p.ID)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestIsValid_Pure(t *testing.T) {
	w := createTestWorld(t)
	before := w.Snapshot()

	for i := 0; i < 3; i++ {
		assert.True(t, w.IsValid(domain.Position{X: 80, Y: 80}))
		assert.False(t, w.IsValid(domain.Position{X: 0, Y: 0}))
	}
	assert.Equal(t, before, w.Snapshot())
}

func TestGetPlayers_Sorted(t *testing.T) {
	w := createTestWorld(t)
	for _, name := range []string{"Carol", "alice", "Bob"} {
		_, err := w.AddPlayer(name, "")
		require.NoError(t, err)
	}

	players := w.GetPlayers()
	require.Len(t, players, 3)
	assert.Equal(t, "Bob", players[0].Name)
	assert.Equal(t, "Carol", players[1].Name)
	assert.Equal(t, "alice", players[2].Name)
}

func TestGetPlayer_ReturnsCopy(t *testing.T) {
	w := createTestWorld(t)
	p, _ := w.AddPlayer("Alice", "")

	got, _ := w.GetPlayer(p.ID)
	got.Health = 1
	got.Position = domain.Position{}

	again, _ := w.GetPlayer(p.ID)
	assert.Equal(t, domain.DefaultHealth, again.Health)
	assert.Equal(t, p.Position, again.Position)
}

// Конкурентные сдвиги одного игрока не теряются
func TestMovePlayer_Concurrent(t *testing.T) {
	w := createTestWorld(t)
	p, _ := w.AddPlayer("Alice", "")

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.MovePlayer(p.ID, 0.25, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := w.GetPlayer(p.ID)
	assert.Equal(t, 80+0.25*n, got.Position.X)
}

// Много игроков двигаются одновременно, каждый видит только свои изменения
func TestWorld_ConcurrentPlayers(t *testing.T) {
	w := createTestWorld(t)

	const n = 20
	ids := make([]domain.PlayerID, n)
	for i := range ids {
		p, err := w.AddPlayer("p", "")
		require.NoError(t, err)
		ids[i] = p.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id domain.PlayerID) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, _ = w.MovePlayer(id, domain.TileSize, 0)
				_, _ = w.MovePlayer(id, -domain.TileSize, 0)
				_ = w.GetPlayers()
			}
		}(id)
	}
	wg.Wait()

	for _, p := range w.GetPlayers() {
		assert.Equal(t, domain.Position{X: 80, Y: 80}, p.Position)
	}
}

func TestRegenerate_Atomic(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 42
	w, err := NewWorld(cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := w.AddPlayer("p", "")
		require.NoError(t, err)
	}

	// Читатели во время регенерации всегда видят игроков на проходимых клетках своего подземелья
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := w.Snapshot()
				for _, p := range snap.Players {
					assert.True(t, snap.Dungeon.IsWalkable(p.Position))
				}
			}
		}()
	}

	for i := 0; i < 10; i++ {
		snap, err := w.Regenerate()
		require.NoError(t, err)
		require.Len(t, snap.Players, 5)
		assert.Same(t, snap.Dungeon, w.Dungeon())
	}
	close(stop)
	wg.Wait()
}

func TestInventoryOperations(t *testing.T) {
	w := createTestWorld(t)
	w.starterKit = true
	p, _ := w.AddPlayer("Alice", "")

	// Экипируем меч из ячейки 0
	got, err := w.EquipItem(p.ID, 0, domain.SlotMainHand)
	require.NoError(t, err)
	assert.Nil(t, got.Inventory.Items[0])
	require.NotNil(t, got.Inventory.Equipment[domain.SlotMainHand])

	// Зелье в шлем нельзя: состояние не меняется
	_, err = w.EquipItem(p.ID, 1, domain.SlotHead)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	// Снимаем меч обратно
	got, err = w.UnequipItem(p.ID, domain.SlotMainHand)
	require.NoError(t, err)
	assert.Empty(t, got.Inventory.Equipment)
	assert.NotNil(t, got.Inventory.Items[0])

	// Пьем зелье: здоровье ограничено максимумом, стек уменьшается
	got, err = w.UseItem(p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, got.MaxHealth, got.Health)
	assert.Equal(t, 2, got.Inventory.Items[1].StackSize)

	// Выбрасываем остаток
	got, dropped, err := w.DropItem(p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, dropped.StackSize)
	assert.Nil(t, got.Inventory.Items[1])

	// Пустая ячейка
	_, _, err = w.DropItem(p.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestGiveItem_Full(t *testing.T) {
	w := createTestWorld(t)
	p, _ := w.AddPlayer("Alice", "")

	for i := 0; i < domain.MaxInventorySlots; i++ {
		_, err := w.GiveItem(p.ID, dungeon.SteelDagger.Spawn(1))
		require.NoError(t, err)
	}
	_, err := w.GiveItem(p.ID, dungeon.SteelDagger.Spawn(1))
	assert.ErrorIs(t, err, domain.ErrInventoryFull)
}
