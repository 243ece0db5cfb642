package storage

import (
	"context"
	"sync"

	"crawler-server/internal/domain"
)

// Archive хранит последние записи отключившихся игроков.
// Долговечность между перезапусками не гарантируется.
type Archive interface {
	Save(ctx context.Context, p domain.Player) error
	Load(ctx context.Context, id domain.PlayerID) (domain.Player, error)
	Close() error
}

// MemoryArchive - архив в памяти процесса.
type MemoryArchive struct {
	mu      sync.RWMutex
	players map[domain.PlayerID]domain.Player
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{players: make(map[domain.PlayerID]domain.Player)}
}

func (a *MemoryArchive) Save(_ context.Context, p domain.Player) error {
	c := p.Clone()
	a.mu.Lock()
	a.players[p.ID] = c
	a.mu.Unlock()
	return nil
}

func (a *MemoryArchive) Load(_ context.Context, id domain.PlayerID) (domain.Player, error) {
	a.mu.RLock()
	p, ok := a.players[id]
	a.mu.RUnlock()
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return p.Clone(), nil
}

func (a *MemoryArchive) Close() error { return nil }
