package engine

import (
	"math/rand"

	"crawler-server/internal/domain"
	"crawler-server/pkg/dungeon"
	"crawler-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// NewWorld создает мир и генерирует первое подземелье.
// Некорректные размеры возвращают dungeon.ErrDegenerateBounds до старта сервера.
func NewWorld(cfg Config) (*World, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	gen := dungeon.NewGenerator(rng).
		WithRoomSize(cfg.MinRoomSize, cfg.MaxRoomSize).
		WithMaxRooms(cfg.MaxRooms)

	d, err := gen.Generate(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "world",
		"seed":      cfg.Seed,
		"width":     d.Width,
		"height":    d.Height,
		"rooms":     len(d.Rooms),
	}).Info("Dungeon generated")

	return &World{
		dungeon:    d,
		players:    make(map[domain.PlayerID]*domain.Player),
		generator:  gen,
		rng:        rng,
		width:      cfg.Width,
		height:     cfg.Height,
		starterKit: cfg.StarterKit,
	}, nil
}
