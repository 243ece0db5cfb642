package engine

import (
	"fmt"

	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ReplayResult - мир после проигрывания журнала.
type ReplayResult struct {
	World    *World
	Applied  int
	Rejected int
	// Players: ID из журнала -> ID в восстановленном мире
	Players map[domain.PlayerID]domain.PlayerID
}

// Replay строит мир из сида журнала и заново применяет записанные команды.
// Новые ID игроков не совпадают с записанными, поэтому ведется таблица соответствия.
// Выходы игроков в журнал не пишутся: восстановленный мир содержит всех, кто когда-либо входил.
func Replay(session *domain.JournalSession, cfg Config) (*ReplayResult, error) {
	cfg.Seed = session.Seed
	w, err := NewWorld(cfg)
	if err != nil {
		return nil, err
	}
	svc := NewService(w)
	log := logger.Log.WithFields(logrus.Fields{"component": "replay", "seed": session.Seed})

	res := &ReplayResult{World: w, Players: make(map[domain.PlayerID]domain.PlayerID)}
	for i, rec := range session.Records {
		if err := res.apply(svc, rec); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"record": i,
				"action": rec.Action,
			}).Debug("Record rejected on replay")
			res.Rejected++
			continue
		}
		res.Applied++
	}

	log.WithFields(logrus.Fields{
		"applied":  res.Applied,
		"rejected": res.Rejected,
	}).Info("Journal replayed")
	return res, nil
}

func (r *ReplayResult) apply(svc *GameService, rec domain.JournalRecord) error {
	switch rec.Action {
	case domain.ActionRegenerate:
		_, err := svc.Regenerate()
		return err
	case domain.ActionJoin:
		out, err := svc.Execute(domain.InternalCommand{Action: rec.Action, Payload: rec.Payload})
		if err != nil {
			return err
		}
		r.Players[rec.PlayerID] = out.Joined
		return nil
	}

	live, ok := r.Players[rec.PlayerID]
	if !ok {
		return fmt.Errorf("%w: recorded player %s", domain.ErrPlayerNotFound, rec.PlayerID)
	}
	if name, ok := rec.Action.AdminName(); ok {
		_, err := svc.Admin(name, live, rec.Payload)
		return err
	}
	_, err := svc.Execute(domain.InternalCommand{Action: rec.Action, PlayerID: live, Payload: rec.Payload})
	return err
}
