package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/engine/handlers/actions"
	"crawler-server/internal/engine/handlers/admin"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/internal/metrics"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// archiveTimeout - сколько ждем архив при выходе игрока
const archiveTimeout = 2 * time.Second

// Recorder пишет принятые команды в журнал
type Recorder interface {
	Record(rec domain.JournalRecord) error
}

// GameService - фасад ядра для транспортного слоя.
// Сессия передает сюда уже разобранную команду и получает события для рассылки.
type GameService struct {
	World   *World
	Archive storage.Archive
	Journal Recorder
	Metrics *metrics.Metrics

	log      *logrus.Entry
	handlers map[domain.ActionType]handlers.HandlerFunc
	admin    map[domain.ActionType]handlers.HandlerFunc

	// commit держится от изменения мира до записи в журнал:
	// порядок записей совпадает с порядком применения
	commit sync.Mutex
}

// Option настраивает GameService
type Option func(*GameService)

func WithArchive(a storage.Archive) Option  { return func(s *GameService) { s.Archive = a } }
func WithJournal(r Recorder) Option         { return func(s *GameService) { s.Journal = r } }
func WithMetrics(m *metrics.Metrics) Option { return func(s *GameService) { s.Metrics = m } }

func NewService(world *World, opts ...Option) *GameService {
	s := &GameService{
		World:    world,
		Archive:  storage.NewMemoryArchive(),
		log:      logger.Log.WithField("component", "game"),
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		admin:    make(map[domain.ActionType]handlers.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.handlers[domain.ActionJoin] = handlers.WithPayload(actions.HandleJoin)
	s.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.ActionChat] = handlers.WithPayload(actions.HandleChat)
	s.handlers[domain.ActionEquipItem] = handlers.WithPayload(actions.HandleEquip)
	s.handlers[domain.ActionUnequipItem] = handlers.WithPayload(actions.HandleUnequip)
	s.handlers[domain.ActionUseItem] = handlers.WithPayload(actions.HandleUse)
	s.handlers[domain.ActionDropItem] = handlers.WithPayload(actions.HandleDrop)

	s.admin[domain.ActionAdminGive] = handlers.WithPayload(admin.HandleGiveItem)
	s.admin[domain.ActionAdminTeleport] = handlers.WithPayload(admin.HandleTeleport)
}

// Execute выполняет команду игрока.
// Паника хендлера не роняет сессию: она превращается в ErrInternal.
func (s *GameService) Execute(cmd domain.InternalCommand) (res handlers.Result, err error) {
	handler, ok := s.handlers[cmd.Action]
	if !ok {
		return handlers.EmptyResult(), fmt.Errorf("%w: unsupported action %s", domain.ErrInvalidCommand, cmd.Action)
	}

	s.commit.Lock()
	defer s.commit.Unlock()

	res, err = s.run(handler, cmd.PlayerID, cmd.Payload, cmd.Action.String())
	if err != nil {
		s.Metrics.Command(cmd.Action.String(), domain.Code(err))
		return res, err
	}
	s.Metrics.Command(cmd.Action.String(), "ok")

	// В журнал попадают только принятые команды
	actor := cmd.PlayerID
	if res.Joined != domain.NilPlayerID {
		actor = res.Joined
		s.Metrics.SetPlayers(s.World.Count())
	}
	s.record(cmd.Action, actor, cmd.Payload)
	return res, nil
}

// Admin выполняет служебную команду (выдача предметов, телепорт) от имени игрока.
// Принятые команды пишутся в журнал, как и команды игроков.
func (s *GameService) Admin(action string, id domain.PlayerID, payload json.RawMessage) (handlers.Result, error) {
	kind, _ := domain.ParseAdminAction(action)
	handler, ok := s.admin[kind]
	if !ok {
		return handlers.EmptyResult(), fmt.Errorf("%w: unknown admin action %q", domain.ErrInvalidCommand, action)
	}

	s.commit.Lock()
	defer s.commit.Unlock()

	res, err := s.run(handler, id, payload, kind.String())
	if err != nil {
		return res, err
	}
	s.record(kind, id, payload)
	return res, nil
}

func (s *GameService) run(handler handlers.HandlerFunc, id domain.PlayerID, payload json.RawMessage, name string) (res handlers.Result, err error) {
	entry := s.log.WithFields(logrus.Fields{
		"player_id": id,
		"action":    name,
	})

	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("Handler panicked")
			res, err = handlers.EmptyResult(), fmt.Errorf("%w: %v", domain.ErrInternal, r)
		}
	}()

	res, err = handler(handlers.Context{World: s.World, PlayerID: id, Log: entry}, payload)
	if err != nil {
		entry.WithError(err).Debug("Command rejected")
	}
	return res, err
}

func (s *GameService) record(action domain.ActionType, id domain.PlayerID, payload json.RawMessage) {
	if s.Journal == nil {
		return
	}
	rec := domain.JournalRecord{
		UnixMilli: time.Now().UnixMilli(),
		Action:    action,
		PlayerID:  id,
		Payload:   payload,
	}
	if err := s.Journal.Record(rec); err != nil {
		s.log.WithError(err).Warn("Failed to write journal record")
	}
}

// Leave удаляет игрока из мира и сохраняет его запись в архив.
// Повторный вызов для того же игрока возвращает ok=false.
func (s *GameService) Leave(ctx context.Context, id domain.PlayerID) (api.ServerEvent, bool) {
	p, ok := s.World.RemovePlayer(id)
	if !ok {
		return api.ServerEvent{}, false
	}
	s.Metrics.SetPlayers(s.World.Count())

	entry := s.log.WithFields(logrus.Fields{"player_id": id, "name": p.Name})
	entry.Info("Player left")

	if s.Archive != nil {
		ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
		defer cancel()
		if err := s.Archive.Save(ctx, p); err != nil {
			entry.WithError(err).Warn("Failed to archive player")
		}
	}
	return api.PlayerLeft(id), true
}

// Regenerate пересоздает подземелье и возвращает событие со снимком для всех сессий.
// Регенерация расходует общий rng и меняет допустимость ходов, поэтому тоже попадает в журнал.
func (s *GameService) Regenerate() (api.ServerEvent, error) {
	s.commit.Lock()
	snap, err := s.World.Regenerate()
	if err == nil {
		s.record(domain.ActionRegenerate, domain.NilPlayerID, nil)
	}
	s.commit.Unlock()
	if err != nil {
		return api.ServerEvent{}, err
	}
	s.Metrics.Regenerated()
	s.log.WithFields(logrus.Fields{
		"rooms":   len(snap.Dungeon.Rooms),
		"players": len(snap.Players),
	}).Info("Dungeon regenerated")
	return api.DungeonRegenerated(BuildSnapshot(snap)), nil
}

// ArchivedPlayer возвращает запись игрока, покинувшего мир.
func (s *GameService) ArchivedPlayer(ctx context.Context, id domain.PlayerID) (domain.Player, error) {
	if s.Archive == nil {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return s.Archive.Load(ctx, id)
}
