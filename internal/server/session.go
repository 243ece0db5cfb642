package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"crawler-server/internal/config"
	"crawler-server/internal/domain"
	"crawler-server/internal/engine"
	"crawler-server/internal/metrics"
	"crawler-server/internal/network"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// SessionState - состояние соединения. Closed терминально.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateJoined
	StateActive
	StateClosed
)

var sessionStateNames = map[SessionState]string{
	StateConnecting: "Connecting",
	StateJoined:     "Joined",
	StateActive:     "Active",
	StateClosed:     "Closed",
}

func (s SessionState) String() string {
	if name, ok := sessionStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

var (
	errJoinFirst     = fmt.Errorf("%w: join first", domain.ErrInvalidCommand)
	errAlreadyJoined = fmt.Errorf("%w: already joined", domain.ErrInvalidCommand)
)

// leaveTimeout - сколько даем архиву при закрытии сессии
const leaveTimeout = 3 * time.Second

type outFrame struct {
	messageType int
	data        []byte
}

// Session - посредник между Websocket и GameService.
// readPump читает и выполняет команды, writePump пишет приватные кадры и события хаба.
// Close выполняется ровно один раз, откуда бы его ни вызвали.
type Session struct {
	ID string

	conn    *websocket.Conn
	codec   api.Codec
	game    *engine.GameService
	hub     *network.Broadcaster
	cfg     config.SessionConfig
	metrics *metrics.Metrics
	log     *logrus.Entry

	send   chan outFrame                 // приватные кадры: ответы, pong, эхо
	joined chan (<-chan api.ServerEvent) // передача канала хаба в writePump
	done   chan struct{}

	// cmdMu сериализует выполнение команд и закрытие:
	// PlayerLeft никогда не обгонит рассылку последней команды.
	cmdMu    sync.Mutex
	playerID domain.PlayerID

	state     atomic.Int32
	closeOnce sync.Once
	onClose   func(*Session)
	openedAt  time.Time
}

func NewSession(conn *websocket.Conn, codec api.Codec, game *engine.GameService, hub *network.Broadcaster, cfg config.SessionConfig, m *metrics.Metrics) *Session {
	id := uuid.NewString()
	return &Session{
		ID:       id,
		conn:     conn,
		codec:    codec,
		game:     game,
		hub:      hub,
		cfg:      cfg,
		metrics:  m,
		log:      logger.Log.WithFields(logrus.Fields{"component": "session", "session_id": id, "codec": codec.Name()}),
		send:     make(chan outFrame, cfg.SendBuffer),
		joined:   make(chan (<-chan api.ServerEvent), 1),
		done:     make(chan struct{}),
		openedAt: time.Now(),
	}
}

// Start отправляет кадры рукопожатия кодека и запускает пампы.
func (s *Session) Start() error {
	frames, err := s.codec.Open(s.ID)
	if err != nil {
		return err
	}
	for _, f := range frames {
		s.enqueue(outFrame{messageType: websocket.TextMessage, data: f})
	}

	s.metrics.SessionOpened()
	s.log.Debug("Session opened")

	go s.writePump()
	go s.readPump()
	return nil
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// PlayerID - игрок сессии или domain.NilPlayerID до входа.
func (s *Session) PlayerID() domain.PlayerID {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.playerID
}

// Close освобождает игрока и соединение ровно один раз.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cmdMu.Lock()
		s.state.Store(int32(StateClosed))
		id := s.playerID
		if id != domain.NilPlayerID {
			s.hub.Unregister(id)

			ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
			if ev, ok := s.game.Leave(ctx, id); ok {
				s.hub.Broadcast(ev, id)
			}
			cancel()
		}
		s.cmdMu.Unlock()

		close(s.done)
		s.metrics.SessionClosed()
		s.log.WithField("player_id", id).Info("Session closed")

		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

// enqueue кладет приватный кадр без блокировки. false - буфер полон, сессию надо закрывать.
func (s *Session) enqueue(f outFrame) bool {
	select {
	case s.send <- f:
		return true
	default:
		s.log.Warn("Outbound buffer full")
		return false
	}
}

func (s *Session) reply(ev api.ServerEvent) bool {
	data, err := s.codec.Encode(ev)
	if err != nil {
		s.log.WithError(err).Error("Failed to encode event")
		return true
	}
	return s.enqueue(outFrame{messageType: websocket.TextMessage, data: data})
}

func (s *Session) extendDeadline() {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.PingInterval + s.cfg.PingTimeout)); err != nil {
		s.log.WithError(err).Debug("failed to set read deadline")
	}
}

// readPump читает кадры от клиента. Управляющие кадры не доходят до декодера команд.
func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.extendDeadline()
	s.conn.SetPongHandler(func(string) error {
		s.extendDeadline()
		return nil
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.log.WithError(err).Debug("WS read error")
			}
			return
		}
		if !s.codec.ServerPings() {
			// socket.io: живость подтверждает любой кадр клиента
			s.extendDeadline()
		}

		// Бинарные кадры возвращаются как есть
		if messageType == websocket.BinaryMessage {
			if !s.enqueue(outFrame{messageType: websocket.BinaryMessage, data: data}) {
				return
			}
			continue
		}

		frame, err := s.codec.Decode(data)
		if err != nil {
			if !s.reply(api.Error(fmt.Errorf("%w: %v", domain.ErrInvalidCommand, err))) {
				return
			}
			continue
		}

		switch frame.Kind {
		case api.FramePing, api.FrameReply:
			if !s.enqueue(outFrame{messageType: websocket.TextMessage, data: frame.Reply}) {
				return
			}
		case api.FrameClose:
			return
		case api.FrameCommand:
			if !s.handleCommand(frame.Command) {
				return
			}
		}
	}
}

// handleCommand проверяет состояние, выполняет команду и раскладывает события.
// false - сессию нужно закрыть.
func (s *Session) handleCommand(cmd api.ClientCommand) bool {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	if s.State() == StateClosed {
		return false
	}

	action := domain.ParseAction(cmd.Type)
	if action == domain.ActionUnknown {
		return s.reply(api.Error(fmt.Errorf("%w: unknown command %q", domain.ErrInvalidCommand, cmd.Type)))
	}

	joined := s.playerID != domain.NilPlayerID
	switch {
	case action == domain.ActionJoin && joined:
		return s.reply(api.Error(errAlreadyJoined))
	case action != domain.ActionJoin && !joined:
		return s.reply(api.Error(errJoinFirst))
	}

	res, err := s.game.Execute(domain.InternalCommand{
		Action:   action,
		PlayerID: s.playerID,
		Payload:  cmd.Data,
	})
	if err != nil {
		return s.reply(api.Error(err))
	}

	for _, ev := range res.Reply {
		if !s.reply(ev) {
			return false
		}
	}

	if res.Joined != domain.NilPlayerID {
		s.playerID = res.Joined
		s.joined <- s.hub.Register(res.Joined)
		s.state.Store(int32(StateJoined))
		s.log.WithField("player_id", res.Joined).Info("Player joined")
	} else {
		s.state.CompareAndSwap(int32(StateJoined), int32(StateActive))
	}

	for _, ev := range res.Broadcast {
		s.hub.Broadcast(ev, s.playerID)
	}
	return true
}

// writePump - единственный писатель в соединение.
func (s *Session) writePump() {
	var ping <-chan time.Time
	if s.codec.ServerPings() {
		ticker := time.NewTicker(s.cfg.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	defer func() {
		s.Close()
		if err := s.conn.Close(); err != nil {
			s.log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	var updates <-chan api.ServerEvent

	for {
		select {
		case f := <-s.send:
			if !s.write(f.messageType, f.data) {
				return
			}

		case ch := <-s.joined:
			updates = ch

		case ev, ok := <-updates:
			if !ok {
				if s.State() == StateClosed {
					// Unregister из Close: дожидаемся done и дописываем очередь
					updates = nil
					continue
				}
				// Хаб закрыл канал: сессия не успевала читать
				return
			}
			data, err := s.codec.Encode(ev)
			if err != nil {
				s.log.WithError(err).Error("Failed to encode event")
				continue
			}
			if !s.write(websocket.TextMessage, data) {
				return
			}

		case <-ping:
			if !s.write(websocket.PingMessage, nil) {
				return
			}

		case <-s.done:
			s.flush()
			s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush дописывает уже поставленные в очередь приватные кадры (например, последнюю ошибку).
func (s *Session) flush() {
	for {
		select {
		case f := <-s.send:
			if !s.write(f.messageType, f.data) {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) write(messageType int, data []byte) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait)); err != nil {
		s.log.WithError(err).Debug("failed to set write deadline")
	}
	if err := s.conn.WriteMessage(messageType, data); err != nil {
		s.log.WithError(err).Debug("write failed")
		return false
	}
	return true
}

// SessionInfo - сводка для /debug/sessions
type SessionInfo struct {
	ID       string `json:"id"`
	Codec    string `json:"codec"`
	State    string `json:"state"`
	PlayerID string `json:"player_id,omitempty"`
	Queued   int    `json:"queued"`
	OpenedAt string `json:"opened_at"`
}

func (s *Session) Info() SessionInfo {
	info := SessionInfo{
		ID:       s.ID,
		Codec:    s.codec.Name(),
		State:    s.State().String(),
		Queued:   len(s.send),
		OpenedAt: s.openedAt.UTC().Format(time.RFC3339),
	}
	if id := s.PlayerID(); id != domain.NilPlayerID {
		info.PlayerID = id.String()
	}
	return info
}
