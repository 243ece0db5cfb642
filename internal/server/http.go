package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"crawler-server/internal/config"
	"crawler-server/internal/domain"
	"crawler-server/internal/engine"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/metrics"
	"crawler-server/internal/network"
	"crawler-server/internal/version"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// maxBodySize - ограничение тела REST-запросов
const maxBodySize = 1 << 16

type Server struct {
	Game    *engine.GameService
	Hub     *network.Broadcaster
	Metrics *metrics.Metrics

	cfg      config.ServerConfig
	session  config.SessionConfig
	upgrader websocket.Upgrader
	http     *http.Server
	log      *logrus.Entry

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(game *engine.GameService, hub *network.Broadcaster, m *metrics.Metrics, cfg config.ServerConfig, session config.SessionConfig) *Server {
	s := &Server{
		Game:     game,
		Hub:      hub,
		Metrics:  m,
		cfg:      cfg,
		session:  session,
		log:      logger.Log.WithField("component", "http"),
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.http = &http.Server{
		Addr:    cfg.Addr(),
		Handler: s.Handler(),
	}
	return s
}

// Handler собирает все маршруты
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.enableCORS(s.Metrics.Middleware(pattern, h)))
	}

	// Websocket: чистый JSON и socket.io-совместимые кадры
	mux.HandleFunc("GET /ws", s.handleWS(api.PlainCodec{}))
	mux.HandleFunc("GET /socket.io/", s.handleWS(api.SocketIOCodec{
		PingInterval: s.session.PingInterval,
		PingTimeout:  s.session.PingTimeout,
	}))

	// REST
	route("GET /api/player/{id}", s.handlePlayer)
	route("GET /api/player/{id}/inventory", s.handleInventory)
	route("GET /api/player/{id}/wallet", s.handleWallet)
	route("POST /api/player/{id}/move", s.handleMove)
	route("GET /api/game/state", s.handleState)
	route("GET /api/game/dungeon", s.handleDungeon)
	route("POST /api/game/regenerate", s.handleRegenerate)
	route("GET /api/archive/player/{id}", s.handleArchivedPlayer)
	route("POST /api/admin/player/{id}/{action}", s.handleAdmin)
	mux.HandleFunc("OPTIONS /", s.enableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	route("GET /health", s.handleHealth)
	route("GET /version", s.handleVersion)
	mux.Handle("GET /metrics", s.Metrics.Handler())

	// Debug Routes
	NewDebugHandler(s).RegisterRoutes(mux)

	return mux
}

// Run запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Run() error {
	s.log.Infof("🛡️  Crawler server running on %s", s.cfg.Addr())
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает листенер и закрывает все websocket-сессии
// (захваченные соединения http.Server сам не закрывает).
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	for _, sess := range s.activeSessions() {
		sess.Close()
	}
	return err
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || strings.EqualFold(origin, s.cfg.AllowedOrigin)
}

func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		// Разрешаем заголовки, если фронт шлет что-то нестандартное
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// --- Websocket ---

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(codec api.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.WithError(err).Warn("Upgrade error")
			return
		}

		sess := NewSession(conn, codec, s.Game, s.Hub, s.session, s.Metrics)
		sess.onClose = s.untrack
		s.track(sess)

		// Запускаем пампы
		if err := sess.Start(); err != nil {
			s.log.WithError(err).Error("Failed to start session")
			sess.Close()
			_ = conn.Close()
		}
	}
}

func (s *Server) track(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID)
}

func (s *Server) activeSessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// --- REST ---

func playerIDFrom(r *http.Request) (domain.PlayerID, error) {
	id, err := domain.ParsePlayerID(r.PathValue("id"))
	if err != nil {
		return domain.NilPlayerID, errInvalidID
	}
	return id, nil
}

// lookup - общий шаг для /api/player/{id}/*
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (domain.Player, bool) {
	id, err := playerIDFrom(r)
	if err != nil {
		writeError(w, err)
		return domain.Player{}, false
	}
	p, err := s.Game.World.GetPlayer(id)
	if err != nil {
		writeError(w, err)
		return domain.Player{}, false
	}
	return p, true
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.lookup(w, r); ok {
		writeJSON(w, api.NewPlayerView(p))
	}
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.lookup(w, r); ok {
		writeJSON(w, api.NewInventoryView(p.Inventory))
	}
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.lookup(w, r); ok {
		writeJSON(w, api.NewWalletView(p.Wallet))
	}
}

// handleMove - REST-вариант команды Move. Событие получают все сессии, включая самого игрока.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	res, err := s.Game.Execute(domain.InternalCommand{Action: domain.ActionMove, PlayerID: id, Payload: body})
	if err != nil {
		writeError(w, err)
		return
	}
	s.deliver(id, res, true)

	p, err := s.Game.World.GetPlayer(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, api.NewPositionView(p.Position))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.World.BuildState())
}

func (s *Server) handleDungeon(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.NewDungeonView(s.Game.World.Dungeon()))
}

// handleRegenerate пересоздает подземелье и рассылает снимок всем вошедшим сессиям.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	ev, err := s.Game.Regenerate()
	if err != nil {
		writeError(w, err)
		return
	}
	s.Hub.Broadcast(ev, domain.NilPlayerID)
	writeJSON(w, ev.Data)
}

func (s *Server) handleArchivedPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := s.Game.ArchivedPlayer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, api.NewPlayerView(p))
}

// handleAdmin - служебные команды: give, teleport.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	res, err := s.Game.Admin(r.PathValue("action"), id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	s.deliver(id, res, false)

	p, err := s.Game.World.GetPlayer(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, api.NewPlayerView(p))
}

// deliver раскладывает результат команды, выполненной не из сессии игрока.
// includeSelf - рассылка доходит и до сессии самого игрока.
func (s *Server) deliver(id domain.PlayerID, res handlers.Result, includeSelf bool) {
	for _, ev := range res.Reply {
		s.Hub.SendTo(id, ev)
	}
	except := id
	if includeSelf {
		except = domain.NilPlayerID
	}
	for _, ev := range res.Broadcast {
		s.Hub.Broadcast(ev, except)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	var body json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: bad request body: %v", domain.ErrInvalidCommand, err))
		return nil, false
	}
	return body, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Info())
}
