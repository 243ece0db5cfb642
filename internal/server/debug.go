package server

import (
	"net/http"
	"net/http/pprof"
	"sort"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сервера
type DebugHandler struct {
	Server *Server
}

func NewDebugHandler(s *Server) *DebugHandler {
	return &DebugHandler{Server: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/sessions", h.handleSessions)
	mux.HandleFunc("GET /debug/hub", h.handleHub)

	// Profiling
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
}

// /debug/sessions - все открытые соединения, включая еще не вошедшие
func (h *DebugHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.Server.activeSessions()
	out := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt < out[j].OpenedAt })
	writeJSON(w, out)
}

// /debug/hub - подписчики хаба и заполненность их каналов
func (h *DebugHandler) handleHub(w http.ResponseWriter, r *http.Request) {
	type subscriberView struct {
		PlayerID string `json:"player_id"`
		Queued   int    `json:"queued"`
	}

	subs := h.Server.Hub.Subscribers()
	out := make([]subscriberView, 0, len(subs))
	for id, queued := range subs {
		out = append(out, subscriberView{PlayerID: id.String(), Queued: queued})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	writeJSON(w, out)
}
