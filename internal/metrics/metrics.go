package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crawler"

// Metrics - коллекторы сервера. Методы безопасно вызывать на nil (метрики выключены).
type Metrics struct {
	gatherer prometheus.Gatherer

	sessions      prometheus.Gauge
	players       prometheus.Gauge
	commands      *prometheus.CounterVec
	broadcasts    *prometheus.CounterVec
	kicks         prometheus.Counter
	regenerations prometheus.Counter
	reqDuration   *prometheus.HistogramVec
}

// New создает и регистрирует метрики в собственном реестре (в тестах реестры не пересекаются).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Открытые websocket-сессии, включая еще не вошедшие.",
		}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_online",
			Help:      "Игроки в реестре мира.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Обработанные команды клиентов.",
		}, []string{"type", "result"}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_events_total",
			Help:      "События, разосланные другим сессиям.",
		}, []string{"type"}),
		kicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slow_consumer_kicks_total",
			Help:      "Сессии, отключенные из-за переполненного буфера.",
		}),
		regenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dungeon_regenerations_total",
			Help:      "Пересоздания подземелья.",
		}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.sessions, m.players, m.commands, m.broadcasts,
		m.kicks, m.regenerations, m.reqDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) SetPlayers(n int) {
	if m != nil {
		m.players.Set(float64(n))
	}
}

// Command учитывает команду; result - "ok" или код ошибки.
func (m *Metrics) Command(cmdType, result string) {
	if m != nil {
		m.commands.WithLabelValues(cmdType, result).Inc()
	}
}

func (m *Metrics) Broadcast(eventType string) {
	if m != nil {
		m.broadcasts.WithLabelValues(eventType).Inc()
	}
}

func (m *Metrics) SlowConsumerKicked() {
	if m != nil {
		m.kicks.Inc()
	}
}

func (m *Metrics) Regenerated() {
	if m != nil {
		m.regenerations.Inc()
	}
}

// Handler отдает /metrics. При выключенных метриках - 404.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// statusRecorder запоминает код ответа для метрик
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware меряет длительность запросов. path - шаблон маршрута, а не фактический URL,
// иначе идентификаторы игроков раздуют кардинальность.
func (m *Metrics) Middleware(path string, next http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.reqDuration.
			WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	}
}
