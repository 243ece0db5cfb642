package network

import (
	"sync"

	"crawler-server/internal/domain"
	"crawler-server/internal/metrics"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DefaultBuffer - размер личного канала подписчика по умолчанию
const DefaultBuffer = 256

// Broadcaster занимается только рассылкой событий вошедшим игрокам.
// Отправка никогда не блокирует: подписчик с переполненным каналом отключается
// (канал закрывается, сессия видит это и завершается).
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: PlayerID -> Личный канал
	subscribers map[domain.PlayerID]chan api.ServerEvent

	buffer  int
	metrics *metrics.Metrics
	log     *logrus.Entry
}

func NewBroadcaster(buffer int, m *metrics.Metrics) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		subscribers: make(map[domain.PlayerID]chan api.ServerEvent),
		buffer:      buffer,
		metrics:     m,
		log:         logger.Log.WithField("component", "hub"),
	}
}

// Register создает личный канал для игрока
func (b *Broadcaster) Register(id domain.PlayerID) <-chan api.ServerEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.ServerEvent, b.buffer)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика. Повторный вызов ничего не делает.
func (b *Broadcaster) Unregister(id domain.PlayerID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет событие конкретному игроку (Unicast)
func (b *Broadcaster) SendTo(id domain.PlayerID, ev api.ServerEvent) bool {
	b.mu.RLock()
	ch, ok := b.subscribers[id]
	delivered := false
	if ok {
		select {
		case ch <- ev:
			delivered = true
		default:
		}
	}
	b.mu.RUnlock()

	if ok && !delivered {
		b.kick([]kicked{{id: id, ch: ch}})
	}
	return delivered
}

// Broadcast отправляет событие всем, кроме except (автора команды).
// Возвращает число получателей.
func (b *Broadcaster) Broadcast(ev api.ServerEvent, except domain.PlayerID) int {
	var (
		slow      []kicked
		delivered int
	)

	b.mu.RLock()
	for id, ch := range b.subscribers {
		if id == except {
			continue
		}
		select {
		case ch <- ev:
			delivered++
		default:
			slow = append(slow, kicked{id: id, ch: ch})
		}
	}
	b.mu.RUnlock()

	b.metrics.Broadcast(ev.Type)
	if len(slow) > 0 {
		b.kick(slow)
	}
	return delivered
}

type kicked struct {
	id domain.PlayerID
	ch chan api.ServerEvent
}

// kick отключает медленных подписчиков.
// Канал закрывается, только если за время между локами его не заменили.
func (b *Broadcaster) kick(list []kicked) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, k := range list {
		if cur, ok := b.subscribers[k.id]; ok && cur == k.ch {
			close(cur)
			delete(b.subscribers, k.id)
			b.metrics.SlowConsumerKicked()
			b.log.WithField("player_id", k.id).Warn("Slow consumer disconnected")
		}
	}
}

// HasSubscriber проверяет, подписан ли игрок
func (b *Broadcaster) HasSubscriber(id domain.PlayerID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Subscribers - ID подписчиков и заполненность их каналов (для /debug)
func (b *Broadcaster) Subscribers() map[domain.PlayerID]int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[domain.PlayerID]int, len(b.subscribers))
	for id, ch := range b.subscribers {
		out[id] = len(ch)
	}
	return out
}
