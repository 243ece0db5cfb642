package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"crawler-server/internal/domain"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Это ВНЕШНИЙ клиент: он подключается к серверу так же, как обычный игрок,
// через WebSocket, и знает о мире только то, что прислал сервер.
//
// Жизненный цикл:
//  1. Run -> загрузка карты по REST, подключение, Join.
//  2. Цикл чтения обновляет собственную позицию и карту (DungeonRegenerated).
//  3. По таймеру бот выбирает проходимую соседнюю клетку и шлет Move.
type Bot struct {
	Name     string
	BaseURL  string // http://host:port
	Interval time.Duration

	rng *rand.Rand
	log *logrus.Entry

	mu      sync.Mutex
	id      string
	pos     api.PositionView
	dungeon api.DungeonView
	moves   int
}

func NewBot(name, baseURL string, interval time.Duration, seed int64) *Bot {
	return &Bot{
		Name:     name,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
		log:      logger.Log.WithFields(logrus.Fields{"component": "bot", "bot": name}),
	}
}

// Moves - сколько ходов бот отправил
func (b *Bot) Moves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moves
}

// ID - идентификатор игрока после Welcome
func (b *Bot) ID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// Run работает до отмены контекста или обрыва соединения.
func (b *Bot) Run(ctx context.Context) error {
	// --- ШАГ 1: КАРТА ---
	d, err := b.fetchDungeon(ctx)
	if err != nil {
		return fmt.Errorf("fetch dungeon: %w", err)
	}
	b.dungeon = d

	// --- ШАГ 2: ПОДКЛЮЧЕНИЕ И ВХОД ---
	wsURL, err := websocketURL(b.BaseURL)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(typ string, data any) error {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(api.ClientCommand{Type: typ, Data: raw})
	}

	if err := send(domain.ActionJoin.String(), api.JoinPayload{Name: b.Name}); err != nil {
		return err
	}

	readErr := make(chan error, 1)
	go func() { readErr <- b.readLoop(conn) }()

	// --- ШАГ 3: СЛУЧАЙНОЕ БЛУЖДАНИЕ ---
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			writeMu.Lock()
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			writeMu.Unlock()
			return nil

		case err := <-readErr:
			return err

		case <-ticker.C:
			dx, dy, ok := b.nextStep()
			if !ok {
				continue
			}
			if err := send(domain.ActionMove.String(), api.MovePayload{Dx: &dx, Dy: &dy}); err != nil {
				return err
			}
		}
	}
}

// nextStep выбирает шаг и сразу учитывает его в своей позиции:
// свои ходы сервер не присылает обратно.
func (b *Bot) nextStep() (float64, float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.id == "" {
		return 0, 0, false
	}
	dx, dy, ok := ChooseStep(b.dungeon, b.pos, b.rng)
	if ok {
		b.pos.X += dx
		b.pos.Y += dy
		b.moves++
	}
	return dx, dy, ok
}

func (b *Bot) readLoop(conn *websocket.Conn) error {
	for {
		var ev api.IncomingEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		b.handleEvent(ev)
	}
}

func (b *Bot) handleEvent(ev api.IncomingEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch domain.ParseEvent(ev.Type) {
	case domain.EventWelcome:
		var data api.WelcomeData
		if err := json.Unmarshal(ev.Data, &data); err == nil {
			b.id = data.Player.ID
			b.pos = data.Player.Position
			b.log.WithField("player_id", b.id).Info("Bot joined")
		}

	case domain.EventDungeonRegenerated:
		var data api.DungeonRegeneratedData
		if err := json.Unmarshal(ev.Data, &data); err == nil {
			b.dungeon = data.Snapshot.Dungeon
			for _, p := range data.Snapshot.Players {
				if p.ID == b.id {
					b.pos = p.Position
				}
			}
		}

	case domain.EventError:
		// Ход мог быть отклонен: откатываться некуда, ждем следующего снимка
		var data api.ErrorData
		_ = json.Unmarshal(ev.Data, &data)
		b.log.WithField("code", data.Code).Debug(data.Message)
	}
}

func (b *Bot) fetchDungeon(ctx context.Context) (api.DungeonView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"/api/game/dungeon", nil)
	if err != nil {
		return api.DungeonView{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return api.DungeonView{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return api.DungeonView{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var d api.DungeonView
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return api.DungeonView{}, err
	}
	return d, nil
}

func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", errors.New("base url must be http or https")
	}
	u.Path = "/ws"
	return u.String(), nil
}

var directions = [4][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// ChooseStep выбирает случайное направление на соседнюю проходимую клетку.
func ChooseStep(d api.DungeonView, pos api.PositionView, rng *rand.Rand) (float64, float64, bool) {
	order := rng.Perm(len(directions))
	for _, i := range order {
		dx := directions[i][0] * domain.TileSize
		dy := directions[i][1] * domain.TileSize
		if walkable(d, pos.X+dx, pos.Y+dy) {
			return dx, dy, true
		}
	}
	return 0, 0, false
}

func walkable(d api.DungeonView, x, y float64) bool {
	tx, ty, ok := domain.Position{X: x, Y: y}.ToTile()
	if !ok || x < 0 || y < 0 || ty >= len(d.Tiles) || tx >= len(d.Tiles[ty]) {
		return false
	}
	return domain.TileKind(d.Tiles[ty][tx]).IsWalkable()
}
