package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crawler-server/internal/config"
	"crawler-server/internal/domain"
	"crawler-server/internal/engine"
	"crawler-server/internal/network"
	"crawler-server/pkg/api"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const readTimeout = 2 * time.Second

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		PingInterval:   25 * time.Second,
		PingTimeout:    5 * time.Second,
		WriteWait:      time.Second,
		SendBuffer:     64,
		MaxMessageSize: 4096,
	}
}

// createTestServer поднимает сервер с детерминированным подземельем
func createTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	cfg := engine.NewConfig()
	cfg.Seed = 42
	world, err := engine.NewWorld(cfg)
	require.NoError(t, err)

	game := engine.NewService(world)
	hub := network.NewBroadcaster(64, nil)
	srv := New(game, hub, nil, config.ServerConfig{Host: "127.0.0.1", Port: 8080, AllowedOrigin: "*"}, testSessionConfig())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server, path string) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(typ string, data any) {
	c.t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(api.ClientCommand{Type: typ, Data: raw}))
}

func (c *testClient) sendRaw(messageType int, data []byte) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(messageType, data))
}

func (c *testClient) readRaw() (int, []byte) {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(readTimeout)))
	mt, data, err := c.conn.ReadMessage()
	require.NoError(c.t, err)
	return mt, data
}

// next читает следующее событие и проверяет его тип
func (c *testClient) next(typ domain.EventType) api.IncomingEvent {
	c.t.Helper()
	_, data := c.readRaw()
	var ev api.IncomingEvent
	require.NoError(c.t, json.Unmarshal(data, &ev), string(data))
	require.Equal(c.t, typ.String(), ev.Type, string(data))
	return ev
}

func decode[T any](t *testing.T, ev api.IncomingEvent) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(ev.Data, &v))
	return v
}

// join входит в мир и возвращает Welcome
func (c *testClient) join(name string) api.PlayerView {
	c.t.Helper()
	c.send("Join", api.JoinPayload{Name: name})
	return decode[api.WelcomeData](c.t, c.next(domain.EventWelcome)).Player
}

// waitFor ждет, пока условие станет истинным (состояние меняется в горутинах сервера)
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, readTimeout, 10*time.Millisecond)
}
