package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"crawler-server/internal/domain"
	"crawler-server/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHTTP_PlayerErrors(t *testing.T) {
	_, ts := createTestServer(t)

	var errResp api.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/player/not-a-uuid", &errResp))
	assert.Equal(t, CodeInvalidID, errResp.Code)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/player/"+domain.NewPlayerID().String(), &errResp))
	assert.Equal(t, domain.CodePlayerNotFound, errResp.Code)
}

func TestHTTP_PlayerEndpoints(t *testing.T) {
	_, ts := createTestServer(t)
	c := dial(t, ts, "/ws")
	c.send("Join", api.JoinPayload{Name: "Alice", WalletAddress: "0xabc"})
	me := decode[api.WelcomeData](t, c.next(domain.EventWelcome)).Player

	var player api.PlayerView
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/player/"+me.ID, &player))
	assert.Equal(t, me, player)

	var wallet api.WalletView
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/player/"+me.ID+"/wallet", &wallet))
	assert.Equal(t, "0xabc", wallet.Address)

	var inv api.InventoryView
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/player/"+me.ID+"/inventory", &inv))
	assert.Len(t, inv.Items, domain.MaxInventorySlots)

	var state api.WorldSnapshot
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/game/state", &state))
	require.Len(t, state.Players, 1)
	assert.Equal(t, domain.DefaultDungeonWidth, state.Dungeon.Width)
	assert.Len(t, state.Dungeon.Tiles, domain.DefaultDungeonHeight)
}

func TestHTTP_Move(t *testing.T) {
	_, ts := createTestServer(t)
	c := dial(t, ts, "/ws")
	me := c.join("Alice")

	var pos api.PositionView
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/player/"+me.ID+"/move", `{"dx":32,"dy":0}`, &pos))
	assert.Equal(t, me.Position.X+domain.TileSize, pos.X)

	// REST-ход видит и сам игрок
	moved := decode[api.PlayerMovedData](t, c.next(domain.EventPlayerMoved))
	assert.Equal(t, pos, moved.Position)

	var errResp api.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, postJSON(t, ts.URL+"/api/player/"+me.ID+"/move", `{"targetX":16,"targetY":16}`, &errResp))
	assert.Equal(t, domain.CodeInvalidPosition, errResp.Code)
}

func TestHTTP_Regenerate(t *testing.T) {
	srv, ts := createTestServer(t)
	c := dial(t, ts, "/ws")
	c.join("Alice")

	var data api.DungeonRegeneratedData
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/game/regenerate", `{}`, &data))
	require.Len(t, data.Snapshot.Players, 1)

	ev := decode[api.DungeonRegeneratedData](t, c.next(domain.EventDungeonRegenerated))
	assert.Equal(t, data, ev)

	for _, p := range srv.Game.World.GetPlayers() {
		assert.True(t, srv.Game.World.IsValid(p.Position))
	}
}

func TestHTTP_AdminAndArchive(t *testing.T) {
	srv, ts := createTestServer(t)
	c := dial(t, ts, "/ws")
	me := c.join("Alice")

	var player api.PlayerView
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/admin/player/"+me.ID+"/give", `{"template":"Steel Dagger"}`, &player))
	require.NotNil(t, player.Inventory.Items[0])
	assert.Equal(t, "Steel Dagger", player.Inventory.Items[0].Name)
	c.next(domain.EventInventoryUpdated)

	var errResp api.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, postJSON(t, ts.URL+"/api/admin/player/"+me.ID+"/give", `{"template":"Nope"}`, &errResp))
	assert.Equal(t, domain.CodeInvalidCommand, errResp.Code)

	// Архив появляется после выхода
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/archive/player/"+me.ID, &errResp))
	require.NoError(t, c.conn.Close())
	waitFor(t, func() bool { return srv.Game.World.Count() == 0 })

	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/archive/player/"+me.ID, &player))
	assert.Equal(t, "Alice", player.Name)
}

func TestHTTP_ServiceRoutes(t *testing.T) {
	_, ts := createTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	// Метрики выключены
	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var sessions []SessionInfo
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/debug/sessions", &sessions))
	assert.Empty(t, sessions)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/game/state", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		domain.ErrPlayerNotFound:    http.StatusNotFound,
		domain.ErrInvalidPosition:   http.StatusBadRequest,
		domain.ErrInventoryFull:     http.StatusBadRequest,
		domain.ErrInsufficientFunds: http.StatusPaymentRequired,
		domain.ErrDatabase:          http.StatusInternalServerError,
		domain.ErrInternal:          http.StatusInternalServerError,
		errInvalidID:                http.StatusBadRequest,
	}
	for err, status := range cases {
		assert.Equal(t, status, httpStatus(err), err.Error())
	}
}
