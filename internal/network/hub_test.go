package network

import (
	"sync"
	"testing"

	"crawler-server/internal/domain"
	"crawler-server/internal/metrics"
	"crawler-server/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast_ExcludesOriginator(t *testing.T) {
	b := NewBroadcaster(4, nil)
	alice, bob, carol := domain.NewPlayerID(), domain.NewPlayerID(), domain.NewPlayerID()
	chA := b.Register(alice)
	chB := b.Register(bob)
	chC := b.Register(carol)

	n := b.Broadcast(api.PlayerMoved(alice, domain.Position{X: 1, Y: 2}), alice)
	assert.Equal(t, 2, n)

	assert.Len(t, chA, 0)
	require.Len(t, chB, 1)
	require.Len(t, chC, 1)
	assert.Equal(t, domain.EventPlayerMoved.String(), (<-chB).Type)
}

func TestSendTo(t *testing.T) {
	b := NewBroadcaster(1, nil)
	alice := domain.NewPlayerID()
	ch := b.Register(alice)

	assert.True(t, b.SendTo(alice, api.ErrorMessage("x")))
	assert.False(t, b.SendTo(domain.NewPlayerID(), api.ErrorMessage("x")))
	assert.Equal(t, "x", (<-ch).Data.(api.ErrorData).Message)
}

func TestUnregister_Idempotent(t *testing.T) {
	b := NewBroadcaster(1, nil)
	alice := domain.NewPlayerID()
	ch := b.Register(alice)

	b.Unregister(alice)
	b.Unregister(alice)

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.SubscriberCount())
	assert.False(t, b.HasSubscriber(alice))
}

func TestRegister_ReplacesChannel(t *testing.T) {
	b := NewBroadcaster(1, nil)
	alice := domain.NewPlayerID()
	old := b.Register(alice)
	fresh := b.Register(alice)

	_, open := <-old
	assert.False(t, open)
	assert.True(t, b.SendTo(alice, api.ErrorMessage("x")))
	assert.Len(t, fresh, 1)
}

func TestBroadcast_KicksSlowConsumer(t *testing.T) {
	m := metrics.New()
	b := NewBroadcaster(2, m)
	alice, slow := domain.NewPlayerID(), domain.NewPlayerID()
	b.Register(alice)
	ch := b.Register(slow)

	for i := 0; i < 3; i++ {
		b.Broadcast(api.ChatMessage("Alice", "spam"), alice)
	}

	assert.False(t, b.HasSubscriber(slow))
	assert.True(t, b.HasSubscriber(alice))

	// Буферизованные события дочитываются, затем канал закрыт
	count := 0
	for range ch {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestBroadcast_Concurrent(t *testing.T) {
	b := NewBroadcaster(1000, nil)
	ids := make([]domain.PlayerID, 10)
	chans := make([]<-chan api.ServerEvent, 10)
	for i := range ids {
		ids[i] = domain.NewPlayerID()
		chans[i] = b.Register(ids[i])
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id domain.PlayerID) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				b.Broadcast(api.PlayerMoved(id, domain.Position{}), id)
			}
		}(id)
	}
	wg.Wait()

	for _, ch := range chans {
		assert.Len(t, ch, 90)
	}
}
