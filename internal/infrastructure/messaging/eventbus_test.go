package messaging

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster-hub/internal/domain/shared"
)

func TestInMemoryEventBus_SyncDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
	defer bus.Close()

	var typed, all []shared.EventType
	require.NoError(t, bus.Subscribe(shared.EventFriendAdded, func(e shared.Event) error {
		typed = append(typed, e.EventType())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		all = append(all, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewFriendAddedEvent("a@x.com", "A", "", "Online")))
	require.NoError(t, bus.Publish(shared.NewProfileRenamedEvent("me@x.com", "old", "new")))

	assert.Equal(t, []shared.EventType{shared.EventFriendAdded}, typed)
	assert.Equal(t, []shared.EventType{shared.EventFriendAdded, shared.EventProfileRenamed}, all)
	assert.Equal(t, int64(2), bus.Metrics().Snapshot().TotalPublished)
}

func TestInMemoryEventBus_HandlerErrorsAreSwallowed(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return errors.New("boom") }))
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { panic("bad handler") }))

	err := bus.Publish(shared.NewFriendUpdatedEvent("a@x.com", []string{"name"}))
	assert.NoError(t, err)

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.HandlerExecutions)
	assert.Equal(t, int64(2), snap.HandlerFailures)
}

func TestInMemoryEventBus_AsyncDrainsOnClose(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2})

	var delivered atomic.Int64
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		delivered.Add(1)
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(shared.NewFriendUpdatedEvent("a@x.com", nil))
		}()
	}
	wg.Wait()

	require.NoError(t, bus.Close())
	assert.Equal(t, int64(50), delivered.Load())
}

func TestInMemoryEventBus_Closed(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultInMemoryEventBusConfig())
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewFriendUpdatedEvent("a@x.com", nil)), ErrEventBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(shared.Event) error { return nil }), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventFriendAdded, nil), ErrNilHandler)
}
