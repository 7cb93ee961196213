package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/paddle-arena/internal/events"
)

func TestEmit_RejectsMalformedNames(t *testing.T) {
	bus := events.NewBus()

	tests := []struct {
		name      string
		eventName string
		wantErr   bool
	}{
		{"valid name", "queue:players", false},
		{"missing separator", "queueplayers", true},
		{"empty domain", ":players", true},
		{"empty kind", "queue:", true},
		{"empty name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bus.Emit(tt.eventName, "payload")
			if tt.wantErr {
				assert.ErrorIs(t, err, events.ErrBadEventName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubscribe_ReceivesOnlyMatchingKind(t *testing.T) {
	bus := events.NewBus()
	stream, err := events.Subscribe[string](bus, "queue:players", nil)
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, bus.Emit("queue:newMatch", "wrong kind"))
	require.NoError(t, bus.Emit("game:players", "wrong domain"))
	require.NoError(t, bus.Emit("queue:players", "first"))
	require.NoError(t, bus.Emit("queue:players", "second"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got, "delivery preserves emission order")

	got, err = stream.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, ok := stream.TryNext()
	assert.False(t, ok, "no further events should be buffered")
}

func TestSubscribe_SkipsMismatchedPayloadType(t *testing.T) {
	bus := events.NewBus()
	stream, err := events.Subscribe[int](bus, "game:score", nil)
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, bus.Emit("game:score", "not an int"))
	require.NoError(t, bus.Emit("game:score", 7))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestSubscribeDomain_ReceivesTaggedEvents(t *testing.T) {
	bus := events.NewBus()
	stream := events.SubscribeDomain(bus, "queue", nil)
	defer stream.Close()

	require.NoError(t, bus.Emit("game:state", "unrelated domain"))
	require.NoError(t, bus.Emit("queue:players", []string{"p1", "p2"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "players", ev.Kind)
	assert.Equal(t, []string{"p1", "p2"}, ev.Payload)

	_, ok := stream.TryNext()
	assert.False(t, ok, "events from other domains must not be delivered")
}

func TestSubscribe_PredicateFiltersPayloads(t *testing.T) {
	bus := events.NewBus()
	stream, err := events.Subscribe[int](bus, "game:score", func(score int) bool {
		return score >= 3
	})
	require.NoError(t, err)
	defer stream.Close()

	for i := 1; i <= 5; i++ {
		require.NoError(t, bus.Emit("game:score", i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for want := 3; want <= 5; want++ {
		got, err := stream.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNext_BlocksUntilEmit(t *testing.T) {
	bus := events.NewBus()
	stream, err := events.Subscribe[string](bus, "queue:players", nil)
	require.NoError(t, err)
	defer stream.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		bus.Emit("queue:players", "late")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", got)
}

func TestClose_UnsubscribesAndDiscardsBuffer(t *testing.T) {
	bus := events.NewBus()
	stream, err := events.Subscribe[string](bus, "queue:players", nil)
	require.NoError(t, err)

	require.NoError(t, bus.Emit("queue:players", "buffered"))
	assert.Equal(t, 1, bus.SubscriberCount("queue"))

	stream.Close()
	assert.Equal(t, 0, bus.SubscriberCount("queue"), "closing must unsubscribe from the bus")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = stream.Next(ctx)
	assert.ErrorIs(t, err, events.ErrStreamClosed, "buffered payloads are discarded on close")

	// Closing twice is fine.
	stream.Close()
}

func TestClose_WakesBlockedNext(t *testing.T) {
	bus := events.NewBus()
	stream, err := events.Subscribe[string](bus, "queue:players", nil)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := stream.Next(context.Background())
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	stream.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, events.ErrStreamClosed)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Close")
	}
}

func TestEmit_FansOutToMultipleSubscribers(t *testing.T) {
	bus := events.NewBus()
	specific, err := events.Subscribe[int](bus, "game:score", nil)
	require.NoError(t, err)
	defer specific.Close()
	domain := events.SubscribeDomain(bus, "game", nil)
	defer domain.Close()

	require.NoError(t, bus.Emit("game:score", 1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := specific.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	ev, err := domain.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "score", ev.Kind)
}
