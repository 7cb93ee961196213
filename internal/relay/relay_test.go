package relay_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mauv0809/paddle-arena/internal/events"
	"github.com/mauv0809/paddle-arena/internal/matchmaking"
	"github.com/mauv0809/paddle-arena/internal/relay"
)

// startRelay runs the relay and waits for its subscriptions to attach before
// returning, so tests can emit without racing it.
func startRelay(t *testing.T, bus *events.Bus, publisher relay.Publisher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go relay.New(bus, publisher).Run(ctx)

	require.Eventually(t, func() bool {
		return bus.SubscriberCount("queue") == 1 && bus.SubscriberCount("game") == 1
	}, time.Second, time.Millisecond)
}

func TestRun_ForwardsEachDomainToItsTopic(t *testing.T) {
	bus := events.NewBus()
	publisher := relay.NewMockPublisher()
	startRelay(t, bus, publisher)

	notice := matchmaking.MatchNotice{UserID: "alice", GameID: 7}
	require.NoError(t, bus.Emit("queue:newMatch", notice))
	require.NoError(t, bus.Emit("game:status", "finished"))

	require.Eventually(t, func() bool {
		return len(publisher.Calls()) == 2
	}, time.Second, time.Millisecond)

	byTopic := make(map[string]relay.Envelope)
	for _, call := range publisher.Calls() {
		envelope, ok := call.Data.(relay.Envelope)
		require.True(t, ok)
		byTopic[call.Topic] = envelope
	}

	queueEnv, ok := byTopic[relay.TopicQueue]
	require.True(t, ok)
	assert.Equal(t, "newMatch", queueEnv.Kind)
	assert.Equal(t, notice, queueEnv.Payload)

	gameEnv, ok := byTopic[relay.TopicGame]
	require.True(t, ok)
	assert.Equal(t, "status", gameEnv.Kind)
}

func TestRun_IgnoresUnknownDomains(t *testing.T) {
	bus := events.NewBus()
	publisher := relay.NewMockPublisher()
	startRelay(t, bus, publisher)

	require.NoError(t, bus.Emit("chat:message", "hello"))
	require.NoError(t, bus.Emit("queue:players", "sentinel"))

	require.Eventually(t, func() bool {
		return len(publisher.Calls()) == 1
	}, time.Second, time.Millisecond)

	calls := publisher.Calls()
	assert.Equal(t, relay.TopicQueue, calls[0].Topic, "only bridged domains are forwarded")
}

func TestRun_PublishFailureDoesNotStopForwarding(t *testing.T) {
	bus := events.NewBus()
	publisher := relay.NewMockPublisher()
	publisher.SendMessageFunc = func(string, any) error {
		return errors.New("broker unavailable")
	}
	startRelay(t, bus, publisher)

	require.NoError(t, bus.Emit("game:state", "first"))
	require.NoError(t, bus.Emit("game:state", "second"))

	require.Eventually(t, func() bool {
		return len(publisher.Calls()) == 2
	}, time.Second, time.Millisecond, "a failed publish must not kill the forwarding loop")
}

func TestRun_CancellationDetachesSubscriptions(t *testing.T) {
	bus := events.NewBus()
	publisher := relay.NewMockPublisher()
	ctx, cancel := context.WithCancel(context.Background())
	go relay.New(bus, publisher).Run(ctx)

	require.Eventually(t, func() bool {
		return bus.SubscriberCount("queue") == 1 && bus.SubscriberCount("game") == 1
	}, time.Second, time.Millisecond)

	cancel()

	require.Eventually(t, func() bool {
		return bus.SubscriberCount("queue") == 0 && bus.SubscriberCount("game") == 0
	}, time.Second, time.Millisecond, "forwarder streams close when the relay stops")
}

func TestDecode_RoundTripsAnEnvelope(t *testing.T) {
	envelope := relay.Envelope{Kind: "newMatch", Payload: map[string]any{"user_id": "alice"}}
	data, err := msgpack.Marshal(envelope)
	require.NoError(t, err)

	var decoded relay.Envelope
	require.NoError(t, relay.Decode(data, &decoded))
	assert.Equal(t, envelope.Kind, decoded.Kind)
}
