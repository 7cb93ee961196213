package relay

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/paddle-arena/internal/events"
)

// Relay bridges the in-process bus to an external broker: it subscribes to
// whole domains and forwards every event to the domain's topic. Publish
// failures are logged and skipped; the broker is an observer, never a
// dependency of the game loop.
type Relay struct {
	bus       *events.Bus
	publisher Publisher
	topics    map[string]string // domain -> topic
}

// New creates a relay forwarding the queue and game domains.
func New(bus *events.Bus, publisher Publisher) *Relay {
	return &Relay{
		bus:       bus,
		publisher: publisher,
		topics: map[string]string{
			"queue": TopicQueue,
			"game":  TopicGame,
		},
	}
}

// Run forwards events until the context is cancelled. It blocks; start it in
// its own goroutine.
func (r *Relay) Run(ctx context.Context) {
	for domain, topic := range r.topics {
		stream := events.SubscribeDomain(r.bus, domain, nil)
		go func(domain, topic string, stream *events.Stream[events.DomainEvent]) {
			defer stream.Close()
			for {
				ev, err := stream.Next(ctx)
				if err != nil {
					return
				}
				envelope := Envelope{Kind: ev.Kind, Payload: ev.Payload}
				if err := r.publisher.SendMessage(topic, envelope); err != nil {
					log.Error("Failed to forward event", "domain", domain, "kind", ev.Kind, "error", err)
				}
			}
		}(domain, topic, stream)
	}
	<-ctx.Done()
}
