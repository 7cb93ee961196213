package relay

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// Topics per bus domain. Everything emitted under a domain lands on one topic;
// consumers filter on the kind carried in the envelope.
const (
	TopicQueue = "arena-queue"
	TopicGame  = "arena-game"
)

// Envelope is the wire shape of one forwarded event.
type Envelope struct {
	Kind    string `msgpack:"kind"`
	Payload any    `msgpack:"payload"`
}
