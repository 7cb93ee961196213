package relay

// Publisher sends serialized events to an external broker.
type Publisher interface {
	SendMessage(topic string, data any) error
	Close()
}
