package events

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrBadEventName is returned when an event name is missing the "domain:kind"
// separator or has an empty domain or kind. Emitting with a malformed name is a
// programming error at the call site, so it is reported immediately rather than
// being swallowed.
var ErrBadEventName = errors.New("malformed event name, expected \"domain:kind\"")

// ErrStreamClosed is returned by Next once a stream has been closed.
var ErrStreamClosed = errors.New("event stream closed")

// Bus is an in-process publish/subscribe multiplexer keyed by two-level
// "domain:kind" event names. Subscribers attach either to one exact kind or to
// a whole domain. Emit is synchronous and never blocks on a slow subscriber;
// each subscription buffers its own backlog and drains it through Next.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]*subscriber // keyed by domain
	next int                      // subscriber id sequence
}

// subscriber is the bus-side half of a subscription. deliver pushes a matching
// payload into the owning stream's buffer.
type subscriber struct {
	id      int
	kind    string // empty for domain subscriptions
	deliver func(kind string, payload any)
}

// DomainEvent is the tagged union delivered to domain subscriptions: the kind
// under the subscribed domain plus the payload as emitted.
type DomainEvent struct {
	Kind    string
	Payload any
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]*subscriber),
	}
}

// SplitName splits a "domain:kind" event name.
func SplitName(name string) (domain, kind string, err error) {
	domain, kind, ok := strings.Cut(name, ":")
	if !ok || domain == "" || kind == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadEventName, name)
	}
	return domain, kind, nil
}

// Emit publishes payload under the given "domain:kind" name. It fails fast on a
// malformed name and otherwise delivers synchronously to every matching
// subscription. Delivery order across subscribers is unspecified; delivery to
// any single subscriber preserves emission order.
func (b *Bus) Emit(name string, payload any) error {
	domain, kind, err := SplitName(name)
	if err != nil {
		return err
	}

	b.mu.RLock()
	subs := make([]*subscriber, len(b.subs[domain]))
	copy(subs, b.subs[domain])
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.deliver(kind, payload)
	}
	return nil
}

// Subscribe registers for one exact "domain:kind" name. Only payloads of type T
// emitted under that name are delivered; payloads of a different concrete type
// are skipped. The optional predicate filters individual payloads.
func Subscribe[T any](b *Bus, name string, pred func(T) bool) (*Stream[T], error) {
	domain, kind, err := SplitName(name)
	if err != nil {
		return nil, err
	}

	stream := newStream[T]()
	sub := &subscriber{
		kind: kind,
		deliver: func(k string, payload any) {
			if k != kind {
				return
			}
			v, ok := payload.(T)
			if !ok {
				return
			}
			if pred != nil && !pred(v) {
				return
			}
			stream.push(v)
		},
	}
	b.attach(domain, sub, stream.setCancel)
	return stream, nil
}

// SubscribeDomain registers for every kind emitted under a domain. Events are
// delivered as a DomainEvent tagged with their kind. The optional predicate
// filters individual events.
func SubscribeDomain(b *Bus, domain string, pred func(DomainEvent) bool) *Stream[DomainEvent] {
	stream := newStream[DomainEvent]()
	sub := &subscriber{
		deliver: func(kind string, payload any) {
			ev := DomainEvent{Kind: kind, Payload: payload}
			if pred != nil && !pred(ev) {
				return
			}
			stream.push(ev)
		},
	}
	b.attach(domain, sub, stream.setCancel)
	return stream
}

func (b *Bus) attach(domain string, sub *subscriber, setCancel func(func())) {
	b.mu.Lock()
	b.next++
	sub.id = b.next
	b.subs[domain] = append(b.subs[domain], sub)
	b.mu.Unlock()

	setCancel(func() { b.detach(domain, sub.id) })
}

func (b *Bus) detach(domain string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[domain]
	for i, s := range subs {
		if s.id == id {
			b.subs[domain] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[domain]) == 0 {
		delete(b.subs, domain)
	}
}

// SubscriberCount returns the number of live subscriptions under a domain.
func (b *Bus) SubscriberCount(domain string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[domain])
}
