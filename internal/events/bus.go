// Package events provides the asynchronous fan-out used to observe form
// activity (dispatched DOM events, log lines) without blocking the producer.
package events

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Message is a published value tagged with the topic it was published under.
type Message[T any] struct {
	Topic     string
	Payload   T
	Timestamp time.Time
}

// Publisher accepts messages for fan-out.
type Publisher[T any] interface {
	Publish(topic string, payload T)
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context, topics ...string) <-chan Message[T]
}

type subscription[T any] struct {
	ch     chan Message[T]
	topics map[string]struct{}
}

func (s *subscription[T]) wants(topic string) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

// Bus delivers every published message to the subscribers interested in its
// topic. Delivery never blocks the publisher: a subscriber whose buffer is
// full misses the message.
type Bus[T any] struct {
	mu         sync.RWMutex
	subs       map[*subscription[T]]struct{}
	done       chan struct{}
	bufferSize int
}

// NewBus creates a bus with the default per-subscriber buffer.
func NewBus[T any]() *Bus[T] {
	return NewBusWithBuffer[T](defaultBufferSize)
}

// NewBusWithBuffer creates a bus whose subscribers buffer size messages.
func NewBusWithBuffer[T any](size int) *Bus[T] {
	if size < 1 {
		size = 1
	}
	return &Bus[T]{
		subs:       make(map[*subscription[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: size,
	}
}

// Subscribe returns a channel receiving messages for the given topics, or for
// every topic when none are given. The channel is closed when ctx is done or
// the bus is closed.
func (b *Bus[T]) Subscribe(ctx context.Context, topics ...string) <-chan Message[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		ch := make(chan Message[T])
		close(ch)
		return ch
	}

	sub := &subscription[T]{ch: make(chan Message[T], b.bufferSize)}
	if len(topics) > 0 {
		sub.topics = make(map[string]struct{}, len(topics))
		for _, t := range topics {
			sub.topics[t] = struct{}{}
		}
	}
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed() {
			return
		}
		delete(b.subs, sub)
		close(sub.ch)
	}()

	return sub.ch
}

// Publish fans payload out to the matching subscribers.
func (b *Bus[T]) Publish(topic string, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed() {
		return
	}

	msg := Message[T]{Topic: topic, Payload: payload, Timestamp: time.Now()}
	for sub := range b.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// Close shuts the bus down and closes every subscriber channel. Safe to call
// more than once.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed() {
		return
	}
	close(b.done)
	for sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}

// SubscriberCount returns the number of live subscriptions.
func (b *Bus[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// closed must be called with b.mu held.
func (b *Bus[T]) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

var (
	_ Publisher[string]  = (*Bus[string])(nil)
	_ Subscriber[string] = (*Bus[string])(nil)
)
