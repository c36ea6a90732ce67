package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Message[T]) Message[T] {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return msg
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for message")
	}
	return Message[T]{}
}

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus[string]()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := bus.Subscribe(ctx)
	bus.Publish("submit", "checkout")

	msg := receive(t, ch)
	require.Equal(t, "submit", msg.Topic)
	require.Equal(t, "checkout", msg.Payload)
	require.False(t, msg.Timestamp.IsZero())
}

func TestBus_TopicFilter(t *testing.T) {
	bus := NewBus[int]()
	defer bus.Close()

	ctx := context.Background()
	resets := bus.Subscribe(ctx, "reset")
	all := bus.Subscribe(ctx)

	bus.Publish("submit", 1)
	bus.Publish("reset", 2)

	require.Equal(t, 2, receive(t, resets).Payload)
	require.Equal(t, 1, receive(t, all).Payload)
	require.Equal(t, 2, receive(t, all).Payload)

	select {
	case msg := <-resets:
		require.Failf(t, "unexpected message", "%+v", msg)
	default:
	}
}

func TestBus_ContextCancellation(t *testing.T) {
	bus := NewBus[string]()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := bus.Subscribe(ctx)
	require.Equal(t, 1, bus.SubscriberCount())

	cancel()
	require.Eventually(t, func() bool { return bus.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-ch
	require.False(t, ok, "channel should be closed")
}

func TestBus_NonBlocking(t *testing.T) {
	bus := NewBusWithBuffer[int](1)
	defer bus.Close()

	ch := bus.Subscribe(context.Background())
	bus.Publish("x", 1)

	done := make(chan struct{})
	go func() {
		bus.Publish("x", 2)
		bus.Publish("x", 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "Publish blocked")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
}

func TestBus_CloseIdempotent(t *testing.T) {
	bus := NewBus[string]()
	ch := bus.Subscribe(context.Background())

	bus.Close()
	bus.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Equal(t, 0, bus.SubscriberCount())

	late := bus.Subscribe(context.Background())
	_, ok = <-late
	require.False(t, ok, "subscribe after close returns a closed channel")

	bus.Publish("x", "ignored")
}
