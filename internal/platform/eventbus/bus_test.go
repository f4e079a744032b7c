package eventbus_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harborworks/cms/internal/platform/eventbus"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}

func TestBus_PublishDeliversToAllSubscribers(t *testing.T) {
	bus := eventbus.NewBus(noopLogger{})

	var mu sync.Mutex
	received := make([]string, 0, 2)
	done := make(chan struct{}, 2)

	handler := func(name string) eventbus.Handler {
		return func(ctx context.Context, event eventbus.Event) error {
			mu.Lock()
			received = append(received, name)
			mu.Unlock()
			done <- struct{}{}
			return nil
		}
	}

	bus.Subscribe("content.published", handler("first"))
	bus.Subscribe("content.published", handler("second"))

	bus.Publish(context.Background(), eventbus.Event{
		Topic:   "content.published",
		Payload: "payload",
	})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for subscriber")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"first", "second"}, received)
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := eventbus.NewBus(noopLogger{})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), eventbus.Event{Topic: "content.rejected"})
	})
}

func TestBus_HandlerErrorDoesNotAffectOthers(t *testing.T) {
	bus := eventbus.NewBus(noopLogger{})

	done := make(chan struct{}, 1)
	bus.Subscribe("content.submitted", func(ctx context.Context, event eventbus.Event) error {
		return errors.New("handler failed")
	})
	bus.Subscribe("content.submitted", func(ctx context.Context, event eventbus.Event) error {
		done <- struct{}{}
		return nil
	})

	bus.Publish(context.Background(), eventbus.Event{Topic: "content.submitted"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("healthy subscriber never ran")
	}
}
