package event_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/canteen/pkg/event"
)

func TestFireReachesAllListeners(t *testing.T) {
	defer event.Flush()

	var got []interface{}
	event.Listen("test.event", func(payload interface{}) {
		got = append(got, payload)
	})
	event.Listen("test.event", func(payload interface{}) {
		got = append(got, payload)
	})

	event.Fire("test.event", "hello")

	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
	if got[0] != "hello" || got[1] != "hello" {
		t.Errorf("unexpected payloads: %v", got)
	}
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	defer event.Flush()
	event.Fire("nobody.listens", 42)
}

func TestFireAsync(t *testing.T) {
	defer event.Flush()

	var wg sync.WaitGroup
	wg.Add(1)

	done := make(chan interface{}, 1)
	event.Listen("async.event", func(payload interface{}) {
		done <- payload
		wg.Done()
	})

	event.FireAsync("async.event", "payload")

	select {
	case payload := <-done:
		if payload != "payload" {
			t.Errorf("unexpected payload: %v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("async handler never ran")
	}
	wg.Wait()
}

func TestFlushRemovesListeners(t *testing.T) {
	called := false
	event.Listen("flushed.event", func(interface{}) { called = true })
	event.Flush()

	event.Fire("flushed.event", nil)
	if called {
		t.Error("flushed listener should not run")
	}
}
