package event

import (
	"testing"
)

func TestPublishPriorityOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.Subscribe("tick", func(any) { order = append(order, "low") }, SubscribeOptions{Priority: -5})
	bus.Subscribe("tick", func(any) { order = append(order, "first") }, SubscribeOptions{Priority: 10})
	bus.Subscribe("tick", func(any) { order = append(order, "a") })
	bus.Subscribe("tick", func(any) { order = append(order, "b") })

	if !bus.Publish("tick", nil) {
		t.Fatal("Publish: expected delivery")
	}

	want := []string{"first", "a", "b", "low"}
	if len(order) != len(want) {
		t.Fatalf("delivered %d handlers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := NewBus()
	if bus.Publish("nobody:home", 42) {
		t.Error("Publish: expected false with no subscribers")
	}
}

func TestOnceRemovedAfterDelivery(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe("boot", func(any) { calls++ }, SubscribeOptions{Once: true})

	bus.Publish("boot", nil)
	bus.Publish("boot", nil)

	if calls != 1 {
		t.Errorf("once handler ran %d times, want 1", calls)
	}
	if n := bus.SubscriberCount("boot"); n != 0 {
		t.Errorf("SubscriberCount = %d after once delivery, want 0", n)
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	ran := false
	bus.Subscribe("t", func(any) { panic("boom") }, SubscribeOptions{Priority: 1})
	bus.Subscribe("t", func(any) { ran = true })

	delivered := bus.Publish("t", nil)

	if !ran {
		t.Error("second handler did not run after a panic in the first")
	}
	if !delivered {
		t.Error("Publish: expected true, second handler was delivered")
	}
}

func TestPanickingOnceHandlerStaysSubscribed(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe("t", func(any) {
		calls++
		if calls == 1 {
			panic("first delivery fails")
		}
	}, SubscribeOptions{Once: true})

	bus.Publish("t", nil)
	if n := bus.SubscriberCount("t"); n != 1 {
		t.Fatalf("failed once delivery removed the handler (count %d)", n)
	}
	bus.Publish("t", nil)
	if n := bus.SubscriberCount("t"); n != 0 {
		t.Errorf("SubscriberCount = %d after successful delivery, want 0", n)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub := bus.Subscribe("t", func(any) { calls++ })

	bus.Publish("t", nil)
	bus.Unsubscribe(sub)
	bus.Publish("t", nil)

	if calls != 1 {
		t.Errorf("handler ran %d times after unsubscribe, want 1", calls)
	}
	// Double-unsubscribe and nil are harmless.
	bus.Unsubscribe(sub)
	bus.Unsubscribe(nil)
}

func TestPayloadReachesHandler(t *testing.T) {
	bus := NewBus()
	var got any
	bus.Subscribe("t", func(p any) { got = p })
	bus.Publish("t", "hello")
	if got != "hello" {
		t.Errorf("payload = %v, want hello", got)
	}
}
