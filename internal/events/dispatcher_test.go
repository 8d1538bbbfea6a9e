package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_FansOutToTypeSubscribers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	var got []Event
	d.Subscribe(EventLoginSucceeded, func(_ context.Context, ev Event) error {
		got = append(got, ev)
		return nil
	})
	d.Subscribe(EventLoginSucceeded, func(_ context.Context, ev Event) error {
		got = append(got, ev)
		return nil
	})
	d.Subscribe(EventLoginRejected, func(_ context.Context, _ Event) error {
		t.Fatal("handler for a different type must not fire")
		return nil
	})

	if err := d.Publish(context.Background(), New(EventLoginSucceeded, "alice")); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
	for _, ev := range got {
		if ev.Subject != "alice" || ev.Type != EventLoginSucceeded {
			t.Fatalf("unexpected event delivered: %+v", ev)
		}
	}
}

func TestDispatcher_NoSubscribersIsNoop(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), New(EventTokenRevoked, "alice")); err != nil {
		t.Fatalf("Publish with no subscribers must not fail: %v", err)
	}
}

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	boom := errors.New("sink unavailable")
	delivered := false
	d.Subscribe(EventUserSignedUp, func(_ context.Context, _ Event) error {
		return boom
	})
	d.Subscribe(EventUserSignedUp, func(_ context.Context, _ Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), New(EventUserSignedUp, "bob"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error to surface, got %v", err)
	}
	if !delivered {
		t.Fatal("second handler must still run after the first fails")
	}
}

func TestNewRejection_CarriesRoutingContext(t *testing.T) {
	t.Parallel()

	ev := NewRejection("", "missing bearer token", "GET", "/job/jobs")
	if ev.Type != EventRequestRejected {
		t.Fatalf("Type = %q, want %q", ev.Type, EventRequestRejected)
	}
	if ev.Method != "GET" || ev.Path != "/job/jobs" || ev.Reason != "missing bearer token" {
		t.Fatalf("routing context not carried: %+v", ev)
	}
	if ev.ID == "" || ev.Timestamp.IsZero() {
		t.Fatal("event must carry an id and timestamp")
	}
}
