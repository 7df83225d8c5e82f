package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fixed base instant for deterministic expiry tests
var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestBus(lifetime time.Duration) (*Bus, *time.Time) {
	now := base
	bus := NewBusWithClock(lifetime, func() time.Time { return now })
	return bus, &now
}

func TestBusPushAndActive(t *testing.T) {
	bus, _ := newTestBus(10 * time.Second)

	bus.Error("sftp connection lost")
	bus.Success("file saved")

	active := bus.Active()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active notifications, got %d", len(active))
	}
	if active[0].Message != "sftp connection lost" || active[0].Level != LevelError {
		t.Errorf("Unexpected first notification: %+v", active[0])
	}
	if active[1].Message != "file saved" || active[1].Level != LevelSuccess {
		t.Errorf("Unexpected second notification: %+v", active[1])
	}
}

func TestBusExpiry(t *testing.T) {
	bus, now := newTestBus(10 * time.Second)

	bus.Info("old news")

	// Exactly at the lifetime boundary the notification is still live
	*now = base.Add(10 * time.Second)
	if got := len(bus.Active()); got != 1 {
		t.Errorf("Expected notification live at lifetime boundary, got %d active", got)
	}

	// One tick past the boundary it is gone
	*now = base.Add(10*time.Second + time.Nanosecond)
	if got := len(bus.Active()); got != 0 {
		t.Errorf("Expected notification expired past boundary, got %d active", got)
	}
}

func TestBusActiveSweeps(t *testing.T) {
	bus, now := newTestBus(10 * time.Second)

	bus.Info("first")
	*now = base.Add(8 * time.Second)
	bus.Info("second")

	// first is 12s old, second 4s old
	*now = base.Add(12 * time.Second)
	active := bus.Active()
	if len(active) != 1 {
		t.Fatalf("Expected 1 active notification, got %d", len(active))
	}
	if active[0].Message != "second" {
		t.Errorf("Expected survivor to be the newer notification, got %q", active[0].Message)
	}

	// The sweep removed the expired entry from storage too
	if bus.Len() != 1 {
		t.Errorf("Expected Len=1 after sweep, got %d", bus.Len())
	}
}

func TestBusOrderPreserved(t *testing.T) {
	bus, _ := newTestBus(10 * time.Second)

	for i := 0; i < 5; i++ {
		bus.Infof("msg-%d", i)
	}

	active := bus.Active()
	for i, n := range active {
		want := fmt.Sprintf("msg-%d", i)
		if n.Message != want {
			t.Errorf("Expected %s at index %d, got %s", want, i, n.Message)
		}
	}
}

func TestBusConcurrentPush(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				bus.Errorf("worker %d failure %d", g, i)
			}
		}(g)
	}
	wg.Wait()

	if bus.Len() != 500 {
		t.Errorf("Expected 500 notifications, got %d", bus.Len())
	}
}

func TestNotificationAlpha(t *testing.T) {
	n := Notification{Message: "x", Level: LevelInfo, CreatedAt: base}

	// Fully opaque before the fade window
	if a := n.Alpha(base.Add(5 * time.Second)); a != 255 {
		t.Errorf("Expected alpha 255 mid-lifetime, got %d", a)
	}
	// Halfway through the 2s fade window
	if a := n.Alpha(base.Add(9 * time.Second)); a != 127 {
		t.Errorf("Expected alpha 127 at 9s, got %d", a)
	}
	// Fully transparent at end of life
	if a := n.Alpha(base.Add(10 * time.Second)); a != 0 {
		t.Errorf("Expected alpha 0 at lifetime, got %d", a)
	}
	// Clamped past end of life
	if a := n.Alpha(base.Add(15 * time.Second)); a != 0 {
		t.Errorf("Expected alpha 0 past lifetime, got %d", a)
	}
}

func TestLevelString(t *testing.T) {
	if LevelInfo.String() != "info" || LevelSuccess.String() != "success" || LevelError.String() != "error" {
		t.Error("Unexpected level names")
	}
}
