package watchdog

import (
	"testing"
	"time"
)

func TestWatchdog_Timeout(t *testing.T) {
	w := New(50*time.Millisecond, nil)
	done := w.Start()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("watchdog did not fire")
	}
}

func TestWatchdog_Kick(t *testing.T) {
	w := New(50*time.Millisecond, nil)
	done := w.Start()

	time.Sleep(25 * time.Millisecond)
	w.Kick()

	select {
	case <-done:
		t.Fatal("watchdog fired too early")
	case <-time.After(35 * time.Millisecond):
	}

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("watchdog did not fire eventually")
	}
}

func TestWatchdog_Stop(t *testing.T) {
	w := New(50*time.Millisecond, nil)
	done := w.Start()

	w.Stop()

	select {
	case <-done:
		t.Fatal("watchdog fired after stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchdog_Zero(t *testing.T) {
	w := New(0, nil)
	done := w.Start()

	select {
	case <-done:
		t.Fatal("zero timeout fired")
	case <-time.After(50 * time.Millisecond):
	}
}
