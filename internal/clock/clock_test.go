package clock

import (
	"testing"
	"time"
)

func TestFakeAdvancesOnSleep(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)
	f.Sleep(90 * time.Second)
	if got := f.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("unexpected now: %s", got)
	}
	if slept := f.Slept(); len(slept) != 1 || slept[0] != 90*time.Second {
		t.Fatalf("unexpected slept log: %v", slept)
	}
}
