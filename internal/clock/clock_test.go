package clock

import (
	"testing"
	"time"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	var fired []string
	c.AfterFunc(3*time.Second, func() { fired = append(fired, "c") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })

	c.Advance(2 * time.Second)
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired %v after 2s", fired)
	}
	c.Advance(time.Second)
	if len(fired) != 3 || fired[2] != "c" {
		t.Fatalf("fired %v after 3s", fired)
	}
	if c.Now() != time.Unix(3, 0) {
		t.Fatalf("now=%v", c.Now())
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("first Stop should report true")
	}
	if timer.Stop() {
		t.Fatal("second Stop should report false")
	}
	c.Advance(time.Minute)
	if fired || c.Pending() != 0 {
		t.Fatalf("stopped timer fired=%v pending=%d", fired, c.Pending())
	}
}

func TestFakeRunsTimersScheduledByCallbacks(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(5 * time.Second)
	if ticks != 5 {
		t.Fatalf("ticks=%d, want 5", ticks)
	}
}
