package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)
	var fired []string

	f.AfterFunc(3*time.Second, func() { fired = append(fired, "cooldown") })
	f.AfterFunc(500*time.Millisecond, func() { fired = append(fired, "reload") })
	assert.Equal(t, 2, f.Pending())

	f.Advance(time.Second)
	assert.Equal(t, []string{"reload"}, fired)
	assert.Equal(t, start.Add(time.Second), f.Now())

	f.Advance(2 * time.Second)
	assert.Equal(t, []string{"reload", "cooldown"}, fired)
	assert.Zero(t, f.Pending())
}

func TestFakeStop(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	called := false
	timer := f.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	f.Advance(time.Minute)
	assert.False(t, called)
}

func TestFakeCallbackMayScheduleAgain(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			f.AfterFunc(time.Second, tick)
		}
	}
	f.AfterFunc(time.Second, tick)

	f.Advance(time.Second)
	f.Advance(time.Second)
	f.Advance(time.Second)
	assert.Equal(t, 3, count)
}

func TestRealClock(t *testing.T) {
	c := New()
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)
}
