package api

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCall_SettlesOnce(t *testing.T) {
	call := newCall("id-1")
	first := &Response{StatusCode: 200}

	call.settle(first, nil)
	call.settle(nil, errors.New("late"))

	res, err := call.Wait()
	assert.NoError(t, err)
	assert.Same(t, first, res)
	assert.Equal(t, "id-1", call.ID())
}

func TestCall_DoneAndProgressClose(t *testing.T) {
	call := newCall("id")
	call.notify(Progress{Event: EventLoadStart})

	select {
	case <-call.Done():
		t.Fatal("Done closed before settle")
	default:
	}

	call.settle(nil, errors.New("boom"))

	select {
	case <-call.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after settle")
	}

	var got []Progress
	for p := range call.Progress() {
		got = append(got, p)
	}
	assert.Equal(t, []Progress{{Event: EventLoadStart}}, got)

	// Notifications after settlement are dropped, not panics.
	call.notify(Progress{Event: EventProgress})
}

func TestCall_NotifyDoesNotBlock(t *testing.T) {
	call := newCall("id")
	done := make(chan struct{})
	go func() {
		for i := 0; i < progressBuffer*2; i++ {
			call.notify(Progress{Event: EventProgress, Percent: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notify blocked with nobody draining Progress")
	}
	assert.Len(t, call.progress, progressBuffer)
}
