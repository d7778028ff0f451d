package api

import "sync"

// progressBuffer bounds queued progress notifications per call. When the
// caller does not drain Progress, further notifications are dropped.
const progressBuffer = 64

// Call is the handle of an asynchronous dispatch started with Dispatcher.Go.
// It settles exactly once.
type Call struct {
	id       string
	progress chan Progress
	done     chan struct{}

	mu      sync.Mutex
	settled bool
	res     *Response
	err     error
}

func newCall(id string) *Call {
	return &Call{
		id:       id,
		progress: make(chan Progress, progressBuffer),
		done:     make(chan struct{}),
	}
}

// ID returns the call identity shared by every attempt, refresh and
// redirect-follow of this call.
func (c *Call) ID() string {
	return c.id
}

// Done is closed when the call settles.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Progress delivers upload progress notifications. It is closed when the
// call settles.
func (c *Call) Progress() <-chan Progress {
	return c.progress
}

// Wait blocks until the call settles and returns its outcome.
func (c *Call) Wait() (*Response, error) {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.res, c.err
}

func (c *Call) notify(p Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settled {
		return
	}
	select {
	case c.progress <- p:
	default:
	}
}

func (c *Call) settle(res *Response, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settled {
		return
	}
	c.settled = true
	c.res, c.err = res, err
	close(c.progress)
	close(c.done)
}
