package api

import (
	"context"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"sync"

	"github.com/mendeley/client-go/internal/apierrors"
)

// Upload progress event names, as reported on the upload channel.
const (
	EventLoadStart = "loadstart"
	EventProgress  = "progress"
	EventLoad      = "load"
	EventLoadEnd   = "loadend"
	EventAbort     = "abort"
	EventTimeout   = "timeout"
	EventError     = "error"
)

// Progress is one upload progress notification. Notifications are only sent
// while the body length is known.
type Progress struct {
	Event            string
	Percent          int
	BytesSent        int64
	BytesTotal       int64
	LengthComputable bool
}

// uploadTracker wraps a request body and reports how much of it the
// transport has consumed. The transport may read from another goroutine,
// so all state is guarded by mu.
type uploadTracker struct {
	mu      sync.Mutex
	body    io.ReadCloser
	total   int64
	sent    int64
	percent int
	loaded  bool
	closed  bool
	notify  func(Progress)
}

func newUploadTracker(body io.ReadCloser, total int64, notify func(Progress)) *uploadTracker {
	t := &uploadTracker{body: body, total: total, notify: notify}
	t.emitLocked(EventLoadStart)
	return t
}

func (t *uploadTracker) Read(p []byte) (int, error) {
	n, err := t.body.Read(p)

	t.mu.Lock()
	defer t.mu.Unlock()
	if n > 0 {
		t.sent += int64(n)
		t.emitLocked(EventProgress)
	}
	if errors.Is(err, io.EOF) && !t.loaded {
		t.loaded = true
		t.emitLocked(EventLoad)
	}
	return n, err
}

func (t *uploadTracker) Close() error {
	return t.body.Close()
}

// emitLocked reports an event. Nothing is reported while the length of the
// body is unknown.
func (t *uploadTracker) emitLocked(event string) {
	computable := t.total > 0
	if !computable || t.closed || t.notify == nil {
		return
	}
	t.percent = int(math.Round(100 * float64(t.sent) / float64(t.total)))
	t.notify(Progress{
		Event:            event,
		Percent:          t.percent,
		BytesSent:        t.sent,
		BytesTotal:       t.total,
		LengthComputable: computable,
	})
}

// finish marks the upload as complete once a response arrived.
func (t *uploadTracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if !t.loaded {
		t.loaded = true
		t.emitLocked(EventLoad)
	}
	t.emitLocked(EventLoadEnd)
	t.closed = true
}

// fail reports a terminal upload event and builds the matching error.
func (t *uploadTracker) fail(ctx context.Context, original *Request, httpReq *http.Request, err error) error {
	event := uploadFailureEvent(ctx, err)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.emitLocked(event)
		t.emitLocked(EventLoadEnd)
		t.closed = true
	}
	return &apierrors.UploadError{
		Request:     original,
		HTTPRequest: httpReq,
		Event:       event,
		Percent:     t.percent,
		Err:         err,
	}
}

func uploadFailureEvent(ctx context.Context, err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return EventAbort
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return EventTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return EventTimeout
	}
	return EventError
}
