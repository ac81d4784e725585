// Package realtime maintains a websocket subscription to the platform's
// event stream so the console can surface new bookings without polling.
// The connection is best effort: the console works fully without it, and
// a dropped connection reconnects with capped backoff.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/minhthien1995/booking-football-cms/internal/observability/metrics"
	"github.com/minhthien1995/booking-football-cms/pkg/logging"
)

// EventNewBooking is emitted by the server when any channel creates a booking.
const EventNewBooking = "new-booking"

// Event is one message from the platform stream.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// NewBookingPayload is the data carried by a new-booking event.
type NewBookingPayload struct {
	CustomerName string `json:"customerName"`
	FieldName    string `json:"fieldName"`
}

// Handler receives decoded events. It is called from the listener's read
// goroutine and must not block.
type Handler func(Event)

// Options tunes the reconnect behavior.
type Options struct {
	ReconnectBase time.Duration
	ReconnectMax  time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReconnectBase <= 0 {
		o.ReconnectBase = 2 * time.Second
	}
	if o.ReconnectMax <= 0 {
		o.ReconnectMax = time.Minute
	}
	return o
}

// Listener dials the platform's websocket endpoint and dispatches events to
// a handler until closed.
type Listener struct {
	url     string
	opts    Options
	handler Handler
	logger  *logging.Logger
	metrics *metrics.RealtimeMetrics

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	done   chan struct{}
}

// NewListener prepares a listener for the given websocket URL. Run starts it.
func NewListener(url string, handler Handler, opts Options, m *metrics.RealtimeMetrics, logger *logging.Logger) *Listener {
	if logger == nil {
		logger = logging.Default()
	}
	return &Listener{
		url:     url,
		opts:    opts.withDefaults(),
		handler: handler,
		logger:  logger,
		metrics: m,
		done:    make(chan struct{}),
	}
}

// Run connects and reads events until the context is cancelled or Close is
// called. Connection failures back off exponentially up to the configured
// ceiling; a successful connection resets the backoff.
func (l *Listener) Run(ctx context.Context) {
	defer close(l.done)

	backoff := l.opts.ReconnectBase
	for {
		if l.isClosed() || ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("realtime dial failed", "url", l.url, "error", err, "retry_in", backoff.String())
			l.metrics.ObserveReconnect()
			if !l.sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, l.opts.ReconnectMax)
			continue
		}

		l.logger.Info("realtime connected", "url", l.url)
		l.setConn(conn)
		backoff = l.opts.ReconnectBase

		l.readLoop(conn)
		l.setConn(nil)
		conn.Close()

		if l.isClosed() || ctx.Err() != nil {
			return
		}
		l.logger.Warn("realtime connection lost", "url", l.url, "retry_in", backoff.String())
		l.metrics.ObserveReconnect()
		if !l.sleep(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff, l.opts.ReconnectMax)
	}
}

func (l *Listener) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			l.logger.Warn("realtime message not decodable", "error", err)
			continue
		}
		if ev.Name == "" {
			continue
		}
		l.metrics.ObserveEvent(ev.Name)
		if l.handler != nil {
			l.handler(ev)
		}
	}
}

// Close stops the listener and severs any open connection. Safe to call more
// than once.
func (l *Listener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	conn := l.conn
	l.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Done is closed when Run has returned.
func (l *Listener) Done() <-chan struct{} { return l.done }

func (l *Listener) setConn(conn *websocket.Conn) {
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
}

func (l *Listener) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Listener) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return !l.isClosed()
	}
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

// DecodeNewBooking extracts the new-booking payload from an event. The
// second return is false for any other event name.
func DecodeNewBooking(ev Event) (NewBookingPayload, bool) {
	if ev.Name != EventNewBooking {
		return NewBookingPayload{}, false
	}
	var p NewBookingPayload
	if err := json.Unmarshal(ev.Data, &p); err != nil {
		return NewBookingPayload{}, false
	}
	return p, true
}
