package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ogcash/bankapi/metrics"
	"github.com/ogcash/bankapi/utils/logger"

	"github.com/gorilla/websocket"
)

const reconnectDelay = 3 * time.Second

// Listener holds the process-wide subscription to the push-notification
// relay. Exactly one connection is live at a time; on any close it redials
// after a fixed delay, forever. Parse and transport errors are logged and
// dropped, never fatal.
type Listener struct {
	url        string
	bankFilter string // optional source-app filter (BANK_NAME)
	reconciler *Reconciler
	metrics    *metrics.Metrics
	dialer     *websocket.Dialer
	backoff    time.Duration
}

// NewListener builds a listener for the given relay stream URL, e.g.
// wss://stream.pushbullet.com/websocket/<token>.
func NewListener(url, bankFilter string, reconciler *Reconciler, m *metrics.Metrics) *Listener {
	return &Listener{
		url:        url,
		bankFilter: bankFilter,
		reconciler: reconciler,
		metrics:    m,
		dialer:     websocket.DefaultDialer,
		backoff:    reconnectDelay,
	}
}

// pushEnvelope is the relay's wire format. Only type "push" with a non-null
// payload is acted on; everything else (nop keepalives, tickles) is ignored.
type pushEnvelope struct {
	Type string       `json:"type"`
	Push *pushPayload `json:"push"`
}

type pushPayload struct {
	PackageName string `json:"package_name"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Subtitle    string `json:"subtitle"`
}

// Run dials and reads until ctx is cancelled. The previous socket is fully
// closed before each redial so messages are never delivered twice across a
// reconnect.
func (l *Listener) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err != nil {
			logger.Errorf("[Stream] connect failed: %v", err)
			l.scheduleRetry(ctx)
			continue
		}

		logger.Info("[Stream] connected to relay")
		l.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		logger.Infof("[Stream] connection closed, reconnecting in %s", l.backoff)
		l.scheduleRetry(ctx)
	}
}

func (l *Listener) scheduleRetry(ctx context.Context) {
	if l.metrics != nil {
		l.metrics.StreamReconnects.Inc()
	}
	select {
	case <-ctx.Done():
	case <-time.After(l.backoff):
	}
}

// readLoop consumes messages until the connection drops or ctx is cancelled.
func (l *Listener) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("[Stream] relay closed the connection")
			} else if ctx.Err() == nil {
				logger.Errorf("[Stream] read error: %v", err)
			}
			return
		}
		l.handleMessage(message)
	}
}

// handleMessage decodes, filters and dispatches one inbound relay message.
// Every failure path logs and returns; nothing here may kill the loop.
func (l *Listener) handleMessage(message []byte) {
	var envelope pushEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		logger.Errorf("[Stream] invalid JSON: %v", err)
		return
	}
	if envelope.Type != "push" {
		return
	}
	if envelope.Push == nil {
		logger.Error("[Stream] push envelope without payload")
		return
	}

	if l.metrics != nil {
		l.metrics.NotificationsReceived.Inc()
	}
	push := envelope.Push
	logger.Infof("[Stream] notification from %s", push.PackageName)

	event, err := ParseNotification(push.Title, push.Body, push.Subtitle, push.PackageName)
	if err != nil {
		if l.metrics != nil {
			l.metrics.ParseFailures.Inc()
		}
		logger.Errorf("[Stream] parse failed: %v (title=%q body=%q)", err, push.Title, push.Body)
		return
	}

	if l.bankFilter != "" && event.SourceApp != l.bankFilter {
		logger.Infof("[Stream] ignored: source app %s does not match filter", event.SourceApp)
		return
	}

	if err := l.reconciler.CreditFromNotification(event.DepositorName, event.Amount, event.SourceApp); err != nil {
		logger.Errorf("[Stream] credit failed for %s: %v", event.DepositorName, err)
	}
}
