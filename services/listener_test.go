package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRelay is a websocket endpoint standing in for the push relay. The
// script callback decides what each numbered connection receives.
type fakeRelay struct {
	server *httptest.Server
	conns  atomic.Int32
}

func newFakeRelay(t *testing.T, script func(conn *websocket.Conn, connNum int)) *fakeRelay {
	t.Helper()
	relay := &fakeRelay{}
	upgrader := websocket.Upgrader{}

	relay.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		num := int(relay.conns.Add(1))
		script(conn, num)
	}))
	t.Cleanup(relay.server.Close)
	return relay
}

func (r *fakeRelay) wsURL() string {
	return "ws" + strings.TrimPrefix(r.server.URL, "http")
}

func pushMessage(t *testing.T, packageName, body string) []byte {
	t.Helper()
	msg, err := json.Marshal(map[string]interface{}{
		"type": "push",
		"push": map[string]string{
			"package_name": packageName,
			"body":         body,
		},
	})
	require.NoError(t, err)
	return msg
}

func newListenerFixture(t *testing.T, relayURL, bankFilter string) (*Listener, *gorm.DB) {
	db := newTestDB(t)
	cfg := NewConfigService(db, testEnv())
	require.NoError(t, cfg.EnsureDefaults())

	transfers := NewTransferService(db, "http://localhost:3001")
	transfers.confirmDelay = 10 * time.Millisecond
	reconciler := NewReconciler(db, transfers, nil, cfg, nil)

	listener := NewListener(relayURL, bankFilter, reconciler, nil)
	listener.backoff = 20 * time.Millisecond
	return listener, db
}

func TestListenerCreditsParsedNotifications(t *testing.T) {
	relay := newFakeRelay(t, func(conn *websocket.Conn, connNum int) {
		defer conn.Close()
		// Noise the listener must survive before the real notification.
		messages := [][]byte{
			[]byte(`{"type":"nop"}`),
			[]byte(`{not json`),
			[]byte(`{"type":"tickle","subtype":"push"}`),
			[]byte(`{"type":"push"}`),
			pushMessage(t, "com.kakaobank.channel", "김철수 30,000원 입금"),
		}
		for _, msg := range messages {
			if conn.WriteMessage(websocket.TextMessage, msg) != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	listener, db := newListenerFixture(t, relay.wsURL(), "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Run(ctx)

	assert.Eventually(t, func() bool {
		var money int64
		err := db.Raw("SELECT money FROM users WHERE site_id = ? AND bank_name = ?", DefaultSiteID, "김철수").
			Scan(&money).Error
		return err == nil && money == 30000
	}, 2*time.Second, 20*time.Millisecond)
}

func TestListenerReconnectsAfterClose(t *testing.T) {
	relay := newFakeRelay(t, func(conn *websocket.Conn, connNum int) {
		defer conn.Close()
		if connNum == 1 {
			// First connection delivers one event, then drops.
			_ = conn.WriteMessage(websocket.TextMessage, pushMessage(t, "com.kbstar.reboot", "김철수 10,000원 입금"))
			return
		}
		// The reconnected listener keeps consuming.
		_ = conn.WriteMessage(websocket.TextMessage, pushMessage(t, "com.kbstar.reboot", "김철수 5,000원 입금"))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	listener, db := newListenerFixture(t, relay.wsURL(), "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Run(ctx)

	// Both events land exactly once across the reconnect boundary.
	assert.Eventually(t, func() bool {
		var money int64
		err := db.Raw("SELECT money FROM users WHERE site_id = ? AND bank_name = ?", DefaultSiteID, "김철수").
			Scan(&money).Error
		return err == nil && money == 15000
	}, 3*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, relay.conns.Load(), int32(2))
}

func TestListenerSourceAppFilter(t *testing.T) {
	delivered := make(chan struct{})
	relay := newFakeRelay(t, func(conn *websocket.Conn, connNum int) {
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, pushMessage(t, "com.wooribank.smart.npib", "박영희 7,000원 입금"))
		_ = conn.WriteMessage(websocket.TextMessage, pushMessage(t, "com.kakaobank.channel", "김철수 9,000원 입금"))
		if connNum == 1 {
			close(delivered)
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	listener, db := newListenerFixture(t, relay.wsURL(), "com.kakaobank.channel")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Run(ctx)

	<-delivered
	assert.Eventually(t, func() bool {
		var money int64
		err := db.Raw("SELECT money FROM users WHERE site_id = ? AND bank_name = ?", DefaultSiteID, "김철수").
			Scan(&money).Error
		return err == nil && money == 9000
	}, 2*time.Second, 20*time.Millisecond)

	// The filtered source app never created an account.
	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM users WHERE bank_name = ?", "박영희").Scan(&count).Error)
	assert.Zero(t, count)
}
