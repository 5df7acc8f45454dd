package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gymease-service/internal/domain/transaction"
	wstypes "gymease-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(zap.NewNop())
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func fakeClient(h *Hub, topic string, buffer int) *Client {
	return &Client{hub: h, send: make(chan []byte, buffer), topic: topic, logger: zap.NewNop()}
}

func readFrame(t *testing.T, ch <-chan []byte) *wstypes.WSMessage {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			t.Fatal("send channel closed")
		}
		msg, err := wstypes.ParseMessage(data)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return nil
}

func TestPublishReachesOnlyMatchingTopic(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	watcher := fakeClient(h, "TRXAAAA1111", 4)
	other := fakeClient(h, "TRXBBBB2222", 4)
	if err := h.Subscribe(watcher, nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := h.Subscribe(other, nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	h.PublishStatus(transaction.StatusEvent{Code: "TRXAAAA1111", Status: transaction.StatusPaid})

	msg := readFrame(t, watcher.send)
	if msg.Type != wstypes.EventTypeTransactionStatus {
		t.Fatalf("type = %q", msg.Type)
	}
	if h.Subscribers("TRXAAAA1111") != 1 {
		t.Fatal("watcher should still be subscribed")
	}
	select {
	case <-other.send:
		t.Fatal("other topic received a frame")
	default:
	}
}

func TestInitialFrameIsDeliveredFirst(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	c := fakeClient(h, "TRXAAAA1111", 4)
	if err := h.Subscribe(c, wstypes.NewMessage(wstypes.EventTypeConnected, nil)); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if msg := readFrame(t, c.send); msg.Type != wstypes.EventTypeConnected {
		t.Fatalf("first frame = %q, want connected", msg.Type)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	slow := fakeClient(h, "TRXAAAA1111", 1)
	if err := h.Subscribe(slow, nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	h.PublishStatus(transaction.StatusEvent{Code: "TRXAAAA1111", Status: transaction.StatusPaid})
	h.PublishStatus(transaction.StatusEvent{Code: "TRXAAAA1111", Status: transaction.StatusPaid})

	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers("TRXAAAA1111") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}

	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Fatal("send channel should be closed after drop")
	}
}

func TestSubscribeEmptyTopic(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	if err := h.Subscribe(fakeClient(h, "", 1), nil); err != ErrEmptyTopic {
		t.Fatalf("err = %v, want ErrEmptyTopic", err)
	}
}

func TestConnectionPingPong(t *testing.T) {
	t.Parallel()

	h := startHub(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		c := NewClient(h, conn, "TRXAAAA1111")
		if err := h.Subscribe(c, nil); err != nil {
			t.Errorf("Subscribe: %v", err)
			return
		}
		go c.WritePump()
		go c.ReadPump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wstypes.NewMessage(wstypes.EventTypePing, nil)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Type wstypes.EventType `json:"type"`
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(data, &got); err != nil || got.Type != wstypes.EventTypePong {
		t.Fatalf("got %s (err %v), want pong", data, err)
	}

	h.PublishStatus(transaction.StatusEvent{Code: "TRXAAAA1111", Status: transaction.StatusPaid})
	if _, data, err = conn.ReadMessage(); err != nil {
		t.Fatalf("read status: %v", err)
	}
	if !strings.Contains(string(data), `"PAID"`) {
		t.Fatalf("status frame = %s", data)
	}
}
