package stream

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
)

func newStreamServer(t *testing.T, hub *Hub) (string, func()) {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app.Group("/live"), hub)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()
	return "ws://" + ln.Addr().String() + "/live/ws/", func() {
		_ = app.Shutdown()
		_ = ln.Close()
	}
}

func TestStreamUpgradeRequired(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/live"), NewHub(nil))

	req := httptest.NewRequest(http.MethodGet, "/live/ws/session-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode == http.StatusOK {
		t.Fatalf("expected non-200 for non-websocket request")
	}
}

func TestStreamWebsocketBroadcast(t *testing.T) {
	hub := NewHub(nil)
	base, stop := newStreamServer(t, hub)
	defer stop()

	conn, _, err := websocket.DefaultDialer.Dial(base+"session-1", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	hub.Broadcast("session-1", []byte("snapshot"))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(msg) != "snapshot" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestStreamWebsocketClosedClient(t *testing.T) {
	hub := NewHub(nil)
	base, stop := newStreamServer(t, hub)
	defer stop()

	conn, _, err := websocket.DefaultDialer.Dial(base+"session-2", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	conn.Close()

	hub.Broadcast("session-2", []byte("ping"))
	time.Sleep(20 * time.Millisecond)
}

func TestStreamWebsocketCloseMessage(t *testing.T) {
	hub := NewHub(nil)
	base, stop := newStreamServer(t, hub)
	defer stop()

	conn, _, err := websocket.DefaultDialer.Dial(base+"session-3", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	conn.Close()

	hub.Broadcast("session-3", []byte("ping"))
	time.Sleep(20 * time.Millisecond)
}
