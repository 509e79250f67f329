package emulator

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"irconsole/internal/logger"
)

// A connection tolerates only one writer at a time, so acks issued from a
// handler goroutine must serialize with the simulator's broadcasts.
func TestHub_SendAndBroadcastSerialize(t *testing.T) {
	t.Parallel()

	log := logger.NewWithWriter(logger.ErrorLevel, io.Discard)
	hub := NewHub(log)

	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(conn)
		serverConns <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer client.Close()

	conn := <-serverConns

	const perWriter = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			hub.Broadcast(pushFrame{Event: "ir", Value: "A1B2C3D4"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			if err := hub.Send(conn, channelAck{OK: true, Msg: "Sent NEC 0xA1B2C3D4"}); err != nil {
				t.Errorf("send %d: %v", i, err)
				return
			}
		}
	}()

	// Interleaved writers must still produce whole, parseable frames.
	_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
	for received := 0; received < 2*perWriter; received++ {
		var frame map[string]any
		if err := client.ReadJSON(&frame); err != nil {
			t.Fatalf("read after %d intact frames: %v", received, err)
		}
	}
	wg.Wait()

	if hub.Count() != 1 {
		t.Fatalf("client count = %d, want 1", hub.Count())
	}
}
