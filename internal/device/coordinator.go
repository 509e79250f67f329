package device

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"irconsole"
	"irconsole/internal/logger"
)

// Reconnect and channel tuning. Both retry delays are fixed constants: a
// dial-time failure backs off longer than a mid-session close, and neither
// grows. Exactly one retry is ever pending.
const (
	closeRetryDelay = 2000 * time.Millisecond
	dialRetryDelay  = 3000 * time.Millisecond
	writeWait       = 10 * time.Second
	maxMsgSize      = 1 << 12 // 4 KB
	eventBuffer     = 64
	sendBuffer      = 16
)

// SendCommand describes one outbound transmission intent.
type SendCommand struct {
	Index  int    // catalog index of the issuing control
	Data   string // hex payload
	Length int    // bit length
	Name   string // display name, echoed in channel acks
}

// Coordinator owns the persistent channel lifecycle and the dual-path send
// protocol. It runs as a single actor goroutine: dial results, inbound
// frames, send intents and retry timers are all handled sequentially, so the
// state machine needs no locking. The UI consumes Events() and calls Send().
type Coordinator struct {
	wsURL  string
	dialer *websocket.Dialer
	client *Client
	log    *logger.Logger

	events chan Event
	sends  chan SendCommand

	closeRetry time.Duration
	dialRetry  time.Duration
}

// NewCoordinator builds a coordinator for the channel endpoint at wsURL
// (e.g. "ws://192.168.4.1/ws"), falling back to client for one-shot sends.
func NewCoordinator(wsURL string, client *Client, log *logger.Logger) *Coordinator {
	return &Coordinator{
		wsURL:      wsURL,
		dialer:     websocket.DefaultDialer,
		client:     client,
		log:        log,
		events:     make(chan Event, eventBuffer),
		sends:      make(chan SendCommand, sendBuffer),
		closeRetry: closeRetryDelay,
		dialRetry:  dialRetryDelay,
	}
}

// Events returns the stream the UI loop consumes. Delivery order is the
// order the transport produced the events.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// Send enqueues a transmission intent. The coordinator picks the path when
// it processes the intent: the channel if open, the one-shot request
// otherwise. Never blocks the caller; a saturated queue drops the intent.
func (c *Coordinator) Send(cmd SendCommand) {
	select {
	case c.sends <- cmd:
	default:
		c.log.Warnw("send_queue_full", "name", cmd.Name)
	}
}

// Run drives the connect/serve/retry loop until ctx is canceled. There is no
// terminal state: every closure or dial failure schedules another attempt.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		c.emit(ctx, StateEvent{State: irconsole.ConnConnecting})
		conn, resp, err := c.dialer.DialContext(ctx, c.wsURL, nil)
		if err != nil {
			if resp != nil {
				_ = resp.Body.Close()
			}
			if ctx.Err() != nil {
				return
			}
			c.log.Infow("ws_dial_failed", "url", c.wsURL, "err", err)
			c.emit(ctx, StateEvent{State: irconsole.ConnClosed})
			if !c.waitRetry(ctx, c.dialRetry) {
				return
			}
			continue
		}

		c.log.Infow("ws_connected", "url", c.wsURL)
		c.emit(ctx, StateEvent{State: irconsole.ConnOpen, Live: true})
		c.serve(ctx, conn)
		if ctx.Err() != nil {
			return
		}
		c.emit(ctx, StateEvent{State: irconsole.ConnClosed})
		if !c.waitRetry(ctx, c.closeRetry) {
			return
		}
	}
}

// serve pumps one established connection: inbound frames are dispatched by
// shape, send intents are written as channel frames. Returns when the
// connection drops or ctx ends.
func (c *Coordinator) serve(ctx context.Context, conn *websocket.Conn) {
	inbound := make(chan []byte, sendBuffer)
	go c.readLoop(conn, inbound)
	defer func() {
		_ = conn.Close()
		for range inbound {
			// let the reader finish
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-inbound:
			if !ok {
				return
			}
			c.dispatch(ctx, raw)
		case cmd := <-c.sends:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			frame := outboundFrame{Cmd: "send", Type: "nec", Data: cmd.Data, Length: cmd.Length, Name: cmd.Name}
			if err := conn.WriteJSON(frame); err != nil {
				// Treat a failed write as a closure; the outcome of this
				// send, like any channel send, was never guaranteed.
				c.log.Infow("ws_write_failed", "name", cmd.Name, "err", err)
				return
			}
		}
	}
}

// readLoop feeds raw text frames into inbound until the connection errors.
func (c *Coordinator) readLoop(conn *websocket.Conn, inbound chan<- []byte) {
	defer close(inbound)
	conn.SetReadLimit(maxMsgSize)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.log.Infow("ws_read_closed", "err", err)
			return
		}
		inbound <- raw
	}
}

// waitRetry sleeps out a reconnect delay while still servicing send intents
// through the one-shot fallback. Returns false when ctx ended.
func (c *Coordinator) waitRetry(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			return true
		case cmd := <-c.sends:
			go c.sendFallback(ctx, cmd)
		}
	}
}

// sendFallback performs the one-shot request path and emits a
// self-correlated outcome for the issuing control.
func (c *Coordinator) sendFallback(ctx context.Context, cmd SendCommand) {
	if err := c.client.SendCode(ctx, cmd.Data, cmd.Length); err != nil {
		c.log.Infow("send_fallback_failed", "name", cmd.Name, "err", err)
		c.emit(ctx, SendResultEvent{Index: cmd.Index, Name: cmd.Name, OK: false})
		return
	}
	c.emit(ctx, SendResultEvent{Index: cmd.Index, Name: cmd.Name, OK: true})
}

// outboundFrame is the channel send message.
type outboundFrame struct {
	Cmd    string `json:"cmd"`
	Type   string `json:"type"`
	Data   string `json:"data"`
	Length int    `json:"length"`
	Name   string `json:"name"`
}

// inboundFrame covers both shapes the device pushes: ir events and
// uncorrelated acks.
type inboundFrame struct {
	Event     string  `json:"event"`
	Human     string  `json:"human"`
	Raw       string  `json:"raw"`
	ReplayURL string  `json:"replayUrl"`
	Protocol  string  `json:"protocol"`
	Value     string  `json:"value"`
	Bits      flexInt `json:"bits"`

	OK   *bool  `json:"ok"`
	Msg  string `json:"msg"`
	Name string `json:"name"`
}

// flexInt tolerates numeric, quoted-numeric, null and junk bit counts;
// anything non-numeric decodes as 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// dispatch routes one inbound frame by shape. Malformed payloads are
// discarded without surfacing: they must never break the channel.
func (c *Coordinator) dispatch(ctx context.Context, raw []byte) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.log.Debugw("ws_frame_discarded", "err", err)
		return
	}
	switch {
	case f.Event == "ir":
		c.emit(ctx, SignalEvent{Signal: irconsole.ObservedSignal{
			Protocol:  f.Protocol,
			Value:     f.Value,
			Bits:      int(f.Bits),
			Human:     f.Human,
			Raw:       f.Raw,
			ReplayURL: f.ReplayURL,
		}})
	case f.OK != nil && *f.OK && (f.Msg != "" || f.Name != ""):
		text := f.Name
		if text == "" {
			text = f.Msg
		}
		c.emit(ctx, AckEvent{Text: text})
	default:
		// Unrecognized shape, including ok:false replies: a no-op.
	}
}

func (c *Coordinator) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
