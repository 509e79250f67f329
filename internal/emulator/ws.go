package emulator

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"irconsole"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// pushFrame is the JSON shape of a capture pushed over the channel.
type pushFrame struct {
	Event     string `json:"event"`
	Seq       int    `json:"seq,omitempty"`
	Human     string `json:"human"`
	Raw       string `json:"raw"`
	ReplayURL string `json:"replayUrl"`
	Protocol  string `json:"protocol,omitempty"`
	Value     string `json:"value,omitempty"`
	Bits      int    `json:"bits,omitempty"`
}

func captureFrame(sig irconsole.ObservedSignal, seq int) pushFrame {
	return pushFrame{
		Event:     "ir",
		Seq:       seq,
		Human:     sig.Human,
		Raw:       sig.Raw,
		ReplayURL: sig.ReplayURL,
		Protocol:  sig.Protocol,
		Value:     sig.Value,
		Bits:      sig.Bits,
	}
}

// channelCommand is an inbound frame from a console client.
type channelCommand struct {
	Cmd    string `json:"cmd"`
	Type   string `json:"type"`
	Data   string `json:"data"`
	Length int    `json:"length"`
	Name   string `json:"name,omitempty"`
}

type channelAck struct {
	OK    bool   `json:"ok"`
	Msg   string `json:"msg,omitempty"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error,omitempty"`
}

// @Summary      Open the push channel
// @Description  Upgrades to a websocket; the device pushes captures and accepts send commands.
// @Tags         channel
// @Success      101  {string}  string  "Switching Protocols"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	h.hub.Add(conn)
	h.log.Infow("ws_client_connected", "remote", conn.RemoteAddr().String())

	defer func() {
		h.hub.Remove(conn)
		_ = conn.Close()
		h.log.Infow("ws_client_disconnected", "remote", conn.RemoteAddr().String())
	}()

	// New clients immediately receive the most recent capture, if any.
	if sig, seq, ok := h.Last(); ok {
		if err := h.hub.Send(conn, captureFrame(sig, seq)); err != nil {
			return
		}
	}

	for {
		var cmd channelCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		if cmd.Cmd != "send" {
			continue
		}
		ack := h.handleChannelSend(cmd)
		if err := h.hub.Send(conn, ack); err != nil {
			return
		}
	}
}

func (h *Handler) handleChannelSend(cmd channelCommand) channelAck {
	if cmd.Type != "nec" || !validSendRequest(cmd.Data, cmd.Length) {
		return channelAck{OK: false, Error: "Invalid hex data or length"}
	}
	h.log.Infow("tx_nec_channel", "data", cmd.Data, "bits", cmd.Length, "name", cmd.Name)
	return channelAck{
		OK:   true,
		Msg:  "Sent NEC 0x" + strings.ToUpper(cmd.Data),
		Name: cmd.Name,
	}
}
