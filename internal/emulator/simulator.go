package emulator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"irconsole"

	"irconsole/internal/logger"
)

// Simulator periodically emits captures as if the receiver had decoded a
// signal. Roughly half the time it replays one of the stored codes, which
// makes the console's match heuristics easy to exercise; otherwise it
// invents a fresh NEC value.
type Simulator struct {
	handler *Handler
	hub     *Hub
	store   Store
	log     *logger.Logger
	rng     *rand.Rand
}

func NewSimulator(handler *Handler, hub *Hub, store Store, log *logger.Logger) *Simulator {
	return &Simulator{
		handler: handler,
		hub:     hub,
		store:   store,
		log:     log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run emits a capture every tick until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	s.log.Infow("simulator_started", "tick", tick.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("simulator_stopped")
			return
		case <-ticker.C:
			s.emit(ctx)
		}
	}
}

func (s *Simulator) emit(ctx context.Context) {
	sig := s.nextCapture(ctx)
	s.handler.SetLast(sig)
	_, seq, _ := s.handler.Last()
	s.hub.Broadcast(captureFrame(sig, seq))
	s.log.Debugw("capture_emitted", "protocol", sig.Protocol, "value", sig.Value, "clients", s.hub.Count())
}

func (s *Simulator) nextCapture(ctx context.Context) irconsole.ObservedSignal {
	if s.rng.Intn(2) == 0 {
		if saved, err := s.store.List(ctx); err == nil && len(saved) > 0 {
			return s.replayCapture(saved[s.rng.Intn(len(saved))])
		}
	}
	return s.syntheticCapture()
}

func (s *Simulator) replayCapture(c irconsole.SavedCommand) irconsole.ObservedSignal {
	return buildCapture(c.Protocol, c.Value, c.DisplayBits(), s.rng)
}

func (s *Simulator) syntheticCapture() irconsole.ObservedSignal {
	value := fmt.Sprintf("%08X", s.rng.Uint32())
	return buildCapture(irconsole.ProtocolNEC, value, irconsole.DefaultBits, s.rng)
}

func buildCapture(protocol, value string, bits int, rng *rand.Rand) irconsole.ObservedSignal {
	protocol = strings.ToUpper(protocol)
	value = strings.ToUpper(value)

	sig := irconsole.ObservedSignal{
		Protocol: protocol,
		Value:    value,
		Bits:     bits,
		Human:    fmt.Sprintf("%s 0x%s (%d bits)", protocol, value, bits),
		Raw:      syntheticRaw(bits, rng),
	}
	if protocol == irconsole.ProtocolNEC {
		sig.ReplayURL = fmt.Sprintf("/send?type=nec&data=%s&length=%d", value, bits)
	}
	return sig
}

// syntheticRaw fakes a mark/space timing dump of the kind a receiver
// produces, with jitter so repeated captures are not byte-identical.
func syntheticRaw(bits int, rng *rand.Rand) string {
	n := bits*2 + 2
	parts := make([]string, 0, n)
	parts = append(parts, fmt.Sprintf("%d", 9000+rng.Intn(120)), fmt.Sprintf("%d", 4500+rng.Intn(80)))
	for i := 0; i < bits; i++ {
		mark := 560 + rng.Intn(40)
		space := 560 + rng.Intn(40)
		if rng.Intn(2) == 1 {
			space = 1690 + rng.Intn(40)
		}
		parts = append(parts, fmt.Sprintf("%d", mark), fmt.Sprintf("%d", space))
	}
	return strings.Join(parts, ",")
}
