package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/soar/padbridge/internal/gamepad"
	"go.uber.org/zap"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster listens for normalizer snapshots and broadcasts them to the
// hub as deltas, with a periodic full sync.
type Broadcaster struct {
	hub      *Hub
	changes  <-chan gamepad.State
	interval time.Duration
	log      *zap.Logger

	mu        sync.Mutex
	lastState gamepad.State
	seq       int64
}

// NewBroadcaster creates a broadcaster seeded with initial, which new
// clients receive until the first change arrives.
func NewBroadcaster(h *Hub, changes <-chan gamepad.State, initial gamepad.State, log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		hub:       h,
		changes:   changes,
		interval:  fullSyncInterval,
		log:       log,
		lastState: initial,
	}
}

// Run starts the broadcaster loop until ctx is cancelled or changes closes.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	var deltaCount int

	for {
		select {
		case <-ctx.Done():
			return

		case state, ok := <-b.changes:
			if !ok {
				return
			}

			b.mu.Lock()
			delta := gamepad.ComputeDelta(b.lastState, state)
			if delta.IsEmpty() {
				b.mu.Unlock()
				continue
			}
			b.lastState = state
			b.seq++
			deltaCount++

			var msg *WSMessage
			if deltaCount >= deltaCountSync {
				msg = NewFullMessage(b.seq, &state)
				deltaCount = 0
			} else {
				msg = NewDeltaMessage(b.seq, delta)
			}
			b.mu.Unlock()
			b.broadcast(msg)

		case <-ticker.C:
			b.mu.Lock()
			b.seq++
			state := b.lastState
			msg := NewFullMessage(b.seq, &state)
			b.mu.Unlock()
			b.broadcast(msg)
		}
	}
}

// State returns the last broadcast state.
func (b *Broadcaster) State() gamepad.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastState
}

// SendInitialState sends the current full state and the client's id to a
// newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	welcome := NewEventMessage(EventWelcome, nil)
	welcome.ClientID = c.ID()
	c.Send(welcome)

	b.mu.Lock()
	b.seq++
	state := b.lastState
	msg := NewFullMessage(b.seq, &state)
	b.mu.Unlock()
	c.Send(msg)
}

func (b *Broadcaster) broadcast(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("Error marshaling message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	b.hub.Broadcast(data)
}
