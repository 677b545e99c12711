package feed

import (
	"strconv"
	"sync"
	"time"

	"casino-livesync/internal/protocol"
)

// Update is one applied event as seen by feed subscribers.
type Update struct {
	EventID  string         `json:"event_id"`
	Event    protocol.Kind  `json:"event"`
	GameID   string         `json:"game_id,omitempty"`
	ServerTS int64          `json:"server_ts"`
	Data     protocol.Event `json:"data"`
}

// Buffer keeps the last max updates for replay and fans new ones out to
// subscribers without blocking the publisher.
type Buffer struct {
	mu       sync.Mutex
	nextID   int64
	max      int
	updates  []Update
	watchers map[chan Update]struct{}
	closed   bool
}

func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 500
	}
	return &Buffer{
		max:      max,
		watchers: map[chan Update]struct{}{},
	}
}

// Publish satisfies state.Publisher.
func (b *Buffer) Publish(ev protocol.Event) {
	b.Append(ev)
}

func (b *Buffer) Append(ev protocol.Event) Update {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return Update{}
	}
	b.nextID++
	u := Update{
		EventID:  strconv.FormatInt(b.nextID, 10),
		Event:    ev.Kind(),
		GameID:   protocol.GameIDOf(ev),
		ServerTS: time.Now().UnixMilli(),
		Data:     ev,
	}
	b.updates = append(b.updates, u)
	if len(b.updates) > b.max {
		b.updates = b.updates[len(b.updates)-b.max:]
	}
	metricUpdatesPublished.Add(1)
	for ch := range b.watchers {
		select {
		case ch <- u:
		default:
			metricUpdatesDropped.Add(1)
		}
	}
	return u
}

// ReplayAfter returns buffered updates newer than lastEventID, or all of
// them when the id is empty or unparsable.
func (b *Buffer) ReplayAfter(lastEventID string) []Update {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.updates) == 0 {
		return nil
	}
	last, err := strconv.ParseInt(lastEventID, 10, 64)
	if lastEventID == "" || err != nil {
		out := make([]Update, len(b.updates))
		copy(out, b.updates)
		return out
	}
	out := make([]Update, 0, len(b.updates))
	for _, u := range b.updates {
		id, _ := strconv.ParseInt(u.EventID, 10, 64)
		if id > last {
			out = append(out, u)
		}
	}
	return out
}

func (b *Buffer) Subscribe() chan Update {
	ch := make(chan Update, 32)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.watchers[ch] = struct{}{}
	metricSubscribersActive.Add(1)
	return ch
}

func (b *Buffer) Unsubscribe(ch chan Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.watchers[ch]; ok {
		delete(b.watchers, ch)
		close(ch)
		metricSubscribersActive.Add(-1)
	}
}

func (b *Buffer) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watchers)
}

func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.watchers {
		close(ch)
		delete(b.watchers, ch)
		metricSubscribersActive.Add(-1)
	}
}
