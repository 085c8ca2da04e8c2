package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"skirmish/domain"
)

// TopicSession はセッションイベント用のトピックです。
const TopicSession = "session"

const subscriberBuffer = 16

// Bus はトピック単位のpublish/subscribeを提供します。
// Publishはfire-and-forgetで、購読者のチャネルが満杯の場合は破棄します。
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan domain.Event
}

func New() *Bus {
	return &Bus{
		subs: make(map[string][]chan domain.Event),
	}
}

// Subscribe はトピックを購読するチャネルを返します。
func (b *Bus) Subscribe(topic string) <-chan domain.Event {
	ch := make(chan domain.Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], ch)
	return ch
}

// Unsubscribe は購読を解除しチャネルをクローズします。
func (b *Bus) Unsubscribe(topic string, ch <-chan domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, sub := range subs {
		if sub == ch {
			b.subs[topic] = append(subs[:i], subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Publish は登録済みの全購読者にイベントを配送します。ブロックしません。
func (b *Bus) Publish(ctx context.Context, topic string, ev domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs[topic] {
		select {
		case sub <- ev:
		default:
			slog.WarnContext(ctx, "eventbus: subscriber full, event dropped", "topic", topic)
		}
	}
}
