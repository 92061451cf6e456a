// Package notify keeps the ephemeral user-facing notification feed.
package notify

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

// DisplayDuration is how long a notification stays visible before it
// self-destructs.
const DisplayDuration = 4 * time.Second

const topicPush = "notify.push"

// Center owns the notification list. Insertion order is display order,
// oldest first. Every push fans out to subscribers over the bus.
type Center struct {
	mu     sync.Mutex
	items  []domain.Notification
	timers map[string]*time.Timer
	ttl    time.Duration
	node   *snowflake.Node
	bus    EventBus.Bus
}

func NewCenter(node *snowflake.Node, ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DisplayDuration
	}
	return &Center{
		timers: make(map[string]*time.Timer),
		ttl:    ttl,
		node:   node,
		bus:    EventBus.New(),
	}
}

// Push appends a notification and schedules its expiry.
func (c *Center) Push(message string, typ domain.NotificationType) domain.Notification {
	n := domain.Notification{
		ID:      c.node.Generate().String(),
		Message: message,
		Type:    typ,
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	c.mu.Unlock()

	c.bus.Publish(topicPush, n)
	return n
}

// Dismiss removes a notification. Safe to call for unknown or already
// expired ids.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// List returns the visible notifications, oldest first.
func (c *Center) List() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Subscribe registers fn for every future push, returning an unsubscribe
// func.
func (c *Center) Subscribe(fn func(domain.Notification)) func() {
	_ = c.bus.Subscribe(topicPush, fn)
	return func() { _ = c.bus.Unsubscribe(topicPush, fn) }
}

// Stop cancels all pending expiry timers.
func (c *Center) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
