// Package cart owns the authoritative in-memory cart. Every mutation writes
// the whole line collection through the local blob store before returning.
package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/localstore"
)

var ErrProductNotFound = errors.New("product not found")

// ProductSource resolves product references at add time.
type ProductSource interface {
	Find(id int64) (domain.Product, bool)
}

// Notifier delivers user-facing cart messages.
type Notifier interface {
	Push(message string, typ domain.NotificationType) domain.Notification
}

// Engine holds the cart lines. Invariant: every present line has
// quantity >= 1; a line reaching zero is removed, never kept at zero.
type Engine struct {
	mu       sync.Mutex
	items    []domain.CartItem
	viewOpen bool

	blobs    localstore.Blobs
	products ProductSource
	notifier Notifier
	node     *snowflake.Node
	now      func() time.Time
}

// NewEngine seeds the cart from the persisted blob when present.
func NewEngine(blobs localstore.Blobs, products ProductSource,
	notifier Notifier, node *snowflake.Node) *Engine {
	e := &Engine{
		blobs:    blobs,
		products: products,
		notifier: notifier,
		node:     node,
		now:      time.Now,
	}
	var saved []domain.CartItem
	if _, err := blobs.Load(localstore.KeyCart, &saved); err != nil {
		zap.S().Warnf("cart: load failed: %s", err)
	}
	e.items = saved
	return e
}

// AddItem puts one unit of the product into the cart, incrementing an
// existing line or creating a new one with name and price snapshotted from
// the catalog. Opens the cart view as a side effect.
func (e *Engine) AddItem(productID int64) (domain.CartItem, error) {
	product, found := e.products.Find(productID)
	if !found {
		e.notifier.Push("Błąd produktu.", domain.NotifyError)
		return domain.CartItem{}, errors.Wrapf(ErrProductNotFound, "product %d", productID)
	}

	e.mu.Lock()
	var line domain.CartItem
	matched := false
	for i := range e.items {
		if e.items[i].ProductID == productID {
			e.items[i].Quantity++
			line = e.items[i]
			matched = true
			break
		}
	}
	if !matched {
		line = domain.CartItem{
			ID:        e.node.Generate().String(),
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  1,
			Timestamp: e.now(),
		}
		e.items = append(e.items, line)
	}
	e.viewOpen = true
	e.persistLocked()
	e.mu.Unlock()

	e.notifier.Push(fmt.Sprintf("Dodano %s!", product.Name), domain.NotifySuccess)
	return line, nil
}

// AdjustQuantity applies a delta to a line. Unknown ids are a no-op. The new
// quantity is clamped at zero and a zero line is removed.
func (e *Engine) AdjustQuantity(itemID string, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.items {
		if e.items[i].ID != itemID {
			continue
		}
		q := e.items[i].Quantity + delta
		if q <= 0 {
			e.items = append(e.items[:i], e.items[i+1:]...)
		} else {
			e.items[i].Quantity = q
		}
		e.persistLocked()
		return
	}
}

// RemoveItem drops a line unconditionally. Idempotent.
func (e *Engine) RemoveItem(itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.items {
		if e.items[i].ID == itemID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			e.persistLocked()
			return
		}
	}
}

// Clear empties the cart and deletes the persisted blob.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = nil
	if err := e.blobs.Delete(localstore.KeyCart); err != nil {
		zap.S().Warnf("cart: clear persisted blob failed: %s", err)
	}
}

// Items returns a copy of the current lines in insertion order.
func (e *Engine) Items() []domain.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartItem, len(e.items))
	copy(out, e.items)
	return out
}

// Total recomputes the cart value, never cached.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total float64
	for _, item := range e.items {
		total += item.LineTotal()
	}
	return total
}

// ItemCount sums quantities across lines (the badge count), distinct from
// the number of lines.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// ViewOpen reports whether the cart view is showing.
func (e *Engine) ViewOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewOpen
}

func (e *Engine) OpenView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewOpen = true
}

func (e *Engine) CloseView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewOpen = false
}

// persistLocked writes the whole cart through before the mutation returns.
func (e *Engine) persistLocked() {
	if err := e.blobs.Save(localstore.KeyCart, e.items); err != nil {
		zap.S().Warnf("cart: persist failed: %s", err)
	}
}
