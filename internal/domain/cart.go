package domain

import "time"

// CartItem is one cart line. ProductID is a weak reference: the line keeps
// its snapshotted name and price even if the product is later deleted.
type CartItem struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"` // snapshotted at add time
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// LineTotal returns price x quantity for this line.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
