package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is an order's position in its lifecycle.
//
// Transitions are one-directional: pending → completed or pending →
// cancelled. Both completed and cancelled are terminal; nothing moves an
// order out of them.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a client-supplied status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the s → next transition is legal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// OrderItem is one line of an order. The product name and unit price are
// denormalised at checkout so later catalog edits never rewrite history.
type OrderItem struct {
	ProductID string  `bson:"productId,omitempty" json:"productId,omitempty"`
	Name      string  `bson:"name"                json:"name"`
	Quantity  int     `bson:"quantity"            json:"quantity"`
	Price     float64 `bson:"price"               json:"price"`
}

// Order is a buyer's checkout. Items and total are immutable after
// creation; only the status field ever changes.
//
// QRCode carries the payload rendered as a QR code on the buyer's device.
// In the current design it is simply the order's own identifier — the ID
// acts as the pickup capability. Known weakness: anyone who learns the ID
// can trigger completion. A separate unguessable capability is a pending
// product decision.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user"          json:"user"`
	Items     []OrderItem        `bson:"items"         json:"items"`
	Total     float64            `bson:"total"         json:"total"`
	Status    Status             `bson:"status"        json:"status"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	QRCode    string             `bson:"qrCode,omitempty" json:"qrCode,omitempty"`
}
