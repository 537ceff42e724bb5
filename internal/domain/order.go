package domain

import "time"

// EventKind enumerates the order lifecycle events recorded against an order.
type EventKind string

const (
	EventReturn          EventKind = "RETURN"
	EventCollect         EventKind = "COLLECT"
	EventInstalmentAbort EventKind = "INSTALMENT_CANCEL"
	EventBuyback         EventKind = "BUYBACK"
)

// EventKinds lists every accepted event kind.
var EventKinds = []EventKind{EventReturn, EventCollect, EventInstalmentAbort, EventBuyback}

// Valid reports whether k is one of the accepted event kinds.
func (k EventKind) Valid() bool {
	for _, kind := range EventKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Order represents a retail order keyed by its human-assigned code.
// Orders are write-once: created explicitly, or implicitly the first time a
// payment or event references an unknown code.
type Order struct {
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Payment is an append-only payment record against an order code. The
// referenced order is not required to pre-exist.
type Payment struct {
	ID        int64     `db:"id" json:"id"`
	OrderCode string    `db:"order_code" json:"order_code"`
	Amount    float64   `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Event is an append-only lifecycle event against an order code.
type Event struct {
	ID        int64     `db:"id" json:"id"`
	OrderCode string    `db:"order_code" json:"order_code"`
	Kind      EventKind `db:"kind" json:"kind"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
