// AngelaMos | 2026
// entity.go

package order

import (
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// UserID is nullable: the foreign key sets it NULL when the account is
// deleted, and the order itself survives as sales history.
type Order struct {
	ID        string      `db:"id"         json:"id"`
	UserID    *string     `db:"user_id"    json:"userId"`
	Status    string      `db:"status"     json:"status"`
	Total     float64     `db:"total"      json:"total"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
	Items     []OrderItem `db:"-"          json:"items"`
}

// OrderItem snapshots title and unit price at purchase time, so later
// catalog edits do not rewrite order history. BookID goes NULL when
// the book is removed from the catalog; the snapshot fields remain.
type OrderItem struct {
	ID       string  `db:"id"       json:"id"`
	OrderID  string  `db:"order_id" json:"-"`
	BookID   *string `db:"book_id"  json:"bookId"`
	Title    string  `db:"title"    json:"title"`
	Price    float64 `db:"price"    json:"price"`
	Quantity int     `db:"quantity" json:"quantity"`
}

// Terminal statuses cannot transition further.
func (o *Order) Terminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}
