package domain

import "time"

// Bill is the immutable settlement record produced when a rental
// completes. In the direct-deduction model the bill is paid at
// creation by debiting the user's balance; there is no pending-invoice
// state.
type Bill struct {
	ID          string    `json:"id"`
	RentalID    string    `json:"rental_id"`
	UserID      string    `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	IssuedAt    time.Time `json:"issued_at"`
	Paid        bool      `json:"paid"`
}
