package entitlements

import "time"

// Entitlement is a time-bounded grant of recognition access tied to a user
// and one completed payment. Records are created exactly once per checkout
// session and never updated.
type Entitlement struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	CheckoutSessionID string    `json:"checkoutSessionId"`
	CustomerID        string    `json:"customerId"`
	ExpiresAt         time.Time `json:"expiresAt"`
	CreatedAt         time.Time `json:"createdAt"`
}
