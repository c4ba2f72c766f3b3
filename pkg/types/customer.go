package types

// CustomerInfo identifies the purchaser on an order.
type CustomerInfo struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}
