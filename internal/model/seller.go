package model

// Seller is a vendor tasks can be attributed to. Flat registry, no hierarchy.
type Seller struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
