package model

// Item is a purchasable product in the catalog. An ID of 0 on a task's item
// means the name was user-typed free text that has not been catalogued yet.
type Item struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CurrentPrice int64  `json:"current_price"`
	CurrentUnit  string `json:"current_unit"`
}
