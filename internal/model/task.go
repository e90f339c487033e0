package model

import "time"

// Task is a single shopping line item on a todo list.
//
// Item is an owned copy taken when the task was created or edited; later
// catalog edits do not retroactively change it. SnapshotSellers is the
// ordered history of seller id assignments — the last entry is the
// authoritative current seller. Sellers holds legacy display-name strings
// from records predating snapshots.
type Task struct {
	ID              int64     `json:"id"`
	TodoListID      int64     `json:"todo_list_id"`
	Item            Item      `json:"item"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	Price           int64     `json:"price"`
	Completed       bool      `json:"completed"`
	Sellers         []string  `json:"sellers"`
	SnapshotSellers []int64   `json:"snapshot_sellers"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TodoList struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Tasks     []Task    `json:"tasks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
