package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/danprasetia/belanja/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// TaskParams carries the mutable fields of a task. Item is stored as an
// owned copy; SellerNames and SnapshotSellers replace the task's lists
// wholesale, in order.
type TaskParams struct {
	Item            model.Item
	Quantity        float64
	Unit            string
	Price           int64
	SellerNames     []string
	SnapshotSellers []int64
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var completed int
	err := scanner.Scan(
		&t.ID, &t.TodoListID, &t.Item.ID, &t.Item.Name, &t.Item.CurrentPrice,
		&t.Item.CurrentUnit, &t.Quantity, &t.Unit, &t.Price, &completed,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	return &t, nil
}

const taskCols = `id, todo_list_id, item_id, item_name, item_price, item_unit, quantity, unit, price, completed, created_at, updated_at`

func (s *TaskStore) Create(listID int64, p TaskParams) (*model.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO tasks (todo_list_id, item_id, item_name, item_price, item_unit, quantity, unit, price, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		listID, p.Item.ID, p.Item.Name, p.Item.CurrentPrice, p.Item.CurrentUnit,
		p.Quantity, p.Unit, p.Price,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := insertSellerRows(tx, id, p.SellerNames, p.SnapshotSellers); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Update(id int64, p TaskParams) (*model.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE tasks SET item_id = ?, item_name = ?, item_price = ?, item_unit = ?,
		 quantity = ?, unit = ?, price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		p.Item.ID, p.Item.Name, p.Item.CurrentPrice, p.Item.CurrentUnit,
		p.Quantity, p.Unit, p.Price, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM task_seller_names WHERE task_id = ?`, id); err != nil {
		return nil, fmt.Errorf("clear seller names: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM task_snapshot_sellers WHERE task_id = ?`, id); err != nil {
		return nil, fmt.Errorf("clear snapshot sellers: %w", err)
	}
	if err := insertSellerRows(tx, id, p.SellerNames, p.SnapshotSellers); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func insertSellerRows(tx *sql.Tx, taskID int64, names []string, snapshots []int64) error {
	for i, name := range names {
		if _, err := tx.Exec(
			`INSERT INTO task_seller_names (task_id, name, position) VALUES (?, ?, ?)`,
			taskID, name, i,
		); err != nil {
			return fmt.Errorf("insert seller name: %w", err)
		}
	}
	for i, sellerID := range snapshots {
		if _, err := tx.Exec(
			`INSERT INTO task_snapshot_sellers (task_id, seller_id, position) VALUES (?, ?, ?)`,
			taskID, sellerID, i,
		); err != nil {
			return fmt.Errorf("insert snapshot seller: %w", err)
		}
	}
	return nil
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if err := s.loadSellers([]*model.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStore) ListByList(listID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE todo_list_id = ? ORDER BY created_at ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadSellers(tasks); err != nil {
		return nil, err
	}

	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = *t
	}
	return out, nil
}

// loadSellers attaches ordered seller names and snapshot ids to the tasks.
func (s *TaskStore) loadSellers(tasks []*model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[int64]*model.Task, len(tasks))
	ids := make([]any, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	nameRows, err := s.db.Query(
		`SELECT task_id, name FROM task_seller_names WHERE task_id IN (`+placeholders+`) ORDER BY task_id, position`,
		ids...,
	)
	if err != nil {
		return fmt.Errorf("load seller names: %w", err)
	}
	defer nameRows.Close()
	for nameRows.Next() {
		var taskID int64
		var name string
		if err := nameRows.Scan(&taskID, &name); err != nil {
			return fmt.Errorf("scan seller name: %w", err)
		}
		byID[taskID].Sellers = append(byID[taskID].Sellers, name)
	}
	if err := nameRows.Err(); err != nil {
		return err
	}

	snapRows, err := s.db.Query(
		`SELECT task_id, seller_id FROM task_snapshot_sellers WHERE task_id IN (`+placeholders+`) ORDER BY task_id, position`,
		ids...,
	)
	if err != nil {
		return fmt.Errorf("load snapshot sellers: %w", err)
	}
	defer snapRows.Close()
	for snapRows.Next() {
		var taskID, sellerID int64
		if err := snapRows.Scan(&taskID, &sellerID); err != nil {
			return fmt.Errorf("scan snapshot seller: %w", err)
		}
		byID[taskID].SnapshotSellers = append(byID[taskID].SnapshotSellers, sellerID)
	}
	return snapRows.Err()
}

func (s *TaskStore) ToggleCompleted(id int64) (*model.Task, error) {
	t, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	completed := 0
	if !t.Completed {
		completed = 1
	}
	_, err = s.db.Exec(
		`UPDATE tasks SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		completed, id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle completed: %w", err)
	}
	return s.GetByID(id)
}

// SetCompleted applies the completed flag to all given task ids and returns
// the number of rows changed. Used by bulk complete-by-seller.
func (s *TaskStore) SetCompleted(ids []int64, completed bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(ids)+1)
	flag := 0
	if completed {
		flag = 1
	}
	args = append(args, flag)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	result, err := s.db.Exec(
		`UPDATE tasks SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("set completed: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
