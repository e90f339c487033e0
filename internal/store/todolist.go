package store

import (
	"database/sql"
	"fmt"

	"github.com/danprasetia/belanja/internal/model"
)

type TodoListStore struct {
	db *sql.DB
}

func NewTodoListStore(db *sql.DB) *TodoListStore {
	return &TodoListStore{db: db}
}

func scanTodoList(scanner interface{ Scan(...any) error }) (*model.TodoList, error) {
	var l model.TodoList
	err := scanner.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const todoListCols = `id, user_id, name, created_at, updated_at`

func (s *TodoListStore) Create(userID int64, name string) (*model.TodoList, error) {
	result, err := s.db.Exec(
		`INSERT INTO todo_lists (user_id, name) VALUES (?, ?)`,
		userID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TodoListStore) GetByID(id int64) (*model.TodoList, error) {
	row := s.db.QueryRow(`SELECT `+todoListCols+` FROM todo_lists WHERE id = ?`, id)
	l, err := scanTodoList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo list: %w", err)
	}
	return l, nil
}

func (s *TodoListStore) ListByUser(userID int64) ([]model.TodoList, error) {
	rows, err := s.db.Query(
		`SELECT `+todoListCols+` FROM todo_lists WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list todo lists: %w", err)
	}
	defer rows.Close()

	var lists []model.TodoList
	for rows.Next() {
		l, err := scanTodoList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *TodoListStore) Rename(id int64, name string) (*model.TodoList, error) {
	_, err := s.db.Exec(
		`UPDATE todo_lists SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename todo list: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the list. Tasks cascade; there is no soft delete.
func (s *TodoListStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM todo_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo list: %w", err)
	}
	return nil
}
