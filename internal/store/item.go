package store

import (
	"database/sql"
	"fmt"

	"github.com/danprasetia/belanja/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanCatalogItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var it model.Item
	err := scanner.Scan(&it.ID, &it.Name, &it.CurrentPrice, &it.CurrentUnit)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

const itemCols = `id, name, current_price, current_unit`

func (s *ItemStore) List() ([]model.Item, error) {
	rows, err := s.db.Query(`SELECT ` + itemCols + ` FROM items ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *ItemStore) GetByID(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	it, err := scanCatalogItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (s *ItemStore) GetByName(name string) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE name = ?`, name)
	it, err := scanCatalogItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by name: %w", err)
	}
	return it, nil
}

func (s *ItemStore) Create(name string, currentPrice int64, currentUnit string) (*model.Item, error) {
	result, err := s.db.Exec(
		`INSERT INTO items (name, current_price, current_unit) VALUES (?, ?, ?)`,
		name, currentPrice, currentUnit,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// SetCurrent updates the catalog item's latest known price and unit.
// Existing tasks keep their owned copies.
func (s *ItemStore) SetCurrent(id int64, currentPrice int64, currentUnit string) (*model.Item, error) {
	_, err := s.db.Exec(
		`UPDATE items SET current_price = ?, current_unit = ? WHERE id = ?`,
		currentPrice, currentUnit, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetByID(id)
}
