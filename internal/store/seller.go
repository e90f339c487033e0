package store

import (
	"database/sql"
	"fmt"

	"github.com/danprasetia/belanja/internal/model"
)

type SellerStore struct {
	db *sql.DB
}

func NewSellerStore(db *sql.DB) *SellerStore {
	return &SellerStore{db: db}
}

func scanSeller(scanner interface{ Scan(...any) error }) (*model.Seller, error) {
	var sel model.Seller
	err := scanner.Scan(&sel.ID, &sel.Name)
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

func (s *SellerStore) List() ([]model.Seller, error) {
	rows, err := s.db.Query(`SELECT id, name FROM sellers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	var sellers []model.Seller
	for rows.Next() {
		sel, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		sellers = append(sellers, *sel)
	}
	return sellers, rows.Err()
}

func (s *SellerStore) GetByID(id int64) (*model.Seller, error) {
	row := s.db.QueryRow(`SELECT id, name FROM sellers WHERE id = ?`, id)
	sel, err := scanSeller(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return sel, nil
}

func (s *SellerStore) GetByName(name string) (*model.Seller, error) {
	row := s.db.QueryRow(`SELECT id, name FROM sellers WHERE name = ?`, name)
	sel, err := scanSeller(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get seller by name: %w", err)
	}
	return sel, nil
}

func (s *SellerStore) Create(name string) (*model.Seller, error) {
	result, err := s.db.Exec(`INSERT INTO sellers (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert seller: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// GetOrCreate returns the seller with the given name, creating it first if
// it does not exist yet. Free-text seller entry on the task form lands here.
func (s *SellerStore) GetOrCreate(name string) (*model.Seller, error) {
	sel, err := s.GetByName(name)
	if err != nil {
		return nil, err
	}
	if sel != nil {
		return sel, nil
	}
	return s.Create(name)
}

// Delete removes a seller. Snapshot references on tasks are kept on purpose
// and resolve to "ID:<n>" afterwards.
func (s *SellerStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM sellers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete seller: %w", err)
	}
	return nil
}

// LatestSellerForItem returns the seller most recently snapshotted on any
// task referencing the catalog item, or nil if there is none. Used to
// prefill the seller field when an item is picked on the task form.
func (s *SellerStore) LatestSellerForItem(itemID int64) (*model.Seller, error) {
	row := s.db.QueryRow(`
		SELECT s.id, s.name
		FROM task_snapshot_sellers tss
		JOIN tasks t ON t.id = tss.task_id
		JOIN sellers s ON s.id = tss.seller_id
		WHERE t.item_id = ?
		ORDER BY t.created_at DESC, t.id DESC, tss.position DESC
		LIMIT 1`, itemID)
	sel, err := scanSeller(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest seller for item: %w", err)
	}
	return sel, nil
}
