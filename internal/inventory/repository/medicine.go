package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
	"github.com/obatqu/obatqu-backend/pkg/database"
	"github.com/obatqu/obatqu-backend/pkg/errors"
)

// Medicine is one stock record. Column and JSON names follow the
// existing obat table, which is the interop contract with the dashboard
// and earlier deployments.
type Medicine struct {
	ID       string               `db:"id" json:"id"`
	Name     string               `db:"nama" json:"nama"`
	Quantity int                  `db:"jumlah" json:"jumlah"`
	Expiry   string               `db:"kadaluarsa" json:"kadaluarsa"`
	VED      analysis.VEDCategory `db:"ved" json:"ved"`
}

// AnalysisItem converts the record to the analyzer input view.
func (m *Medicine) AnalysisItem() analysis.Item {
	return analysis.Item{
		ID:       m.ID,
		Name:     m.Name,
		Quantity: m.Quantity,
		Expiry:   m.Expiry,
	}
}

// MedicineRepository handles obat persistence. The VED category is a
// cached projection of the quantity: every write path in this type
// recomputes it so the two columns can never drift apart.
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

const medicineColumns = `id, nama, jumlah, kadaluarsa, ved`

// List lists all stock records ordered by name. Zero-quantity records
// are retained and included.
func (r *MedicineRepository) List(ctx context.Context) ([]*Medicine, error) {
	var items []*Medicine
	query := `SELECT ` + medicineColumns + ` FROM obat ORDER BY nama`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID gets a stock record by ID
func (r *MedicineRepository) GetByID(ctx context.Context, id string) (*Medicine, error) {
	var item Medicine
	query := `SELECT ` + medicineColumns + ` FROM obat WHERE id = $1`
	err := r.db.GetContext(ctx, &item, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("obat")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new stock record with a freshly derived VED category.
func (r *MedicineRepository) Create(ctx context.Context, item *Medicine) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.VED = analysis.ClassifyVED(item.Quantity)

	query := `INSERT INTO obat (id, nama, jumlah, kadaluarsa, ved) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Quantity, item.Expiry, item.VED)
	return err
}

// Update updates a stock record, recomputing the VED category from the
// new quantity in the same write.
func (r *MedicineRepository) Update(ctx context.Context, item *Medicine) error {
	item.VED = analysis.ClassifyVED(item.Quantity)

	query := `UPDATE obat SET nama = $2, jumlah = $3, kadaluarsa = $4, ved = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Quantity, item.Expiry, item.VED)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("obat")
	}
	return nil
}

// Delete removes a stock record
func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM obat WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("obat")
	}
	return nil
}

// SelectDispensableForUpdate loads all records with positive quantity
// inside the given transaction, locking them so concurrent dispense
// requests cannot double-decrement the same unit.
func (r *MedicineRepository) SelectDispensableForUpdate(ctx context.Context, tx *sqlx.Tx) ([]*Medicine, error) {
	var items []*Medicine
	query := `SELECT ` + medicineColumns + ` FROM obat WHERE jumlah > 0 ORDER BY nama FOR UPDATE`
	if err := tx.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

// SetQuantityTx writes a new quantity and its derived VED category in a
// single statement within the transaction. Quantities are floored at
// zero; the record is retained when it reaches zero.
func (r *MedicineRepository) SetQuantityTx(ctx context.Context, tx *sqlx.Tx, id string, quantity int) (analysis.VEDCategory, error) {
	if quantity < 0 {
		quantity = 0
	}
	ved := analysis.ClassifyVED(quantity)

	result, err := tx.ExecContext(ctx, `UPDATE obat SET jumlah = $2, ved = $3 WHERE id = $1`, id, quantity, ved)
	if err != nil {
		return "", err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return "", errors.NotFound("obat")
	}
	return ved, nil
}
