package service_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
	"github.com/obatqu/obatqu-backend/internal/inventory/repository"
	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/database"
	"github.com/obatqu/obatqu-backend/pkg/errors"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	"github.com/obatqu/obatqu-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryService(t *testing.T) (*service.InventoryService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "development")
	db := database.NewWithDB(mockDB.DB, log)
	svc := service.NewInventoryService(
		db,
		repository.NewMedicineRepository(db),
		repository.NewLogRepository(db),
		nil, // events disabled
		log,
	)
	return svc, mockDB
}

func stockRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nama", "jumlah", "kadaluarsa", "ved"})
}

func TestDispenseFEFO_PicksEarliestExpiry(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE jumlah > 0 ORDER BY nama FOR UPDATE`).
		WillReturnRows(stockRows().
			AddRow("late", "Paracetamol", 10, "2099-01-01", "E").
			AddRow("early", "Amoxicillin", 3, "2026-01-01", "E"))
	// Earliest expiry dispenses: 3 -> 2, which reclassifies E -> V.
	mockDB.ExpectExec(`UPDATE obat SET jumlah = $2, ved = $3 WHERE id = $1`).
		WithArgs("early", 2, "V").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO logs (id, type, message, time) VALUES ($1, $2, $3, $4)`).
		WithArgs(sqlmock.AnyArg(), "fefo", "FEFO: Amoxicillin dikurangi 1 (sisa 2)", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY time DESC, id DESC LIMIT $1)`).
		WithArgs(repository.LogRetention).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectCommit()

	result, err := svc.DispenseFEFO(context.Background(), "apoteker")
	require.NoError(t, err)
	assert.Equal(t, "early", result.ItemID)
	assert.Equal(t, "Amoxicillin", result.Name)
	assert.Equal(t, 2, result.Remaining)
	assert.Equal(t, analysis.CategoryVital, result.VED)

	mockDB.AssertExpectations(t)
}

func TestDispenseFEFO_OutOfStock(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE jumlah > 0 ORDER BY nama FOR UPDATE`).
		WillReturnRows(stockRows())
	mockDB.ExpectRollback()

	_, err := svc.DispenseFEFO(context.Background(), "apoteker")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOutOfStock))

	appErr, ok := errors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "OUT_OF_STOCK", appErr.Code)

	mockDB.AssertExpectations(t)
}

func TestDispenseFEFO_LastUnitGoesToZero(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE jumlah > 0 ORDER BY nama FOR UPDATE`).
		WillReturnRows(stockRows().
			AddRow("only", "Insulin", 1, "OKT.27", "V"))
	// The record is retained at zero, still classified V.
	mockDB.ExpectExec(`UPDATE obat SET jumlah = $2, ved = $3 WHERE id = $1`).
		WithArgs("only", 0, "V").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO logs (id, type, message, time) VALUES ($1, $2, $3, $4)`).
		WithArgs(sqlmock.AnyArg(), "fefo", "FEFO: Insulin dikurangi 1 (sisa 0)", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY time DESC, id DESC LIMIT $1)`).
		WithArgs(repository.LogRetention).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectCommit()

	result, err := svc.DispenseFEFO(context.Background(), "apoteker")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, analysis.CategoryVital, result.VED)

	mockDB.AssertExpectations(t)
}

func TestFEFOOrder_ReadOnly(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat ORDER BY nama`).
		WillReturnRows(stockRows().
			AddRow("a", "A", 0, "2025-01-01", "V").
			AddRow("b", "B", 5, "2099-01-01", "E").
			AddRow("c", "C", 5, "2026-01-01", "E"))

	order, err := svc.FEFOOrder(context.Background())
	require.NoError(t, err)
	require.Len(t, order, 2, "zero-quantity stock is not dispensable")
	assert.Equal(t, "c", order[0].ItemID)
	assert.Equal(t, "b", order[1].ItemID)

	mockDB.AssertExpectations(t)
}
