package service_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
	"github.com/obatqu/obatqu-backend/internal/inventory/repository"
	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_Create(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectExec(`INSERT INTO obat (id, nama, jumlah, kadaluarsa, ved) VALUES ($1, $2, $3, $4, $5)`).
		WithArgs(sqlmock.AnyArg(), "Paracetamol", 15, "OKT.27", "D").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO logs (id, type, message, time) VALUES ($1, $2, $3, $4)`).
		WithArgs(sqlmock.AnyArg(), "create", "obat Paracetamol ditambahkan (jumlah 15)", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY time DESC, id DESC LIMIT $1)`).
		WithArgs(repository.LogRetention).
		WillReturnResult(sqlmock.NewResult(0, 0))

	item, err := svc.Create(context.Background(), service.MedicineRequest{
		Name:     "Paracetamol",
		Quantity: 15,
		Expiry:   "OKT.27",
	}, "apoteker")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, analysis.CategoryDesirable, item.VED)

	mockDB.AssertExpectations(t)
}

func TestInventoryService_OnMutation_FiresAfterCreate(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectExec(`INSERT INTO obat (id, nama, jumlah, kadaluarsa, ved) VALUES ($1, $2, $3, $4, $5)`).
		WithArgs(sqlmock.AnyArg(), "Paracetamol", 15, "OKT.27", "D").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO logs (id, type, message, time) VALUES ($1, $2, $3, $4)`).
		WithArgs(sqlmock.AnyArg(), "create", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY time DESC, id DESC LIMIT $1)`).
		WithArgs(repository.LogRetention).
		WillReturnResult(sqlmock.NewResult(0, 0))

	fired := 0
	svc.OnMutation(func() { fired++ })

	_, err := svc.Create(context.Background(), service.MedicineRequest{
		Name:     "Paracetamol",
		Quantity: 15,
		Expiry:   "OKT.27",
	}, "apoteker")
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	mockDB.AssertExpectations(t)
}

func TestInventoryService_OnMutation_SkippedWhenMutationFails(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE id = $1`).
		WithArgs("missing").
		WillReturnRows(stockRows())

	fired := 0
	svc.OnMutation(func() { fired++ })

	require.Error(t, svc.Delete(context.Background(), "missing", "apoteker"))
	assert.Equal(t, 0, fired)

	mockDB.AssertExpectations(t)
}

func TestInventoryService_Delete_LogsName(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE id = $1`).
		WithArgs("id-1").
		WillReturnRows(stockRows().AddRow("id-1", "Ibuprofen", 4, "", "E"))
	mockDB.ExpectExec(`DELETE FROM obat WHERE id = $1`).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO logs (id, type, message, time) VALUES ($1, $2, $3, $4)`).
		WithArgs(sqlmock.AnyArg(), "delete", "obat Ibuprofen dihapus", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY time DESC, id DESC LIMIT $1)`).
		WithArgs(repository.LogRetention).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Delete(context.Background(), "id-1", "apoteker"))
	mockDB.AssertExpectations(t)
}

func TestInventoryService_Delete_NotFound(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE id = $1`).
		WithArgs("missing").
		WillReturnRows(stockRows())

	err := svc.Delete(context.Background(), "missing", "apoteker")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	mockDB.AssertExpectations(t)
}

func TestInventoryService_Analysis(t *testing.T) {
	svc, mockDB := newInventoryService(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat ORDER BY nama`).
		WillReturnRows(stockRows().
			AddRow("1", "Insulin", 1, inDays(365), "V").
			AddRow("2", "Vitamin C", 50, inDays(365), "D"))

	verdicts, err := svc.Analysis(context.Background())
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.Equal(t, analysis.ActionUrgentOrder, verdicts[0].Action)
	assert.Equal(t, analysis.ActionRoutine, verdicts[1].Action)

	mockDB.AssertExpectations(t)
}
