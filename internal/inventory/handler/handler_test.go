package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/obatqu/obatqu-backend/internal/inventory/handler"
	"github.com/obatqu/obatqu-backend/internal/inventory/repository"
	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/database"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	"github.com/obatqu/obatqu-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "development")
	db := database.NewWithDB(mockDB.DB, log)

	svc := service.NewInventoryService(
		db,
		repository.NewMedicineRepository(db),
		repository.NewLogRepository(db),
		nil,
		log,
	)

	medicines := handler.NewMedicineHandler(svc)
	dispense := handler.NewDispenseHandler(svc)
	analysis := handler.NewAnalysisHandler(svc)
	logs := handler.NewLogHandler(svc)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/obat", func(r chi.Router) {
			r.Get("/", medicines.List)
			r.Post("/", medicines.Create)
			r.Get("/{id}", medicines.Get)
			r.Put("/{id}", medicines.Update)
			r.Delete("/{id}", medicines.Delete)
		})
		r.Post("/keluar", dispense.Dispense)
		r.Get("/fefo", dispense.Order)
		r.Get("/analysis", analysis.Analysis)
		r.Get("/notifications", analysis.Notifications)
		r.Get("/logs", logs.List)
	})
	return r, mockDB
}

func doJSON(t *testing.T, r chi.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, httputil.Response) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func obatRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nama", "jumlah", "kadaluarsa", "ved"})
}

func TestListMedicines(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat ORDER BY nama`).
		WillReturnRows(obatRows().
			AddRow("id-1", "Amoxicillin", 2, "OKT.27", "V"))

	rec, resp := doJSON(t, r, http.MethodGet, "/api/obat/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Amoxicillin", first["nama"])
	assert.Equal(t, "V", first["ved"])

	mockDB.AssertExpectations(t)
}

func TestCreateMedicine(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	mockDB.ExpectExec(`INSERT INTO obat (id, nama, jumlah, kadaluarsa, ved) VALUES ($1, $2, $3, $4, $5)`).
		WithArgs(sqlmock.AnyArg(), "Paracetamol", 15, "2027-06-01", "D").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`INSERT INTO logs (id, type, message, time) VALUES ($1, $2, $3, $4)`).
		WithArgs(sqlmock.AnyArg(), "create", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec(`DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY time DESC, id DESC LIMIT $1)`).
		WithArgs(repository.LogRetention).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec, resp := doJSON(t, r, http.MethodPost, "/api/obat/", map[string]interface{}{
		"nama":       "Paracetamol",
		"jumlah":     15,
		"kadaluarsa": "2027-06-01",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	mockDB.AssertExpectations(t)
}

func TestCreateMedicine_MissingName(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	rec, resp := doJSON(t, r, http.MethodPost, "/api/obat/", map[string]interface{}{
		"jumlah": 5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	mockDB.AssertExpectations(t)
}

func TestCreateMedicine_MalformedExpiry(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	rec, resp := doJSON(t, r, http.MethodPost, "/api/obat/", map[string]interface{}{
		"nama":       "Paracetamol",
		"jumlah":     5,
		"kadaluarsa": "besok pagi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "Expiry")

	mockDB.AssertExpectations(t)
}

func TestCreateMedicine_UnknownFieldRejected(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	rec, resp := doJSON(t, r, http.MethodPost, "/api/obat/", map[string]interface{}{
		"nama":   "Paracetamol",
		"jumlah": 5,
		"harga":  10000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)

	mockDB.AssertExpectations(t)
}

func TestDeleteMedicine_NotFound(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE id = $1`).
		WithArgs("missing").
		WillReturnRows(obatRows())

	rec, resp := doJSON(t, r, http.MethodDelete, "/api/obat/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	mockDB.AssertExpectations(t)
}

func TestDispense_OutOfStock(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat WHERE jumlah > 0 ORDER BY nama FOR UPDATE`).
		WillReturnRows(obatRows())
	mockDB.ExpectRollback()

	rec, resp := doJSON(t, r, http.MethodPost, "/api/keluar", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OUT_OF_STOCK", resp.Error.Code)
	assert.Equal(t, "tidak ada stok yang bisa dikeluarkan", resp.Error.Message)

	mockDB.AssertExpectations(t)
}

func TestNotifications(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	soon := time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	mockDB.ExpectQuery(`SELECT id, nama, jumlah, kadaluarsa, ved FROM obat ORDER BY nama`).
		WillReturnRows(obatRows().
			AddRow("1", "Amoxicillin", 20, soon, "D"))

	rec, resp := doJSON(t, r, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	summary, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), summary["total"])
	assert.Equal(t, float64(1), summary["near_expiry_count"])

	mockDB.AssertExpectations(t)
}

func TestLogsEndpoint(t *testing.T) {
	r, mockDB := newTestRouter(t)
	defer mockDB.Close()

	mockDB.ExpectQuery(`SELECT id, type, message, time FROM logs ORDER BY time DESC, id DESC LIMIT $1`).
		WithArgs(repository.LogRetention).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "message", "time"}).
			AddRow("log-1", "fefo", "FEFO: Amoxicillin dikurangi 1 (sisa 2)", time.Now()))

	rec, resp := doJSON(t, r, http.MethodGet, "/api/logs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	entries, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 1)

	mockDB.AssertExpectations(t)
}
