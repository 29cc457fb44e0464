package service

import (
	"context"
	"fmt"
	"time"

	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
	"github.com/obatqu/obatqu-backend/internal/inventory/events"
	"github.com/obatqu/obatqu-backend/internal/inventory/repository"
	"github.com/obatqu/obatqu-backend/pkg/database"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	"github.com/obatqu/obatqu-backend/pkg/messaging"
)

// MedicineRequest is the body for creating or updating a stock record.
// Field names follow the obat table contract. The expiry tag accepts
// the formats the expiry evaluator can parse; empty means unknown.
type MedicineRequest struct {
	Name     string `json:"nama" validate:"required,max=200"`
	Quantity int    `json:"jumlah" validate:"gte=0"`
	Expiry   string `json:"kadaluarsa" validate:"omitempty,expiry"`
}

// InventoryService implements stock CRUD, analysis and the activity log.
type InventoryService struct {
	db         *database.DB
	medicines  *repository.MedicineRepository
	logs       *repository.LogRepository
	events     *events.Publisher
	logger     *logger.Logger
	now        func() time.Time
	onMutation func()
}

// NewInventoryService creates a new inventory service. pub may be nil
// when event publishing is disabled.
func NewInventoryService(
	db *database.DB,
	medicines *repository.MedicineRepository,
	logs *repository.LogRepository,
	pub *events.Publisher,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		db:        db,
		medicines: medicines,
		logs:      logs,
		events:    pub,
		logger:    log.WithComponent("inventory-service"),
		now:       time.Now,
	}
}

// OnMutation registers a hook invoked after every successful stock
// mutation. The notification scheduler uses it to sweep right away
// instead of waiting for the next interval.
func (s *InventoryService) OnMutation(fn func()) {
	s.onMutation = fn
}

func (s *InventoryService) mutated() {
	if s.onMutation != nil {
		s.onMutation()
	}
}

// List returns all stock records including zero-quantity ones.
func (s *InventoryService) List(ctx context.Context) ([]*repository.Medicine, error) {
	return s.medicines.List(ctx)
}

// Get returns one stock record by ID.
func (s *InventoryService) Get(ctx context.Context, id string) (*repository.Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

// Create adds a new stock record and logs the activity.
func (s *InventoryService) Create(ctx context.Context, req MedicineRequest, performedBy string) (*repository.Medicine, error) {
	item := &repository.Medicine{
		Name:     req.Name,
		Quantity: req.Quantity,
		Expiry:   req.Expiry,
	}
	if err := s.medicines.Create(ctx, item); err != nil {
		return nil, err
	}

	s.appendLog(ctx, "create", fmt.Sprintf("obat %s ditambahkan (jumlah %d)", item.Name, item.Quantity))
	s.events.StockAdjusted(ctx, messaging.StockAdjustedEvent{
		ItemID:      item.ID,
		ItemName:    item.Name,
		NewQuantity: item.Quantity,
		VED:         string(item.VED),
		PerformedBy: performedBy,
	})
	s.mutated()

	return item, nil
}

// Update replaces a stock record's fields and logs the activity.
func (s *InventoryService) Update(ctx context.Context, id string, req MedicineRequest, performedBy string) (*repository.Medicine, error) {
	item := &repository.Medicine{
		ID:       id,
		Name:     req.Name,
		Quantity: req.Quantity,
		Expiry:   req.Expiry,
	}
	if err := s.medicines.Update(ctx, item); err != nil {
		return nil, err
	}

	s.appendLog(ctx, "update", fmt.Sprintf("obat %s diperbarui (jumlah %d)", item.Name, item.Quantity))
	s.events.StockAdjusted(ctx, messaging.StockAdjustedEvent{
		ItemID:      item.ID,
		ItemName:    item.Name,
		NewQuantity: item.Quantity,
		VED:         string(item.VED),
		PerformedBy: performedBy,
	})
	s.mutated()

	return item, nil
}

// Delete removes a stock record and logs the activity.
func (s *InventoryService) Delete(ctx context.Context, id string, performedBy string) error {
	item, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.medicines.Delete(ctx, id); err != nil {
		return err
	}

	s.appendLog(ctx, "delete", fmt.Sprintf("obat %s dihapus", item.Name))
	s.mutated()
	return nil
}

// Analysis returns the analyzer verdict for every stock record.
func (s *InventoryService) Analysis(ctx context.Context) ([]analysis.Verdict, error) {
	items, err := s.medicines.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	verdicts := make([]analysis.Verdict, 0, len(items))
	for _, item := range items {
		verdicts = append(verdicts, analysis.Analyze(item.AnalysisItem(), today))
	}
	return verdicts, nil
}

// Notifications aggregates the current alert state across all stock.
func (s *InventoryService) Notifications(ctx context.Context) (*analysis.Summary, error) {
	items, err := s.medicines.List(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.Aggregate(analysisItems(items), s.now()), nil
}

// Logs returns the retained activity log, newest first.
func (s *InventoryService) Logs(ctx context.Context) ([]*repository.LogEntry, error) {
	return s.logs.List(ctx)
}

// appendLog records an activity entry. Log failures never fail the
// mutation they describe.
func (s *InventoryService) appendLog(ctx context.Context, kind, message string) {
	if err := s.logs.Append(ctx, kind, message); err != nil {
		s.logger.Error().Err(err).Str("kind", kind).Msg("failed to append activity log")
	}
}

func analysisItems(items []*repository.Medicine) []analysis.Item {
	out := make([]analysis.Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.AnalysisItem())
	}
	return out
}
