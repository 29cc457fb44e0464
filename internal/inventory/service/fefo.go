package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
	"github.com/obatqu/obatqu-backend/pkg/errors"
	"github.com/obatqu/obatqu-backend/pkg/messaging"
)

// DispenseResult describes the stock record a FEFO dispense decremented.
type DispenseResult struct {
	ItemID    string               `json:"id"`
	Name      string               `json:"nama"`
	Remaining int                  `json:"jumlah"`
	Expiry    string               `json:"kadaluarsa"`
	VED       analysis.VEDCategory `json:"ved"`
}

// DispenseFEFO dispenses one unit of the earliest-expiring stock.
// Selection, decrement, VED recompute and the activity log entry commit
// in a single transaction; candidate rows are locked so concurrent
// dispenses serialize. Returns OutOfStock when nothing is dispensable.
func (s *InventoryService) DispenseFEFO(ctx context.Context, performedBy string) (*DispenseResult, error) {
	var result *DispenseResult

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		candidates, err := s.medicines.SelectDispensableForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		ranked := analysis.RankFEFO(analysisItems(candidates))
		if len(ranked) == 0 {
			return errors.OutOfStock()
		}
		pick := ranked[0]

		remaining := pick.Quantity - 1
		ved, err := s.medicines.SetQuantityTx(ctx, tx, pick.ID, remaining)
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("FEFO: %s dikurangi 1 (sisa %d)", pick.Name, remaining)
		if err := s.logs.AppendTx(ctx, tx, "fefo", msg); err != nil {
			return err
		}

		result = &DispenseResult{
			ItemID:    pick.ID,
			Name:      pick.Name,
			Remaining: remaining,
			Expiry:    pick.Expiry,
			VED:       ved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("item_id", result.ItemID).
		Str("item_name", result.Name).
		Int("remaining", result.Remaining).
		Msg("stock dispensed")

	s.events.StockDispensed(ctx, messaging.StockDispensedEvent{
		ItemID:      result.ItemID,
		ItemName:    result.Name,
		NewQuantity: result.Remaining,
		VED:         string(result.VED),
		PerformedBy: performedBy,
	})
	s.mutated()

	return result, nil
}

// FEFOOrder returns the ranked dispense order without mutating stock.
func (s *InventoryService) FEFOOrder(ctx context.Context) ([]analysis.Verdict, error) {
	items, err := s.medicines.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	ranked := analysis.RankFEFO(analysisItems(items))
	verdicts := make([]analysis.Verdict, 0, len(ranked))
	for _, item := range ranked {
		verdicts = append(verdicts, analysis.Analyze(item, today))
	}
	return verdicts, nil
}
