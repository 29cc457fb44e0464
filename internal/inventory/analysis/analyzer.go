package analysis

import (
	"fmt"
	"time"
)

// Action is the dispense/reorder verdict for one stock item.
type Action string

const (
	ActionRemove      Action = "remove"
	ActionUrgent      Action = "urgent"
	ActionUrgentOrder Action = "urgent_order"
	ActionMonitor     Action = "monitor"
	ActionRoutine     Action = "routine"
)

// Item is the minimal stock view the analyzers operate on.
type Item struct {
	ID       string
	Name     string
	Quantity int
	Expiry   string
}

// Verdict merges the expiry evaluation and VED classification into an
// actionable recommendation for one item.
type Verdict struct {
	ItemID         string       `json:"id"`
	Name           string       `json:"nama"`
	Quantity       int          `json:"jumlah"`
	Category       VEDCategory  `json:"ved"`
	DaysLeft       *int         `json:"days_left"`
	Status         ExpiryStatus `json:"status"`
	Urgency        int          `json:"urgency"`
	Action         Action       `json:"action"`
	Recommendation string       `json:"recommendation"`
}

// Analyze combines the expiry evaluator and VED classifier for one item.
// Expiry urgency always dominates stock-level urgency:
// expired > near-expiry > vital stock > essential-and-caution > routine.
func Analyze(item Item, today time.Time) Verdict {
	expiry := EvaluateExpiry(item.Expiry, today)
	category := ClassifyVED(item.Quantity)

	v := Verdict{
		ItemID:   item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Category: category,
		DaysLeft: expiry.DaysLeft,
		Status:   expiry.Status,
		Urgency:  expiry.Urgency,
	}

	switch {
	case expiry.Status == StatusExpired:
		v.Action = ActionRemove
		v.Recommendation = fmt.Sprintf("Segera buang: %s sudah kadaluarsa", item.Name)
	case expiry.Status == StatusNearExpiry:
		v.Action = ActionUrgent
		v.Recommendation = fmt.Sprintf("Gunakan segera: %s kadaluarsa dalam %d hari", item.Name, *expiry.DaysLeft)
	case category == CategoryVital:
		v.Action = ActionUrgentOrder
		v.Recommendation = fmt.Sprintf("Stok kritis (%d): segera pesan ulang %s", item.Quantity, item.Name)
	case category == CategoryEssential && expiry.Status == StatusCaution:
		v.Action = ActionMonitor
		v.Recommendation = fmt.Sprintf("Pantau %s: stok menipis dan mendekati kadaluarsa", item.Name)
	default:
		v.Action = ActionRoutine
		v.Recommendation = "Tidak ada tindakan khusus"
	}

	return v
}
