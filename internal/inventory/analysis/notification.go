package analysis

import (
	"fmt"
	"sort"
	"time"
)

// Severity of a notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// MaxNotifications caps the ranked list surfaced to dashboards and
// digest emails.
const MaxNotifications = 20

// Notification titles.
const (
	TitleExpired    = "Obat kadaluarsa"
	TitleNearExpiry = "Obat hampir kadaluarsa"
	TitleLowStock   = "Stok rendah"
)

// Notification is an ephemeral alert computed from the current stock
// state. It is never persisted.
type Notification struct {
	ItemID   string   `json:"id"`
	ItemName string   `json:"nama"`
	Severity Severity `json:"severity"`
	Urgency  int      `json:"urgency"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Summary aggregates all notifications for the current stock set.
// Notifications holds at most MaxNotifications entries ordered by
// descending urgency; equal urgencies keep the original scan order.
type Summary struct {
	Total           int              `json:"total"`
	BySeverity      map[Severity]int `json:"by_severity"`
	ByUrgency       map[int]int      `json:"by_urgency"`
	ExpiredCount    int              `json:"expired_count"`
	NearExpiryCount int              `json:"near_expiry_count"`
	LowStockCount   int              `json:"low_stock_count"`
	Notifications   []Notification   `json:"notifications"`
}

// NeedsDigest reports whether the email collaborator should be invoked:
// at least one near-expiry (or already expired) or low-stock condition
// exists system-wide.
func (s *Summary) NeedsDigest() bool {
	return s.ExpiredCount > 0 || s.NearExpiryCount > 0 || s.LowStockCount > 0
}

// Aggregate scans all items and produces the ranked, capped alert list.
// An item that is both near-expiry and vital/low-stock emits two
// separate notifications; the conditions are evaluated independently.
func Aggregate(items []Item, today time.Time) *Summary {
	summary := &Summary{
		BySeverity: make(map[Severity]int),
		ByUrgency:  make(map[int]int),
	}

	var all []Notification
	for _, item := range items {
		verdict := Analyze(item, today)

		switch verdict.Status {
		case StatusExpired:
			summary.ExpiredCount++
			all = append(all, Notification{
				ItemID:   item.ID,
				ItemName: item.Name,
				Severity: SeverityError,
				Urgency:  UrgencyExpired,
				Title:    TitleExpired,
				Message:  fmt.Sprintf("%s sudah kadaluarsa (exp: %s)", item.Name, item.Expiry),
			})
		case StatusNearExpiry:
			summary.NearExpiryCount++
			all = append(all, Notification{
				ItemID:   item.ID,
				ItemName: item.Name,
				Severity: SeverityWarning,
				Urgency:  UrgencyNear,
				Title:    TitleNearExpiry,
				Message:  fmt.Sprintf("%s kadaluarsa dalam %d hari (sisa: %d)", item.Name, *verdict.DaysLeft, item.Quantity),
			})
		}

		if verdict.Category == CategoryVital && item.Quantity <= vitalMaxQuantity {
			summary.LowStockCount++
			all = append(all, Notification{
				ItemID:   item.ID,
				ItemName: item.Name,
				Severity: SeverityError,
				Urgency:  UrgencyNear,
				Title:    TitleLowStock,
				Message:  fmt.Sprintf("%s tersisa %d (kategori V)", item.Name, item.Quantity),
			})
		}
	}

	summary.Total = len(all)
	for _, n := range all {
		summary.BySeverity[n.Severity]++
		summary.ByUrgency[n.Urgency]++
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Urgency > all[j].Urgency
	})

	if len(all) > MaxNotifications {
		all = all[:MaxNotifications]
	}
	summary.Notifications = all

	return summary
}
