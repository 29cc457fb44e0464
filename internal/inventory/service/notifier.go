package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
	"github.com/obatqu/obatqu-backend/internal/inventory/events"
	"github.com/obatqu/obatqu-backend/internal/inventory/repository"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	"github.com/obatqu/obatqu-backend/pkg/mailer"
	"github.com/obatqu/obatqu-backend/pkg/messaging"
)

// DigestSubject is the fixed subject line of the stock warning email.
const DigestSubject = "Peringatan Stok Obat"

// Notifier runs the notification sweep: aggregate the current stock
// alerts and, when anything needs attention, send a digest email.
type Notifier struct {
	medicines *repository.MedicineRepository
	logs      *repository.LogRepository
	sender    mailer.Sender
	to        string
	events    *events.Publisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewNotifier creates a notifier. sender may be a LogSender when SMTP
// is not configured; pub may be nil.
func NewNotifier(
	medicines *repository.MedicineRepository,
	logs *repository.LogRepository,
	sender mailer.Sender,
	to string,
	pub *events.Publisher,
	log *logger.Logger,
) *Notifier {
	return &Notifier{
		medicines: medicines,
		logs:      logs,
		sender:    sender,
		to:        to,
		events:    pub,
		logger:    log.WithComponent("notifier"),
		now:       time.Now,
	}
}

// Sweep aggregates the current alerts and sends the digest email when
// at least one expired, near-expiry or low-stock condition exists.
// Email transport failures are logged, never escalated: the next sweep
// retries naturally.
func (n *Notifier) Sweep(ctx context.Context) error {
	items, err := n.medicines.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stock for sweep: %w", err)
	}

	summary := analysis.Aggregate(analysisItems(items), n.now())
	n.logger.Info().
		Int("total", summary.Total).
		Int("expired", summary.ExpiredCount).
		Int("near_expiry", summary.NearExpiryCount).
		Int("low_stock", summary.LowStockCount).
		Msg("notification sweep completed")

	for _, notif := range summary.Notifications {
		n.events.AlertGenerated(ctx, messaging.AlertGeneratedEvent{
			ItemID:   notif.ItemID,
			ItemName: notif.ItemName,
			Severity: string(notif.Severity),
			Urgency:  notif.Urgency,
			Message:  notif.Message,
		})
	}

	if !summary.NeedsDigest() {
		return nil
	}

	body := BuildDigest(summary)
	if err := n.sender.Send(ctx, n.to, DigestSubject, body); err != nil {
		n.logger.Error().Err(err).Str("to", n.to).Msg("failed to send digest email")
		n.appendLog(ctx, "email-error", fmt.Sprintf("gagal mengirim email peringatan: %v", err))
		return nil
	}

	n.appendLog(ctx, "email", fmt.Sprintf("email peringatan terkirim ke %s (%d peringatan)", n.to, summary.Total))
	return nil
}

// BuildDigest renders the plain-text digest body: expiry warnings first,
// then low-stock warnings.
func BuildDigest(summary *analysis.Summary) string {
	var expiryLines, stockLines []string
	for _, notif := range summary.Notifications {
		line := "- " + notif.Message
		if notif.Title == analysis.TitleLowStock {
			stockLines = append(stockLines, line)
		} else {
			expiryLines = append(expiryLines, line)
		}
	}

	var b strings.Builder
	b.WriteString("Halo,\n\nBerikut peringatan stok obat hari ini:\n")
	if len(expiryLines) > 0 {
		b.WriteString("\nObat kadaluarsa / hampir kadaluarsa:\n")
		b.WriteString(strings.Join(expiryLines, "\n"))
		b.WriteString("\n")
	}
	if len(stockLines) > 0 {
		b.WriteString("\nStok menipis (kategori V):\n")
		b.WriteString(strings.Join(stockLines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal peringatan: %d\n\n-- ObatQu\n", summary.Total))
	return b.String()
}

func (n *Notifier) appendLog(ctx context.Context, kind, message string) {
	if err := n.logs.Append(ctx, kind, message); err != nil {
		n.logger.Error().Err(err).Str("kind", kind).Msg("failed to append activity log")
	}
}
