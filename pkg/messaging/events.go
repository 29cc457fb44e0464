package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventStockDispensed = "inventory.stock.dispensed"
	EventStockAdjusted  = "inventory.stock.adjusted"
	EventAlertGenerated = "inventory.alert.generated"
)

// Exchange names
const (
	ExchangeInventoryEvents = "inventory.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// StockDispensedEvent is emitted after a FEFO dispense commits.
type StockDispensedEvent struct {
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name"`
	NewQuantity int    `json:"new_quantity"`
	VED         string `json:"ved"`
	PerformedBy string `json:"performed_by"`
}

// StockAdjustedEvent is emitted after a manual quantity change.
type StockAdjustedEvent struct {
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name"`
	NewQuantity int    `json:"new_quantity"`
	VED         string `json:"ved"`
	PerformedBy string `json:"performed_by"`
}

// AlertGeneratedEvent is emitted for each notification in a sweep digest.
type AlertGeneratedEvent struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Severity string `json:"severity"`
	Urgency  int    `json:"urgency"`
	Message  string `json:"message"`
}
