package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/clientfolio/internal/models"
)

// ProfileRequest selects the transaction window, valuation dates and target
// currency for a client profile fetch.
type ProfileRequest struct {
	TransactionDateStart time.Time           `json:"transaction_date_start"`
	TransactionDateEnd   time.Time           `json:"transaction_date_end"`
	TargetCurrency       string              `json:"target_currency"`
	ValueDates           []time.Time         `json:"value_dates"`
	InputEntityModels    []ProfileEntitySpec `json:"input_entity_models"`
}

// ProfileEntitySpec identifies one entity to include in the profile fetch.
type ProfileEntitySpec struct {
	EntityID        string `json:"entity_id"`
	ReferenceNumber string `json:"reference_number"`
}

// ProfileService retrieves the client snapshot from the upstream platform.
// The core treats the fetch as opaque; only the ClientRecord shape matters.
type ProfileService interface {
	GetClientProfile(ctx context.Context, req ProfileRequest) (*models.ClientRecord, error)
}
