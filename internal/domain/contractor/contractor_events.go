package contractor

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeContractor is the aggregate type for contractor profiles
const AggregateTypeContractor = "Contractor"

// EventTypeContractorProfileUpdated is emitted when a profile is created or its rates change
const EventTypeContractorProfileUpdated = "ContractorProfileUpdated"

// ContractorProfileUpdatedEvent carries the rates in effect after the change
type ContractorProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	CompanyName    string          `json:"company_name"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	MarkupPercent  decimal.Decimal `json:"markup_percent"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

// NewContractorProfileUpdatedEvent creates a new ContractorProfileUpdatedEvent
func NewContractorProfileUpdatedEvent(c *Contractor) *ContractorProfileUpdatedEvent {
	return &ContractorProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractorProfileUpdated, AggregateTypeContractor, c.ID, c.OwnerID),
		CompanyName:     c.CompanyName,
		HourlyRate:      c.HourlyRate,
		MarkupPercent:   c.MarkupPercent,
		TaxRatePercent:  c.TaxRatePercent,
	}
}
