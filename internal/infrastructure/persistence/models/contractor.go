package models

import (
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/shopspring/decimal"
)

// ContractorModel is the persistence model for contractor profiles.
// owner_id is unique: one profile per user.
type ContractorModel struct {
	OwnedAggregateModel
	CompanyName    string          `gorm:"type:varchar(200);not null"`
	ContactName    string          `gorm:"type:varchar(100)"`
	Email          string          `gorm:"type:varchar(254)"`
	Phone          string          `gorm:"type:varchar(30)"`
	Address        string          `gorm:"type:varchar(500)"`
	LicenseNumber  string          `gorm:"type:varchar(50)"`
	HourlyRate     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MarkupPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxRatePercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LogoKey        string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ContractorModel) TableName() string {
	return "contractors"
}

// ToDomain converts the persistence model to a domain Contractor
func (m *ContractorModel) ToDomain() *contractor.Contractor {
	return &contractor.Contractor{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		CompanyName:        m.CompanyName,
		ContactName:        m.ContactName,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		LicenseNumber:      m.LicenseNumber,
		HourlyRate:         m.HourlyRate,
		MarkupPercent:      m.MarkupPercent,
		TaxRatePercent:     m.TaxRatePercent,
		LogoKey:            m.LogoKey,
	}
}

// FromDomain populates the persistence model from a domain Contractor
func (m *ContractorModel) FromDomain(c *contractor.Contractor) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.CompanyName = c.CompanyName
	m.ContactName = c.ContactName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.LicenseNumber = c.LicenseNumber
	m.HourlyRate = c.HourlyRate
	m.MarkupPercent = c.MarkupPercent
	m.TaxRatePercent = c.TaxRatePercent
	m.LogoKey = c.LogoKey
}

// ContractorModelFromDomain creates a new persistence model from a domain Contractor
func ContractorModelFromDomain(c *contractor.Contractor) *ContractorModel {
	m := &ContractorModel{}
	m.FromDomain(c)
	return m
}
