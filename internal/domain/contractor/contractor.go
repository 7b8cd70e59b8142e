package contractor

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	maxMarkupPercent  = decimal.NewFromInt(100)
	maxTaxRatePercent = decimal.NewFromInt(25)
)

// Contractor is the business profile of a user. A user has at most one.
// Its rates drive labor pricing, markup and tax in every estimate the user produces.
type Contractor struct {
	shared.OwnedAggregateRoot
	CompanyName    string
	ContactName    string
	Email          string
	Phone          string
	Address        string
	LicenseNumber  string
	HourlyRate     decimal.Decimal
	MarkupPercent  decimal.Decimal
	TaxRatePercent decimal.Decimal
	LogoKey        string
}

// Rates groups the pricing settings of a profile
type Rates struct {
	HourlyRate     decimal.Decimal
	MarkupPercent  decimal.Decimal
	TaxRatePercent decimal.Decimal
}

// NewContractor creates a profile for a user
func NewContractor(ownerID uuid.UUID, companyName string, defaultHourlyRate decimal.Decimal) (*Contractor, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if err := validateCompanyName(companyName); err != nil {
		return nil, err
	}
	if !defaultHourlyRate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_HOURLY_RATE", "Hourly rate must be positive")
	}

	c := &Contractor{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		CompanyName:        strings.TrimSpace(companyName),
		HourlyRate:         defaultHourlyRate,
		MarkupPercent:      decimal.Zero,
		TaxRatePercent:     decimal.Zero,
	}
	c.AddDomainEvent(NewContractorProfileUpdatedEvent(c))
	return c, nil
}

// UpdateCompany sets the company identity fields
func (c *Contractor) UpdateCompany(companyName, licenseNumber string) error {
	if err := validateCompanyName(companyName); err != nil {
		return err
	}
	if utf8.RuneCountInString(licenseNumber) > 100 {
		return shared.NewDomainError("INVALID_LICENSE_NUMBER", "License number cannot exceed 100 characters")
	}
	c.CompanyName = strings.TrimSpace(companyName)
	c.LicenseNumber = strings.TrimSpace(licenseNumber)
	c.touch()
	return nil
}

// UpdateContact sets the contact fields shown on estimates
func (c *Contractor) UpdateContact(contactName, email, phone, address string) error {
	if utf8.RuneCountInString(contactName) > 200 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if utf8.RuneCountInString(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	c.ContactName = strings.TrimSpace(contactName)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.touch()
	return nil
}

// UpdateRates validates and sets the pricing settings
func (c *Contractor) UpdateRates(rates Rates) error {
	if !rates.HourlyRate.IsPositive() {
		return shared.NewDomainError("INVALID_HOURLY_RATE", "Hourly rate must be positive")
	}
	if rates.MarkupPercent.IsNegative() || rates.MarkupPercent.GreaterThan(maxMarkupPercent) {
		return shared.NewDomainError("INVALID_MARKUP", "Markup must be between 0 and 100 percent")
	}
	if rates.TaxRatePercent.IsNegative() || rates.TaxRatePercent.GreaterThan(maxTaxRatePercent) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 25 percent")
	}
	c.HourlyRate = rates.HourlyRate
	c.MarkupPercent = rates.MarkupPercent
	c.TaxRatePercent = rates.TaxRatePercent
	c.touch()
	c.AddDomainEvent(NewContractorProfileUpdatedEvent(c))
	return nil
}

// Rates returns the pricing settings
func (c *Contractor) Rates() Rates {
	return Rates{
		HourlyRate:     c.HourlyRate,
		MarkupPercent:  c.MarkupPercent,
		TaxRatePercent: c.TaxRatePercent,
	}
}

// SetLogo replaces the logo object key and returns the previous key
func (c *Contractor) SetLogo(key string) string {
	previous := c.LogoKey
	c.LogoKey = key
	c.touch()
	return previous
}

// HasLogo reports whether a logo has been uploaded
func (c *Contractor) HasLogo() bool {
	return c.LogoKey != ""
}

func (c *Contractor) touch() {
	c.Touch()
	c.IncrementVersion()
}

func validateCompanyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	return nil
}
