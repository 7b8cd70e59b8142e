package contractor

import (
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/shopspring/decimal"
)

// ProfileInput carries profile fields. Nil fields are left unchanged on update.
type ProfileInput struct {
	CompanyName    *string
	ContactName    *string
	Email          *string
	Phone          *string
	Address        *string
	LicenseNumber  *string
	HourlyRate     *decimal.Decimal
	MarkupPercent  *decimal.Decimal
	TaxRatePercent *decimal.Decimal
}

// ProfileResponse is the contractor profile as returned to clients
type ProfileResponse struct {
	ID             uuid.UUID       `json:"id"`
	CompanyName    string          `json:"company_name"`
	ContactName    string          `json:"contact_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	LicenseNumber  string          `json:"license_number"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	MarkupPercent  decimal.Decimal `json:"markup_percent"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	LogoURL        string          `json:"logo_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LogoUploadResponse tells the client where to PUT the logo
type LogoUploadResponse struct {
	UploadURL   string    `json:"upload_url"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toProfileResponse(c *contractor.Contractor, logoURL string) *ProfileResponse {
	return &ProfileResponse{
		ID:             c.ID,
		CompanyName:    c.CompanyName,
		ContactName:    c.ContactName,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		LicenseNumber:  c.LicenseNumber,
		HourlyRate:     c.HourlyRate,
		MarkupPercent:  c.MarkupPercent,
		TaxRatePercent: c.TaxRatePercent,
		LogoURL:        logoURL,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
