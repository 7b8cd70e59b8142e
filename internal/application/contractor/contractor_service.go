package contractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultPresignTTL = 15 * time.Minute

// logoExtensions lists the accepted logo content types
var logoExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// ObjectStorage is the subset of object storage operations profiles need
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// ServiceConfig contains contractor service settings
type ServiceConfig struct {
	DefaultHourlyRate decimal.Decimal
	PresignTTL        time.Duration
}

// ContractorService manages contractor profiles
type ContractorService struct {
	repo    contractor.ContractorRepository
	storage ObjectStorage
	events  shared.EventPublisher
	config  ServiceConfig
	logger  *zap.Logger
}

// NewContractorService creates a new ContractorService
func NewContractorService(
	repo contractor.ContractorRepository,
	storage ObjectStorage,
	events shared.EventPublisher,
	config ServiceConfig,
	logger *zap.Logger,
) *ContractorService {
	if config.PresignTTL <= 0 {
		config.PresignTTL = defaultPresignTTL
	}
	if !config.DefaultHourlyRate.IsPositive() {
		config.DefaultHourlyRate = decimal.NewFromInt(75)
	}
	return &ContractorService{
		repo:    repo,
		storage: storage,
		events:  events,
		config:  config,
		logger:  logger,
	}
}

// GetProfile returns the profile with a presigned logo URL
func (s *ContractorService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*ProfileResponse, error) {
	c, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(c, s.LogoURL(ctx, c)), nil
}

// CreateProfile creates the owner's profile; a second profile is rejected
func (s *ContractorService) CreateProfile(ctx context.Context, ownerID uuid.UUID, input ProfileInput) (*ProfileResponse, error) {
	_, err := s.repo.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Contractor profile already exists")
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	return s.create(ctx, ownerID, input)
}

// UpdateProfile applies the non-nil fields of input
func (s *ContractorService) UpdateProfile(ctx context.Context, ownerID uuid.UUID, input ProfileInput) (*ProfileResponse, error) {
	c, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := applyProfile(c, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	s.logger.Info("Contractor profile updated", zap.String("owner_id", ownerID.String()))
	return toProfileResponse(c, s.LogoURL(ctx, c)), nil
}

// UpsertProfile creates the profile when missing, otherwise updates it
func (s *ContractorService) UpsertProfile(ctx context.Context, ownerID uuid.UUID, input ProfileInput) (*ProfileResponse, error) {
	_, err := s.repo.FindByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return s.create(ctx, ownerID, input)
	case err != nil:
		return nil, err
	}
	return s.UpdateProfile(ctx, ownerID, input)
}

// RequestLogoUpload reserves a new logo key and returns a presigned PUT URL for it.
// The previous logo object is removed.
func (s *ContractorService) RequestLogoUpload(ctx context.Context, ownerID uuid.UUID, contentType string) (*LogoUploadResponse, error) {
	ext, ok := logoExtensions[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Logo must be a PNG, JPEG or WebP image")
	}

	c, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("logos/%s/%s.%s", ownerID, uuid.New(), ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.config.PresignTTL)
	if err != nil {
		s.logger.Error("Failed to presign logo upload", zap.Error(err))
		return nil, shared.WrapDomainError("STORAGE_ERROR", "Failed to prepare logo upload", err)
	}

	previous := c.SetLogo(key)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	if previous != "" {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete previous logo",
				zap.String("key", previous),
				zap.Error(err))
		}
	}

	return &LogoUploadResponse{
		UploadURL:   uploadURL,
		Key:         key,
		ContentType: contentType,
		ExpiresAt:   expiresAt,
	}, nil
}

// LogoURL presigns the profile logo; it is empty when there is none or presigning fails
func (s *ContractorService) LogoURL(ctx context.Context, c *contractor.Contractor) string {
	if !c.HasLogo() {
		return ""
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, c.LogoKey, s.config.PresignTTL)
	if err != nil {
		s.logger.Warn("Failed to presign logo download", zap.String("key", c.LogoKey), zap.Error(err))
		return ""
	}
	return url
}

func (s *ContractorService) create(ctx context.Context, ownerID uuid.UUID, input ProfileInput) (*ProfileResponse, error) {
	if input.CompanyName == nil {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	c, err := contractor.NewContractor(ownerID, *input.CompanyName, s.config.DefaultHourlyRate)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(c, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	s.logger.Info("Contractor profile created", zap.String("owner_id", ownerID.String()))
	return toProfileResponse(c, ""), nil
}

func applyProfile(c *contractor.Contractor, input ProfileInput) error {
	if input.CompanyName != nil || input.LicenseNumber != nil {
		if err := c.UpdateCompany(pick(input.CompanyName, c.CompanyName), pick(input.LicenseNumber, c.LicenseNumber)); err != nil {
			return err
		}
	}

	if input.ContactName != nil || input.Email != nil || input.Phone != nil || input.Address != nil {
		err := c.UpdateContact(
			pick(input.ContactName, c.ContactName),
			pick(input.Email, c.Email),
			pick(input.Phone, c.Phone),
			pick(input.Address, c.Address),
		)
		if err != nil {
			return err
		}
	}

	if input.HourlyRate != nil || input.MarkupPercent != nil || input.TaxRatePercent != nil {
		rates := c.Rates()
		if input.HourlyRate != nil {
			rates.HourlyRate = *input.HourlyRate
		}
		if input.MarkupPercent != nil {
			rates.MarkupPercent = *input.MarkupPercent
		}
		if input.TaxRatePercent != nil {
			rates.TaxRatePercent = *input.TaxRatePercent
		}
		if err := c.UpdateRates(rates); err != nil {
			return err
		}
	}
	return nil
}

func pick(v *string, current string) string {
	if v == nil {
		return current
	}
	return *v
}

// publishEvents sends one profile event per save
func (s *ContractorService) publishEvents(ctx context.Context, c *contractor.Contractor) {
	defer c.ClearDomainEvents()
	if s.events == nil {
		return
	}
	event := contractor.NewContractorProfileUpdatedEvent(c)
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish contractor event", zap.Error(err))
	}
}
