package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/printing"
)

// SubscriptionChecker tells whether a user is on a paid plan
type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, ownerID uuid.UUID) (bool, error)
}

// ObjectStorage is the subset of object storage operations projects need
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// EstimateExporter renders an estimate document to PDF
type EstimateExporter interface {
	Export(ctx context.Context, doc *printing.EstimateDocument) ([]byte, error)
}

// ExportRecorder observes PDF exports
type ExportRecorder interface {
	PDFRendered(ctx context.Context, d time.Duration, err error)
}
