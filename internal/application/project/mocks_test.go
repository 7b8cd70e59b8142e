package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]project.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) CountActiveForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProjectRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockProjectRepository) CreateCopy(ctx context.Context, p *project.Project, screens []*project.WorkflowScreen, items []*project.LineItem) error {
	return m.Called(ctx, p, screens, items).Error(0)
}

type MockScreenRepository struct {
	mock.Mock
}

func (m *MockScreenRepository) FindByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]project.WorkflowScreen, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.WorkflowScreen), args.Error(1)
}

func (m *MockScreenRepository) FindByProjectAndCategory(ctx context.Context, ownerID, projectID uuid.UUID, category project.Category) (*project.WorkflowScreen, error) {
	args := m.Called(ctx, ownerID, projectID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.WorkflowScreen), args.Error(1)
}

func (m *MockScreenRepository) Upsert(ctx context.Context, s *project.WorkflowScreen) error {
	return m.Called(ctx, s).Error(0)
}

type MockLineItemRepository struct {
	mock.Mock
}

func (m *MockLineItemRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*project.LineItem, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) FindByProject(ctx context.Context, ownerID, projectID uuid.UUID, category *project.Category) ([]project.LineItem, error) {
	args := m.Called(ctx, ownerID, projectID, category)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID, uuid.UUID, *project.Category) []project.LineItem); ok {
		return fn(ctx, ownerID, projectID, category), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) Save(ctx context.Context, item *project.LineItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockLineItemRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockLineItemRepository) Apply(ctx context.Context, changes project.LineItemChanges) error {
	return m.Called(ctx, changes).Error(0)
}

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) Create(ctx context.Context, p *project.Photo) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPhotoRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*project.Photo, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Photo), args.Error(1)
}

func (m *MockPhotoRepository) FindByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]project.Photo, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Photo), args.Error(1)
}

func (m *MockPhotoRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

type MockContractorRepository struct {
	mock.Mock
}

func (m *MockContractorRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*contractor.Contractor, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contractor.Contractor), args.Error(1)
}

func (m *MockContractorRepository) Create(ctx context.Context, c *contractor.Contractor) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractorRepository) Save(ctx context.Context, c *contractor.Contractor) error {
	return m.Called(ctx, c).Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// eventTypes flattens the event types of every Publish call
func (m *MockEventPublisher) eventTypes() []string {
	var types []string
	for _, call := range m.Calls {
		for _, e := range call.Arguments.Get(1).([]shared.DomainEvent) {
			types = append(types, e.EventType())
		}
	}
	return types
}

type MockSubscriptionChecker struct {
	mock.Mock
}

func (m *MockSubscriptionChecker) HasActiveSubscription(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, doc *printing.EstimateDocument) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type recordedExport struct {
	err error
}

type fakeRecorder struct {
	exports []recordedExport
}

func (r *fakeRecorder) PDFRendered(_ context.Context, _ time.Duration, err error) {
	r.exports = append(r.exports, recordedExport{err: err})
}
