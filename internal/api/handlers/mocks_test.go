package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"salesloop/crm/internal/models"
	"salesloop/crm/internal/services"
)

// --- Mocks for service interfaces used by handler tests ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}
func (m *MockLeadService) FindAll(ctx context.Context) ([]models.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lead), args.Error(1)
}
func (m *MockLeadService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}
func (m *MockLeadService) FindByEmailAndProduct(ctx context.Context, email, productName string) (*models.Lead, error) {
	args := m.Called(ctx, email, productName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}
func (m *MockLeadService) Update(ctx context.Context, id primitive.ObjectID, update services.LeadUpdate) (*models.Lead, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}
func (m *MockLeadService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockLeadService) BulkDelete(ctx context.Context, ids []primitive.ObjectID) (int, int) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Int(1)
}

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) BulkInsert(ctx context.Context, employee string, rows []models.Record) (int, error) {
	args := m.Called(ctx, employee, rows)
	return args.Int(0), args.Error(1)
}
func (m *MockRecordService) FindAll(ctx context.Context) ([]models.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}
func (m *MockRecordService) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Record, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}
func (m *MockRecordService) Update(ctx context.Context, id primitive.ObjectID, record models.Record) (*models.Record, error) {
	args := m.Called(ctx, id, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Record), args.Error(1)
}
func (m *MockRecordService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockRecordService) BulkDelete(ctx context.Context, ids []primitive.ObjectID) (int, int) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Int(1)
}
func (m *MockRecordService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	args := m.Called(ctx, age)
	return args.Get(0).(int64), args.Error(1)
}

type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) MergeRecords(ctx context.Context, recordIDs []primitive.ObjectID) (services.MergeResult, error) {
	args := m.Called(ctx, recordIDs)
	return args.Get(0).(services.MergeResult), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}
func (m *MockInvoiceService) FindAll(ctx context.Context) ([]models.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}
func (m *MockInvoiceService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}
func (m *MockInvoiceService) Update(ctx context.Context, id primitive.ObjectID, invoice models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, id, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}
func (m *MockInvoiceService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *MockMemberService) FindAll(ctx context.Context, activeOnly bool) ([]models.Member, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Member), args.Error(1)
}
func (m *MockMemberService) Update(ctx context.Context, id primitive.ObjectID, member models.Member) (*models.Member, error) {
	args := m.Called(ctx, id, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *MockMemberService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) UpsertByEmail(ctx context.Context, profile models.AdminProfile) (*models.AdminProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminProfile), args.Error(1)
}
func (m *MockAdminService) FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminProfile), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetKPIs(ctx context.Context) (*services.KPIs, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.KPIs), args.Error(1)
}

type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) GetRecipients(ctx context.Context) (*services.Recipients, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Recipients), args.Error(1)
}
func (m *MockCampaignService) LaunchEmailCampaign(ctx context.Context, subject, body string) (int, error) {
	args := m.Called(ctx, subject, body)
	return args.Int(0), args.Error(1)
}

type MockUploadStorage struct {
	mock.Mock
}

func (m *MockUploadStorage) GeneratePresignedPutURL(ctx context.Context, folder, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, folder, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}
