package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/infra/blob"
	"github.com/meurdo/meurdo-api/internal/infra/httpclient"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
	"github.com/stretchr/testify/mock"
)

// MockRdoRepo is a mock implementation of repo.RdoRepo
type MockRdoRepo struct {
	mock.Mock
}

func (m *MockRdoRepo) rdo(args mock.Arguments) (*model.Rdo, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rdo), args.Error(1)
}

func (m *MockRdoRepo) Create(ctx context.Context, r *model.Rdo) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRdoRepo) Replace(ctx context.Context, r *model.Rdo) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRdoRepo) FindByDate(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error) {
	return m.rdo(m.Called(ctx, obraID, date))
}

func (m *MockRdoRepo) FindPrevious(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error) {
	return m.rdo(m.Called(ctx, obraID, date))
}

func (m *MockRdoRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Rdo, error) {
	return m.rdo(m.Called(ctx, id))
}

func (m *MockRdoRepo) GetByToken(ctx context.Context, token string) (*model.Rdo, error) {
	return m.rdo(m.Called(ctx, token))
}

func (m *MockRdoRepo) ListByObra(ctx context.Context, obraID uuid.UUID, afterDate time.Time, afterID uuid.UUID, limit int) ([]model.Rdo, error) {
	args := m.Called(ctx, obraID, afterDate, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rdo), args.Error(1)
}

func (m *MockRdoRepo) SetShareToken(ctx context.Context, id uuid.UUID, token string) (*model.Rdo, error) {
	return m.rdo(m.Called(ctx, id, token))
}

func (m *MockRdoRepo) Transition(ctx context.Context, in repo.TransitionInput) (*model.Rdo, error) {
	return m.rdo(m.Called(ctx, in))
}

func (m *MockRdoRepo) ListEvents(ctx context.Context, rdoID uuid.UUID) ([]model.RdoStatusEvent, error) {
	args := m.Called(ctx, rdoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RdoStatusEvent), args.Error(1)
}

// MockObraRepo is a mock implementation of repo.ObraRepo
type MockObraRepo struct {
	mock.Mock
}

func (m *MockObraRepo) Get(ctx context.Context, id uuid.UUID) (*model.Obra, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Obra), args.Error(1)
}

func (m *MockObraRepo) MemberRole(ctx context.Context, obraID, userID uuid.UUID) (model.MemberRole, bool, error) {
	args := m.Called(ctx, obraID, userID)
	return args.Get(0).(model.MemberRole), args.Bool(1), args.Error(2)
}

func (m *MockObraRepo) ListSchedule(ctx context.Context, obraID uuid.UUID) ([]model.ScheduleItem, error) {
	args := m.Called(ctx, obraID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScheduleItem), args.Error(1)
}

// MockProfileRepo is a mock implementation of repo.ProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// MockObjectStore is a mock implementation of ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, bucket, key, contentType string, body []byte) (*blob.UploadedMeta, error) {
	args := m.Called(ctx, bucket, key, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blob.UploadedMeta), args.Error(1)
}

// MockSignatureService is a mock implementation of SignatureService
type MockSignatureService struct {
	mock.Mock
}

func (m *MockSignatureService) Save(ctx context.Context, in SaveSignatureInput) (*SavedSignature, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SavedSignature), args.Error(1)
}

// MockBillingFunctions is a mock implementation of BillingFunctions
type MockBillingFunctions struct {
	mock.Mock
}

func (m *MockBillingFunctions) CreateCheckout(ctx context.Context, userToken string, req httpclient.CheckoutRequest) (string, error) {
	args := m.Called(ctx, userToken, req)
	return args.String(0), args.Error(1)
}

func (m *MockBillingFunctions) CreatePortal(ctx context.Context, userToken string, req httpclient.PortalRequest) (string, error) {
	args := m.Called(ctx, userToken, req)
	return args.String(0), args.Error(1)
}

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Resolve(ctx context.Context, c Claims) (*model.Session, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type notification struct {
	RdoID  uuid.UUID
	Status model.ApprovalStatus
	Action string
}

// recordingNotifier keeps every notification in order.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) RdoChanged(_ context.Context, r *model.Rdo, action string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{RdoID: r.ID, Status: r.ApprovalStatus, Action: action})
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Action)
	}
	return out
}
