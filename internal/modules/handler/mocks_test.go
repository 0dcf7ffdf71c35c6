package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/form"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/service"
	"github.com/meurdo/meurdo-api/internal/pkg/signature"
	"github.com/stretchr/testify/mock"
)

// MockRdoService is a mock implementation of service.RdoService
type MockRdoService struct {
	mock.Mock
}

func (m *MockRdoService) OpenForm(ctx context.Context, req service.FormRequest) (*form.View, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*form.View), args.Error(1)
}

func (m *MockRdoService) CopyPrevious(ctx context.Context, req service.FormRequest) (*form.View, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*form.View), args.Bool(1), args.Error(2)
}

func (m *MockRdoService) Prefill(ctx context.Context, req service.FormRequest, section form.SectionName, key, catalogKey string) (*form.View, error) {
	args := m.Called(ctx, req, section, key, catalogKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*form.View), args.Error(1)
}

func (m *MockRdoService) AttachPhoto(ctx context.Context, req service.FormRequest, section form.SectionName, key string, file form.Attachment) (*service.AttachResult, error) {
	args := m.Called(ctx, req, section, key, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttachResult), args.Error(1)
}

func (m *MockRdoService) Submit(ctx context.Context, req service.FormRequest) (*service.SubmitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockRdoService) List(ctx context.Context, in service.ListRdosInput) (*service.ListRdosOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListRdosOutput), args.Error(1)
}

func (m *MockRdoService) Share(ctx context.Context, userID, rdoID uuid.UUID) (*service.ShareLink, error) {
	args := m.Called(ctx, userID, rdoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareLink), args.Error(1)
}

func (m *MockRdoService) Resubmit(ctx context.Context, userID, rdoID uuid.UUID) (*model.Rdo, error) {
	args := m.Called(ctx, userID, rdoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rdo), args.Error(1)
}

func (m *MockRdoService) History(ctx context.Context, userID, rdoID uuid.UUID) ([]model.RdoStatusEvent, error) {
	args := m.Called(ctx, userID, rdoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RdoStatusEvent), args.Error(1)
}

// MockApprovalService is a mock implementation of service.ApprovalService
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) View(ctx context.Context, token string) (*service.ApprovalView, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApprovalView), args.Error(1)
}

func (m *MockApprovalService) Approve(ctx context.Context, token string, sig signature.Input) (*service.ApprovalResult, error) {
	args := m.Called(ctx, token, sig)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApprovalResult), args.Error(1)
}

func (m *MockApprovalService) Reject(ctx context.Context, token, reason string) (*model.Rdo, error) {
	args := m.Called(ctx, token, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rdo), args.Error(1)
}

// MockBillingService is a mock implementation of service.BillingService
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) Checkout(ctx context.Context, sess *model.Session, priceID string) (*service.Redirect, error) {
	args := m.Called(ctx, sess, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Redirect), args.Error(1)
}

func (m *MockBillingService) Portal(ctx context.Context, sess *model.Session) (*service.Redirect, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Redirect), args.Error(1)
}

// MockSignatureService is a mock implementation of service.SignatureService
type MockSignatureService struct {
	mock.Mock
}

func (m *MockSignatureService) Save(ctx context.Context, in service.SaveSignatureInput) (*service.SavedSignature, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SavedSignature), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withSession stands in for the auth middleware.
func withSession(sess *model.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session", sess)
		c.Next()
	}
}
