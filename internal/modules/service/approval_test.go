package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
	"github.com/meurdo/meurdo-api/internal/pkg/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shareToken = "Xy7pQ2mN8vL4kR1tZ9wB3cD6fG0hJ5aS2eU8iO4yT7rE1wQ3"

func sharedRdo(status model.ApprovalStatus) *model.Rdo {
	tok := shareToken
	return &model.Rdo{
		ID:                uuid.New(),
		ObraID:            uuid.New(),
		ReportDate:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		OperationalStatus: model.OperationalNormal,
		ApprovalStatus:    status,
		ApprovalToken:     &tok,
		Manpower: []model.RdoManpower{
			{Role: "Pedreiro", Headcount: 2, UnitCost: 150, Employment: model.EmploymentOwn},
		},
		Equipment: []model.RdoEquipment{
			{Name: "Betoneira", HoursWorked: 4, HourlyCost: 25},
		},
	}
}

type approvalFixture struct {
	rdos   *MockRdoRepo
	obras  *MockObraRepo
	sigs   *MockSignatureService
	notify *recordingNotifier
	svc    ApprovalService
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{
		rdos:   &MockRdoRepo{},
		obras:  &MockObraRepo{},
		sigs:   &MockSignatureService{},
		notify: &recordingNotifier{},
	}
	f.svc = NewApprovalService(f.rdos, f.obras, f.sigs, f.notify, zap.NewNop())
	return f
}

func TestApprovalService_View(t *testing.T) {
	f := newApprovalFixture()
	r := sharedRdo(model.ApprovalPending)
	f.rdos.On("GetByToken", mock.Anything, shareToken).Return(r, nil)
	f.obras.On("Get", mock.Anything, r.ObraID).Return(&model.Obra{ID: r.ObraID, Name: "Residencial Ipê"}, nil)

	v, err := f.svc.View(context.Background(), shareToken)
	require.NoError(t, err)
	assert.Equal(t, "Residencial Ipê", v.ObraName)
	assert.Equal(t, 300.0, v.Totals.Manpower)
	assert.Equal(t, 100.0, v.Totals.Equipment)
	assert.Equal(t, "Aguardando aprovação", v.Status.Label)
	assert.True(t, v.CanDecide)
	assert.Nil(t, v.Weather)
}

func TestApprovalService_ViewUnknownToken(t *testing.T) {
	f := newApprovalFixture()
	f.rdos.On("GetByToken", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.View(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApprovalService_Approve(t *testing.T) {
	f := newApprovalFixture()
	r := sharedRdo(model.ApprovalPending)
	approved := *r
	approved.ApprovalStatus = model.ApprovalApproved
	approved.ClientSignatureURL = "https://cdn/signatures/client.png"

	f.rdos.On("GetByToken", mock.Anything, shareToken).Return(r, nil)
	f.sigs.On("Save", mock.Anything, mock.MatchedBy(func(in SaveSignatureInput) bool {
		return in.Role == SignerClient && in.RdoID != nil && *in.RdoID == r.ID
	})).Return(&SavedSignature{URL: approved.ClientSignatureURL, Bucket: "signatures", Key: "k"}, nil)
	f.rdos.On("Transition", mock.Anything, mock.MatchedBy(func(in repo.TransitionInput) bool {
		_, hasApprovedAt := in.Set["approved_at"]
		return in.Token != nil && *in.Token == shareToken && in.RdoID == nil &&
			in.To == model.ApprovalApproved &&
			assert.ObjectsAreEqual([]model.ApprovalStatus{model.ApprovalPending}, in.From) &&
			in.Set["client_signature_url"] == approved.ClientSignatureURL && hasApprovedAt &&
			in.Actor == model.ActorClient
	})).Return(&approved, nil)

	res, err := f.svc.Approve(context.Background(), shareToken, drawn())
	require.NoError(t, err)
	assert.True(t, res.Celebrate)
	assert.Equal(t, model.ApprovalApproved, res.Rdo.ApprovalStatus)
	assert.Equal(t, []string{ActionApproved}, f.notify.actions())
	f.rdos.AssertExpectations(t)
	f.sigs.AssertExpectations(t)
}

func TestApprovalService_ApproveEmptySignatureChangesNothing(t *testing.T) {
	f := newApprovalFixture()
	f.rdos.On("GetByToken", mock.Anything, shareToken).Return(sharedRdo(model.ApprovalPending), nil)
	f.sigs.On("Save", mock.Anything, mock.Anything).Return(nil, ErrEmptySignature)

	_, err := f.svc.Approve(context.Background(), shareToken, signature.Input{})
	assert.ErrorIs(t, err, ErrEmptySignature)
	f.rdos.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
	assert.Empty(t, f.notify.actions())
}

func TestApprovalService_ApproveOnlyFromPending(t *testing.T) {
	for _, status := range []model.ApprovalStatus{model.ApprovalDraft, model.ApprovalApproved, model.ApprovalRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := newApprovalFixture()
			f.rdos.On("GetByToken", mock.Anything, shareToken).Return(sharedRdo(status), nil)

			_, err := f.svc.Approve(context.Background(), shareToken, drawn())
			assert.ErrorIs(t, err, ErrConflict)
			f.sigs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			f.rdos.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
		})
	}
}

func TestApprovalService_ApproveLosesRace(t *testing.T) {
	f := newApprovalFixture()
	f.rdos.On("GetByToken", mock.Anything, shareToken).Return(sharedRdo(model.ApprovalPending), nil)
	f.sigs.On("Save", mock.Anything, mock.Anything).Return(&SavedSignature{URL: "u"}, nil)
	f.rdos.On("Transition", mock.Anything, mock.Anything).Return(nil, repo.ErrTransitionNotAllowed)

	_, err := f.svc.Approve(context.Background(), shareToken, drawn())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, f.notify.actions())
}

func TestApprovalService_Reject(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		setup   func(*MockRdoRepo)
		wantErr error
	}{
		{
			name:    "blank reason",
			reason:  "   ",
			setup:   func(*MockRdoRepo) {},
			wantErr: ErrInvalidInput,
		},
		{
			name:   "pending report",
			reason: "  Faltou a foto da laje ",
			setup: func(r *MockRdoRepo) {
				rejected := sharedRdo(model.ApprovalRejected)
				reason := "Faltou a foto da laje"
				rejected.RejectionReason = &reason
				r.On("Transition", mock.Anything, mock.MatchedBy(func(in repo.TransitionInput) bool {
					approvedAt, cleared := in.Set["approved_at"]
					return *in.Token == shareToken &&
						in.To == model.ApprovalRejected &&
						in.Set["rejection_reason"] == reason &&
						in.Set["client_signature_url"] == "" &&
						cleared && approvedAt == nil &&
						in.Reason != nil && *in.Reason == reason
				})).Return(rejected, nil)
			},
		},
		{
			name:   "not pending",
			reason: "Errado",
			setup: func(r *MockRdoRepo) {
				r.On("Transition", mock.Anything, mock.Anything).Return(nil, repo.ErrTransitionNotAllowed)
			},
			wantErr: ErrConflict,
		},
		{
			name:   "unknown token",
			reason: "Errado",
			setup: func(r *MockRdoRepo) {
				r.On("Transition", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newApprovalFixture()
			tt.setup(f.rdos)

			out, err := f.svc.Reject(context.Background(), shareToken, tt.reason)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.notify.actions())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.ApprovalRejected, out.ApprovalStatus)
			assert.Equal(t, []string{ActionRejected}, f.notify.actions())
			f.rdos.AssertExpectations(t)
		})
	}
}
