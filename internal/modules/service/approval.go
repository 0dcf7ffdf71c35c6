package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
	"github.com/meurdo/meurdo-api/internal/pkg/cost"
	"github.com/meurdo/meurdo-api/internal/pkg/signature"
	"go.uber.org/zap"
)

// ApprovalView is what the client sees behind a share link.
type ApprovalView struct {
	Rdo         *model.Rdo          `json:"rdo"`
	ObraName    string              `json:"obra_name"`
	Totals      cost.Totals         `json:"totals"`
	Status      model.Presentation  `json:"status"`
	Operational model.Presentation  `json:"operational"`
	Weather     *model.Presentation `json:"weather,omitempty"`
	CanDecide   bool                `json:"can_decide"`
}

type ApprovalResult struct {
	Rdo *model.Rdo `json:"rdo"`
	// Celebrate asks the page to play its confirmation animation.
	Celebrate bool `json:"celebrate"`
}

type ApprovalService interface {
	View(ctx context.Context, token string) (*ApprovalView, error)
	Approve(ctx context.Context, token string, sig signature.Input) (*ApprovalResult, error)
	Reject(ctx context.Context, token, reason string) (*model.Rdo, error)
}

type approvalService struct {
	rdos       repo.RdoRepo
	obras      repo.ObraRepo
	signatures SignatureService
	notify     Notifier
	log        *zap.Logger
	now        func() time.Time
}

func NewApprovalService(rdos repo.RdoRepo, obras repo.ObraRepo, signatures SignatureService, notify Notifier, log *zap.Logger) ApprovalService {
	return &approvalService{
		rdos:       rdos,
		obras:      obras,
		signatures: signatures,
		notify:     notify,
		log:        log,
		now:        time.Now,
	}
}

func (s *approvalService) View(ctx context.Context, token string) (*ApprovalView, error) {
	r, err := s.rdos.GetByToken(ctx, token)
	if err != nil {
		return nil, translate(err)
	}

	v := &ApprovalView{
		Rdo:       r,
		Totals:    cost.Compute(r.Manpower, r.Equipment),
		CanDecide: r.ApprovalStatus == model.ApprovalPending,
	}
	v.Status, _ = r.ApprovalStatus.Presentation()
	v.Operational, _ = r.OperationalStatus.Presentation()
	if r.Weather != nil {
		if p, ok := r.Weather.Presentation(); ok {
			v.Weather = &p
		}
	}
	if o, err := s.obras.Get(ctx, r.ObraID); err == nil {
		v.ObraName = o.Name
	}
	return v, nil
}

// Approve stores the client's signature and approves a pending report in one
// token-scoped update. An empty signature changes nothing.
func (s *approvalService) Approve(ctx context.Context, token string, sig signature.Input) (*ApprovalResult, error) {
	r, err := s.rdos.GetByToken(ctx, token)
	if err != nil {
		return nil, translate(err)
	}
	if r.ApprovalStatus != model.ApprovalPending {
		return nil, fmt.Errorf("%w: report is %s", ErrConflict, r.ApprovalStatus)
	}

	saved, err := s.signatures.Save(ctx, SaveSignatureInput{RdoID: &r.ID, Role: SignerClient, Signature: sig})
	if err != nil {
		return nil, err
	}

	approvedAt := s.now().UTC()
	updated, err := s.rdos.Transition(ctx, repo.TransitionInput{
		Token: &token,
		From:  []model.ApprovalStatus{model.ApprovalPending},
		To:    model.ApprovalApproved,
		Set: map[string]any{
			"client_signature_url": saved.URL,
			"approved_at":          approvedAt,
		},
		Actor: model.ActorClient,
		Meta:  map[string]any{"signature_bucket": saved.Bucket, "signature_fallback": saved.Fallback},
	})
	if err != nil {
		s.log.Sugar().Errorw("approve failed after signature upload", "rdo_id", r.ID, "key", saved.Key, "err", err)
		return nil, translate(err)
	}

	s.notify.RdoChanged(ctx, updated, ActionApproved)
	return &ApprovalResult{Rdo: updated, Celebrate: true}, nil
}

// Reject sends a pending report back to its owner with a reason. A stale
// client signature or approval date is cleared with it.
func (s *approvalService) Reject(ctx context.Context, token, reason string) (*model.Rdo, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrInvalidInput)
	}

	updated, err := s.rdos.Transition(ctx, repo.TransitionInput{
		Token: &token,
		From:  []model.ApprovalStatus{model.ApprovalPending},
		To:    model.ApprovalRejected,
		Set: map[string]any{
			"rejection_reason":     reason,
			"client_signature_url": "",
			"approved_at":          nil,
		},
		Reason: &reason,
		Actor:  model.ActorClient,
	})
	if err != nil {
		return nil, translate(err)
	}

	s.notify.RdoChanged(ctx, updated, ActionRejected)
	return updated, nil
}
