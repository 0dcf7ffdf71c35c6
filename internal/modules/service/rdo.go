package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/config"
	"github.com/meurdo/meurdo-api/internal/modules/form"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
	"github.com/meurdo/meurdo-api/internal/modules/schema"
	"github.com/meurdo/meurdo-api/internal/pkg/paging"
	"github.com/meurdo/meurdo-api/internal/pkg/utils"
	"go.uber.org/zap"
)

// FormRequest addresses the form of one obra and date. Form carries the
// client's current edits; nil means the stored report or a blank one.
type FormRequest struct {
	UserID uuid.UUID
	ObraID uuid.UUID
	Date   time.Time
	Form   *schema.Submission
}

type AttachResult struct {
	URL  string    `json:"url"`
	View form.View `json:"form"`
}

type SubmitResult struct {
	Rdo        *model.Rdo        `json:"rdo,omitempty"`
	Violations schema.Violations `json:"violations,omitempty"`
	View       form.View         `json:"form"`
}

type ListRdosInput struct {
	UserID uuid.UUID
	ObraID uuid.UUID
	Limit  int
	Cursor string
}

type RdoSummary struct {
	ID                uuid.UUID               `json:"id"`
	ReportDate        string                  `json:"report_date"`
	OperationalStatus model.OperationalStatus `json:"operational_status"`
	WorkStopped       bool                    `json:"work_stopped"`
	ApprovalStatus    model.ApprovalStatus    `json:"approval_status"`
	Status            model.Presentation      `json:"status"`
	RejectionReason   *string                 `json:"rejection_reason,omitempty"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

type ListRdosOutput struct {
	Items      []RdoSummary `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}

type ShareLink struct {
	RdoID       uuid.UUID            `json:"rdo_id"`
	Token       string               `json:"token"`
	URL         string               `json:"url"`
	WhatsAppURL string               `json:"whatsapp_url"`
	Status      model.ApprovalStatus `json:"approval_status"`
}

type RdoService interface {
	OpenForm(ctx context.Context, req FormRequest) (*form.View, error)
	CopyPrevious(ctx context.Context, req FormRequest) (*form.View, bool, error)
	Prefill(ctx context.Context, req FormRequest, section form.SectionName, key, catalogKey string) (*form.View, error)
	AttachPhoto(ctx context.Context, req FormRequest, section form.SectionName, key string, file form.Attachment) (*AttachResult, error)
	Submit(ctx context.Context, req FormRequest) (*SubmitResult, error)
	List(ctx context.Context, in ListRdosInput) (*ListRdosOutput, error)
	Share(ctx context.Context, userID, rdoID uuid.UUID) (*ShareLink, error)
	Resubmit(ctx context.Context, userID, rdoID uuid.UUID) (*model.Rdo, error)
	History(ctx context.Context, userID, rdoID uuid.UUID) ([]model.RdoStatusEvent, error)
}

type rdoService struct {
	rdos     repo.RdoRepo
	obras    repo.ObraRepo
	catalogs CatalogService
	store    ObjectStore
	buckets  config.BucketsCfg
	origin   string
	notify   Notifier
	log      *zap.Logger
}

func NewRdoService(
	rdos repo.RdoRepo,
	obras repo.ObraRepo,
	catalogs CatalogService,
	store ObjectStore,
	cfg *config.Config,
	notify Notifier,
	log *zap.Logger,
) RdoService {
	return &rdoService{
		rdos:     rdos,
		obras:    obras,
		catalogs: catalogs,
		store:    store,
		buckets:  cfg.S3.Buckets,
		origin:   strings.TrimRight(cfg.App.PublicOrigin, "/"),
		notify:   notify,
		log:      log,
	}
}

func (s *rdoService) orchestrator(ctx context.Context, req FormRequest, write bool) (*form.Orchestrator, error) {
	if err := requireAccess(ctx, s.obras, req.ObraID, req.UserID, write); err != nil {
		return nil, err
	}

	o := form.NewOrchestrator(form.Deps{
		Gateway:  s.rdos,
		Catalogs: s.catalogs,
		Store:    attachmentStore{store: s.store, bucket: s.buckets.Attachments},
		Log:      s.log,
		OnSuccess: func(r *model.Rdo) {
			s.log.Sugar().Infow("rdo saved", "rdo_id", r.ID, "obra_id", r.ObraID, "date", r.ReportDate.Format(schema.DateLayout))
		},
		Invalidate: func(r *model.Rdo) {
			s.notify.RdoChanged(ctx, r, ActionSaved)
		},
	})
	if err := o.Open(ctx, req.ObraID, req.UserID, req.Date); err != nil {
		return nil, translate(err)
	}
	if req.Form != nil {
		if err := o.Restore(*req.Form); err != nil {
			return nil, translate(err)
		}
	}
	return o, nil
}

func (s *rdoService) OpenForm(ctx context.Context, req FormRequest) (*form.View, error) {
	o, err := s.orchestrator(ctx, req, false)
	if err != nil {
		return nil, err
	}
	v := o.View()
	return &v, nil
}

func (s *rdoService) CopyPrevious(ctx context.Context, req FormRequest) (*form.View, bool, error) {
	o, err := s.orchestrator(ctx, req, true)
	if err != nil {
		return nil, false, err
	}
	copied, err := o.CopyPreviousDay(ctx)
	if err != nil {
		return nil, false, translate(err)
	}
	v := o.View()
	return &v, copied, nil
}

func (s *rdoService) Prefill(ctx context.Context, req FormRequest, section form.SectionName, key, catalogKey string) (*form.View, error) {
	o, err := s.orchestrator(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if err := o.Prefill(section, key, catalogKey); err != nil {
		return nil, translate(err)
	}
	v := o.View()
	return &v, nil
}

func (s *rdoService) AttachPhoto(ctx context.Context, req FormRequest, section form.SectionName, key string, file form.Attachment) (*AttachResult, error) {
	o, err := s.orchestrator(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if o.Locked() {
		return nil, ErrLocked
	}
	u, err := o.AttachPhoto(ctx, section, key, file)
	if err != nil {
		if errors.Is(err, form.ErrStaleUpload) || errors.Is(err, form.ErrRowNotFound) || errors.Is(err, form.ErrUnknownSection) {
			return nil, translate(err)
		}
		s.log.Sugar().Errorw("attachment upload failed", "obra_id", req.ObraID, "section", section, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return &AttachResult{URL: u, View: o.View()}, nil
}

func (s *rdoService) Submit(ctx context.Context, req FormRequest) (*SubmitResult, error) {
	o, err := s.orchestrator(ctx, req, true)
	if err != nil {
		return nil, err
	}
	r, violations, err := o.Submit(ctx)
	if err != nil {
		s.log.Sugar().Errorw("rdo submit failed", "obra_id", req.ObraID, "date", req.Date.Format(schema.DateLayout), "err", err)
		return nil, translate(err)
	}
	return &SubmitResult{Rdo: r, Violations: violations, View: o.View()}, nil
}

func (s *rdoService) List(ctx context.Context, in ListRdosInput) (*ListRdosOutput, error) {
	if err := requireAccess(ctx, s.obras, in.ObraID, in.UserID, false); err != nil {
		return nil, err
	}

	var afterT time.Time
	var afterID uuid.UUID
	var err error
	if in.Cursor != "" {
		afterT, afterID, err = paging.DecodeCursor(in.Cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	items, err := s.rdos.ListByObra(ctx, in.ObraID, afterT, afterID, in.Limit+1)
	if err != nil {
		return nil, err
	}

	out := &ListRdosOutput{Items: make([]RdoSummary, 0, len(items))}
	if len(items) > in.Limit {
		out.HasMore = true
		items = items[:in.Limit]
		last := items[len(items)-1]
		out.NextCursor = paging.EncodeCursor(last.ReportDate, last.ID)
	}
	for _, r := range items {
		p, _ := r.ApprovalStatus.Presentation()
		out.Items = append(out.Items, RdoSummary{
			ID:                r.ID,
			ReportDate:        r.ReportDate.Format(schema.DateLayout),
			OperationalStatus: r.OperationalStatus,
			WorkStopped:       r.WorkStopped,
			ApprovalStatus:    r.ApprovalStatus,
			Status:            p,
			RejectionReason:   r.RejectionReason,
			UpdatedAt:         r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *rdoService) rdoFor(ctx context.Context, userID, rdoID uuid.UUID, write bool) (*model.Rdo, error) {
	r, err := s.rdos.GetByID(ctx, rdoID)
	if err != nil {
		return nil, translate(err)
	}
	if err := requireAccess(ctx, s.obras, r.ObraID, userID, write); err != nil {
		return nil, err
	}
	return r, nil
}

// Share returns the public approval link of a report, generating its token on
// first use. A draft becomes pending at that moment.
func (s *rdoService) Share(ctx context.Context, userID, rdoID uuid.UUID) (*ShareLink, error) {
	cur, err := s.rdoFor(ctx, userID, rdoID, true)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateShareToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	r, err := s.rdos.SetShareToken(ctx, rdoID, token)
	if err != nil {
		return nil, translate(err)
	}
	if cur.ApprovalStatus != r.ApprovalStatus {
		s.notify.RdoChanged(ctx, r, ActionShared)
	}

	obraName := ""
	if o, err := s.obras.Get(ctx, r.ObraID); err == nil {
		obraName = o.Name
	}
	link := fmt.Sprintf("%s/rdo/share/%s", s.origin, *r.ApprovalToken)
	return &ShareLink{
		RdoID:       r.ID,
		Token:       *r.ApprovalToken,
		URL:         link,
		WhatsAppURL: WhatsAppLink(obraName, r.ReportDate, link),
		Status:      r.ApprovalStatus,
	}, nil
}

// WhatsAppLink builds a wa.me deep link with the approval message pre-filled.
func WhatsAppLink(obraName string, date time.Time, link string) string {
	msg := fmt.Sprintf("Olá! Segue o Relatório Diário de Obra de %s para sua aprovação: %s",
		date.Format("02/01/2006"), link)
	if obraName != "" {
		msg = fmt.Sprintf("Olá! Segue o Relatório Diário de Obra (%s) de %s para sua aprovação: %s",
			obraName, date.Format("02/01/2006"), link)
	}
	return "https://wa.me/?text=" + url.QueryEscape(msg)
}

// Resubmit sends a rejected report back to pending. The rejection reason is
// cleared on the report and stays in its history.
func (s *rdoService) Resubmit(ctx context.Context, userID, rdoID uuid.UUID) (*model.Rdo, error) {
	if _, err := s.rdoFor(ctx, userID, rdoID, true); err != nil {
		return nil, err
	}
	r, err := s.rdos.Transition(ctx, repo.TransitionInput{
		RdoID: &rdoID,
		From:  []model.ApprovalStatus{model.ApprovalRejected},
		To:    model.ApprovalPending,
		Set:   map[string]any{"rejection_reason": nil},
		Actor: model.ActorOwner,
		Meta:  map[string]any{"user_id": userID.String()},
	})
	if err != nil {
		return nil, translate(err)
	}
	s.notify.RdoChanged(ctx, r, ActionResubmitted)
	return r, nil
}

func (s *rdoService) History(ctx context.Context, userID, rdoID uuid.UUID) ([]model.RdoStatusEvent, error) {
	if _, err := s.rdoFor(ctx, userID, rdoID, false); err != nil {
		return nil, err
	}
	return s.rdos.ListEvents(ctx, rdoID)
}
