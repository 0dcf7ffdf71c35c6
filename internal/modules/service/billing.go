package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/meurdo/meurdo-api/internal/infra/httpclient"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"go.uber.org/zap"
)

// BillingFunctions are the serverless functions that own the Stripe session.
type BillingFunctions interface {
	CreateCheckout(ctx context.Context, userToken string, req httpclient.CheckoutRequest) (string, error)
	CreatePortal(ctx context.Context, userToken string, req httpclient.PortalRequest) (string, error)
}

type Redirect struct {
	URL string `json:"url"`
}

type BillingService interface {
	Checkout(ctx context.Context, sess *model.Session, priceID string) (*Redirect, error)
	Portal(ctx context.Context, sess *model.Session) (*Redirect, error)
}

type billingService struct {
	fn       BillingFunctions
	sessions SessionService
	origin   string
	log      *zap.Logger
}

func NewBillingService(fn BillingFunctions, sessions SessionService, origin string, log *zap.Logger) BillingService {
	return &billingService{fn: fn, sessions: sessions, origin: strings.TrimRight(origin, "/"), log: log}
}

func (s *billingService) Checkout(ctx context.Context, sess *model.Session, priceID string) (*Redirect, error) {
	if sess.IsPro {
		return nil, fmt.Errorf("%w: already subscribed", ErrConflict)
	}
	u, err := s.fn.CreateCheckout(ctx, sess.AccessToken, httpclient.CheckoutRequest{
		PriceID:    priceID,
		SuccessURL: s.origin + "/configuracoes?checkout=success",
		CancelURL:  s.origin + "/configuracoes?checkout=cancel",
	})
	if err != nil {
		s.log.Sugar().Errorw("create checkout failed", "user_id", sess.UserID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	s.invalidate(ctx, sess)
	return &Redirect{URL: u}, nil
}

func (s *billingService) Portal(ctx context.Context, sess *model.Session) (*Redirect, error) {
	u, err := s.fn.CreatePortal(ctx, sess.AccessToken, httpclient.PortalRequest{
		ReturnURL: s.origin + "/configuracoes",
	})
	if err != nil {
		s.log.Sugar().Errorw("create portal failed", "user_id", sess.UserID, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	s.invalidate(ctx, sess)
	return &Redirect{URL: u}, nil
}

// The subscriber flag changes outside this API once the user finishes in
// Stripe, so the cached one is dropped before they come back.
func (s *billingService) invalidate(ctx context.Context, sess *model.Session) {
	if err := s.sessions.Invalidate(ctx, sess.UserID); err != nil {
		s.log.Sugar().Warnw("profile cache invalidate failed", "user_id", sess.UserID, "err", err)
	}
}
