package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"go.uber.org/zap"
)

const (
	ActionSaved       = "saved"
	ActionShared      = "shared"
	ActionApproved    = "approved"
	ActionRejected    = "rejected"
	ActionResubmitted = "resubmitted"
)

// ChangeBroker fans change notifications out to live subscribers.
type ChangeBroker interface {
	RdoChanged(ctx context.Context, rdoID uuid.UUID, action string) error
}

type QueuePublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// StatusMessage is published on the rdo_status queue for every approval
// status change.
type StatusMessage struct {
	RdoID      uuid.UUID            `json:"rdo_id"`
	ObraID     uuid.UUID            `json:"obra_id"`
	ReportDate string               `json:"report_date"`
	Status     model.ApprovalStatus `json:"status"`
	Action     string               `json:"action"`
	At         time.Time            `json:"at"`
}

// Notifier tells live viewers and downstream consumers that a report changed.
// Delivery is best effort: the change is already committed.
type Notifier interface {
	RdoChanged(ctx context.Context, rdo *model.Rdo, action string)
}

type notifier struct {
	broker ChangeBroker
	pub    QueuePublisher
	log    *zap.Logger
}

// NewNotifier accepts a nil publisher; status messages are then skipped.
func NewNotifier(broker ChangeBroker, pub QueuePublisher, log *zap.Logger) Notifier {
	return &notifier{broker: broker, pub: pub, log: log}
}

func (n *notifier) RdoChanged(ctx context.Context, rdo *model.Rdo, action string) {
	if n.broker != nil {
		if err := n.broker.RdoChanged(ctx, rdo.ID, action); err != nil {
			n.log.Sugar().Warnw("live notify failed", "rdo_id", rdo.ID, "action", action, "err", err)
		}
	}
	if n.pub == nil || action == ActionSaved {
		return
	}
	msg := StatusMessage{
		RdoID:      rdo.ID,
		ObraID:     rdo.ObraID,
		ReportDate: rdo.ReportDate.Format("2006-01-02"),
		Status:     rdo.ApprovalStatus,
		Action:     action,
		At:         time.Now().UTC(),
	}
	if err := n.pub.PublishJSON(ctx, msg); err != nil {
		n.log.Sugar().Warnw("status publish failed", "rdo_id", rdo.ID, "action", action, "err", err)
	}
}
