package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrRdoLocked is returned when an approved report is written to.
	ErrRdoLocked = errors.New("rdo is approved and locked")
	// ErrTransitionNotAllowed means the report is not in a status the transition starts from.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// TransitionInput moves one report between approval statuses. Exactly one of
// RdoID and Token scopes the update.
type TransitionInput struct {
	RdoID  *uuid.UUID
	Token  *string
	From   []model.ApprovalStatus
	To     model.ApprovalStatus
	Set    map[string]any
	Reason *string
	Actor  string
	Meta   map[string]any
}

type RdoRepo interface {
	Create(ctx context.Context, r *model.Rdo) error
	Replace(ctx context.Context, r *model.Rdo) error
	FindByDate(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error)
	FindPrevious(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Rdo, error)
	GetByToken(ctx context.Context, token string) (*model.Rdo, error)
	ListByObra(ctx context.Context, obraID uuid.UUID, afterDate time.Time, afterID uuid.UUID, limit int) ([]model.Rdo, error)
	SetShareToken(ctx context.Context, id uuid.UUID, token string) (*model.Rdo, error)
	Transition(ctx context.Context, in TransitionInput) (*model.Rdo, error)
	ListEvents(ctx context.Context, rdoID uuid.UUID) ([]model.RdoStatusEvent, error)
}

type rdoRepo struct{ db *gorm.DB }

func NewRdoRepo(db *gorm.DB) RdoRepo {
	return &rdoRepo{db: db}
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts the report and its four child collections in one transaction.
func (r *rdoRepo) Create(ctx context.Context, rdo *model.Rdo) error {
	rdo.ReportDate = DateOnly(rdo.ReportDate)
	if rdo.ApprovalStatus == "" {
		rdo.ApprovalStatus = model.ApprovalDraft
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rdo).Error; err != nil {
			return fmt.Errorf("insert rdo: %w", err)
		}
		return insertChildren(tx, rdo)
	})
}

// Replace rewrites the content of an existing report: the parent row is
// updated unless approved, then every child collection is deleted and
// reinserted from rdo. Approval columns and the report date are left untouched.
func (r *rdoRepo) Replace(ctx context.Context, rdo *model.Rdo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Rdo{}).
			Where("id = ? AND approval_status <> ?", rdo.ID, model.ApprovalApproved).
			Updates(map[string]any{
				"periods":                   rdo.Periods,
				"weather":                   rdo.Weather,
				"operational_status":        rdo.OperationalStatus,
				"notes":                     rdo.Notes,
				"impediments":               rdo.Impediments,
				"work_stopped":              rdo.WorkStopped,
				"hours_lost":                rdo.HoursLost,
				"safety_height_ok":          rdo.SafetyHeightOK,
				"safety_ppe_ok":             rdo.SafetyPPEOK,
				"safety_clean_ok":           rdo.SafetyCleanOK,
				"safety_briefing_ok":        rdo.SafetyBriefingOK,
				"safety_notes":              rdo.SafetyNotes,
				"safety_photo_url":          rdo.SafetyPhotoURL,
				"responsible_signature_url": rdo.ResponsibleSignatureURL,
				"signer_name":               rdo.SignerName,
			})
		if res.Error != nil {
			return fmt.Errorf("update rdo: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.Rdo{}).Where("id = ?", rdo.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrRdoLocked
		}

		for _, child := range []any{&model.RdoActivity{}, &model.RdoManpower{}, &model.RdoEquipment{}, &model.RdoMaterial{}} {
			if err := tx.Where("rdo_id = ?", rdo.ID).Delete(child).Error; err != nil {
				return fmt.Errorf("delete children: %w", err)
			}
		}
		return insertChildren(tx, rdo)
	})
}

func insertChildren(tx *gorm.DB, rdo *model.Rdo) error {
	for i := range rdo.Activities {
		rdo.Activities[i].ID = uuid.Nil
		rdo.Activities[i].RdoID = rdo.ID
		rdo.Activities[i].Position = i
	}
	for i := range rdo.Manpower {
		rdo.Manpower[i].ID = uuid.Nil
		rdo.Manpower[i].RdoID = rdo.ID
		rdo.Manpower[i].Position = i
	}
	for i := range rdo.Equipment {
		rdo.Equipment[i].ID = uuid.Nil
		rdo.Equipment[i].RdoID = rdo.ID
		rdo.Equipment[i].Position = i
	}
	for i := range rdo.Materials {
		rdo.Materials[i].ID = uuid.Nil
		rdo.Materials[i].RdoID = rdo.ID
		rdo.Materials[i].Position = i
	}

	// Empty collections are skipped: gorm refuses to insert an empty slice.
	if len(rdo.Activities) > 0 {
		if err := tx.Create(&rdo.Activities).Error; err != nil {
			return fmt.Errorf("insert activities: %w", err)
		}
	}
	if len(rdo.Manpower) > 0 {
		if err := tx.Create(&rdo.Manpower).Error; err != nil {
			return fmt.Errorf("insert manpower: %w", err)
		}
	}
	if len(rdo.Equipment) > 0 {
		if err := tx.Create(&rdo.Equipment).Error; err != nil {
			return fmt.Errorf("insert equipment: %w", err)
		}
	}
	if len(rdo.Materials) > 0 {
		if err := tx.Create(&rdo.Materials).Error; err != nil {
			return fmt.Errorf("insert materials: %w", err)
		}
	}
	return nil
}

func (r *rdoRepo) full(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Activities", byPosition).
		Preload("Manpower", byPosition).
		Preload("Equipment", byPosition).
		Preload("Materials", byPosition)
}

// FindByDate returns nil, nil when the obra has no report on date.
func (r *rdoRepo) FindByDate(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error) {
	var rdo model.Rdo
	err := r.full(ctx).Where("obra_id = ? AND report_date = ?", obraID, DateOnly(date)).First(&rdo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rdo, nil
}

// FindPrevious loads the report of the day before date without its
// activities. nil, nil means no report was filed that day.
func (r *rdoRepo) FindPrevious(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error) {
	var rdo model.Rdo
	err := r.db.WithContext(ctx).
		Preload("Manpower", byPosition).
		Preload("Equipment", byPosition).
		Preload("Materials", byPosition).
		Where("obra_id = ? AND report_date = ?", obraID, DateOnly(date).AddDate(0, 0, -1)).
		First(&rdo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rdo, nil
}

func (r *rdoRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Rdo, error) {
	var rdo model.Rdo
	return &rdo, r.full(ctx).Where("id = ?", id).First(&rdo).Error
}

func (r *rdoRepo) GetByToken(ctx context.Context, token string) (*model.Rdo, error) {
	var rdo model.Rdo
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &rdo, r.full(ctx).Where("approval_token = ?", token).First(&rdo).Error
}

// ListByObra pages reports newest first on (report_date, id).
func (r *rdoRepo) ListByObra(ctx context.Context, obraID uuid.UUID, afterDate time.Time, afterID uuid.UUID, limit int) ([]model.Rdo, error) {
	q := r.db.WithContext(ctx).Where("obra_id = ?", obraID)

	if !afterDate.IsZero() && afterID != uuid.Nil {
		afterDate = DateOnly(afterDate)
		q = q.Where("(report_date < ?) OR (report_date = ? AND id < ?)", afterDate, afterDate, afterID)
	}

	var items []model.Rdo
	return items, q.Order("report_date DESC, id DESC").Limit(limit).Find(&items).Error
}

// SetShareToken stores token on a report that has none yet and submits a
// draft for approval. A report that already has a token keeps it.
func (r *rdoRepo) SetShareToken(ctx context.Context, id uuid.UUID, token string) (*model.Rdo, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.Rdo
		if err := tx.Where("id = ?", id).First(&cur).Error; err != nil {
			return err
		}
		if cur.ApprovalToken != nil {
			return nil
		}

		updates := map[string]any{"approval_token": token}
		if cur.ApprovalStatus == model.ApprovalDraft {
			updates["approval_status"] = model.ApprovalPending
		}
		res := tx.Model(&model.Rdo{}).Where("id = ? AND approval_token IS NULL", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || cur.ApprovalStatus != model.ApprovalDraft {
			return nil
		}
		return tx.Create(&model.RdoStatusEvent{
			RdoID:      id,
			FromStatus: model.ApprovalDraft,
			ToStatus:   model.ApprovalPending,
			Actor:      model.ActorOwner,
			Meta:       datatypes.JSONMap{"via": "share"},
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Transition applies a status change and records it in the history in one
// transaction. The update is conditional on the status read, so a concurrent
// change makes it fail with ErrTransitionNotAllowed instead of overwriting.
func (r *rdoRepo) Transition(ctx context.Context, in TransitionInput) (*model.Rdo, error) {
	if (in.RdoID == nil) == (in.Token == nil) {
		return nil, fmt.Errorf("transition needs exactly one of id or token")
	}

	var id uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Rdo{})
		if in.RdoID != nil {
			q = q.Where("id = ?", *in.RdoID)
		} else {
			q = q.Where("approval_token = ?", *in.Token)
		}
		var cur model.Rdo
		if err := q.First(&cur).Error; err != nil {
			return err
		}
		id = cur.ID
		if !slices.Contains(in.From, cur.ApprovalStatus) {
			return ErrTransitionNotAllowed
		}

		updates := make(map[string]any, len(in.Set)+1)
		for k, v := range in.Set {
			updates[k] = v
		}
		updates["approval_status"] = in.To

		res := tx.Model(&model.Rdo{}).
			Where("id = ? AND approval_status = ?", cur.ID, cur.ApprovalStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTransitionNotAllowed
		}

		ev := &model.RdoStatusEvent{
			RdoID:      cur.ID,
			FromStatus: cur.ApprovalStatus,
			ToStatus:   in.To,
			Reason:     in.Reason,
			Actor:      in.Actor,
		}
		if in.Meta != nil {
			ev.Meta = datatypes.JSONMap(in.Meta)
		}
		return tx.Create(ev).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *rdoRepo) ListEvents(ctx context.Context, rdoID uuid.UUID) ([]model.RdoStatusEvent, error) {
	var events []model.RdoStatusEvent
	return events, r.db.WithContext(ctx).Where("rdo_id = ?", rdoID).Order("created_at ASC").Find(&events).Error
}
