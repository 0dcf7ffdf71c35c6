package form

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/schema"
	"github.com/meurdo/meurdo-api/internal/pkg/cost"
	"github.com/meurdo/meurdo-api/internal/pkg/utils"
	"go.uber.org/zap"
)

var (
	ErrNotReady         = errors.New("form is not ready")
	ErrLocked           = errors.New("report is approved and can no longer be edited")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrStaleUpload      = errors.New("upload result discarded")
)

type State int

const (
	StateLoading State = iota
	StateReady
)

type Mode string

const (
	ModeNew     Mode = "new"
	ModeEditing Mode = "editing"
)

// Gateway is the persistence side of the form.
type Gateway interface {
	FindByDate(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error)
	FindPrevious(ctx context.Context, obraID uuid.UUID, date time.Time) (*model.Rdo, error)
	Create(ctx context.Context, r *model.Rdo) error
	Replace(ctx context.Context, r *model.Rdo) error
}

type CatalogSource interface {
	Load(ctx context.Context, obraID uuid.UUID) (CatalogSet, error)
}

// Store uploads attachment bytes and returns their public URL.
type Store interface {
	PutAttachment(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type Attachment struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Deps struct {
	Gateway  Gateway
	Catalogs CatalogSource
	Store    Store
	Log      *zap.Logger
	// OnSuccess runs after a successful submit.
	OnSuccess func(r *model.Rdo)
	// Invalidate tells readers of the submitted report to re-fetch it.
	Invalidate func(r *model.Rdo)
}

// View is what a client sees of the form after each operation.
type View struct {
	Mode            Mode                 `json:"mode"`
	Locked          bool                 `json:"locked"`
	RdoID           *uuid.UUID           `json:"rdo_id,omitempty"`
	ApprovalStatus  model.ApprovalStatus `json:"approval_status"`
	RejectionReason *string              `json:"rejection_reason,omitempty"`
	HasPrevious     bool                 `json:"has_previous"`
	Form            schema.Submission    `json:"form"`
	Totals          cost.Totals          `json:"totals"`
	Uploading       []string             `json:"uploading"`
}

// Orchestrator drives one RDO form from Loading to Ready and on to submit.
type Orchestrator struct {
	deps Deps

	mu          sync.Mutex
	state       State
	mode        Mode
	obraID      uuid.UUID
	userID      uuid.UUID
	date        time.Time
	loaded      *model.Rdo
	form        *Form
	catalog     CatalogSet
	hasPrevious bool
	submitting  bool
	uploads     *UploadTracker
}

func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Orchestrator{deps: deps, state: StateLoading, uploads: NewUploadTracker()}
}

// Open loads the report of obraID on date, or a blank skeleton when none exists.
func (o *Orchestrator) Open(ctx context.Context, obraID, userID uuid.UUID, date time.Time) error {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := o.deps.Gateway.FindByDate(ctx, obraID, date)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	prev, err := o.deps.Gateway.FindPrevious(ctx, obraID, date)
	if err != nil {
		return fmt.Errorf("load previous report: %w", err)
	}
	var cat CatalogSet
	if o.deps.Catalogs != nil {
		if cat, err = o.deps.Catalogs.Load(ctx, obraID); err != nil {
			return fmt.Errorf("load catalogs: %w", err)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.obraID, o.userID, o.date = obraID, userID, date
	o.catalog = cat
	o.hasPrevious = prev != nil
	o.loaded = existing
	if existing != nil {
		o.mode = ModeEditing
		o.form = FromRdo(existing)
	} else {
		o.mode = ModeNew
		o.form = NewBlank(date)
	}
	o.state = StateReady
	return nil
}

// Restore replaces the opened form with a client-posted one. Row keys carried
// by the client are kept. The report date stays the one the form was opened
// for.
func (o *Orchestrator) Restore(sub schema.Submission) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateReady {
		return ErrNotReady
	}
	sub.ReportDate = o.date.Format(schema.DateLayout)
	o.form = FromSubmission(sub)
	return nil
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Locked is true once the loaded report was approved.
func (o *Orchestrator) Locked() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.isLocked()
}

func (o *Orchestrator) isLocked() bool {
	return o.loaded != nil && o.loaded.Locked()
}

// Edit runs fn against the form under the orchestrator lock.
func (o *Orchestrator) Edit(fn func(f *Form) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateReady {
		return ErrNotReady
	}
	if o.isLocked() {
		return ErrLocked
	}
	return fn(o.form)
}

// RemoveRow deletes a row and cancels any upload still running for it.
func (o *Orchestrator) RemoveRow(section SectionName, key string) error {
	return o.Edit(func(f *Form) error {
		ok := false
		switch section {
		case SectionActivities:
			ok = f.Activities.RemoveKey(key)
		case SectionManpower:
			ok = f.Manpower.RemoveKey(key)
		case SectionEquipment:
			ok = f.Equipment.RemoveKey(key)
		case SectionMaterials:
			ok = f.Materials.RemoveKey(key)
		default:
			return ErrUnknownSection
		}
		if !ok {
			return ErrRowNotFound
		}
		o.uploads.Cancel(section, key)
		return nil
	})
}

func (o *Orchestrator) Prefill(section SectionName, key, catalogKey string) error {
	return o.Edit(func(f *Form) error {
		return f.Prefill(o.catalog, section, key, catalogKey)
	})
}

// CopyPreviousDay replaces manpower and equipment with the previous report's
// rows and carries over its signer name. It reports false when there is no
// previous report, leaving the form untouched.
func (o *Orchestrator) CopyPreviousDay(ctx context.Context) (bool, error) {
	o.mu.Lock()
	if o.state != StateReady {
		o.mu.Unlock()
		return false, ErrNotReady
	}
	if o.isLocked() {
		o.mu.Unlock()
		return false, ErrLocked
	}
	obraID, date := o.obraID, o.date
	o.mu.Unlock()

	prev, err := o.deps.Gateway.FindPrevious(ctx, obraID, date)
	if err != nil {
		return false, fmt.Errorf("load previous report: %w", err)
	}
	if prev == nil {
		return false, nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.form.Manpower.Reset(manpowerRows(prev.Manpower))
	o.form.Equipment.Reset(equipmentRows(prev.Equipment))
	o.form.Fields.SignerName = prev.SignerName
	return true, nil
}

// AttachPhoto uploads file and writes its URL into the row. The result is
// dropped with ErrStaleUpload when the row was removed or a newer upload for
// the same row started meanwhile.
func (o *Orchestrator) AttachPhoto(ctx context.Context, section SectionName, key string, file Attachment) (string, error) {
	if section == SectionManpower {
		return "", ErrUnknownSection
	}

	o.mu.Lock()
	if o.state != StateReady {
		o.mu.Unlock()
		return "", ErrNotReady
	}
	if !o.form.HasRow(section, key) {
		o.mu.Unlock()
		return "", ErrRowNotFound
	}
	scope := "new"
	if o.loaded != nil {
		scope = o.loaded.ID.String()
	}
	tk := o.uploads.Begin(section, key)
	o.mu.Unlock()

	objKey := attachmentKey(section, scope, file.Filename)
	url, err := o.deps.Store.PutAttachment(ctx, objKey, file.ContentType, file.Body)

	o.mu.Lock()
	defer o.mu.Unlock()
	current := o.uploads.Finish(tk)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objKey, err)
	}
	if !current || !o.form.HasRow(section, key) {
		o.deps.Log.Sugar().Infow("discarding stale upload", "section", section, "key", key)
		return "", ErrStaleUpload
	}
	if err := o.form.SetPhoto(section, key, url); err != nil {
		return "", err
	}
	return url, nil
}

// attachmentKey follows {category}/{report-id or new}/{timestamp_random}.{ext}.
func attachmentKey(section SectionName, scope, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%s/%d_%s.%s", section, scope, time.Now().UnixMilli(), utils.RandomSuffix(), ext)
}

// Submit validates the form and persists it through the gateway. Violations
// are returned without touching the gateway.
func (o *Orchestrator) Submit(ctx context.Context) (*model.Rdo, schema.Violations, error) {
	o.mu.Lock()
	if o.state != StateReady {
		o.mu.Unlock()
		return nil, nil, ErrNotReady
	}
	if o.isLocked() {
		o.mu.Unlock()
		return nil, nil, ErrLocked
	}
	if o.submitting {
		o.mu.Unlock()
		return nil, nil, ErrSubmitInProgress
	}

	r, violations := schema.Validate(o.form.Submission())
	if len(violations) > 0 {
		o.mu.Unlock()
		return nil, violations, nil
	}
	o.submitting = true
	loaded := o.loaded
	obraID, userID, date := o.obraID, o.userID, o.date
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	r.ObraID = obraID
	r.ReportDate = date
	var err error
	if loaded != nil {
		r.ID = loaded.ID
		r.CreatedBy = loaded.CreatedBy
		r.CreatedAt = loaded.CreatedAt
		r.ApprovalStatus = loaded.ApprovalStatus
		r.ApprovalToken = loaded.ApprovalToken
		r.RejectionReason = loaded.RejectionReason
		r.ClientSignatureURL = loaded.ClientSignatureURL
		r.ApprovedAt = loaded.ApprovedAt
		err = o.deps.Gateway.Replace(ctx, r)
	} else {
		r.CreatedBy = userID
		r.ApprovalStatus = model.ApprovalDraft
		err = o.deps.Gateway.Create(ctx, r)
	}
	if err != nil {
		return nil, nil, err
	}

	o.mu.Lock()
	o.loaded = r
	o.mode = ModeEditing
	o.mu.Unlock()

	if o.deps.OnSuccess != nil {
		o.deps.OnSuccess(r)
	}
	if o.deps.Invalidate != nil {
		o.deps.Invalidate(r)
	}
	return r, nil, nil
}

// View snapshots the current state for a client.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := View{
		Mode:           o.mode,
		Locked:         o.isLocked(),
		HasPrevious:    o.hasPrevious,
		ApprovalStatus: model.ApprovalDraft,
		Uploading:      []string{},
	}
	if o.form == nil {
		return v
	}
	v.Form = o.form.Submission()
	v.Totals = o.form.Totals()
	if o.loaded != nil {
		id := o.loaded.ID
		v.RdoID = &id
		v.ApprovalStatus = o.loaded.ApprovalStatus
		v.RejectionReason = o.loaded.RejectionReason
	}
	for _, s := range []SectionName{SectionActivities, SectionEquipment, SectionMaterials} {
		for _, k := range o.keys(s) {
			if o.uploads.InFlight(s, k) {
				v.Uploading = append(v.Uploading, string(s)+"/"+k)
			}
		}
	}
	if o.uploads.InFlight(SectionSafety, "") {
		v.Uploading = append(v.Uploading, string(SectionSafety)+"/")
	}
	return v
}

func (o *Orchestrator) keys(section SectionName) []string {
	var out []string
	switch section {
	case SectionActivities:
		for _, r := range o.form.Activities.Rows() {
			out = append(out, r.Key)
		}
	case SectionEquipment:
		for _, r := range o.form.Equipment.Rows() {
			out = append(out, r.Key)
		}
	case SectionMaterials:
		for _, r := range o.form.Materials.Rows() {
			out = append(out, r.Key)
		}
	}
	return out
}

// InFlight reports whether an upload for the row is still running.
func (o *Orchestrator) InFlight(section SectionName, key string) bool {
	return o.uploads.InFlight(section, key)
}
