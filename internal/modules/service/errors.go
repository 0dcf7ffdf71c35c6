package service

import (
	"errors"
	"fmt"

	"github.com/meurdo/meurdo-api/internal/modules/form"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrLocked           = errors.New("report is approved and locked")
	ErrConflict         = errors.New("conflict with current state")
	ErrEmptySignature   = errors.New("signature is empty")
	ErrUploadFailed     = errors.New("upload failed")
	ErrUpstream         = errors.New("upstream service failed")
)

// UploadError names every storage location that was tried.
type UploadError struct {
	Primary     string
	PrimaryErr  error
	Fallback    string
	FallbackErr error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed in bucket %q (%v) and in fallback bucket %q (%v)",
		e.Primary, e.PrimaryErr, e.Fallback, e.FallbackErr)
}

func (e *UploadError) Unwrap() error { return ErrUploadFailed }

// translate maps lower layer errors onto the service sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repo.ErrRdoLocked), errors.Is(err, form.ErrLocked):
		return fmt.Errorf("%w: %v", ErrLocked, err)
	case errors.Is(err, repo.ErrTransitionNotAllowed),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, form.ErrSubmitInProgress),
		errors.Is(err, form.ErrStaleUpload):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, form.ErrRowNotFound),
		errors.Is(err, form.ErrCatalogNotFound),
		errors.Is(err, form.ErrNoCatalog),
		errors.Is(err, form.ErrUnknownSection):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}
