package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	"github.com/meurdo/meurdo-api/internal/modules/service"
)

// statusFor maps service sentinels onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "permission denied"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "parameter error"
	case errors.Is(err, service.ErrEmptySignature):
		return http.StatusUnprocessableEntity, "Assine antes de confirmar"
	case errors.Is(err, service.ErrLocked):
		return http.StatusConflict, "RDO aprovado não pode ser editado"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "O RDO mudou de situação, recarregue a página"
	case errors.Is(err, service.ErrUploadFailed):
		return http.StatusBadGateway, "Falha ao enviar o arquivo"
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, "upstream error"
	}
	return http.StatusInternalServerError, "internal error"
}

func fail(c *gin.Context, err error) {
	code, msg := statusFor(err)
	var upErr *service.UploadError
	if errors.As(err, &upErr) {
		msg = uploadMessage(upErr)
	}
	c.JSON(code, serializer.Err(code, msg, err))
}

// uploadMessage names both buckets that were tried, leaving out backend details.
func uploadMessage(e *service.UploadError) string {
	return fmt.Sprintf("Falha ao enviar o arquivo para o bucket %q e para o bucket reserva %q", e.Primary, e.Fallback)
}

func sessionOf(c *gin.Context) (*model.Session, bool) {
	v, ok := c.Get("session")
	if !ok {
		return nil, false
	}
	sess, ok := v.(*model.Session)
	return sess, ok && sess != nil
}
