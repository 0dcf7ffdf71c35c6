package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meurdo/meurdo-api/internal/modules/schema"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger routes server error details to the application logger.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

// ViolationsData is the payload of a rejected submission.
type ViolationsData struct {
	Summary    string            `json:"summary"`
	Violations schema.Violations `json:"violations"`
}

// CheckLogin
func CheckLogin() Response {
	return Response{
		Code: http.StatusUnauthorized,
		Msg:  "please login first",
	}
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	if err != nil && errCode >= http.StatusInternalServerError {
		log.Sugar().Errorw("request failed", "code", errCode, "msg", msg, "err", err)
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// Invalid reports every violated rule of a submission.
func Invalid(v schema.Violations) Response {
	return Response{
		Code: http.StatusUnprocessableEntity,
		Data: ViolationsData{Summary: v.Summary(), Violations: v},
		Msg:  "Verifique os campos destacados",
	}
}
