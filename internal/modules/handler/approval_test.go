package handler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/infra/live"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/service"
	"github.com/meurdo/meurdo-api/internal/pkg/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "0123456789abcdef0123456789abcdef0123456789abcdef"

func approvalRouter(h *ApprovalHandler) http.Handler {
	r := setupRouter()
	r.GET("/public/rdo/:token", h.GetApproval)
	r.POST("/public/rdo/:token/approve", h.Approve)
	r.POST("/public/rdo/:token/reject", h.Reject)
	r.GET("/public/rdo/:token/events", h.Events)
	return r
}

func TestApprovalHandler_GetApproval(t *testing.T) {
	svc := &MockApprovalService{}
	svc.On("View", mock.Anything, testToken).Return(&service.ApprovalView{
		Rdo:       &model.Rdo{ID: uuid.New(), ApprovalStatus: model.ApprovalPending},
		ObraName:  "Residencial Aurora",
		CanDecide: true,
	}, nil)
	svc.On("View", mock.Anything, "unknown").Return(nil, service.ErrNotFound)
	r := approvalRouter(NewApprovalHandler(svc, live.NewHub(zap.NewNop())))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/rdo/"+testToken, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Residencial Aurora", data["obra_name"])
	assert.Equal(t, true, data["can_decide"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/rdo/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestApprovalHandler_Approve(t *testing.T) {
	drawn := signature.Input{DataURL: "data:image/png;base64,iVBORw0KGgo="}

	tests := []struct {
		name           string
		body           string
		setup          func(*MockApprovalService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "approved",
			body: `{"signature":{"data_url":"data:image/png;base64,iVBORw0KGgo="}}`,
			setup: func(svc *MockApprovalService) {
				svc.On("Approve", mock.Anything, testToken, drawn).Return(&service.ApprovalResult{
					Rdo:       &model.Rdo{ApprovalStatus: model.ApprovalApproved},
					Celebrate: true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "nothing drawn",
			body: `{"signature":{}}`,
			setup: func(svc *MockApprovalService) {
				svc.On("Approve", mock.Anything, testToken, signature.Input{}).Return(nil, service.ErrEmptySignature)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    "Assine antes de confirmar",
		},
		{
			name: "already decided",
			body: `{"signature":{"data_url":"data:image/png;base64,iVBORw0KGgo="}}`,
			setup: func(svc *MockApprovalService) {
				svc.On("Approve", mock.Anything, testToken, drawn).Return(nil, service.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "both buckets down",
			body: `{"signature":{"data_url":"data:image/png;base64,iVBORw0KGgo="}}`,
			setup: func(svc *MockApprovalService) {
				svc.On("Approve", mock.Anything, testToken, drawn).Return(nil, service.ErrUploadFailed)
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "malformed body",
			body:           `{"signature":`,
			setup:          func(*MockApprovalService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockApprovalService{}
			tt.setup(svc)

			req := httptest.NewRequest(http.MethodPost, "/public/rdo/"+testToken+"/approve", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			approvalRouter(NewApprovalHandler(svc, live.NewHub(zap.NewNop()))).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, decode(t, w)["msg"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestApprovalHandler_ApproveNamesBothBucketsInRelease(t *testing.T) {
	drawn := signature.Input{DataURL: "data:image/png;base64,iVBORw0KGgo="}
	svc := &MockApprovalService{}
	svc.On("Approve", mock.Anything, testToken, drawn).Return(nil, &service.UploadError{
		Primary:     "rdo-signatures",
		PrimaryErr:  errors.New("dial tcp 10.0.0.5:9000: connection refused"),
		Fallback:    "rdo-attachments",
		FallbackErr: errors.New("AccessDenied"),
	})

	r := approvalRouter(NewApprovalHandler(svc, live.NewHub(zap.NewNop())))
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodPost, "/public/rdo/"+testToken+"/approve",
		bytes.NewBufferString(`{"signature":{"data_url":"data:image/png;base64,iVBORw0KGgo="}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	msg, _ := body["msg"].(string)
	assert.Contains(t, msg, "rdo-signatures")
	assert.Contains(t, msg, "rdo-attachments")
	assert.NotContains(t, msg, "connection refused")
	assert.NotContains(t, msg, "AccessDenied")
	assert.Nil(t, body["error"])
	svc.AssertExpectations(t)
}

func TestApprovalHandler_Reject(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(*MockApprovalService)
		expectedStatus int
	}{
		{
			name: "rejected",
			body: `{"reason":"Faltou a foto da concretagem"}`,
			setup: func(svc *MockApprovalService) {
				svc.On("Reject", mock.Anything, testToken, "Faltou a foto da concretagem").
					Return(&model.Rdo{ApprovalStatus: model.ApprovalRejected}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "blank reason",
			body: `{"reason":"   "}`,
			setup: func(svc *MockApprovalService) {
				svc.On("Reject", mock.Anything, testToken, "   ").Return(nil, service.ErrInvalidInput)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "approved meanwhile",
			body: `{"reason":"Faltou a foto"}`,
			setup: func(svc *MockApprovalService) {
				svc.On("Reject", mock.Anything, testToken, "Faltou a foto").Return(nil, service.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockApprovalService{}
			tt.setup(svc)

			req := httptest.NewRequest(http.MethodPost, "/public/rdo/"+testToken+"/reject", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			approvalRouter(NewApprovalHandler(svc, live.NewHub(zap.NewNop()))).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

// readEvent returns the next "event:" name on the stream, skipping comments and data lines.
func readEvent(t *testing.T, sc *bufio.Scanner) (string, string) {
	t.Helper()
	var name, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
	require.NoError(t, sc.Err())
	t.Fatal("stream ended before an event")
	return "", ""
}

func TestApprovalHandler_Events(t *testing.T) {
	rdoID := uuid.New()
	svc := &MockApprovalService{}
	svc.On("View", mock.Anything, testToken).Return(&service.ApprovalView{Rdo: &model.Rdo{ID: rdoID}}, nil)

	hub := live.NewHub(zap.NewNop())
	h := NewApprovalHandler(svc, hub)
	h.heartbeat = 20 * time.Millisecond
	srv := httptest.NewServer(approvalRouter(h))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/public/rdo/"+testToken+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	name, data := readEvent(t, sc)
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, rdoID.String())

	require.Eventually(t, func() bool { return hub.Subscribers(rdoID.String()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, live.NewLocalBroker(hub).RdoChanged(context.Background(), rdoID, "approved"))

	name, data = readEvent(t, sc)
	assert.Equal(t, live.EventRdoChanged, name)
	assert.Contains(t, data, `"approved"`)

	cancel()
	require.Eventually(t, func() bool { return hub.Subscribers(rdoID.String()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestApprovalHandler_EventsUnknownToken(t *testing.T) {
	svc := &MockApprovalService{}
	svc.On("View", mock.Anything, "nope").Return(nil, service.ErrNotFound)

	w := httptest.NewRecorder()
	approvalRouter(NewApprovalHandler(svc, live.NewHub(zap.NewNop()))).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/rdo/nope/events", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
