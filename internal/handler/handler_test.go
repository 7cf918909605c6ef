package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"vendor-upload-portal/internal/handler"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/model/requestresponse"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/security"
	"vendor-upload-portal/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	requestID   = "0b6f6f4e-7a8a-4d7e-9a0b-000000000004"
	workOrderID = "0b6f6f4e-7a8a-4d7e-9a0b-000000000002"
	vendorID    = "0b6f6f4e-7a8a-4d7e-9a0b-000000000003"
)

type MockUploadRequestService struct{ mock.Mock }

func (m *MockUploadRequestService) Create(ctx context.Context, actor model.StaffActor, params ports.CreateUploadRequestParams) (*requestresponse.CreateUploadRequestResponse, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requestresponse.CreateUploadRequestResponse), args.Error(1)
}

func (m *MockUploadRequestService) List(ctx context.Context, orgID, workOrderID string) ([]model.UploadRequestSummary, error) {
	args := m.Called(ctx, orgID, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadRequestSummary), args.Error(1)
}

func (m *MockUploadRequestService) Revoke(ctx context.Context, orgID, requestID, actorID string) error {
	return m.Called(ctx, orgID, requestID, actorID).Error(0)
}

func (m *MockUploadRequestService) Status(ctx context.Context, requestID, token string, client model.ClientInfo) (*requestresponse.PortalStatus, error) {
	args := m.Called(ctx, requestID, token, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requestresponse.PortalStatus), args.Error(1)
}

func (m *MockUploadRequestService) Complete(ctx context.Context, requestID, token string, client model.ClientInfo) error {
	return m.Called(ctx, requestID, token, client).Error(0)
}

func (m *MockUploadRequestService) RejectMalformedBody(ctx context.Context, requestID, token string, action model.PortalAction, client model.ClientInfo) error {
	return m.Called(ctx, requestID, token, action, client).Error(0)
}

type MockUploadURLService struct{ mock.Mock }

func (m *MockUploadURLService) CreateUploadURL(ctx context.Context, requestID, token string, meta ports.FileMeta, client model.ClientInfo) (*requestresponse.CreateUploadURLData, error) {
	args := m.Called(ctx, requestID, token, meta, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requestresponse.CreateUploadURLData), args.Error(1)
}

type MockFinalizeService struct{ mock.Mock }

func (m *MockFinalizeService) Finalize(ctx context.Context, requestID, token, uploadFileID string, meta ports.FinalizeMeta, client model.ClientInfo) error {
	return m.Called(ctx, requestID, token, uploadFileID, meta, client).Error(0)
}

func newPortalRouter(requests *MockUploadRequestService, urls *MockUploadURLService, finalize *MockFinalizeService) http.Handler {
	h := handler.NewPortalHandler(requests, urls, finalize)
	r := chi.NewRouter()
	r.Route("/upload/{requestId}", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Post("/create-upload-url", h.CreateUploadURL)
		r.Post("/finalize", h.Finalize)
		r.Post("/complete", h.Complete)
	})
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) requestresponse.ErrorResponse {
	t.Helper()
	var body requestresponse.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ===== Портал поставщика =====

func TestPortalStatus_OK(t *testing.T) {
	requests := new(MockUploadRequestService)
	router := newPortalRouter(requests, new(MockUploadURLService), new(MockFinalizeService))

	client := model.ClientInfo{SourceIP: "203.0.113.5", UserAgent: "vendor-browser"}
	requests.On("Status", mock.Anything, requestID, "tok", client).
		Return(&requestresponse.PortalStatus{RequestID: requestID, Status: "active", MaxFiles: 3}, nil)

	req := httptest.NewRequest(http.MethodGet, "/upload/"+requestID+"/status?t=tok", nil)
	req.RemoteAddr = "203.0.113.5:1234"
	req.Header.Set("User-Agent", "vendor-browser")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body requestresponse.PortalStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, requestID, body.Data.RequestID)
	assert.Equal(t, 3, body.Data.MaxFiles)
}

func TestPortal_DeniedAndConflictLookTheSame(t *testing.T) {
	denied := &service.PortalError{Kind: service.ErrAccessDenied, Reason: service.ReasonRevoked}
	conflict := &service.PortalError{Kind: service.ErrConflict, Reason: service.ReasonAlreadyFinalized}

	var bodies []string
	for _, err := range []error{denied, conflict} {
		finalize := new(MockFinalizeService)
		router := newPortalRouter(new(MockUploadRequestService), new(MockUploadURLService), finalize)
		finalize.On("Finalize", mock.Anything, requestID, "tok", "file-1", mock.Anything, mock.Anything).Return(err)

		req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/finalize?t=tok", strings.NewReader(`{"uploadFileId":"file-1"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
	assert.NotContains(t, bodies[0], service.ReasonRevoked)
}

func TestPortalCreateUploadURL_ValidationReason(t *testing.T) {
	urls := new(MockUploadURLService)
	router := newPortalRouter(new(MockUploadRequestService), urls, new(MockFinalizeService))

	meta := ports.FileMeta{FileName: "a.pdf", MimeType: "application/pdf", SizeBytes: 10, DocType: "quote"}
	urls.On("CreateUploadURL", mock.Anything, requestID, "tok", meta, mock.Anything).
		Return(nil, &service.PortalError{Kind: service.ErrValidation, Reason: `тип документа "quote" не разрешён для этого запроса`})

	body := `{"fileName":"a.pdf","mimeType":"application/pdf","sizeBytes":10,"docType":"quote"}`
	req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/create-upload-url?t=tok", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "quote")
}

func TestPortalCreateUploadURL_OK(t *testing.T) {
	urls := new(MockUploadURLService)
	router := newPortalRouter(new(MockUploadRequestService), urls, new(MockFinalizeService))

	expiresAt := time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC)
	urls.On("CreateUploadURL", mock.Anything, requestID, "tok", mock.Anything, mock.Anything).
		Return(&requestresponse.CreateUploadURLData{SignedURL: "https://s3/put", UploadFileID: "f1", ExpiresAt: expiresAt}, nil)

	req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/create-upload-url?t=tok",
		strings.NewReader(`{"fileName":"a.pdf","mimeType":"application/pdf","sizeBytes":10,"docType":"invoice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp requestresponse.CreateUploadURLResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "https://s3/put", resp.Data.SignedURL)
	assert.Equal(t, "f1", resp.Data.UploadFileID)
}

func TestPortalCreateUploadURL_MalformedBody(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		wantCode int
	}{
		{
			name:     "верный токен",
			checkErr: &service.PortalError{Kind: service.ErrValidation, Reason: "неверный формат запроса"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "неверный токен",
			checkErr: &service.PortalError{Kind: service.ErrAccessDenied, Reason: service.ReasonInvalidToken},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := new(MockUploadRequestService)
			urls := new(MockUploadURLService)
			router := newPortalRouter(requests, urls, new(MockFinalizeService))

			requests.On("RejectMalformedBody", mock.Anything, requestID, "tok", model.PortalActionCreateUploadURL, mock.Anything).Return(tt.checkErr)

			req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/create-upload-url?t=tok", strings.NewReader(`{"fileName":`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			requests.AssertExpectations(t)
			urls.AssertNotCalled(t, "CreateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPortalFinalize_MalformedBodyBadTokenIsForbidden(t *testing.T) {
	requests := new(MockUploadRequestService)
	finalize := new(MockFinalizeService)
	router := newPortalRouter(requests, new(MockUploadURLService), finalize)

	requests.On("RejectMalformedBody", mock.Anything, requestID, "bad", model.PortalActionFinalize, mock.Anything).
		Return(&service.PortalError{Kind: service.ErrAccessDenied, Reason: service.ReasonInvalidToken})

	req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/finalize?t=bad", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	finalize.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

type MockAttemptLimiter struct{ mock.Mock }

func (m *MockAttemptLimiter) Blocked(ctx context.Context, sourceIP string) (bool, error) {
	args := m.Called(ctx, sourceIP)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptLimiter) RecordFailure(ctx context.Context, sourceIP string) error {
	return m.Called(ctx, sourceIP).Error(0)
}

func TestPortal_OnlyAccessDeniedCountsAsFailedAttempt(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCount bool
	}{
		{name: "отказ", err: &service.PortalError{Kind: service.ErrAccessDenied, Reason: service.ReasonInvalidToken}, wantCount: true},
		{name: "повторный finalize", err: &service.PortalError{Kind: service.ErrConflict, Reason: service.ReasonAlreadyFinalized}},
		{name: "ошибка данных", err: &service.PortalError{Kind: service.ErrValidation, Reason: "файл не найден в хранилище"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finalize := new(MockFinalizeService)
			finalize.On("Finalize", mock.Anything, requestID, "tok", "file-1", mock.Anything, mock.Anything).Return(tt.err)

			limiter := new(MockAttemptLimiter)
			limiter.On("Blocked", mock.Anything, "192.0.2.1").Return(false, nil)
			if tt.wantCount {
				limiter.On("RecordFailure", mock.Anything, "192.0.2.1").Return(nil)
			}

			h := handler.NewPortalHandler(new(MockUploadRequestService), new(MockUploadURLService), finalize)
			r := chi.NewRouter()
			r.With(security.FailedTokenThrottle(limiter)).Post("/upload/{requestId}/finalize", h.Finalize)

			req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/finalize?t=tok", strings.NewReader(`{"uploadFileId":"file-1"}`))
			req.RemoteAddr = "192.0.2.1:1234"
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if tt.wantCount {
				limiter.AssertCalled(t, "RecordFailure", mock.Anything, "192.0.2.1")
			} else {
				limiter.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPortalComplete_InternalError(t *testing.T) {
	requests := new(MockUploadRequestService)
	router := newPortalRouter(requests, new(MockUploadURLService), new(MockFinalizeService))

	requests.On("Complete", mock.Anything, requestID, "tok", mock.Anything).Return(errors.New("db down"))

	req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/complete?t=tok", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestPortalFinalize_PassesChecksum(t *testing.T) {
	finalize := new(MockFinalizeService)
	router := newPortalRouter(new(MockUploadRequestService), new(MockUploadURLService), finalize)

	sha := strings.Repeat("a", 64)
	finalize.On("Finalize", mock.Anything, requestID, "tok", "file-1",
		mock.MatchedBy(func(meta ports.FinalizeMeta) bool {
			return meta.Sha256 != nil && *meta.Sha256 == sha && meta.SizeBytes != nil && *meta.SizeBytes == 42
		}), mock.Anything).Return(nil)

	body := `{"uploadFileId":"file-1","sha256":"` + sha + `","sizeBytes":42}`
	req := httptest.NewRequest(http.MethodPost, "/upload/"+requestID+"/finalize?t=tok", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

// ===== Внутренние эндпоинты =====

func newStaffRouter(requests *MockUploadRequestService) http.Handler {
	h := handler.NewUploadRequestHandler(requests)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &security.Claims{UserUUID: "user-1", OrgUUID: "org-1"}
			next.ServeHTTP(w, r.WithContext(security.WithClaims(r.Context(), claims)))
		})
	})
	r.Post("/work-orders/{workOrderId}/upload-requests", h.CreateUploadRequest)
	r.Get("/work-orders/{workOrderId}/upload-requests", h.ListUploadRequests)
	r.Post("/upload-requests/{requestId}/revoke", h.RevokeUploadRequest)
	return r
}

func TestCreateUploadRequest_Created(t *testing.T) {
	requests := new(MockUploadRequestService)
	router := newStaffRouter(requests)

	actor := model.StaffActor{OrgID: "org-1", ActorID: "user-1"}
	requests.On("Create", mock.Anything, actor, mock.MatchedBy(func(p ports.CreateUploadRequestParams) bool {
		return p.WorkOrderID == workOrderID && p.VendorID == vendorID && p.MaxFiles != nil && *p.MaxFiles == 3
	})).Return(&requestresponse.CreateUploadRequestResponse{RequestID: requestID, PortalURL: "https://portal/upload/x?t=y"}, nil)

	body := `{"vendorId":"` + vendorID + `","requestEmail":"billing@vendor.example","maxFiles":3}`
	req := httptest.NewRequest(http.MethodPost, "/work-orders/"+workOrderID+"/upload-requests", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp requestresponse.CreateUploadRequestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, requestID, resp.RequestID)
}

func TestCreateUploadRequest_InvalidBody(t *testing.T) {
	requests := new(MockUploadRequestService)
	router := newStaffRouter(requests)

	body := `{"vendorId":"not-a-uuid","requestEmail":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/work-orders/"+workOrderID+"/upload-requests", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestListUploadRequests_NotFound(t *testing.T) {
	requests := new(MockUploadRequestService)
	router := newStaffRouter(requests)

	requests.On("List", mock.Anything, "org-1", workOrderID).
		Return(nil, &service.PortalError{Kind: service.ErrNotFound, Reason: "заказ-наряд не найден"})

	req := httptest.NewRequest(http.MethodGet, "/work-orders/"+workOrderID+"/upload-requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "заказ-наряд не найден", decodeError(t, rec).Message)
}

func TestRevokeUploadRequest_OK(t *testing.T) {
	requests := new(MockUploadRequestService)
	router := newStaffRouter(requests)

	requests.On("Revoke", mock.Anything, "org-1", requestID, "user-1").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/upload-requests/"+requestID+"/revoke", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	requests.AssertExpectations(t)
}

func TestStaffEndpoints_RequireClaims(t *testing.T) {
	h := handler.NewUploadRequestHandler(new(MockUploadRequestService))
	r := chi.NewRouter()
	r.Get("/work-orders/{workOrderId}/upload-requests", h.ListUploadRequests)

	req := httptest.NewRequest(http.MethodGet, "/work-orders/"+workOrderID+"/upload-requests", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	handler.Healthz(pingerFunc(func(ctx context.Context) error { return nil })).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.Healthz(pingerFunc(func(ctx context.Context) error { return errors.New("down") })).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
