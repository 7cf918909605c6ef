package service

import (
	"context"
	"errors"
	"log"
	"time"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const maxLoggedIDLength = 64

type lockMode int

const (
	lockNone lockMode = iota
	lockShare
	lockUpdate
)

// portalGate : общая для всех вызовов поставщика проверка токена и состояния запроса.
// Сессии нет, каждый вызов проверяется заново
type portalGate struct {
	requestRepository ports.UploadRequestRepository
	accessLog         ports.AccessLogRepository
	tokens            ports.TokenCodec
	now               func() time.Time
}

func newPortalGate(requestRepository ports.UploadRequestRepository, accessLog ports.AccessLogRepository, tokens ports.TokenCodec) *portalGate {
	return &portalGate{
		requestRepository: requestRepository,
		accessLog:         accessLog,
		tokens:            tokens,
		now:               time.Now,
	}
}

// authorize : загружает запрос и проверяет токен и статус.
// Неизвестный запрос и неверный токен проходят одинаковый путь с одинаковым результатом
func (g *portalGate) authorize(ctx context.Context, exec sqlx.ExtContext, requestID, token string, mode lockMode, allowCompleted bool) (*model.UploadRequest, error) {
	if uuid.Validate(requestID) != nil {
		g.tokens.Verify(token, g.tokens.DummyHash())
		return nil, accessDenied(ReasonRequestNotFound)
	}

	var request *model.UploadRequest
	var err error
	switch mode {
	case lockUpdate:
		request, err = g.requestRepository.GetByIDForUpdate(ctx, exec, requestID)
	case lockShare:
		request, err = g.requestRepository.GetByIDForShare(ctx, exec, requestID)
	default:
		request, err = g.requestRepository.GetByID(ctx, exec, requestID)
	}
	if errors.Is(err, model.ErrRecordNotFound) {
		g.tokens.Verify(token, g.tokens.DummyHash())
		return nil, accessDenied(ReasonRequestNotFound)
	}
	if err != nil {
		return nil, util.LogError("[PortalGate] не удалось загрузить запрос", err)
	}

	if !g.tokens.Verify(token, request.TokenHash) {
		return nil, accessDenied(ReasonInvalidToken)
	}

	if err := checkState(request.EffectiveStatus(g.now()), allowCompleted); err != nil {
		return nil, err
	}

	return request, nil
}

// checkState : active пропускается всегда, completed только на чтение
func checkState(status model.RequestStatus, allowCompleted bool) error {
	switch status {
	case model.RequestStatusActive:
		return nil
	case model.RequestStatusCompleted:
		if allowCompleted {
			return nil
		}
		return accessDenied(ReasonCompleted)
	case model.RequestStatusRevoked:
		return accessDenied(ReasonRevoked)
	case model.RequestStatusExpired:
		return accessDenied(ReasonExpired)
	default:
		return accessDenied(ReasonExpired)
	}
}

// record : журнал обращений поставщика. Ошибка записи не влияет на ответ
func (g *portalGate) record(ctx context.Context, requestID string, action model.PortalAction, client model.ClientInfo, err error) {
	outcome, reason := outcomeOf(err)
	if len(requestID) > maxLoggedIDLength {
		requestID = requestID[:maxLoggedIDLength]
	}

	log.Printf("[PortalGate] %s request=%s ip=%s outcome=%s reason=%s", action, requestID, client.SourceIP, outcome, reason)

	entry := &model.AccessLogEntry{
		UploadRequestID: requestID,
		Action:          action,
		Outcome:         outcome,
		Reason:          reason,
		SourceIP:        client.SourceIP,
		UserAgent:       client.UserAgent,
		CreatedAt:       g.now(),
	}
	if err := g.accessLog.Record(context.WithoutCancel(ctx), entry); err != nil {
		log.Printf("[PortalGate] не удалось записать журнал обращений: %v", err)
	}
}

func outcomeOf(err error) (string, string) {
	switch {
	case err == nil:
		return "ok", ""
	case errors.Is(err, ErrAccessDenied):
		return "denied", Reason(err)
	case errors.Is(err, ErrConflict):
		return "conflict", Reason(err)
	case errors.Is(err, ErrValidation):
		return "invalid", Reason(err)
	default:
		return "error", err.Error()
	}
}
