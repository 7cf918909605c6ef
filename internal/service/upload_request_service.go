package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/model/requestresponse"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/util"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	notificationTemplate = "vendor_upload_request"
	maxMessageLength     = 2000
)

type UploadRequestService struct {
	requestRepository   ports.UploadRequestRepository
	fileRepository      ports.UploadFileRepository
	workOrderRepository ports.WorkOrderRepository
	tokens              ports.TokenCodec
	notifier            ports.Notifier
	policy              *FilePolicy
	portal              *config.PortalConfig
	gate                *portalGate
	now                 func() time.Time
}

func NewUploadRequestService(
	requestRepository ports.UploadRequestRepository,
	fileRepository ports.UploadFileRepository,
	workOrderRepository ports.WorkOrderRepository,
	accessLog ports.AccessLogRepository,
	tokens ports.TokenCodec,
	notifier ports.Notifier,
	policy *FilePolicy,
	portal *config.PortalConfig,
) *UploadRequestService {
	return &UploadRequestService{
		requestRepository:   requestRepository,
		fileRepository:      fileRepository,
		workOrderRepository: workOrderRepository,
		tokens:              tokens,
		notifier:            notifier,
		policy:              policy,
		portal:              portal,
		gate:                newPortalGate(requestRepository, accessLog, tokens),
		now:                 time.Now,
	}
}

// SetClock : подмена часов для тестов
func (s *UploadRequestService) SetClock(now func() time.Time) {
	s.now = now
	s.gate.now = now
}

// Create : выдаёт поставщику ссылку на загрузку по заказ-наряду
func (s *UploadRequestService) Create(ctx context.Context, actor model.StaffActor, params ports.CreateUploadRequestParams) (*requestresponse.CreateUploadRequestResponse, error) {
	if uuid.Validate(params.WorkOrderID) != nil {
		return nil, notFound("заказ-наряд не найден")
	}
	if uuid.Validate(params.VendorID) != nil {
		return nil, notFound("поставщик не найден")
	}

	request, err := s.buildRequest(actor, params)
	if err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, nil)
	if err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	exists, err := s.workOrderRepository.WorkOrderExists(ctx, exec, actor.OrgID, params.WorkOrderID)
	if err != nil {
		return nil, util.LogError("[UploadRequestService] ошибка проверки заказ-наряда", err)
	}
	if !exists {
		return nil, notFound("заказ-наряд не найден")
	}

	exists, err = s.workOrderRepository.VendorExists(ctx, exec, actor.OrgID, params.VendorID)
	if err != nil {
		return nil, util.LogError("[UploadRequestService] ошибка проверки поставщика", err)
	}
	if !exists {
		return nil, notFound("поставщик не найден")
	}

	secret, hash, err := s.tokens.Issue()
	if err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось выпустить токен", err)
	}
	request.TokenHash = hash

	if err := s.requestRepository.Create(ctx, exec, request); err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось сохранить запрос", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось закоммитить транзакцию", err)
	}

	portalURL := s.portalURL(request.ID, secret)
	log.Printf("[UploadRequestService] запрос %s создан для заказ-наряда %s, действует до %s",
		request.ID, request.WorkOrderID, request.ExpiresAt.Format(time.RFC3339))

	notification := &model.UploadRequestNotification{
		To:          request.RequestEmail,
		Template:    notificationTemplate,
		RequestID:   request.ID,
		WorkOrderID: request.WorkOrderID,
		PortalURL:   portalURL,
		Message:     request.Message,
		ExpiresAt:   request.ExpiresAt,
	}
	if err := s.notifier.NotifyUploadRequested(ctx, notification); err != nil {
		log.Printf("[UploadRequestService] письмо по запросу %s не отправлено: %v", request.ID, err)
	}

	return &requestresponse.CreateUploadRequestResponse{
		RequestID: request.ID,
		PortalURL: portalURL,
		ExpiresAt: request.ExpiresAt,
	}, nil
}

// buildRequest : подставляет значения по умолчанию и проверяет границы
func (s *UploadRequestService) buildRequest(actor model.StaffActor, params ports.CreateUploadRequestParams) (*model.UploadRequest, error) {
	defaults := s.portal.Defaults
	limits := s.portal.Limits

	expiresInHours := defaults.ExpiresInHours
	if params.ExpiresInHours != nil {
		if *params.ExpiresInHours <= 0 || *params.ExpiresInHours > limits.MaxExpiresInHours {
			return nil, validationError(fmt.Sprintf("expiresInHours должен быть от 1 до %d", limits.MaxExpiresInHours))
		}
		expiresInHours = *params.ExpiresInHours
	}

	maxFiles := defaults.MaxFiles
	if params.MaxFiles != nil {
		if *params.MaxFiles <= 0 || *params.MaxFiles > limits.MaxFiles {
			return nil, validationError(fmt.Sprintf("maxFiles должен быть от 1 до %d", limits.MaxFiles))
		}
		maxFiles = *params.MaxFiles
	}

	maxTotalBytes := defaults.MaxTotalBytes
	if params.MaxTotalBytes != nil {
		if *params.MaxTotalBytes <= 0 || *params.MaxTotalBytes > limits.MaxTotalBytes {
			return nil, validationError(fmt.Sprintf("maxTotalBytes должен быть от 1 до %d", limits.MaxTotalBytes))
		}
		maxTotalBytes = *params.MaxTotalBytes
	}

	docTypes := normalizeDocTypes(defaults.AllowedDocTypes)
	if params.AllowedDocTypes != nil {
		docTypes = normalizeDocTypes(params.AllowedDocTypes)
		if len(docTypes) == 0 {
			return nil, validationError("allowedDocTypes не может быть пустым")
		}
	}

	email := strings.TrimSpace(params.RequestEmail)
	if email == "" {
		return nil, validationError("не указан email поставщика")
	}

	var message string
	if params.Message != nil {
		message = strings.TrimSpace(*params.Message)
		if utf8.RuneCountInString(message) > maxMessageLength {
			return nil, validationError(fmt.Sprintf("сообщение длиннее %d символов", maxMessageLength))
		}
	}

	createdAt := s.now().UTC().Truncate(time.Microsecond)

	return &model.UploadRequest{
		ID:              uuid.NewString(),
		OrgID:           actor.OrgID,
		WorkOrderID:     params.WorkOrderID,
		VendorID:        params.VendorID,
		ExpiresAt:       createdAt.Add(time.Duration(expiresInHours) * time.Hour),
		Status:          model.RequestStatusActive,
		AllowedDocTypes: pq.StringArray(docTypes),
		MaxFiles:        maxFiles,
		MaxTotalBytes:   maxTotalBytes,
		RequestEmail:    email,
		Message:         message,
		CreatedBy:       actor.ActorID,
		CreatedAt:       createdAt,
	}, nil
}

func normalizeDocTypes(docTypes []string) []string {
	seen := make(map[string]struct{}, len(docTypes))
	normalized := make([]string, 0, len(docTypes))
	for _, docType := range docTypes {
		docType = strings.ToLower(strings.TrimSpace(docType))
		if docType == "" {
			continue
		}
		if _, ok := seen[docType]; ok {
			continue
		}
		seen[docType] = struct{}{}
		normalized = append(normalized, docType)
	}
	return normalized
}

func (s *UploadRequestService) portalURL(requestID, secret string) string {
	base := strings.TrimRight(s.portal.BaseURL, "/")
	return fmt.Sprintf("%s/upload/%s?%s=%s", base, requestID, util.TokenQueryParam, url.QueryEscape(secret))
}

// List : запросы заказ-наряда для внутренней панели, статус с учётом истечения срока
func (s *UploadRequestService) List(ctx context.Context, orgID, workOrderID string) ([]model.UploadRequestSummary, error) {
	if uuid.Validate(workOrderID) != nil {
		return nil, notFound("заказ-наряд не найден")
	}

	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	exists, err := s.workOrderRepository.WorkOrderExists(ctx, exec, orgID, workOrderID)
	if err != nil {
		return nil, util.LogError("[UploadRequestService] ошибка проверки заказ-наряда", err)
	}
	if !exists {
		return nil, notFound("заказ-наряд не найден")
	}

	summaries, err := s.requestRepository.ListSummaries(ctx, exec, orgID, workOrderID)
	if err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось получить список запросов", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось закоммитить транзакцию", err)
	}

	now := s.now()
	for i := range summaries {
		request := model.UploadRequest{Status: summaries[i].Status, ExpiresAt: summaries[i].ExpiresAt}
		summaries[i].Status = request.EffectiveStatus(now)
	}

	return summaries, nil
}

// Revoke : немедленно закрывает доступ по ссылке. Для завершённых запросов ничего не делает
func (s *UploadRequestService) Revoke(ctx context.Context, orgID, requestID, actorID string) error {
	if uuid.Validate(requestID) != nil {
		return notFound("запрос не найден")
	}

	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, nil)
	if err != nil {
		return util.LogError("[UploadRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	request, err := s.requestRepository.GetByOrg(ctx, exec, orgID, requestID)
	if errors.Is(err, model.ErrRecordNotFound) {
		return notFound("запрос не найден")
	}
	if err != nil {
		return util.LogError("[UploadRequestService] не удалось загрузить запрос", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	if request.EffectiveStatus(now) != model.RequestStatusActive {
		log.Printf("[UploadRequestService] запрос %s уже в статусе %s, отзыв не требуется", requestID, request.EffectiveStatus(now))
		return nil
	}

	revoked, err := s.requestRepository.Revoke(ctx, exec, orgID, requestID, actorID, now)
	if err != nil {
		return util.LogError("[UploadRequestService] не удалось отозвать запрос", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[UploadRequestService] не удалось закоммитить транзакцию", err)
	}

	if revoked {
		log.Printf("[UploadRequestService] запрос %s отозван сотрудником %s", requestID, actorID)
	}
	return nil
}

// Status : то, что видит поставщик. Завершённый запрос доступен только на чтение
func (s *UploadRequestService) Status(ctx context.Context, requestID, token string, client model.ClientInfo) (status *requestresponse.PortalStatus, err error) {
	defer func() { s.gate.record(ctx, requestID, model.PortalActionStatus, client, err) }()

	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	request, err := s.gate.authorize(ctx, exec, requestID, token, lockNone, true)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepository.ListByRequest(ctx, exec, request.ID)
	if err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось получить файлы запроса", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[UploadRequestService] не удалось закоммитить транзакцию", err)
	}

	remainingFiles, remainingBytes := NewQuotaLedger(request).Remaining(usageOf(files))

	uploaded := make([]requestresponse.UploadedFile, 0, len(files))
	for _, file := range files {
		uploaded = append(uploaded, requestresponse.UploadedFile{
			ID:         file.ID,
			FileName:   file.FileName,
			MimeType:   file.MimeType,
			SizeBytes:  file.DeclaredSizeBytes,
			DocType:    file.DocType,
			Status:     string(file.Status),
			UploadedAt: file.UploadedAt,
		})
	}

	return &requestresponse.PortalStatus{
		RequestID:        request.ID,
		Status:           string(request.EffectiveStatus(s.now())),
		AllowedDocTypes:  []string(request.AllowedDocTypes),
		AllowedMimeTypes: s.policy.AllowedMimeTypes(),
		MaxFiles:         request.MaxFiles,
		MaxTotalBytes:    request.MaxTotalBytes,
		MaxFileSizeBytes: s.policy.MaxFileBytes(),
		ExpiresAt:        request.ExpiresAt,
		Message:          request.Message,
		UploadedFiles:    uploaded,
		RemainingFiles:   remainingFiles,
		RemainingBytes:   remainingBytes,
	}, nil
}

// Complete : поставщик закончил загрузку, дальше ссылка работает только на чтение
func (s *UploadRequestService) Complete(ctx context.Context, requestID, token string, client model.ClientInfo) (err error) {
	defer func() { s.gate.record(ctx, requestID, model.PortalActionComplete, client, err) }()

	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, nil)
	if err != nil {
		return util.LogError("[UploadRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	request, err := s.gate.authorize(ctx, exec, requestID, token, lockUpdate, false)
	if err != nil {
		return err
	}

	if !s.portal.AllowEmptyComplete {
		finalized, err := s.fileRepository.CountFinalized(ctx, exec, request.ID)
		if err != nil {
			return util.LogError("[UploadRequestService] не удалось посчитать загруженные файлы", err)
		}
		if finalized == 0 {
			return validationError("нет ни одного загруженного файла")
		}
	}

	completed, err := s.requestRepository.Complete(ctx, exec, request.ID, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return util.LogError("[UploadRequestService] не удалось завершить запрос", err)
	}
	if !completed {
		return accessDenied(ReasonExpired)
	}

	if err := commit(); err != nil {
		return util.LogError("[UploadRequestService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[UploadRequestService] запрос %s завершён поставщиком", request.ID)
	return nil
}

// RejectMalformedBody : тело вызова не разобрано. Отказ по токену или состоянию важнее ошибки формата
func (s *UploadRequestService) RejectMalformedBody(ctx context.Context, requestID, token string, action model.PortalAction, client model.ClientInfo) (err error) {
	defer func() { s.gate.record(ctx, requestID, action, client, err) }()

	exec, rollback, _, err := s.requestRepository.BeginTX(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return util.LogError("[UploadRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if _, err := s.gate.authorize(ctx, exec, requestID, token, lockNone, false); err != nil {
		return err
	}

	return validationError("неверный формат запроса")
}
