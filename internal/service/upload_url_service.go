package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/model/requestresponse"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/util"

	"github.com/google/uuid"
)

// UploadURLService : выдаёт подписанные ссылки на PUT и резервирует под них квоту
type UploadURLService struct {
	requestRepository ports.UploadRequestRepository
	fileRepository    ports.UploadFileRepository
	storage           ports.S3Storage
	policy            *FilePolicy
	signedURLTTL      time.Duration
	gate              *portalGate
	now               func() time.Time
}

func NewUploadURLService(
	requestRepository ports.UploadRequestRepository,
	fileRepository ports.UploadFileRepository,
	accessLog ports.AccessLogRepository,
	tokens ports.TokenCodec,
	storage ports.S3Storage,
	policy *FilePolicy,
	signedURLTTL time.Duration,
) *UploadURLService {
	return &UploadURLService{
		requestRepository: requestRepository,
		fileRepository:    fileRepository,
		storage:           storage,
		policy:            policy,
		signedURLTTL:      signedURLTTL,
		gate:              newPortalGate(requestRepository, accessLog, tokens),
		now:               time.Now,
	}
}

func (s *UploadURLService) SetClock(now func() time.Time) {
	s.now = now
	s.gate.now = now
}

// CreateUploadURL : проверки идут по порядку, первая неудачная определяет ответ:
// токен, статус, тип документа, политика файла, квота.
// Проверка квоты, вставка pending-файла и подпись ссылки выполняются под блокировкой строки запроса
func (s *UploadURLService) CreateUploadURL(ctx context.Context, requestID, token string, meta ports.FileMeta, client model.ClientInfo) (data *requestresponse.CreateUploadURLData, err error) {
	defer func() { s.gate.record(ctx, requestID, model.PortalActionCreateUploadURL, client, err) }()

	meta.DocType = strings.ToLower(strings.TrimSpace(meta.DocType))
	meta.FileName = strings.TrimSpace(meta.FileName)

	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, nil)
	if err != nil {
		return nil, util.LogError("[UploadURLService] не удалось начать транзакцию", err)
	}
	defer rollback()

	request, err := s.gate.authorize(ctx, exec, requestID, token, lockUpdate, false)
	if err != nil {
		return nil, err
	}

	if !request.AllowsDocType(meta.DocType) {
		return nil, validationError(fmt.Sprintf("тип документа %q не разрешён для этого запроса", meta.DocType))
	}

	if err := s.policy.Check(meta); err != nil {
		return nil, err
	}

	usage, err := s.fileRepository.Usage(ctx, exec, request.ID)
	if err != nil {
		return nil, util.LogError("[UploadURLService] не удалось получить использование квоты", err)
	}

	if err := NewQuotaLedger(request).Admit(usage, meta.SizeBytes); err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	fileID := uuid.NewString()
	file := &model.UploadFile{
		ID:                fileID,
		UploadRequestID:   request.ID,
		FileName:          meta.FileName,
		MimeType:          normalizeMimeType(meta.MimeType),
		DeclaredSizeBytes: meta.SizeBytes,
		DocType:           meta.DocType,
		StoragePath:       StoragePath(request, fileID, meta.FileName),
		Status:            model.FileStatusPending,
		CreatedAt:         now,
	}

	if err := s.fileRepository.Create(ctx, exec, file); err != nil {
		return nil, util.LogError("[UploadURLService] не удалось зарезервировать файл", err)
	}

	signedURL, err := s.storage.GeneratePresignedPutURL(ctx, file.StoragePath, file.MimeType, file.DeclaredSizeBytes, s.signedURLTTL)
	if err != nil {
		return nil, util.LogError("[UploadURLService] не удалось подписать ссылку", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[UploadURLService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[UploadURLService] файл %s зарезервирован в запросе %s (%d байт)", file.ID, request.ID, file.DeclaredSizeBytes)

	return &requestresponse.CreateUploadURLData{
		SignedURL:    signedURL,
		UploadFileID: file.ID,
		StoragePath:  file.StoragePath,
		ExpiresAt:    now.Add(s.signedURLTTL),
		Headers: map[string]string{
			"Content-Type": file.MimeType,
		},
	}, nil
}
