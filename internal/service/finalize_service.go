package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"vendor-upload-portal/internal/model"
	"vendor-upload-portal/internal/ports"
	"vendor-upload-portal/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FinalizeService : подтверждение загрузки файла и создание Document
type FinalizeService struct {
	requestRepository  ports.UploadRequestRepository
	fileRepository     ports.UploadFileRepository
	documentRepository ports.DocumentRepository
	storage            ports.S3Storage
	verifyInStorage    bool
	gate               *portalGate
	now                func() time.Time
}

func NewFinalizeService(
	requestRepository ports.UploadRequestRepository,
	fileRepository ports.UploadFileRepository,
	documentRepository ports.DocumentRepository,
	accessLog ports.AccessLogRepository,
	tokens ports.TokenCodec,
	storage ports.S3Storage,
	verifyInStorage bool,
) *FinalizeService {
	return &FinalizeService{
		requestRepository:  requestRepository,
		fileRepository:     fileRepository,
		documentRepository: documentRepository,
		storage:            storage,
		verifyInStorage:    verifyInStorage,
		gate:               newPortalGate(requestRepository, accessLog, tokens),
		now:                time.Now,
	}
}

func (s *FinalizeService) SetClock(now func() time.Time) {
	s.now = now
	s.gate.now = now
}

// Finalize : pending -> finalized и запись Document в одной транзакции.
// Повторный вызов для того же файла получает Conflict, второй Document не создаётся
func (s *FinalizeService) Finalize(ctx context.Context, requestID, token, uploadFileID string, meta ports.FinalizeMeta, client model.ClientInfo) (err error) {
	defer func() { s.gate.record(ctx, requestID, model.PortalActionFinalize, client, err) }()

	request, file, err := s.loadPending(ctx, requestID, token, uploadFileID)
	if err != nil {
		return err
	}

	sha256, err := normalizeSha256(meta.Sha256)
	if err != nil {
		return err
	}
	if meta.SizeBytes != nil && *meta.SizeBytes <= 0 {
		return validationError("размер файла должен быть больше нуля")
	}

	observedSize := meta.SizeBytes
	if s.verifyInStorage {
		info, err := s.storage.StatObject(ctx, file.StoragePath)
		if errors.Is(err, model.ErrObjectNotFound) {
			return validationError("файл ещё не загружен в хранилище")
		}
		if err != nil {
			return util.LogError("[FinalizeService] не удалось проверить объект в хранилище", err)
		}
		observedSize = &info.SizeBytes
	}

	if observedSize != nil && *observedSize > file.DeclaredSizeBytes {
		if err := s.markError(ctx, file); err != nil {
			return err
		}
		return validationError(fmt.Sprintf("размер файла %d больше заявленного %d", *observedSize, file.DeclaredSizeBytes))
	}

	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, nil)
	if err != nil {
		return util.LogError("[FinalizeService] не удалось начать транзакцию", err)
	}
	defer rollback()

	// запрос мог быть отозван или завершён, пока проверялось хранилище
	if _, err := s.gate.authorize(ctx, exec, request.ID, token, lockShare, false); err != nil {
		return err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	err = s.fileRepository.MarkFinalized(ctx, exec, file.ID, request.ID, sha256, observedSize, now)
	if errors.Is(err, model.ErrStateConflict) {
		return conflictError(ReasonAlreadyFinalized, err)
	}
	if err != nil {
		return util.LogError("[FinalizeService] не удалось обновить статус файла", err)
	}

	sizeBytes := file.DeclaredSizeBytes
	if observedSize != nil {
		sizeBytes = *observedSize
	}

	document := &model.Document{
		UUID:             uuid.NewString(),
		OrgID:            request.OrgID,
		WorkOrderID:      request.WorkOrderID,
		VendorID:         request.VendorID,
		UploadFileID:     file.ID,
		FilenameOriginal: file.FileName,
		SizeBytes:        sizeBytes,
		MimeType:         file.MimeType,
		Sha256:           sha256,
		StoragePath:      file.StoragePath,
		DocType:          file.DocType,
		Source:           model.DocumentSourceVendorPortal,
		CreatedAt:        now,
	}
	if err := s.documentRepository.Create(ctx, exec, document); err != nil {
		return util.LogError("[FinalizeService] не удалось создать документ", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[FinalizeService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[FinalizeService] файл %s запроса %s загружен, документ %s", file.ID, request.ID, document.UUID)
	return nil
}

// loadPending : токен, статус запроса и принадлежность файла
func (s *FinalizeService) loadPending(ctx context.Context, requestID, token, uploadFileID string) (*model.UploadRequest, *model.UploadFile, error) {
	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, util.LogError("[FinalizeService] не удалось начать транзакцию", err)
	}
	defer rollback()

	request, err := s.gate.authorize(ctx, exec, requestID, token, lockNone, false)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.getFile(ctx, exec, uploadFileID)
	if err != nil {
		return nil, nil, err
	}
	if file.UploadRequestID != request.ID {
		return nil, nil, accessDenied(ReasonFileNotInRequest)
	}
	if file.Status != model.FileStatusPending {
		return nil, nil, conflictError(ReasonAlreadyFinalized, nil)
	}

	if err := commit(); err != nil {
		return nil, nil, util.LogError("[FinalizeService] не удалось закоммитить транзакцию", err)
	}

	return request, file, nil
}

func (s *FinalizeService) getFile(ctx context.Context, exec sqlx.ExtContext, uploadFileID string) (*model.UploadFile, error) {
	if uuid.Validate(uploadFileID) != nil {
		return nil, conflictError(ReasonFileNotFound, nil)
	}

	file, err := s.fileRepository.GetByID(ctx, exec, uploadFileID)
	if errors.Is(err, model.ErrRecordNotFound) {
		return nil, conflictError(ReasonFileNotFound, err)
	}
	if err != nil {
		return nil, util.LogError("[FinalizeService] не удалось загрузить файл", err)
	}
	return file, nil
}

// markError : файл больше заявленного, зарезервированный объём освобождается
func (s *FinalizeService) markError(ctx context.Context, file *model.UploadFile) error {
	exec, rollback, commit, err := s.requestRepository.BeginTX(ctx, nil)
	if err != nil {
		return util.LogError("[FinalizeService] не удалось начать транзакцию", err)
	}
	defer rollback()

	err = s.fileRepository.MarkError(ctx, exec, file.ID, file.UploadRequestID)
	if errors.Is(err, model.ErrStateConflict) {
		return conflictError(ReasonAlreadyFinalized, err)
	}
	if err != nil {
		return util.LogError("[FinalizeService] не удалось отметить файл как ошибочный", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[FinalizeService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[FinalizeService] файл %s отмечен как error: размер больше заявленного", file.ID)
	return nil
}

func normalizeSha256(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*value))
	if normalized == "" {
		return nil, nil
	}
	if len(normalized) != 64 {
		return nil, validationError("sha256 должен содержать 64 шестнадцатеричных символа")
	}
	if _, err := hex.DecodeString(normalized); err != nil {
		return nil, validationError("sha256 должен содержать 64 шестнадцатеричных символа")
	}
	return &normalized, nil
}
