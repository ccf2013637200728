package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cvpress/internal/database"
	"cvpress/internal/errcode"
	"cvpress/internal/export"
	"cvpress/internal/metrics"
	"cvpress/internal/resume"
	"cvpress/internal/storage"
	"cvpress/internal/tasks"
)

// ExportTaskHandler 负责消费简历导出任务。
type ExportTaskHandler struct {
	db          *gorm.DB
	storage     *storage.Client
	redisClient *redis.Client
	logger      *slog.Logger
	exporter    *export.Exporter
	photos      *export.PhotoResolver
}

// NewExportTaskHandler 创建任务处理器。
func NewExportTaskHandler(
	db *gorm.DB,
	storageClient *storage.Client,
	redisClient *redis.Client,
	logger *slog.Logger,
	exporter *export.Exporter,
) *ExportTaskHandler {
	return &ExportTaskHandler{
		db:          db,
		storage:     storageClient,
		redisClient: redisClient,
		logger:      logger,
		exporter:    exporter,
		photos:      export.NewPhotoResolver(storageClient, logger),
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.ResumeExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Int("resume_id", int(payload.ResumeID)),
	)
	log.Info("Starting resume export task...")

	var rec database.Resume
	if err := h.db.WithContext(ctx).First(&rec, payload.ResumeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("resume not found, skipping task")
			return nil
		}
		log.Error("query resume failed", slog.Any("error", err))
		return err
	}

	log = log.With(slog.Uint64("user_id", uint64(rec.UserID)))

	defer func() {
		if retErr == nil {
			return
		}
		if !isFinalAsynqAttempt(ctx) {
			return
		}
		_ = h.db.WithContext(ctx).Model(&rec).
			Update("status", database.ResumeStatusFailed).Error
		notify := ExportNotifyMessage{
			Status:        "error",
			ResumeID:      rec.ID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := h.publishExportNotify(ctx, rec.UserID, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	if err := h.db.WithContext(ctx).Model(&rec).
		Update("status", database.ResumeStatusExporting).Error; err != nil {
		log.Error("mark resume exporting failed", slog.Any("error", err))
		return err
	}

	flat, formatWarn := h.decodeContent(log, rec.Content)

	photoURL, photoWarn, err := h.photos.Resolve(ctx, rec.UserID, rec.PhotoKey)
	if err != nil {
		log.Error("resolve photo failed", slog.Any("error", err))
		return err
	}

	templateID := payload.TemplateID
	if templateID == "" {
		templateID = rec.TemplateID
	}

	artifact, err := h.exporter.Export(ctx, export.Request{
		Data:       flat,
		TemplateID: templateID,
		Title:      rec.Title,
		PhotoURL:   photoURL,
	})
	if err != nil {
		log.Error("export pipeline failed", slog.Any("error", err))
		return err
	}

	uploadStart := time.Now()
	pdfKey := fmt.Sprintf("generated-resumes/%d/%d/%s.pdf", rec.UserID, rec.ID, uuid.NewString())
	if _, err := h.storage.UploadFile(ctx, pdfKey, bytes.NewReader(artifact.PDF), int64(len(artifact.PDF)), "application/pdf"); err != nil {
		log.Error("upload pdf to minio failed", slog.Any("error", err))
		return err
	}

	previewKey := ""
	if len(artifact.Preview) > 0 {
		previewKey = fmt.Sprintf("thumbnails/resume/%d/preview.jpg", rec.ID)
		if _, err := h.storage.UploadFile(ctx, previewKey, bytes.NewReader(artifact.Preview), int64(len(artifact.Preview)), "image/jpeg"); err != nil {
			log.Warn("upload preview image failed", slog.Any("error", err))
			previewKey = ""
		}
	}
	metrics.ObserveExportStage(metrics.StageUpload, time.Since(uploadStart))

	oldPdfKey := rec.PdfKey
	update := map[string]any{
		"pdf_key":     pdfKey,
		"pdf_name":    artifact.Filename,
		"preview_key": previewKey,
		"status":      database.ResumeStatusReady,
	}
	if err := h.db.WithContext(ctx).Model(&rec).Updates(update).Error; err != nil {
		log.Error("update resume failed", slog.Any("error", err))
		return err
	}

	if oldPdfKey != "" && oldPdfKey != pdfKey {
		if err := h.storage.DeleteObject(ctx, oldPdfKey); err != nil {
			log.Warn("delete stale pdf failed", slog.String("key", oldPdfKey), slog.Any("error", err))
		}
	}

	notify := ExportNotifyMessage{
		Status:        "completed",
		ResumeID:      rec.ID,
		CorrelationID: payload.CorrelationID,
		Pages:         artifact.Pages,
		Filename:      artifact.Filename,
		ErrorCode:     errcode.OK,
	}
	switch {
	case formatWarn != nil:
		notify.ErrorCode = formatWarn.Code
		notify.ErrorMessage = formatWarn.Message
	case photoWarn != nil:
		notify.ErrorCode = photoWarn.Code
		notify.ErrorMessage = photoWarn.Message
		notify.MissingRef = photoWarn.Ref
		log.Warn("pdf generated without photo", slog.String("ref", photoWarn.Ref))
	}
	if err := h.publishExportNotify(ctx, rec.UserID, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("Resume export task completed successfully.",
		slog.Int("pages", artifact.Pages),
		slog.String("pdf_key", pdfKey),
	)
	return nil
}

// decodeContent 解析简历内容。两种外部格式都接受; 无法识别时回落到
// 示例简历并附带 4005 告警, 导出流程不中断。
func (h *ExportTaskHandler) decodeContent(log *slog.Logger, raw []byte) (resume.Flat, *export.Warning) {
	flat, err := resume.FlatFromRaw(raw)
	if err == nil {
		return flat, nil
	}
	log.Warn("resume content format not recognized, exporting sample data", slog.Any("error", err))
	return resume.DefaultResume(), &export.Warning{
		Code:    errcode.ResumeFormatInvalid,
		Message: "简历内容格式无法识别，已使用示例数据导出",
	}
}

func (h *ExportTaskHandler) publishExportNotify(ctx context.Context, userID uint, notify ExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := h.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
