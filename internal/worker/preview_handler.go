package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"cvpress/internal/export"
	"cvpress/internal/projection"
	"cvpress/internal/resume"
	"cvpress/internal/storage"
	"cvpress/internal/tasks"
)

// TemplatePreviewHandler 负责模板缩略图生成任务, 用示例简历跑一遍
// 导出流水线并只保留首页 JPEG。
type TemplatePreviewHandler struct {
	storage  *storage.Client
	logger   *slog.Logger
	exporter *export.Exporter
}

func NewTemplatePreviewHandler(
	storageClient *storage.Client,
	logger *slog.Logger,
	exporter *export.Exporter,
) *TemplatePreviewHandler {
	return &TemplatePreviewHandler{
		storage:  storageClient,
		logger:   logger,
		exporter: exporter,
	}
}

func (h *TemplatePreviewHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	log := h.logger

	var payload tasks.TemplatePreviewPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal template preview payload failed", slog.Any("error", err))
		return err
	}

	log = log.With(
		slog.String("template_id", payload.TemplateID),
		slog.String("correlation_id", payload.CorrelationID),
	)

	if !projection.Exists(payload.TemplateID) {
		log.Warn("unknown template, skipping preview task")
		return nil
	}

	artifact, err := h.exporter.Export(ctx, export.Request{
		Data:       resume.DefaultResume(),
		TemplateID: payload.TemplateID,
		Title:      resume.DefaultTitle,
	})
	if err != nil {
		log.Error("render template preview failed", slog.Any("error", err))
		return err
	}
	if len(artifact.Preview) == 0 {
		return fmt.Errorf("template %q produced no preview image", payload.TemplateID)
	}

	objectKey := fmt.Sprintf("thumbnails/template/%s/preview.jpg", payload.TemplateID)
	reader := bytes.NewReader(artifact.Preview)
	if _, err := h.storage.UploadFile(ctx, objectKey, reader, int64(len(artifact.Preview)), "image/jpeg"); err != nil {
		log.Error("upload template preview failed", slog.Any("error", err))
		return err
	}

	log.Info("Template preview generated.", slog.String("object_key", objectKey))
	return nil
}
