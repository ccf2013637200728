package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvpress/internal/api/middleware"
	"cvpress/internal/database"
	"cvpress/internal/export"
	"cvpress/internal/projection"
	"cvpress/internal/resume"
	"cvpress/internal/tasks"
)

// ResumeHandler 负责处理与简历相关的 API 请求。单账号模式下所有
// 简历都归属固定的 ownerID。
type ResumeHandler struct {
	db              *gorm.DB
	asynqClient     *asynq.Client
	storage         objectStorage
	redisClient     redisRateCounter
	ownerID         uint
	exportRateLimit int
	downloadTTL     time.Duration
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(
	db *gorm.DB,
	asynqClient *asynq.Client,
	storageClient objectStorage,
	redisClient redisRateCounter,
	ownerID uint,
	exportRateLimit int,
	downloadTTL time.Duration,
) *ResumeHandler {
	if downloadTTL <= 0 {
		downloadTTL = 5 * time.Minute
	}
	return &ResumeHandler{
		db:              db,
		asynqClient:     asynqClient,
		storage:         storageClient,
		redisClient:     redisClient,
		ownerID:         ownerID,
		exportRateLimit: exportRateLimit,
		downloadTTL:     downloadTTL,
	}
}

var errInvalidResumeID = errors.New("invalid resume id")

type saveResumeRequest struct {
	Title      string          `json:"title" binding:"required"`
	TemplateID string          `json:"template_id"`
	Content    json.RawMessage `json:"content" binding:"required"`
	PhotoKey   *string         `json:"photo_key"`
}

type resumeListItem struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"template_id"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type resumeResponse struct {
	ID         uint           `json:"id"`
	Title      string         `json:"title"`
	TemplateID string         `json:"template_id"`
	Content    datatypes.JSON `json:"content"`
	PhotoKey   string         `json:"photo_key,omitempty"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// CreateResume 保存一份新的简历。内容接受扁平或交换两种格式,
// 统一归一化为扁平结构入库。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req saveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	content, templateID, err := h.normalizeSaveRequest(req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	rec := database.Resume{
		Title:      req.Title,
		TemplateID: templateID,
		Content:    content,
		UserID:     h.ownerID,
		Status:     database.ResumeStatusDraft,
	}
	if req.PhotoKey != nil {
		rec.PhotoKey = *req.PhotoKey
	}

	if err := h.db.WithContext(ctx).Create(&rec).Error; err != nil {
		Internal(c, "failed to create resume")
		return
	}

	if err := h.setActiveResumeID(ctx, rec.ID); err != nil {
		Internal(c, "failed to mark active resume")
		return
	}

	c.JSON(http.StatusCreated, newResumeResponse(rec))
}

// GetLatestResume 返回当前编辑中的简历, 没有任何简历时返回示例数据。
func (h *ResumeHandler) GetLatestResume(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.findActiveOrLatestResume(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, resumeResponse{
				ID:         0,
				Title:      resume.DefaultTitle,
				TemplateID: projection.DefaultTemplateID,
				Content:    defaultResumeContent(),
				Status:     database.ResumeStatusDraft,
			})
			return
		}
		Internal(c, "failed to query latest resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*rec))
}

// ListResumes 列出全部简历。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	ctx := c.Request.Context()
	var records []database.Resume
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", h.ownerID).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]resumeListItem, 0, len(records))
	for _, r := range records {
		items = append(items, resumeListItem{
			ID:         r.ID,
			Title:      r.Title,
			TemplateID: r.TemplateID,
			Status:     r.Status,
			UpdatedAt:  r.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, items)
}

// GetResume 返回指定 ID 的简历并标记为当前正在编辑。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	rec, err := h.getOwnedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResumeError(c, err)
		return
	}

	if err := h.setActiveResumeID(c.Request.Context(), rec.ID); err != nil {
		Internal(c, "failed to mark active resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*rec))
}

// UpdateResume 覆盖指定简历。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	var req saveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	rec, err := h.getOwnedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResumeError(c, err)
		return
	}

	content, templateID, err := h.normalizeSaveRequest(req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{
		"title":       req.Title,
		"template_id": templateID,
		"content":     content,
		"status":      database.ResumeStatusDraft,
	}
	if req.PhotoKey != nil {
		updates["photo_key"] = *req.PhotoKey
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Model(rec).Updates(updates).Error; err != nil {
		Internal(c, "failed to update resume")
		return
	}

	if err := h.db.WithContext(ctx).First(rec, rec.ID).Error; err != nil {
		Internal(c, "failed to reload resume")
		return
	}

	if err := h.setActiveResumeID(ctx, rec.ID); err != nil {
		Internal(c, "failed to mark active resume")
		return
	}

	c.JSON(http.StatusOK, newResumeResponse(*rec))
}

// DeleteResume 删除指定简历及其导出产物，并回落到最近一份。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	rec, err := h.getOwnedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Delete(&database.Resume{}, rec.ID).Error; err != nil {
		Internal(c, "failed to delete resume")
		return
	}

	// 导出产物按简历前缀归档, 整组清理可以把历史残留一并删掉。
	for _, prefix := range []string{
		fmt.Sprintf("generated-resumes/%d/%d/", h.ownerID, rec.ID),
		fmt.Sprintf("thumbnails/resume/%d/", rec.ID),
	} {
		_ = h.storage.DeletePrefix(ctx, prefix)
	}

	if err := h.assignLatestResumeAsActive(ctx); err != nil {
		Internal(c, "failed to update active resume")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetInterchange 以通用交换格式返回简历内容, 供外部工具导入。
func (h *ResumeHandler) GetInterchange(c *gin.Context) {
	rec, err := h.getOwnedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResumeError(c, err)
		return
	}

	flat, err := resume.FlatFromRaw(rec.Content)
	if err != nil {
		Internal(c, "failed to decode resume content")
		return
	}

	c.JSON(http.StatusOK, resume.ToInterchange(flat))
}

// ExportResume 将导出任务入队并立即返回 202。同一份简历每分钟的
// 导出次数受限。
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	rec, err := h.getOwnedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResumeError(c, err)
		return
	}

	ctx := c.Request.Context()
	if h.redisClient != nil && h.exportRateLimit > 0 {
		key := fmt.Sprintf("export_rate:%d", rec.ID)
		count, err := incrWithTTL(ctx, h.redisClient, key, time.Minute)
		if err == nil && count > int64(h.exportRateLimit) {
			Error(c, http.StatusTooManyRequests, "export rate limit reached")
			return
		}
	}

	templateID := c.Query("template")
	if templateID != "" && !projection.Exists(templateID) {
		BadRequest(c, "unknown template")
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewResumeExportTask(rec.ID, templateID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "export request accepted",
		"task_id": info.ID,
	})
}

// GetDownloadLink 生成导出 PDF 的预签名下载链接, 带下载文件名。
func (h *ResumeHandler) GetDownloadLink(c *gin.Context) {
	rec, err := h.getOwnedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResumeError(c, err)
		return
	}

	if rec.PdfKey == "" || rec.Status != database.ResumeStatusReady {
		Conflict(c, "pdf not ready")
		return
	}

	filename := rec.PdfName
	if filename == "" {
		filename = export.BuildFilename(rec.Title, time.Now())
	}
	params := map[string]string{
		"response-content-disposition": fmt.Sprintf("attachment; filename=%q", filename),
	}
	signedURL, err := h.storage.GeneratePresignedURLWithParams(c.Request.Context(), rec.PdfKey, h.downloadTTL, params)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL, "filename": filename})
}

// GetPreviewLink 返回简历缩略图的预签名链接。
func (h *ResumeHandler) GetPreviewLink(c *gin.Context) {
	rec, err := h.getOwnedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResumeError(c, err)
		return
	}

	if rec.PreviewKey == "" {
		NotFound(c, "preview not ready")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), rec.PreviewKey, h.downloadTTL)
	if err != nil {
		Internal(c, "failed to generate preview link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// normalizeSaveRequest 校验并归一化保存请求。
func (h *ResumeHandler) normalizeSaveRequest(req saveResumeRequest) (datatypes.JSON, string, error) {
	flat, err := resume.FlatFromRaw(req.Content)
	if err != nil {
		return nil, "", fmt.Errorf("unrecognized resume content: %w", err)
	}
	flat.Normalize()

	data, err := json.Marshal(flat)
	if err != nil {
		return nil, "", fmt.Errorf("encode resume content: %w", err)
	}

	templateID := req.TemplateID
	if templateID == "" {
		templateID = projection.DefaultTemplateID
	}
	if !projection.Exists(templateID) {
		return nil, "", fmt.Errorf("unknown template %q", templateID)
	}
	return datatypes.JSON(data), templateID, nil
}

func (h *ResumeHandler) respondResumeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidResumeID):
		BadRequest(c, "invalid resume id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "resume not found")
	default:
		middleware.LoggerFromContext(c).Error("query resume failed", slog.Any("error", err))
		Internal(c, "failed to query resume")
	}
}

func (h *ResumeHandler) setActiveResumeID(ctx context.Context, resumeID uint) error {
	return h.db.WithContext(ctx).Model(&database.User{}).
		Where("id = ?", h.ownerID).
		Update("active_resume_id", resumeID).Error
}

func (h *ResumeHandler) assignLatestResumeAsActive(ctx context.Context) error {
	var rec database.Resume
	err := h.db.WithContext(ctx).
		Where("user_id = ?", h.ownerID).
		Order("updated_at desc").
		First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return h.db.WithContext(ctx).Model(&database.User{}).
			Where("id = ?", h.ownerID).
			Update("active_resume_id", 0).Error
	case err != nil:
		return err
	default:
		return h.setActiveResumeID(ctx, rec.ID)
	}
}

func (h *ResumeHandler) findActiveOrLatestResume(ctx context.Context) (*database.Resume, error) {
	var user database.User
	if err := h.db.WithContext(ctx).
		Select("id", "active_resume_id").
		First(&user, h.ownerID).Error; err != nil {
		return nil, err
	}

	if user.ActiveResumeID != 0 {
		var rec database.Resume
		err := h.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", user.ActiveResumeID, h.ownerID).
			First(&rec).Error
		if err == nil {
			return &rec, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var latest database.Resume
	err := h.db.WithContext(ctx).
		Where("user_id = ?", h.ownerID).
		Order("updated_at desc").
		First(&latest).Error
	if err != nil {
		return nil, err
	}

	if err := h.setActiveResumeID(ctx, latest.ID); err != nil {
		return nil, err
	}
	return &latest, nil
}

func (h *ResumeHandler) getOwnedResume(ctx context.Context, idParam string) (*database.Resume, error) {
	resumeID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidResumeID
	}

	var rec database.Resume
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(resumeID), h.ownerID).
		First(&rec).Error; err != nil {
		return nil, err
	}

	return &rec, nil
}

func defaultResumeContent() datatypes.JSON {
	data, err := json.Marshal(resume.DefaultResume())
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(data)
}

func newResumeResponse(rec database.Resume) resumeResponse {
	return resumeResponse{
		ID:         rec.ID,
		Title:      rec.Title,
		TemplateID: rec.TemplateID,
		Content:    rec.Content,
		PhotoKey:   rec.PhotoKey,
		Status:     rec.Status,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
