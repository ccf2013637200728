package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"cvpress/internal/api/middleware"
	"cvpress/internal/projection"
	"cvpress/internal/resume"
	"cvpress/internal/tasks"
)

// TemplateHandler 负责模板目录相关的 API。模板是编译进二进制的
// 内置投影, 不落库。
type TemplateHandler struct {
	storage     objectStorage
	asynqClient *asynq.Client
	previewTTL  time.Duration
}

func NewTemplateHandler(storageClient objectStorage, asynqClient *asynq.Client) *TemplateHandler {
	return &TemplateHandler{
		storage:     storageClient,
		asynqClient: asynqClient,
		previewTTL:  time.Hour,
	}
}

type templateListItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// GET /v1/templates
// 列出内置模板目录, 附带缩略图预签名链接(若已生成)。
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	ctx := c.Request.Context()
	infos := projection.List()

	items := make([]templateListItem, 0, len(infos))
	for _, info := range infos {
		item := templateListItem{ID: info.ID, Name: info.Name}
		objectKey := fmt.Sprintf("thumbnails/template/%s/preview.jpg", info.ID)
		if url, err := h.storage.GeneratePresignedURL(ctx, objectKey, h.previewTTL); err == nil {
			item.PreviewURL = url
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, items)
}

// GET /v1/templates/:id/markup
// 返回模板用示例数据渲染出的 HTML 片段, 供编辑器实时预览。
func (h *TemplateHandler) GetTemplateMarkup(c *gin.Context) {
	id := c.Param("id")
	if !projection.Exists(id) {
		NotFound(c, "template not found")
		return
	}

	tpl := projection.Lookup(id)
	fragment, err := tpl.Render(resume.DefaultResume(), "", true)
	if err != nil {
		Internal(c, "failed to render template")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
}

// POST /v1/templates/:id/preview
// 将缩略图生成任务入队。
func (h *TemplateHandler) EnqueuePreview(c *gin.Context) {
	id := c.Param("id")
	if !projection.Exists(id) {
		NotFound(c, "template not found")
		return
	}

	task, err := tasks.NewTemplatePreviewTask(id, middleware.GetCorrelationID(c))
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(3))
	if err != nil {
		Internal(c, "failed to enqueue preview")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "preview request accepted",
		"task_id": info.ID,
	})
}
