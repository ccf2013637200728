package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cvpress/internal/errcode"
	"cvpress/internal/storage"
)

// Warning 记录照片解析过程中可恢复的问题，随导出结果一并上报。
type Warning struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// maxPhotoBytes 限制内联照片的体积, 超出按缺失处理。
const maxPhotoBytes = 8 << 20

// PhotoResolver 把照片引用解析为可内联进文档的 data: URI。
// 约定:
//   - 空引用与 data: URI 原样返回
//   - http/https URL 拉取失败 => 照片按缺失处理并记录 warning(4004)
//   - 对象存储 key 不存在(NoSuchKey) => 同上
//   - Bucket 不存在(NoSuchBucket) => 系统错误, 中断导出
type PhotoResolver struct {
	storage *storage.Client
	client  *http.Client
	logger  *slog.Logger
}

// NewPhotoResolver 创建照片解析器。storageClient 可为 nil, 此时对象
// key 按缺失处理。
func NewPhotoResolver(storageClient *storage.Client, logger *slog.Logger) *PhotoResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoResolver{
		storage: storageClient,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Resolve 解析照片引用。返回的 Warning 为 nil 表示没有问题。
func (r *PhotoResolver) Resolve(ctx context.Context, ownerID uint, ref string) (string, *Warning, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref, nil, nil
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return r.resolveRemote(ctx, ref)
	}

	return r.resolveObject(ctx, ownerID, ref)
}

func (r *PhotoResolver) resolveRemote(ctx context.Context, rawURL string) (string, *Warning, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", r.missing(rawURL, "照片 URL 非法"), nil
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", r.missing(rawURL, "照片拉取失败"), nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", r.missing(rawURL, fmt.Sprintf("照片拉取返回 %d", resp.StatusCode)), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil || len(body) == 0 || len(body) > maxPhotoBytes {
		return "", r.missing(rawURL, "照片内容非法或超限"), nil
	}

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(body)
	}
	return DataURI(contentType, body), nil, nil
}

func (r *PhotoResolver) resolveObject(ctx context.Context, ownerID uint, key string) (string, *Warning, error) {
	if r.storage == nil {
		return "", r.missing(key, "对象存储未配置"), nil
	}
	if !validPhotoObjectKey(ownerID, key) {
		return "", r.missing(key, "照片 object key 格式不合法"), nil
	}

	obj, err := r.storage.GetObject(ctx, key)
	if err != nil {
		return r.objectError(key, err)
	}
	defer func() {
		_ = obj.Close()
	}()

	// GetObject 是惰性的, 对象是否存在要到 Stat 才知道。
	stat, err := obj.Stat()
	if err != nil {
		return r.objectError(key, err)
	}

	body, err := io.ReadAll(io.LimitReader(obj, maxPhotoBytes+1))
	if err != nil || len(body) == 0 || len(body) > maxPhotoBytes {
		return "", r.missing(key, "照片内容非法或超限"), nil
	}

	contentType := strings.TrimSpace(stat.ContentType)
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return DataURI(contentType, body), nil, nil
}

// objectError 区分三类存储错误: key 不存在按缺失处理, bucket 不存在
// 视为系统错误中断导出, 其余(网络抖动等)原样返回交给任务重试。
func (r *PhotoResolver) objectError(key string, err error) (string, *Warning, error) {
	switch {
	case storage.IsNoSuchBucket(err):
		return "", nil, fmt.Errorf("minio bucket does not exist: %w", err)
	case storage.IsNoSuchKey(err):
		return "", r.missing(key, "照片对象不存在"), nil
	default:
		return "", nil, fmt.Errorf("read photo object %q: %w", key, err)
	}
}

func (r *PhotoResolver) missing(ref, reason string) *Warning {
	r.logger.Warn("photo resolve failed, exporting without photo",
		slog.String("ref", ref),
		slog.String("reason", reason))
	return &Warning{
		Code:    errcode.ResourceMissing,
		Message: reason,
		Ref:     ref,
	}
}

// DataURI 把图片字节编码为可嵌入文档的 data: URI。
func DataURI(contentType string, body []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(body))
}

func validPhotoObjectKey(ownerID uint, key string) bool {
	prefix := fmt.Sprintf("user-assets/%d/", ownerID)
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	return len(key) <= 200
}
