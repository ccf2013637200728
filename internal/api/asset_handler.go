package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cvpress/internal/database"
)

// AssetHandler 负责证件照等附件的上传与访问。上传前先过 ClamAV
// 扫描(配置了地址时), 再落对象存储并记账。
type AssetHandler struct {
	db          *gorm.DB
	storage     objectStorage
	logger      *slog.Logger
	redisClient redisRateCounter
	clamdAddr   string
	ownerID     uint

	maxBytes         int64
	maxAssets        int
	maxUploadsPerDay int
}

// NewAssetHandler 返回 AssetHandler 实例。
func NewAssetHandler(
	db *gorm.DB,
	storageClient objectStorage,
	logger *slog.Logger,
	redisClient redisRateCounter,
	clamdAddr string,
	ownerID uint,
) *AssetHandler {
	return &AssetHandler{
		db:               db,
		storage:          storageClient,
		logger:           logger,
		redisClient:      redisClient,
		clamdAddr:        clamdAddr,
		ownerID:          ownerID,
		maxBytes:         5 << 20,
		maxAssets:        50,
		maxUploadsPerDay: 100,
	}
}

var assetExtByMIME = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// UploadAsset 处理图片上传。
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size <= 0 || file.Size > h.maxBytes {
		BadRequest(c, fmt.Sprintf("file size must be within %d bytes", h.maxBytes))
		return
	}

	contentType := strings.TrimSpace(file.Header.Get("Content-Type"))
	ext, ok := assetExtByMIME[contentType]
	if !ok {
		BadRequest(c, "unsupported content type")
		return
	}

	ctx := c.Request.Context()

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&database.Asset{}).
		Where("user_id = ?", h.ownerID).
		Count(&count).Error; err != nil {
		Internal(c, "failed to count assets")
		return
	}
	if h.maxAssets > 0 && count >= int64(h.maxAssets) {
		Forbidden(c, "asset limit reached")
		return
	}

	if h.redisClient != nil && h.maxUploadsPerDay > 0 {
		key := fmt.Sprintf("asset_upload:%d:%s", h.ownerID, time.Now().Format("2006-01-02"))
		uploads, err := incrWithTTL(ctx, h.redisClient, key, 24*time.Hour)
		if err == nil && uploads > int64(h.maxUploadsPerDay) {
			Error(c, http.StatusTooManyRequests, "daily upload limit reached")
			return
		}
	}

	if h.clamdAddr != "" {
		if err := h.scanUpload(file); err != nil {
			if errors.Is(err, errMaliciousFile) {
				BadRequest(c, "malicious file detected")
				return
			}
			h.logger.Error("scan file", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer fileReader.Close()

	objectKey := fmt.Sprintf("user-assets/%d/%s%s", h.ownerID, uuid.NewString(), ext)
	if _, err := h.storage.UploadFile(ctx, objectKey, fileReader, file.Size, contentType); err != nil {
		h.logger.Error("upload file", slog.Any("error", err))
		Internal(c, "failed to upload file")
		return
	}

	record := database.Asset{
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        file.Size,
		UserID:      h.ownerID,
	}
	if err := h.db.WithContext(ctx).Create(&record).Error; err != nil {
		_ = h.storage.DeleteObject(ctx, objectKey)
		Internal(c, "failed to record asset")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

var errMaliciousFile = errors.New("malicious file detected")

func (h *AssetHandler) scanUpload(file *multipart.FileHeader) error {
	clamdClient := clamd.NewClamd(h.clamdAddr)

	fileReader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open file for scan: %w", err)
	}
	defer fileReader.Close()

	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return errMaliciousFile
		}
	}
	return nil
}

// ListAssets 列出已上传的附件并附预签名链接。以对象存储为准,
// 记账表只补充 content type, 记账丢失的对象也能列出来。
func (h *AssetHandler) ListAssets(c *gin.Context) {
	ctx := c.Request.Context()
	prefix := fmt.Sprintf("user-assets/%d/", h.ownerID)

	objects, err := h.storage.ListObjects(ctx, prefix, 200)
	if err != nil {
		h.logger.Error("list asset objects", slog.Any("error", err))
		Internal(c, "failed to list assets")
		return
	}

	var records []database.Asset
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", h.ownerID).
		Find(&records).Error; err != nil {
		h.logger.Error("list asset records", slog.Any("error", err))
		Internal(c, "failed to list assets")
		return
	}
	contentTypes := make(map[string]string, len(records))
	for _, rec := range records {
		contentTypes[rec.ObjectKey] = rec.ContentType
	}

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.storage.GeneratePresignedURL(ctx, obj.Key, 10*time.Minute)
		if err != nil {
			h.logger.Error("generate asset url", slog.String("objectKey", obj.Key), slog.Any("error", err))
			continue
		}
		items = append(items, gin.H{
			"objectKey":   obj.Key,
			"previewUrl":  url,
			"size":        obj.Size,
			"contentType": contentTypes[obj.Key],
			"createdAt":   obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetAssetURL 返回附件的临时预签名 URL。
func (h *AssetHandler) GetAssetURL(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}

	if !h.ownsAssetKey(objectKey) {
		Forbidden(c, "access denied")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		h.logger.Error("generate presigned url", slog.Any("error", err))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeleteAsset 删除附件及其记账记录。
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}
	if !h.ownsAssetKey(objectKey) {
		Forbidden(c, "access denied")
		return
	}

	ctx := c.Request.Context()
	if err := h.storage.DeleteObject(ctx, objectKey); err != nil {
		h.logger.Error("delete asset object", slog.Any("error", err))
		Internal(c, "failed to delete asset")
		return
	}
	if err := h.db.WithContext(ctx).
		Where("user_id = ? AND object_key = ?", h.ownerID, objectKey).
		Delete(&database.Asset{}).Error; err != nil {
		Internal(c, "failed to delete asset record")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AssetHandler) ownsAssetKey(key string) bool {
	prefix := fmt.Sprintf("user-assets/%d/", h.ownerID)
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	return !strings.Contains(key, "..") && !strings.Contains(key, "//") && len(key) <= 200
}
