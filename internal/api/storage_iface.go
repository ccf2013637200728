package api

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"cvpress/internal/storage"
)

// objectStorage 抽出 handler 依赖的对象存储操作, 便于测试注入。
// *storage.Client 是生产实现。
type objectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	GeneratePresignedURLWithParams(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
	DeletePrefix(ctx context.Context, prefix string) error
	ListObjects(ctx context.Context, prefix string, limit int) ([]storage.ObjectMeta, error)
}

var _ objectStorage = (*storage.Client)(nil)
