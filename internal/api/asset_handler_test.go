package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"cvpress/internal/database"
)

func newTestAssetHandler(t *testing.T) (*AssetHandler, *fakeStorage) {
	t.Helper()
	db := newTestDB(t)
	store := newFakeStorage()
	return NewAssetHandler(db, store, slog.Default(), nil, "", 1), store
}

func TestListAssetsBackedByStorage(t *testing.T) {
	h, store := newTestAssetHandler(t)

	store.uploaded["user-assets/1/a.png"] = []byte("png-bytes")
	store.uploaded["user-assets/1/b.jpg"] = []byte("jpg")
	// 其他账号与其他前缀的对象不出现在列表里。
	store.uploaded["user-assets/2/c.png"] = []byte("x")
	store.uploaded["generated-resumes/1/1/x.pdf"] = []byte("pdf")

	// 只有 a.png 有记账记录, b.jpg 的记录丢失也必须列出。
	if err := h.db.Create(&database.Asset{
		ObjectKey: "user-assets/1/a.png", ContentType: "image/png", Size: 9, UserID: 1,
	}).Error; err != nil {
		t.Fatalf("seed asset record: %v", err)
	}

	w := performJSON(t, h.ListAssets, http.MethodGet, "/v1/assets", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []struct {
			ObjectKey   string `json:"objectKey"`
			PreviewURL  string `json:"previewUrl"`
			ContentType string `json:"contentType"`
			Size        int64  `json:"size"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 assets, got %+v", resp.Items)
	}
	if resp.Items[0].ObjectKey != "user-assets/1/a.png" || resp.Items[1].ObjectKey != "user-assets/1/b.jpg" {
		t.Fatalf("unexpected keys: %+v", resp.Items)
	}
	if resp.Items[0].ContentType != "image/png" {
		t.Fatalf("content type should come from the accounting record, got %q", resp.Items[0].ContentType)
	}
	if resp.Items[1].ContentType != "" {
		t.Fatalf("record-less object should have empty content type, got %q", resp.Items[1].ContentType)
	}
	for _, item := range resp.Items {
		if item.PreviewURL == "" {
			t.Fatalf("missing presigned url: %+v", item)
		}
	}
}
