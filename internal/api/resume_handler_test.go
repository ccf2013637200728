package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cvpress/internal/database"
	"cvpress/internal/resume"
	"cvpress/internal/storage"
)

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	b, _ := io.ReadAll(reader)
	s.uploaded[objectName] = b
	return &minio.UploadInfo{}, nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakeStorage) GeneratePresignedURLWithParams(_ context.Context, objectKey string, _ time.Duration, _ map[string]string) (string, error) {
	return "https://example.invalid/signed/" + objectKey, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}

func (s *fakeStorage) DeletePrefix(_ context.Context, prefix string) error {
	s.deleted = append(s.deleted, prefix)
	for key := range s.uploaded {
		if strings.HasPrefix(key, prefix) {
			delete(s.uploaded, key)
		}
	}
	return nil
}

func (s *fakeStorage) ListObjects(_ context.Context, prefix string, limit int) ([]storage.ObjectMeta, error) {
	keys := make([]string, 0, len(s.uploaded))
	for key := range s.uploaded {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]storage.ObjectMeta, 0, len(keys))
	for _, key := range keys {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, storage.ObjectMeta{Key: key, Size: int64(len(s.uploaded[key]))})
	}
	return out, nil
}

var testDBSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Resume{}, &database.Asset{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&database.User{Model: gorm.Model{ID: 1}, Username: "owner"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return db
}

func newTestResumeHandler(t *testing.T) (*ResumeHandler, *gorm.DB, *fakeStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	store := newFakeStorage()
	h := NewResumeHandler(db, nil, store, nil, 1, 0, time.Minute)
	return h, db, store
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, path string, body any, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	handler(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestCreateResumeNormalizesInterchangeContent(t *testing.T) {
	h, db, _ := newTestResumeHandler(t)

	content := map[string]any{
		"basics": map[string]any{
			"name":  "Alex Morgan",
			"label": "Engineer",
		},
		"work": []map[string]any{
			{"company": "Acme", "position": "Dev", "highlights": []string{"built it", "shipped it"}},
		},
	}
	req := map[string]any{"title": "Test Resume", "content": content}

	w := performJSON(t, h.CreateResume, http.MethodPost, "/v1/resume", req, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var rec database.Resume
	if err := db.First(&rec).Error; err != nil {
		t.Fatalf("load resume: %v", err)
	}
	flat, err := resume.FlatFromRaw(rec.Content)
	if err != nil {
		t.Fatalf("stored content should be flat: %v", err)
	}
	if flat.PersonalInfo.FullName != "Alex Morgan" {
		t.Fatalf("name not reconciled: %q", flat.PersonalInfo.FullName)
	}
	if len(flat.Experience) != 1 || flat.Experience[0].Company != "Acme" {
		t.Fatalf("work not reconciled: %+v", flat.Experience)
	}
	if rec.TemplateID != "classic" {
		t.Fatalf("template should default to classic, got %q", rec.TemplateID)
	}
}

func TestCreateResumeRejectsUnknownContent(t *testing.T) {
	h, _, _ := newTestResumeHandler(t)

	req := map[string]any{
		"title":   "Bad",
		"content": map[string]any{"layout_settings": map[string]any{}, "items": []any{}},
	}
	w := performJSON(t, h.CreateResume, http.MethodPost, "/v1/resume", req, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetLatestResumeFallsBackToSample(t *testing.T) {
	h, _, _ := newTestResumeHandler(t)

	w := performJSON(t, h.GetLatestResume, http.MethodGet, "/v1/resume/latest", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var resp resumeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 0 || resp.Title != resume.DefaultTitle {
		t.Fatalf("expected sample resume, got %+v", resp)
	}
	if _, err := resume.FlatFromRaw(resp.Content); err != nil {
		t.Fatalf("sample content should be flat: %v", err)
	}
}

func TestGetInterchangeReturnsBothEducationAliases(t *testing.T) {
	h, db, _ := newTestResumeHandler(t)

	flat := resume.DefaultResume()
	data, _ := json.Marshal(flat)
	rec := database.Resume{Title: "T", TemplateID: "classic", Content: data, UserID: 1}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	w := performJSON(t, h.GetInterchange, http.MethodGet, "/v1/resume/1/interchange", nil,
		gin.Params{{Key: "id", Value: fmt.Sprint(rec.ID)}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode interchange: %v", err)
	}
	if _, ok := payload["basics"]; !ok {
		t.Fatal("interchange payload should carry basics")
	}
	edu, ok := payload["education"].([]any)
	if !ok || len(edu) == 0 {
		t.Fatal("interchange payload should carry education")
	}
	first := edu[0].(map[string]any)
	if first["institution"] != first["school"] {
		t.Fatalf("education aliases should match: %v vs %v", first["institution"], first["school"])
	}
}

func TestDownloadLinkConflictUntilReady(t *testing.T) {
	h, db, _ := newTestResumeHandler(t)

	data, _ := json.Marshal(resume.DefaultResume())
	rec := database.Resume{Title: "T", TemplateID: "classic", Content: data, UserID: 1, Status: database.ResumeStatusDraft}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	params := gin.Params{{Key: "id", Value: fmt.Sprint(rec.ID)}}
	w := performJSON(t, h.GetDownloadLink, http.MethodGet, "/v1/resume/1/download-link", nil, params)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 before export, got %d", w.Code)
	}

	if err := db.Model(&rec).Updates(map[string]any{
		"pdf_key":  "generated-resumes/1/x.pdf",
		"pdf_name": "T_2024-01-01.pdf",
		"status":   database.ResumeStatusReady,
	}).Error; err != nil {
		t.Fatalf("mark ready: %v", err)
	}

	w = performJSON(t, h.GetDownloadLink, http.MethodGet, "/v1/resume/1/download-link", nil, params)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after export, got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["filename"] != "T_2024-01-01.pdf" {
		t.Fatalf("unexpected filename %q", resp["filename"])
	}
}

func TestDeleteResumeRemovesArtifacts(t *testing.T) {
	h, db, store := newTestResumeHandler(t)

	data, _ := json.Marshal(resume.DefaultResume())
	rec := database.Resume{
		Title: "T", TemplateID: "classic", Content: data, UserID: 1,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	pdfKey := fmt.Sprintf("generated-resumes/1/%d/x.pdf", rec.ID)
	previewKey := fmt.Sprintf("thumbnails/resume/%d/preview.jpg", rec.ID)
	store.uploaded[pdfKey] = []byte("pdf")
	store.uploaded[previewKey] = []byte("jpg")
	if err := db.Model(&rec).Updates(map[string]any{"pdf_key": pdfKey, "preview_key": previewKey}).Error; err != nil {
		t.Fatalf("seed artifact keys: %v", err)
	}

	w := performJSON(t, h.DeleteResume, http.MethodDelete, "/v1/resume/1", nil,
		gin.Params{{Key: "id", Value: fmt.Sprint(rec.ID)}})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.deleted) != 2 {
		t.Fatalf("expected pdf and preview prefixes deleted, got %v", store.deleted)
	}
	if len(store.uploaded) != 0 {
		t.Fatalf("expected artifacts removed, still have %v", store.uploaded)
	}
}

func TestOwnsAssetKey(t *testing.T) {
	h := &AssetHandler{ownerID: 1}
	cases := []struct {
		key  string
		want bool
	}{
		{"user-assets/1/photo.png", true},
		{"user-assets/2/photo.png", false},
		{"user-assets/1/../2/photo.png", false},
		{"user-assets/1//photo.png", false},
		{"generated-resumes/1/x.pdf", false},
	}
	for _, c := range cases {
		if got := h.ownsAssetKey(c.key); got != c.want {
			t.Errorf("ownsAssetKey(%q) = %v, want %v", c.key, got, c.want)
		}
	}
}
