package worker

import (
	"encoding/json"
	"log/slog"
	"testing"

	"cvpress/internal/errcode"
	"cvpress/internal/resume"
)

func TestDecodeContentAcceptsBothFormats(t *testing.T) {
	h := &ExportTaskHandler{}
	log := slog.Default()

	flatJSON, _ := json.Marshal(resume.DefaultResume())
	flat, warn := h.decodeContent(log, flatJSON)
	if warn != nil {
		t.Fatalf("flat content should decode cleanly, got warning %+v", warn)
	}
	if flat.PersonalInfo.FullName == "" {
		t.Fatal("decoded flat content lost personal info")
	}

	interchangeJSON, _ := json.Marshal(resume.ToInterchange(resume.DefaultResume()))
	flat, warn = h.decodeContent(log, interchangeJSON)
	if warn != nil {
		t.Fatalf("interchange content should decode cleanly, got warning %+v", warn)
	}
	if flat.PersonalInfo.FullName == "" {
		t.Fatal("decoded interchange content lost personal info")
	}
}

func TestDecodeContentFallsBackWithWarning(t *testing.T) {
	h := &ExportTaskHandler{}

	flat, warn := h.decodeContent(slog.Default(), []byte(`{"layout_settings":{},"items":[]}`))
	if warn == nil {
		t.Fatal("unrecognized content should produce a warning")
	}
	if warn.Code != errcode.ResumeFormatInvalid {
		t.Fatalf("warning code = %d, want %d", warn.Code, errcode.ResumeFormatInvalid)
	}
	if flat.PersonalInfo.FullName == "" {
		t.Fatal("fallback should carry sample data")
	}
}

func TestExportNotifyMessageShape(t *testing.T) {
	msg := ExportNotifyMessage{
		Status:        "completed",
		ResumeID:      7,
		CorrelationID: "abc",
		Pages:         2,
		Filename:      "x_2024-01-01.pdf",
		ErrorCode:     errcode.OK,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"status", "resume_id", "correlation_id", "pages", "filename", "error_code"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("notify message missing %q", key)
		}
	}
	if _, ok := decoded["missing_ref"]; ok {
		t.Error("missing_ref should be omitted when empty")
	}
}
