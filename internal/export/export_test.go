package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"cvpress/internal/resume"
)

type fakeRenderer struct {
	img     image.Image
	err     error
	cleaned bool
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (image.Image, func(), error) {
	cleanup := func() { f.cleaned = true }
	if f.err != nil {
		return nil, cleanup, f.err
	}
	return f.img, cleanup, nil
}

func testRaster() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 200, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	return img
}

func TestBuildFilename(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		title string
		want  string
	}{
		{"My  Resume 2024", "My_Resume_2024_2024-03-15.pdf"},
		{"  ", "resume_2024-03-15.pdf"},
		{"", "resume_2024-03-15.pdf"},
		{"产品经理简历", "产品经理简历_2024-03-15.pdf"},
	}
	for _, c := range cases {
		if got := BuildFilename(c.title, at); got != c.want {
			t.Errorf("BuildFilename(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}

func TestExportSuccess(t *testing.T) {
	fake := &fakeRenderer{img: testRaster()}
	e := New(fake, nil)
	e.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	art, err := e.Export(context.Background(), Request{
		Data:       resume.DefaultResume(),
		TemplateID: "classic",
		Title:      "Alex Morgan",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(art.PDF, []byte("%PDF")) {
		t.Fatal("产物应是 PDF")
	}
	if art.Filename != "Alex_Morgan_2024-03-15.pdf" {
		t.Fatalf("文件名不符: %q", art.Filename)
	}
	if len(art.Preview) == 0 {
		t.Fatal("成功路径应生成预览图")
	}
	if !fake.cleaned {
		t.Fatal("成功路径也必须调用 cleanup")
	}
}

func TestExportCleanupOnRenderFailure(t *testing.T) {
	fake := &fakeRenderer{err: errors.New("browser crashed")}
	e := New(fake, nil)

	_, err := e.Export(context.Background(), Request{
		Data:       resume.DefaultResume(),
		TemplateID: "classic",
	})
	if err == nil {
		t.Fatal("渲染失败应向上传播")
	}
	if !fake.cleaned {
		t.Fatal("渲染失败后必须调用 cleanup")
	}
}

func TestExportUnknownTemplateFallsBack(t *testing.T) {
	fake := &fakeRenderer{img: testRaster()}
	e := New(fake, nil)

	if _, err := e.Export(context.Background(), Request{
		Data:       resume.DefaultResume(),
		TemplateID: "no-such-template",
	}); err != nil {
		t.Fatalf("未知模板应回落默认模板: %v", err)
	}
}
