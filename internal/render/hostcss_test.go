package render

import (
	"strings"
	"testing"
)

func TestHostDocumentWrapsFragment(t *testing.T) {
	doc := HostDocument("  <section>hello</section>  ")
	if !strings.Contains(doc, "<section>hello</section>") {
		t.Fatal("片段应原样出现在宿主文档内")
	}
	if !strings.Contains(doc, "width: 21cm") {
		t.Fatal("宿主宽度应固定为 21cm")
	}
	if !strings.Contains(doc, "box-sizing: border-box") {
		t.Fatal("宿主应使用 border-box 盒模型")
	}
	if !strings.Contains(doc, "padding: 1cm 1.2cm") {
		t.Fatal("宿主应带打印安全边距")
	}
	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Fatal("宿主文档应是完整 HTML")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.ReadyTimeout <= 0 || opts.DeviceScale <= 0 || opts.BrowserTimeout <= 0 {
		t.Fatalf("默认选项应全部为正值: %+v", opts)
	}
	r := NewChromeRenderer(nil, Options{})
	if r.opts != opts {
		t.Fatalf("零值选项应回落到默认值: %+v", r.opts)
	}
}
