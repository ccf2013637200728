package pdf

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestSplitBandsSinglePage(t *testing.T) {
	// 高宽比不超过页面比例时不切页
	bands, err := SplitBands(1000, 1200, A4)
	if err != nil {
		t.Fatalf("SplitBands: %v", err)
	}
	if len(bands) != 1 {
		t.Fatalf("期望 1 条带, 得到 %d", len(bands))
	}
	if bands[0].Top != 0 || bands[0].Bottom != 1200 {
		t.Fatalf("单页条带应覆盖整图, 得到 %+v", bands[0])
	}
}

func TestSplitBandsMultiPage(t *testing.T) {
	// 页面比例 2:1, 宽 500 => 每页 1000px, 高 5000 => 正好 5 页
	page := PageSize{Width: 100, Height: 200}
	bands, err := SplitBands(500, 5000, page)
	if err != nil {
		t.Fatalf("SplitBands: %v", err)
	}
	if len(bands) != 5 {
		t.Fatalf("期望 5 条带, 得到 %d", len(bands))
	}
	if bands[4].Top != 4000 || bands[4].Bottom != 5000 {
		t.Fatalf("末条带应为 [4000,5000), 得到 %+v", bands[4])
	}
	// 相邻条带首尾衔接, 不重叠不漏行
	if bands[0].Top != 0 {
		t.Fatalf("首条带应从 0 开始, 得到 %d", bands[0].Top)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Top != bands[i-1].Bottom {
			t.Fatalf("条带 %d 与前一条不衔接: %+v / %+v", i, bands[i-1], bands[i])
		}
	}
	if bands[len(bands)-1].Bottom != 5000 {
		t.Fatalf("末条带应覆盖到图底, 得到 %d", bands[len(bands)-1].Bottom)
	}
}

func TestSplitBandsShortTail(t *testing.T) {
	page := PageSize{Width: 100, Height: 200}
	bands, err := SplitBands(500, 4500, page)
	if err != nil {
		t.Fatalf("SplitBands: %v", err)
	}
	if len(bands) != 5 {
		t.Fatalf("期望 5 条带, 得到 %d", len(bands))
	}
	last := bands[len(bands)-1]
	if last.Height() != 500 {
		t.Fatalf("尾带高度应为 500, 得到 %d", last.Height())
	}
}

func TestSplitBandsNearPageMultiple(t *testing.T) {
	// 1416/1001 只比 A4 纵横比大一丁点, 每页高约 1415.99px。
	// 末条带取整后高度为零, 必须并入前一条而不是产出空页。
	bands, err := SplitBands(1001, 1416, A4)
	if err != nil {
		t.Fatalf("SplitBands: %v", err)
	}
	if len(bands) != 1 {
		t.Fatalf("期望 1 条带, 得到 %v", bands)
	}
	if bands[0].Top != 0 || bands[0].Bottom != 1416 {
		t.Fatalf("条带应覆盖整图, 得到 %+v", bands[0])
	}
	for _, b := range bands {
		if b.Height() <= 0 {
			t.Fatalf("不允许零高条带: %+v", b)
		}
	}
}

func TestBuildDocumentNearPageMultiple(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1001, 1416))
	out, err := BuildDocument(img, A4)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("输出应是 PDF")
	}
}

func TestSplitBandsInvalidRaster(t *testing.T) {
	if _, err := SplitBands(0, 1000, A4); err == nil {
		t.Fatal("零宽位图应报错")
	}
	if _, err := SplitBands(1000, -1, A4); err == nil {
		t.Fatal("负高位图应报错")
	}
}

func TestBuildDocumentProducesPDF(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	out, err := BuildDocument(img, A4)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出应以 %%PDF 开头, 得到 %q", out[:min(8, len(out))])
	}
}

func TestPreviewJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 400))
	out, err := PreviewJPEG(img, A4, 80)
	if err != nil {
		t.Fatalf("PreviewJPEG: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("预览图不应为空")
	}
	// JPEG SOI 标记
	if out[0] != 0xFF || out[1] != 0xD8 {
		t.Fatalf("输出不是 JPEG: % x", out[:2])
	}
}
