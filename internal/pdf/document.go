package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/go-pdf/fpdf"
)

// bandQuality 是条带重编码为 JPEG 时的质量，肉眼与 PNG 无差别
// 且体积小得多。
const bandQuality = 92

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// BuildDocument 把整张位图按页切带并组装成 PDF 字节流。
// 每条带作为整页图片放置，最后一条短带按自然高度缩放，
// 页面本身仍是完整的 page 尺寸。
func BuildDocument(raster image.Image, page PageSize) ([]byte, error) {
	bounds := raster.Bounds()
	bands, err := SplitBands(bounds.Dx(), bounds.Dy(), page)
	if err != nil {
		return nil, err
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for i, band := range bands {
		slice, err := extractBand(raster, band)
		if err != nil {
			return nil, fmt.Errorf("提取条带 %d 失败: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, slice, &jpeg.Options{Quality: bandQuality}); err != nil {
			return nil, fmt.Errorf("编码条带 %d 失败: %w", i+1, err)
		}

		name := fmt.Sprintf("band-%d", i)
		opts := fpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}
		doc.RegisterImageOptionsReader(name, opts, &buf)
		doc.AddPage()

		// 图片宽度锁定为页宽，高度按像素比例换算，短带不被拉伸。
		// 取整误差可能让条带比一页高出不到一个像素，压回页高。
		bandH := page.Width * float64(band.Height()) / float64(bounds.Dx())
		if bandH > page.Height {
			bandH = page.Height
		}
		doc.ImageOptions(name, 0, 0, page.Width, bandH, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("输出 PDF 失败: %w", err)
	}
	return out.Bytes(), nil
}

// PreviewJPEG 把位图首页区域编码为 JPEG，用于模板预览缩略图。
func PreviewJPEG(raster image.Image, page PageSize, quality int) ([]byte, error) {
	bounds := raster.Bounds()
	bands, err := SplitBands(bounds.Dx(), bounds.Dy(), page)
	if err != nil {
		return nil, err
	}
	first, err := extractBand(raster, bands[0])
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, first, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("编码预览图失败: %w", err)
	}
	return buf.Bytes(), nil
}

// extractBand 取出位图的 [Top, Bottom) 横带。原生支持 SubImage 的
// 类型零拷贝切片，否则复制到新的 RGBA。
func extractBand(raster image.Image, band Band) (image.Image, error) {
	bounds := raster.Bounds()
	rect := image.Rect(bounds.Min.X, bounds.Min.Y+band.Top, bounds.Max.X, bounds.Min.Y+band.Bottom)
	if rect.Empty() {
		return nil, fmt.Errorf("条带区域为空: %v", band)
	}
	if si, ok := raster.(subImager); ok {
		return si.SubImage(rect), nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			dst.Set(x, y, raster.At(rect.Min.X+x, rect.Min.Y+y))
		}
	}
	return dst, nil
}
