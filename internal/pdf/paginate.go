// Package pdf 把整张渲染位图切成页高的条带，并组装为多页 PDF。
// 切分是纯几何操作，不感知内容；页面内的断行规避由 render 包注入的
// print CSS 尽力处理。
package pdf

import (
	"errors"
	"fmt"
	"math"
)

// PageSize 以毫米为单位描述目标纸张。
type PageSize struct {
	Width  float64
	Height float64
}

// A4 是导出使用的固定页面尺寸。
var A4 = PageSize{Width: 210, Height: 297}

// Band 是位图上半开区间 [Top, Bottom) 的一条横向像素带，对应一页输出。
type Band struct {
	Top    int
	Bottom int
}

// Height 返回条带的像素高度。
func (b Band) Height() int { return b.Bottom - b.Top }

// ErrInvalidRaster 表示位图没有可用的几何尺寸。
var ErrInvalidRaster = errors.New("raster has no usable geometry")

// SplitBands 计算位图应切成哪些条带。
//
// 判定规则：位图纵横比（高/宽）不超过页面纵横比时为单页；否则按
// pageHeightPx = pageHeight * rasterWidth / pageWidth 切带，第 k 条的
// 下边界为 round((k+1) * pageHeightPx)，上边界衔接前一条的下边界。
// 位图高度刚好贴着页高整数倍时，取整可能让末条带落成零高，
// 这样的条带直接并入前一条，不产生空页。
func SplitBands(rasterWidth, rasterHeight int, page PageSize) ([]Band, error) {
	if rasterWidth <= 0 || rasterHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidRaster, rasterWidth, rasterHeight)
	}
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("invalid page size %.1fx%.1f", page.Width, page.Height)
	}

	pageAspect := page.Height / page.Width
	rasterAspect := float64(rasterHeight) / float64(rasterWidth)
	if rasterAspect <= pageAspect {
		return []Band{{Top: 0, Bottom: rasterHeight}}, nil
	}

	bandPx := pageAspect * float64(rasterWidth)
	total := int(math.Ceil(float64(rasterHeight) / bandPx))
	bands := make([]Band, 0, total)
	top := 0
	for k := 0; k < total; k++ {
		bottom := int(math.Round(float64(k+1) * bandPx))
		if bottom > rasterHeight || k == total-1 {
			bottom = rasterHeight
		}
		if bottom <= top {
			continue
		}
		bands = append(bands, Band{Top: top, Bottom: bottom})
		top = bottom
	}
	return bands, nil
}
