// Package export 串起导出流水线: 投影、渲染、切带、组装。
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cvpress/internal/metrics"
	"cvpress/internal/pdf"
	"cvpress/internal/projection"
	"cvpress/internal/render"
	"cvpress/internal/resume"
)

// Request 描述一次导出。PhotoURL 可为空或 data: URI，远程照片应在
// 进入流水线前内联，避免截图时跨域资源未就绪。
type Request struct {
	Data       resume.Flat
	TemplateID string
	Title      string
	PhotoURL   string
}

// Artifact 是导出产物。Preview 可能为空, 预览失败不影响 PDF。
type Artifact struct {
	Filename string
	PDF      []byte
	Preview  []byte
	Pages    int
}

// Exporter 执行导出流水线。
type Exporter struct {
	renderer render.Renderer
	logger   *slog.Logger
	page     pdf.PageSize
	now      func() time.Time
}

// New 创建导出器。
func New(renderer render.Renderer, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		renderer: renderer,
		logger:   logger,
		page:     pdf.A4,
		now:      time.Now,
	}
}

// Export 运行完整流水线并返回产物。渲染宿主的 cleanup 在任何分支
// 都会被调用。
func (e *Exporter) Export(ctx context.Context, req Request) (*Artifact, error) {
	tpl := projection.Lookup(req.TemplateID)
	started := e.now()

	fragment, err := tpl.Render(req.Data, req.PhotoURL, false)
	if err != nil {
		return nil, fmt.Errorf("project template %q: %w", tpl.ID, err)
	}
	metrics.ObserveExportStage(metrics.StageProject, e.now().Sub(started))

	doc := render.HostDocument(fragment)
	renderStart := e.now()
	raster, cleanup, err := e.renderer.Render(ctx, doc)
	defer cleanup()
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	metrics.ObserveExportStage(metrics.StageRender, e.now().Sub(renderStart))

	paginateStart := e.now()
	bounds := raster.Bounds()
	bands, err := pdf.SplitBands(bounds.Dx(), bounds.Dy(), e.page)
	if err != nil {
		return nil, fmt.Errorf("paginate raster: %w", err)
	}
	document, err := pdf.BuildDocument(raster, e.page)
	if err != nil {
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}
	metrics.ObserveExportStage(metrics.StagePaginate, e.now().Sub(paginateStart))
	metrics.ObservePageCount(len(bands))

	preview, previewErr := pdf.PreviewJPEG(raster, e.page, 80)
	if previewErr != nil {
		e.logger.Warn("Export: preview generation failed, continuing", slog.Any("error", previewErr))
		preview = nil
	}

	e.logger.Info("Export: pipeline complete",
		slog.String("template", tpl.ID),
		slog.Int("pages", len(bands)),
		slog.Int("pdf_bytes", len(document)),
		slog.Duration("elapsed", e.now().Sub(started)))

	return &Artifact{
		Filename: BuildFilename(req.Title, e.now()),
		PDF:      document,
		Preview:  preview,
		Pages:    len(bands),
	}, nil
}
