package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 导出流水线各阶段的标签值。
const (
	StageProject  = "project"
	StageRender   = "render"
	StagePaginate = "paginate"
	StageUpload   = "upload"
)

var (
	exportStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cvpress",
			Subsystem: "export",
			Name:      "stage_duration_seconds",
			Help:      "导出流水线各阶段耗时分布（秒）。",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	exportPageCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cvpress",
			Subsystem: "export",
			Name:      "page_count",
			Help:      "导出 PDF 的页数分布。",
			Buckets:   []float64{1, 2, 3, 4, 5, 8, 12},
		},
	)
)

// ObserveExportStage 记录一个流水线阶段的耗时。
func ObserveExportStage(stage string, elapsed time.Duration) {
	exportStageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// ObservePageCount 记录一次导出的页数。
func ObservePageCount(pages int) {
	exportPageCount.Observe(float64(pages))
}
