package export

import (
	"fmt"
	"strings"
	"time"
)

// BuildFilename 从简历标题生成下载文件名: 连续空白折叠成单个下划线,
// 空标题回落为 resume, 末尾追加 ISO 日期。
func BuildFilename(title string, at time.Time) string {
	base := strings.Join(strings.Fields(title), "_")
	if base == "" {
		base = "resume"
	}
	return fmt.Sprintf("%s_%s.pdf", base, at.Format("2006-01-02"))
}
