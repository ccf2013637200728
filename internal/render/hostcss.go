package render

import (
	"fmt"
	"strings"
)

// HostDocument 把模板投影出的片段包进离屏宿主文档。宿主宽度固定为
// 21cm 并带打印安全边距，border-box 盒模型让边距算在声明宽度之内，
// 模板内的宽度计算与打印预览一致。
func HostDocument(fragment string) string {
	return fmt.Sprintf(hostShell, strings.TrimSpace(fragment))
}

// hostShell 的 CSS 分三层: 重置、宿主几何、断行规避。
// page-break-inside 只能尽力而为, 切带本身仍是纯几何的。
const hostShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  * {
    box-sizing: border-box;
    -webkit-font-smoothing: antialiased;
    text-rendering: optimizeLegibility;
  }
  html, body {
    margin: 0;
    padding: 0;
    background: white;
  }
  #host {
    width: 21cm;
    margin: 0 auto;
    padding: 1cm 1.2cm;
    background: white;
    transform: none;
  }
  h1, h2, h3, li, section > header {
    page-break-inside: avoid;
    break-inside: avoid;
  }
  img {
    max-width: 100%%;
  }
</style>
</head>
<body>
<div id="host">
%s
</div>
</body>
</html>`
