// Package render 在无头 Chromium 中挂载投影好的 HTML 并截取整页位图。
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// HostWidthPx 是宿主容器的 CSS 像素宽度，对应 21cm @ 96dpi。
const HostWidthPx = 794

// Options 控制渲染宿主的行为。
type Options struct {
	// ReadyTimeout 限制字体与图片就绪等待。超时视为导出失败而不是
	// 带着回退字体继续截图。
	ReadyTimeout time.Duration
	// DeviceScale 是截图的设备缩放倍数，放大采样让文字边缘更实。
	DeviceScale float64
	// BrowserTimeout 限制整个浏览器会话。
	BrowserTimeout time.Duration
}

// DefaultOptions 返回生产默认值。
func DefaultOptions() Options {
	return Options{
		ReadyTimeout:   15 * time.Second,
		DeviceScale:    3,
		BrowserTimeout: 90 * time.Second,
	}
}

// Renderer 把 HTML 文档渲染为整页位图。
type Renderer interface {
	Render(ctx context.Context, doc string) (image.Image, func(), error)
}

// ChromeRenderer 基于 go-rod 驱动本机 Chromium。每次调用启动独立的
// 浏览器实例，互不串扰，cleanup 负责回收。
type ChromeRenderer struct {
	logger *slog.Logger
	opts   Options
}

// NewChromeRenderer 创建渲染器。opts 的零值字段回落到默认值。
func NewChromeRenderer(logger *slog.Logger, opts Options) *ChromeRenderer {
	def := DefaultOptions()
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = def.ReadyTimeout
	}
	if opts.DeviceScale <= 0 {
		opts.DeviceScale = def.DeviceScale
	}
	if opts.BrowserTimeout <= 0 {
		opts.BrowserTimeout = def.BrowserTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeRenderer{logger: logger, opts: opts}
}

// Render 挂载 doc 并返回整页 PNG 解码后的位图。返回的 cleanup 无论
// 成功失败都可以调用，调用方必须调用。
func (r *ChromeRenderer) Render(ctx context.Context, doc string) (_ image.Image, cleanup func(), err error) {
	cleanup = func() {}

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		launch.Cleanup()
		return nil, cleanup, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).Context(ctx).Timeout(r.opts.BrowserTimeout)
	if err := browser.Connect(); err != nil {
		launch.Kill()
		launch.Cleanup()
		return nil, cleanup, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		launch.Cleanup()
		return nil, cleanup, fmt.Errorf("create page: %w", err)
	}
	cleanup = func() {
		if page != nil {
			_ = page.Close()
		}
		_ = browser.Close()
		launch.Cleanup()
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             HostWidthPx,
		Height:            1123,
		DeviceScaleFactor: r.opts.DeviceScale,
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, cleanup, fmt.Errorf("set device metrics: %w", err)
	}

	if err := page.SetDocumentContent(doc); err != nil {
		return nil, cleanup, fmt.Errorf("mount document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, cleanup, fmt.Errorf("wait load: %w", err)
	}

	// 字体与图片必须真正就绪再截图。等待失败按导出失败处理，
	// 不允许带着回退字体或半解码图片出图。
	r.logger.Info("Render: waiting for fonts and images...")
	if _, evalErr := page.Timeout(r.opts.ReadyTimeout).Eval(readinessScript); evalErr != nil {
		return nil, cleanup, fmt.Errorf("wait document ready: %w", evalErr)
	}

	if err := page.WaitIdle(r.opts.ReadyTimeout); err != nil {
		return nil, cleanup, fmt.Errorf("wait idle: %w", err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("capture screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, cleanup, fmt.Errorf("decode screenshot: %w", err)
	}

	r.logger.Info("Render: captured raster",
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()))
	return img, cleanup, nil
}

// readinessScript 等待全部字体加载完成，并逐张 decode 文档内的图片。
// 任何一张图片解码失败都让整个 Promise 失败。
const readinessScript = `async () => {
  if (document.fonts && document.fonts.ready) {
    await document.fonts.ready;
  }
  const images = Array.from(document.images);
  await Promise.all(images.map(img => {
    if (img.complete && img.naturalWidth > 0) {
      return img.decode();
    }
    return new Promise((resolve, reject) => {
      img.addEventListener('load', () => img.decode().then(resolve, reject), { once: true });
      img.addEventListener('error', () => reject(new Error('image failed to load: ' + img.src.slice(0, 64))), { once: true });
    });
  }));
  return true;
}`
