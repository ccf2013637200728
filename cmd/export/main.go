// cvpress-export 是一次性的命令行导出器: 读入简历 JSON, 本地跑完
// 整条渲染流水线并写出 PDF, 不依赖数据库与队列。
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cvpress/internal/export"
	"cvpress/internal/projection"
	"cvpress/internal/render"
	"cvpress/internal/resume"
)

func main() {
	var (
		inputPath    = flag.String("in", "", "resume JSON file (flat or interchange format)")
		outputPath   = flag.String("out", "", "output PDF path (default derived from title)")
		templateID   = flag.String("template", projection.DefaultTemplateID, "template id")
		title        = flag.String("title", "", "document title (default from resume data)")
		photoPath    = flag.String("photo", "", "optional photo file to inline")
		readyTimeout = flag.Duration("ready-timeout", 15*time.Second, "font/image readiness timeout")
		listOnly     = flag.Bool("templates", false, "list available templates and exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *listOnly {
		for _, info := range projection.List() {
			fmt.Printf("%s\t%s\n", info.ID, info.Name)
		}
		return
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: cvpress-export -in resume.json [-out resume.pdf] [-template classic]")
		os.Exit(2)
	}
	if !projection.Exists(*templateID) {
		fmt.Fprintf(os.Stderr, "unknown template %q\n", *templateID)
		os.Exit(2)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		fatal(logger, "read input", err)
	}
	flat, err := resume.FlatFromRaw(raw)
	if err != nil {
		fatal(logger, "parse resume", err)
	}

	docTitle := *title
	if docTitle == "" {
		docTitle = strings.TrimSpace(flat.PersonalInfo.FullName)
	}

	photoURL, err := loadPhoto(*photoPath)
	if err != nil {
		fatal(logger, "load photo", err)
	}

	renderer := render.NewChromeRenderer(logger, render.Options{ReadyTimeout: *readyTimeout})
	exporter := export.New(renderer, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	artifact, err := exporter.Export(ctx, export.Request{
		Data:       flat,
		TemplateID: *templateID,
		Title:      docTitle,
		PhotoURL:   photoURL,
	})
	if err != nil {
		fatal(logger, "export", err)
	}

	dest := *outputPath
	if dest == "" {
		dest = artifact.Filename
	}
	if err := os.WriteFile(dest, artifact.PDF, 0o644); err != nil {
		fatal(logger, "write pdf", err)
	}

	logger.Info("export complete",
		slog.String("output", dest),
		slog.Int("pages", artifact.Pages),
		slog.Int("bytes", len(artifact.PDF)),
	)
}

func loadPhoto(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	contentType := "image/jpeg"
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		contentType = "image/png"
	case strings.HasSuffix(lower, ".webp"):
		contentType = "image/webp"
	}
	return export.DataURI(contentType, data), nil
}

func fatal(logger *slog.Logger, stage string, err error) {
	logger.Error(stage+" failed", slog.Any("error", err))
	os.Exit(1)
}
