// Package projection 把扁平简历数据投影为各模板的 HTML 结构。
// 投影是纯函数：不修改输入、不做网络或存储调用。
package projection

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"cvpress/internal/resume"
)

// DefaultTemplateID 是未知模板 ID 的回落目标。
const DefaultTemplateID = "classic"

// Template 是一个注册的简历模板：固定的分区顺序加上各自的
// 默认可见性策略。不同模板对 expertise/achievements 的默认值
// 刻意不同，这是模板作者的设计决定，不要统一。
type Template struct {
	ID       string
	Name     string
	defaults map[string]bool
	tmpl     *template.Template
}

// Info 是模板目录里展示用的条目。
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// 所有模板共享的基础默认值；模板可以覆盖单项。
var baseDefaults = map[string]bool{
	resume.SectionSummary:      true,
	resume.SectionExperience:   true,
	resume.SectionEducation:    true,
	resume.SectionAdditional:   true,
	resume.SectionExpertise:    false,
	resume.SectionAchievements: false,
}

var registry = map[string]*Template{}

func register(id, name string, overrides map[string]bool, markup string) *Template {
	defaults := make(map[string]bool, len(baseDefaults))
	for k, v := range baseDefaults {
		defaults[k] = v
	}
	for k, v := range overrides {
		defaults[k] = v
	}
	t := &Template{
		ID:       id,
		Name:     name,
		defaults: defaults,
		tmpl: template.Must(template.New(id).Funcs(template.FuncMap{
			"lines": resume.SplitLines,
			// 照片以 data URI 注入，html/template 的 URL 过滤会拦掉 data: 协议。
			"safeURL": func(s string) template.URL { return template.URL(s) },
		}).Parse(markup)),
	}
	registry[id] = t
	return t
}

// Lookup 按 ID 查找模板，未知 ID 回落到默认模板。
func Lookup(id string) *Template {
	if t, ok := registry[strings.TrimSpace(id)]; ok {
		return t
	}
	return registry[DefaultTemplateID]
}

// Exists 报告模板 ID 是否已注册。
func Exists(id string) bool {
	_, ok := registry[strings.TrimSpace(id)]
	return ok
}

// List 返回按 ID 排序的模板目录。
func List() []Info {
	out := make([]Info, 0, len(registry))
	for _, t := range registry {
		out = append(out, Info{ID: t.ID, Name: t.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// renderContext 是传给 html/template 的视图数据。
type renderContext struct {
	Data     resume.Flat
	PhotoURL string
	Editable bool
	visible  map[string]bool
}

// Show 报告某个分区是否应该渲染。
func (c renderContext) Show(section string) bool { return c.visible[section] }

// Render 把简历数据投影为该模板的 HTML 片段。
// editable 控制行内编辑标记；导出路径始终传 false。
func (t *Template) Render(data resume.Flat, photoURL string, editable bool) (string, error) {
	data = data.Clone()
	data.Normalize()

	visible := make(map[string]bool, len(t.defaults))
	for section := range t.defaults {
		visible[section] = t.sectionVisible(data, section)
	}

	var buf bytes.Buffer
	err := t.tmpl.Execute(&buf, renderContext{
		Data:     data,
		PhotoURL: photoURL,
		Editable: editable,
		visible:  visible,
	})
	if err != nil {
		return "", fmt.Errorf("render template %q: %w", t.ID, err)
	}
	return buf.String(), nil
}

// sectionVisible：可见性开关为 true（或该模板默认 true）且分区有实际内容时才渲染。
func (t *Template) sectionVisible(f resume.Flat, section string) bool {
	enabled, ok := f.Sections[section]
	if !ok {
		enabled = t.defaults[section]
	}
	return enabled && sectionHasContent(f, section)
}

func sectionHasContent(f resume.Flat, section string) bool {
	switch section {
	case resume.SectionSummary:
		return f.HasSummary()
	case resume.SectionExperience:
		for _, e := range f.Experience {
			if strings.TrimSpace(e.Company) != "" {
				return true
			}
		}
	case resume.SectionEducation:
		for _, e := range f.Education {
			if strings.TrimSpace(e.School) != "" {
				return true
			}
		}
	case resume.SectionAdditional:
		return anyNonEmpty(f.Skills) || anyNonEmpty(f.Languages) ||
			anyNonEmpty(f.Certifications) || anyNonEmpty(f.Awards)
	case resume.SectionExpertise:
		return anyNonEmpty(f.Expertise)
	case resume.SectionAchievements:
		for _, a := range f.Achievements {
			if strings.TrimSpace(a.Title) != "" {
				return true
			}
		}
	}
	return false
}

func anyNonEmpty(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
