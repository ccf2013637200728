package projection

import (
	"strings"
	"testing"

	"cvpress/internal/resume"
)

func minimalData() resume.Flat {
	f := resume.Flat{
		PersonalInfo: resume.PersonalInfo{FullName: "Jane Doe", Title: "Engineer"},
		Experience: []resume.ExperienceItem{
			{ID: 1, Company: "Acme", Position: "Dev", Description: "Built it\nShipped it"},
		},
		Education: []resume.EducationItem{
			{ID: 1, School: "TU Berlin", Degree: "M.Sc.", Field: "CS"},
		},
		Skills:       []string{"Go"},
		Expertise:    []string{"Systems"},
		Achievements: []resume.Achievement{{Title: "Award"}},
	}
	f.Normalize()
	return f
}

func TestLookupFallsBackToDefault(t *testing.T) {
	if got := Lookup("no-such-template"); got.ID != DefaultTemplateID {
		t.Errorf("Lookup fallback = %q, want %q", got.ID, DefaultTemplateID)
	}
	if got := Lookup("modern"); got.ID != "modern" {
		t.Errorf("Lookup(modern) = %q", got.ID)
	}
}

func TestEducationGatedByFlagAndContent(t *testing.T) {
	data := minimalData()

	html, err := Classic.Render(data, "", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "Education") {
		t.Error("education section missing despite content and default-visible flag")
	}

	// 开关为 false：即使有内容也不渲染。
	data.Sections[resume.SectionEducation] = false
	html, err = Classic.Render(data, "", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "Education") {
		t.Error("education section rendered although the flag is false")
	}

	// 开关为 true 但没有非空 school：同样不渲染。
	data = minimalData()
	data.Sections[resume.SectionEducation] = true
	data.Education = []resume.EducationItem{{ID: 1, School: ""}}
	html, err = Classic.Render(data, "", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "Education") {
		t.Error("education section rendered although all schools are empty")
	}
}

func TestPerTemplateDefaultVisibility(t *testing.T) {
	data := minimalData()
	// Sections 为空 map：全部走各模板的默认值。

	classic, err := Classic.Render(data, "", false)
	if err != nil {
		t.Fatalf("classic: %v", err)
	}
	modern, err := Modern.Render(data, "", false)
	if err != nil {
		t.Fatalf("modern: %v", err)
	}
	onyx, err := Onyx.Render(data, "", false)
	if err != nil {
		t.Fatalf("onyx: %v", err)
	}

	if strings.Contains(classic, "Expertise") || strings.Contains(classic, "Achievements") {
		t.Error("classic should hide expertise and achievements by default")
	}
	if !strings.Contains(modern, "Expertise") || !strings.Contains(modern, "Achievements") {
		t.Error("modern should show expertise and achievements by default")
	}
	if !strings.Contains(onyx, "Expertise") {
		t.Error("onyx should show expertise by default")
	}
	if strings.Contains(onyx, "Achievements") {
		t.Error("onyx should hide achievements by default")
	}

	// 显式开关覆盖模板默认值。
	data.Sections[resume.SectionExpertise] = true
	classic, err = Classic.Render(data, "", false)
	if err != nil {
		t.Fatalf("classic: %v", err)
	}
	if !strings.Contains(classic, "Expertise") {
		t.Error("explicit expertise flag should override the classic default")
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	data := resume.Flat{
		PersonalInfo: resume.PersonalInfo{FullName: "Jane"},
	}
	if _, err := Classic.Render(data, "", false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if data.Sections != nil || data.Experience != nil {
		t.Error("render normalized the caller's instance instead of a copy")
	}
}

func TestDescriptionSplitIntoBullets(t *testing.T) {
	data := minimalData()
	html, err := Classic.Render(data, "", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<li>Built it</li>") || !strings.Contains(html, "<li>Shipped it</li>") {
		t.Errorf("description lines not rendered as bullets:\n%s", html)
	}
}

func TestPhotoRenderedOnlyWhenPresent(t *testing.T) {
	data := minimalData()
	withPhoto, err := Modern.Render(data, "data:image/png;base64,AAAA", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(withPhoto, `class="photo"`) {
		t.Error("photo element missing although a photo URL was supplied")
	}
	withoutPhoto, err := Modern.Render(data, "", false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(withoutPhoto, `class="photo"`) {
		t.Error("photo element rendered without a photo URL")
	}
}
