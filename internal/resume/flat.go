package resume

import "strings"

// Flat 是编辑器使用的扁平简历结构：每个概念一个值，列表项用整型 ID 标识。
// 编辑器独占持有并修改它；本包的所有转换只操作深拷贝，不会原地修改。
type Flat struct {
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
	Experience     []ExperienceItem `json:"experience"`
	Education      []EducationItem  `json:"education"`
	Skills         []string         `json:"skills"`
	Languages      []string         `json:"languages"`
	Certifications []string         `json:"certifications"`
	Awards         []string         `json:"awards"`
	Expertise      []string         `json:"expertise"`
	Achievements   []Achievement    `json:"achievements"`
	Sections       map[string]bool  `json:"sections"`
}

// PersonalInfo 汇总简历头部的个人信息。
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
}

// ExperienceItem 是一段工作经历。Description 为多行文本，渲染时按行拆分为要点。
type ExperienceItem struct {
	ID          int    `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// EducationItem 是一段教育经历。
type EducationItem struct {
	ID          int    `json:"id"`
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Achievement 是一条成就条目。
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// 各分区在 Sections 里使用的键名。
const (
	SectionSummary      = "summary"
	SectionExperience   = "experience"
	SectionEducation    = "education"
	SectionAdditional   = "additional"
	SectionExpertise    = "expertise"
	SectionAchievements = "achievements"
)

// NextExperienceID 返回下一个可用的经历 ID：max(现有)+1，空列表为 1。
// ID 永不复用，删除后也不重排。
func NextExperienceID(items []ExperienceItem) int {
	next := 1
	for _, item := range items {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return next
}

// NextEducationID 返回下一个可用的教育经历 ID，规则与 NextExperienceID 相同。
func NextEducationID(items []EducationItem) int {
	next := 1
	for _, item := range items {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return next
}

// Clone 返回与编辑器状态完全脱离的深拷贝。
func (f Flat) Clone() Flat {
	out := f
	out.Experience = append([]ExperienceItem(nil), f.Experience...)
	out.Education = append([]EducationItem(nil), f.Education...)
	out.Skills = cloneStrings(f.Skills)
	out.Languages = cloneStrings(f.Languages)
	out.Certifications = cloneStrings(f.Certifications)
	out.Awards = cloneStrings(f.Awards)
	out.Expertise = cloneStrings(f.Expertise)
	out.Achievements = append([]Achievement(nil), f.Achievements...)
	if f.Sections != nil {
		out.Sections = make(map[string]bool, len(f.Sections))
		for k, v := range f.Sections {
			out.Sections[k] = v
		}
	}
	return out
}

// Normalize 把 nil 切片和 map 换成空值，并为缺失的列表 ID 按位置补号，
// 保证结构可安全序列化且列表项具有稳定的渲染标识。
func (f *Flat) Normalize() {
	if f.Experience == nil {
		f.Experience = []ExperienceItem{}
	}
	if f.Education == nil {
		f.Education = []EducationItem{}
	}
	if f.Skills == nil {
		f.Skills = []string{}
	}
	if f.Languages == nil {
		f.Languages = []string{}
	}
	if f.Certifications == nil {
		f.Certifications = []string{}
	}
	if f.Awards == nil {
		f.Awards = []string{}
	}
	if f.Expertise == nil {
		f.Expertise = []string{}
	}
	if f.Achievements == nil {
		f.Achievements = []Achievement{}
	}
	if f.Sections == nil {
		f.Sections = map[string]bool{}
	}
	for i := range f.Experience {
		if f.Experience[i].ID <= 0 {
			f.Experience[i].ID = i + 1
		}
	}
	for i := range f.Education {
		if f.Education[i].ID <= 0 {
			f.Education[i].ID = i + 1
		}
	}
}

func cloneStrings(in []string) []string {
	return append([]string(nil), in...)
}

// HasSummary 报告摘要是否有实际内容。
func (f Flat) HasSummary() bool {
	return strings.TrimSpace(f.PersonalInfo.Summary) != ""
}
