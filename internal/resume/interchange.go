package resume

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Interchange 是归一化的交换格式。除 basics/work/education 外还携带
// 扁平格式字段的透传副本，以便旧的扁平读取方保持兼容。
type Interchange struct {
	Basics    Basics           `json:"basics"`
	Work      []WorkItem       `json:"work"`
	Education []EducationEntry `json:"education"`
	Skills    SkillList        `json:"skills"`
	Languages LanguageList     `json:"languages"`

	// 透传字段，保持与 Flat 读取方的向前兼容。
	Sections       map[string]bool  `json:"sections"`
	Experience     []ExperienceItem `json:"experience"`
	Certifications []string         `json:"certifications"`
	Awards         []string         `json:"awards"`
	Expertise      []string         `json:"expertise"`
	Achievements   []Achievement    `json:"achievements"`
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
}

// Basics 对应交换格式的基础信息块。
type Basics struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	URL      string   `json:"url"`
	Location Location `json:"location"`
	Summary  string   `json:"summary"`
}

// Location 是交换格式的结构化地址。
type Location struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
}

// WorkItem 是交换格式的一段工作经历。
type WorkItem struct {
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	Website    string   `json:"website"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

// EducationEntry 同时携带旧键（institution/area/studyType）与
// 新键（school/degree/field）两套别名，写出时两套都填。
type EducationEntry struct {
	ID          int    `json:"id,omitempty"`
	Institution string `json:"institution"`
	Area        string `json:"area"`
	StudyType   string `json:"studyType"`
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Skill 是技能的结构化表示。历史数据中 skills 字段既可能是纯字符串数组，
// 也可能是对象数组，两种形态统一解码为 SkillList。
type Skill struct {
	Name     string   `json:"name"`
	Level    string   `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// SkillList 在解码时接受字符串数组或对象数组两种形态。
type SkillList []Skill

// UnmarshalJSON 兼容两种历史形态：["React"] 或 [{"name":"React",...}]。
func (l *SkillList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		out := make(SkillList, 0, len(plain))
		for _, name := range plain {
			out = append(out, Skill{Name: name})
		}
		*l = out
		return nil
	}

	type skillAlias Skill
	var structured []skillAlias
	if err := json.Unmarshal(data, &structured); err != nil {
		return fmt.Errorf("skills: expected array of strings or skill objects: %w", err)
	}
	out := make(SkillList, 0, len(structured))
	for _, s := range structured {
		out = append(out, Skill(s))
	}
	*l = out
	return nil
}

// Strings 把技能列表归一化为纯字符串，供下游消费方使用。
func (l SkillList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, s := range l {
		if name := strings.TrimSpace(s.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Language 是语言能力的结构化表示。
type Language struct {
	Language string `json:"language"`
	Fluency  string `json:"fluency,omitempty"`
}

// LanguageList 在解码时接受字符串数组或对象数组两种形态。
type LanguageList []Language

// UnmarshalJSON 兼容 ["English"] 或 [{"language":"English","fluency":"Native"}]。
func (l *LanguageList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		out := make(LanguageList, 0, len(plain))
		for _, name := range plain {
			out = append(out, Language{Language: name})
		}
		*l = out
		return nil
	}

	type languageAlias Language
	var structured []languageAlias
	if err := json.Unmarshal(data, &structured); err != nil {
		return fmt.Errorf("languages: expected array of strings or language objects: %w", err)
	}
	out := make(LanguageList, 0, len(structured))
	for _, v := range structured {
		out = append(out, Language(v))
	}
	*l = out
	return nil
}

// Strings 把语言列表归一化为纯字符串。
func (l LanguageList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if name := strings.TrimSpace(v.Language); name != "" {
			out = append(out, name)
		}
	}
	return out
}
