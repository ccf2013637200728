package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat 表示内容既不是交换格式（带 basics）也不是扁平格式
// （带 personalInfo）。调用方应回落到默认数据并提示用户，而不是中断渲染。
var ErrUnknownFormat = errors.New("unrecognized resume data format")

// ToInterchange 把扁平数据展开为交换格式。所有字段都会被填充：
// 缺失的可选字段写成空串或空数组，结果可直接序列化。
// 输入先做深拷贝，绝不别名编辑器持有的实例。
func ToInterchange(f Flat) Interchange {
	f = f.Clone()
	f.Normalize()

	work := make([]WorkItem, 0, len(f.Experience))
	for _, e := range f.Experience {
		work = append(work, WorkItem{
			Company:    e.Company,
			Position:   e.Position,
			Website:    "",
			StartDate:  e.StartDate,
			EndDate:    e.EndDate,
			Summary:    e.Description,
			Highlights: SplitLines(e.Description),
		})
	}

	education := make([]EducationEntry, 0, len(f.Education))
	for _, e := range f.Education {
		// 新旧两套键都写，旧读取方和新读取方都能消费。
		education = append(education, EducationEntry{
			ID:          e.ID,
			Institution: e.School,
			Area:        e.Field,
			StudyType:   e.Degree,
			School:      e.School,
			Degree:      e.Degree,
			Field:       e.Field,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}

	skills := make(SkillList, 0, len(f.Skills))
	for _, s := range f.Skills {
		skills = append(skills, Skill{Name: s})
	}
	languages := make(LanguageList, 0, len(f.Languages))
	for _, s := range f.Languages {
		languages = append(languages, Language{Language: s})
	}

	return Interchange{
		Basics: Basics{
			Name:     f.PersonalInfo.FullName,
			Label:    f.PersonalInfo.Title,
			Email:    f.PersonalInfo.Email,
			Phone:    f.PersonalInfo.Phone,
			URL:      f.PersonalInfo.Website,
			Location: Location{Address: f.PersonalInfo.Location},
			Summary:  f.PersonalInfo.Summary,
		},
		Work:           work,
		Education:      education,
		Skills:         skills,
		Languages:      languages,
		Sections:       f.Sections,
		Experience:     f.Experience,
		Certifications: f.Certifications,
		Awards:         f.Awards,
		Expertise:      f.Expertise,
		Achievements:   f.Achievements,
		PersonalInfo:   f.PersonalInfo,
	}
}

// FromInterchange 把交换格式收拢回扁平格式。透传字段优先，
// 仅在透传缺失时才从 basics/work/education 推导。
func FromInterchange(v Interchange) Flat {
	f := Flat{
		PersonalInfo:   v.PersonalInfo,
		Experience:     append([]ExperienceItem(nil), v.Experience...),
		Skills:         v.Skills.Strings(),
		Languages:      v.Languages.Strings(),
		Certifications: append([]string(nil), v.Certifications...),
		Awards:         append([]string(nil), v.Awards...),
		Expertise:      append([]string(nil), v.Expertise...),
		Achievements:   append([]Achievement(nil), v.Achievements...),
		Sections:       v.Sections,
	}

	if f.PersonalInfo.FullName == "" {
		f.PersonalInfo.FullName = v.Basics.Name
	}
	if f.PersonalInfo.Title == "" {
		f.PersonalInfo.Title = v.Basics.Label
	}
	if f.PersonalInfo.Email == "" {
		f.PersonalInfo.Email = v.Basics.Email
	}
	if f.PersonalInfo.Phone == "" {
		f.PersonalInfo.Phone = v.Basics.Phone
	}
	if f.PersonalInfo.Website == "" {
		f.PersonalInfo.Website = v.Basics.URL
	}
	if f.PersonalInfo.Summary == "" {
		f.PersonalInfo.Summary = v.Basics.Summary
	}
	if f.PersonalInfo.Location == "" {
		f.PersonalInfo.Location = locationString(v.Basics.Location)
	}

	if len(f.Experience) == 0 {
		for i, w := range v.Work {
			description := w.Summary
			if strings.TrimSpace(description) == "" {
				description = strings.Join(w.Highlights, "\n")
			}
			f.Experience = append(f.Experience, ExperienceItem{
				ID:          i + 1,
				Company:     w.Company,
				Position:    w.Position,
				StartDate:   w.StartDate,
				EndDate:     w.EndDate,
				Description: description,
			})
		}
	}

	for i, e := range v.Education {
		id := e.ID
		if id <= 0 {
			id = i + 1
		}
		f.Education = append(f.Education, EducationItem{
			ID:          id,
			School:      firstNonEmpty(e.School, e.Institution),
			Degree:      firstNonEmpty(e.Degree, e.StudyType),
			Field:       firstNonEmpty(e.Field, e.Area),
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}

	f.Normalize()
	return f
}

// FlatFromRaw 解析存储内容并按形态转换为扁平格式：
// 有 basics 键按交换格式处理，有 personalInfo 键按扁平格式透传，
// 其他一律视为 ErrUnknownFormat。
func FlatFromRaw(raw []byte) (Flat, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Flat{}, fmt.Errorf("decode resume content: %w", err)
	}

	if _, ok := probe["basics"]; ok {
		var v Interchange
		if err := json.Unmarshal(raw, &v); err != nil {
			return Flat{}, fmt.Errorf("decode interchange resume: %w", err)
		}
		return FromInterchange(v), nil
	}

	if _, ok := probe["personalInfo"]; ok {
		var f Flat
		if err := json.Unmarshal(raw, &f); err != nil {
			return Flat{}, fmt.Errorf("decode flat resume: %w", err)
		}
		f.Normalize()
		return f, nil
	}

	return Flat{}, ErrUnknownFormat
}

// SplitLines 把多行文本按换行拆成要点，去掉空行。
// 纯字符串操作，幂等。
func SplitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func locationString(loc Location) string {
	if strings.TrimSpace(loc.Address) != "" {
		return loc.Address
	}
	parts := make([]string, 0, 2)
	for _, p := range []string{loc.City, loc.Region} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
