package resume

// DefaultTitle 是新建简历的默认文档标题。
const DefaultTitle = "My Resume"

// DefaultResume 返回新建简历使用的示例数据。
// 每次调用都返回全新实例，调用方可随意修改。
func DefaultResume() Flat {
	f := Flat{
		PersonalInfo: PersonalInfo{
			FullName: "Alex Morgan",
			Title:    "Senior Software Engineer",
			Email:    "alex.morgan@example.com",
			Phone:    "+1 (555) 012-3456",
			Location: "Berlin, Germany",
			Website:  "https://alexmorgan.dev",
			Summary: "Engineer with eight years of experience building data-intensive " +
				"backend systems. Comfortable owning services from design through " +
				"production operations.",
		},
		Experience: []ExperienceItem{
			{
				ID:        1,
				Company:   "Northwind Labs",
				Position:  "Senior Software Engineer",
				StartDate: "2021-03",
				EndDate:   "Present",
				Description: "Led migration of the billing pipeline to event sourcing\n" +
					"Cut p99 invoice latency from 4s to 300ms\n" +
					"Mentored four engineers through promotion",
			},
			{
				ID:        2,
				Company:   "Contoso GmbH",
				Position:  "Backend Engineer",
				StartDate: "2017-06",
				EndDate:   "2021-02",
				Description: "Built the internal feature-flag service used by 40 teams\n" +
					"Introduced structured logging and tracing across services",
			},
		},
		Education: []EducationItem{
			{
				ID:        1,
				School:    "Technical University of Munich",
				Degree:    "B.Sc.",
				Field:     "Computer Science",
				StartDate: "2013",
				EndDate:   "2017",
			},
		},
		Skills:         []string{"Go", "PostgreSQL", "Kubernetes", "Redis"},
		Languages:      []string{"English", "German"},
		Certifications: []string{"CKA"},
		Awards:         []string{},
		Expertise:      []string{"Distributed systems", "Observability"},
		Achievements: []Achievement{
			{Title: "Conference speaker", Description: "Talks at two European Go meetups"},
		},
		Sections: map[string]bool{},
	}
	f.Normalize()
	return f
}
