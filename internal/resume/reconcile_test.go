package resume

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func sampleFlat() Flat {
	f := Flat{
		PersonalInfo: PersonalInfo{
			FullName: "Jane Doe",
			Title:    "Engineer",
			Email:    "jane@example.com",
			Phone:    "123",
			Location: "Berlin",
			Website:  "https://jane.example.com",
			Summary:  "Summary text",
		},
		Experience: []ExperienceItem{
			{ID: 1, Company: "Acme", Position: "Dev", StartDate: "2020", EndDate: "2022", Description: "Did a thing\nDid another"},
			{ID: 3, Company: "Globex", Position: "Lead", StartDate: "2022", EndDate: "Present", Description: "Led stuff"},
		},
		Education: []EducationItem{
			{ID: 2, School: "TU Berlin", Degree: "M.Sc.", Field: "CS", StartDate: "2014", EndDate: "2016"},
		},
		Skills:       []string{"Go", "Redis"},
		Languages:    []string{"English"},
		Achievements: []Achievement{{Title: "Award", Description: "Won it"}},
		Sections:     map[string]bool{"expertise": true},
	}
	f.Normalize()
	return f
}

func TestRoundTrip(t *testing.T) {
	original := sampleFlat()
	got := FromInterchange(ToInterchange(original))
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, original)
	}
}

func TestRoundTripThroughJSON(t *testing.T) {
	original := sampleFlat()
	raw, err := json.Marshal(ToInterchange(original))
	if err != nil {
		t.Fatalf("marshal interchange: %v", err)
	}
	got, err := FlatFromRaw(raw)
	if err != nil {
		t.Fatalf("FlatFromRaw: %v", err)
	}
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip via JSON mismatch:\n got %+v\nwant %+v", got, original)
	}
}

func TestToInterchangePopulatesEveryField(t *testing.T) {
	v := ToInterchange(Flat{})
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"basics", "work", "education", "skills", "languages", "sections", "experience", "certifications", "awards", "expertise", "achievements", "personalInfo"} {
		value, ok := decoded[key]
		if !ok {
			t.Errorf("key %q missing from serialized interchange", key)
			continue
		}
		if value == nil {
			t.Errorf("key %q serialized as null", key)
		}
	}
}

func TestToInterchangeDoesNotAliasInput(t *testing.T) {
	f := sampleFlat()
	v := ToInterchange(f)
	v.Experience[0].Company = "mutated"
	v.Sections["experience"] = false
	if f.Experience[0].Company == "mutated" {
		t.Error("interchange experience aliases the editor slice")
	}
	if got, ok := f.Sections["experience"]; ok && !got {
		t.Error("interchange sections alias the editor map")
	}
}

func TestPolymorphicSkillsNormalization(t *testing.T) {
	asStrings := []byte(`{"basics":{"name":"A"},"skills":["React","Go"],"languages":["English"]}`)
	asObjects := []byte(`{"basics":{"name":"A"},"skills":[{"name":"React","level":"expert","keywords":["web"]},{"name":"Go"}],"languages":[{"language":"English","fluency":"native"}]}`)

	fromStrings, err := FlatFromRaw(asStrings)
	if err != nil {
		t.Fatalf("string form: %v", err)
	}
	fromObjects, err := FlatFromRaw(asObjects)
	if err != nil {
		t.Fatalf("object form: %v", err)
	}

	want := []string{"React", "Go"}
	if !reflect.DeepEqual(fromStrings.Skills, want) {
		t.Errorf("string form skills = %v, want %v", fromStrings.Skills, want)
	}
	if !reflect.DeepEqual(fromObjects.Skills, want) {
		t.Errorf("object form skills = %v, want %v", fromObjects.Skills, want)
	}
	if !reflect.DeepEqual(fromStrings.Languages, fromObjects.Languages) {
		t.Errorf("languages differ across forms: %v vs %v", fromStrings.Languages, fromObjects.Languages)
	}
}

func TestNextIDMonotonic(t *testing.T) {
	items := []ExperienceItem{{ID: 1}, {ID: 3}, {ID: 5}}
	if got := NextExperienceID(items); got != 6 {
		t.Errorf("NextExperienceID = %d, want 6", got)
	}
	if got := NextExperienceID(nil); got != 1 {
		t.Errorf("NextExperienceID(empty) = %d, want 1", got)
	}
	if got := NextEducationID([]EducationItem{{ID: 7}}); got != 8 {
		t.Errorf("NextEducationID = %d, want 8", got)
	}
}

func TestFlatFromRawDetectsFlatShape(t *testing.T) {
	raw := []byte(`{"personalInfo":{"fullName":"Jane"},"experience":[{"company":"Acme"}]}`)
	f, err := FlatFromRaw(raw)
	if err != nil {
		t.Fatalf("FlatFromRaw: %v", err)
	}
	if f.PersonalInfo.FullName != "Jane" {
		t.Errorf("fullName = %q", f.PersonalInfo.FullName)
	}
	if len(f.Experience) != 1 || f.Experience[0].ID != 1 {
		t.Errorf("expected positional id 1, got %+v", f.Experience)
	}
}

func TestFlatFromRawUnknownFormat(t *testing.T) {
	if _, err := FlatFromRaw([]byte(`{"layout_settings":{},"items":[]}`)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := FlatFromRaw([]byte(`[1,2,3]`)); err == nil {
		t.Error("expected error for non-object root")
	}
}

func TestFromInterchangeDerivesFromBasics(t *testing.T) {
	raw := []byte(`{
		"basics": {
			"name": "John Smith",
			"label": "Designer",
			"url": "https://john.example.com",
			"location": {"city": "Lyon", "region": "FR"}
		},
		"work": [
			{"company": "Initech", "position": "Designer", "startDate": "2019", "endDate": "2021", "highlights": ["Shipped the thing", "Maintained it"]}
		],
		"education": [
			{"institution": "ENS", "studyType": "B.A.", "area": "Design"}
		]
	}`)
	f, err := FlatFromRaw(raw)
	if err != nil {
		t.Fatalf("FlatFromRaw: %v", err)
	}
	if f.PersonalInfo.FullName != "John Smith" || f.PersonalInfo.Title != "Designer" {
		t.Errorf("basics not mapped: %+v", f.PersonalInfo)
	}
	if f.PersonalInfo.Location != "Lyon, FR" {
		t.Errorf("location = %q, want %q", f.PersonalInfo.Location, "Lyon, FR")
	}
	if f.PersonalInfo.Website != "https://john.example.com" {
		t.Errorf("website = %q", f.PersonalInfo.Website)
	}
	if len(f.Experience) != 1 {
		t.Fatalf("experience = %+v", f.Experience)
	}
	if f.Experience[0].Description != "Shipped the thing\nMaintained it" {
		t.Errorf("description from highlights = %q", f.Experience[0].Description)
	}
	if len(f.Education) != 1 {
		t.Fatalf("education = %+v", f.Education)
	}
	if f.Education[0].School != "ENS" || f.Education[0].Degree != "B.A." || f.Education[0].Field != "Design" {
		t.Errorf("legacy aliases not mapped: %+v", f.Education[0])
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("first\n\n  second  \r\nthird\n")
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %v, want %v", got, want)
	}
	// 幂等：对已拆分再拼接的文本重复拆分结果一致。
	again := SplitLines("first\nsecond\nthird")
	if !reflect.DeepEqual(again, want) {
		t.Errorf("SplitLines not idempotent: %v", again)
	}
	if got := SplitLines("   \n\n"); len(got) != 0 {
		t.Errorf("blank input should produce no lines, got %v", got)
	}
}
