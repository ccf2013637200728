package projection

// 内置模板。标记结构必须与前端预览使用的布局保持一致；
// 导出路径由 render 包负责套上 21cm 的宿主容器和打印 CSS。
var (
	// Classic：单栏排版，expertise/achievements 默认隐藏。
	Classic = register("classic", "Classic", map[string]bool{
		"expertise":    false,
		"achievements": false,
	}, classicMarkup)

	// Modern：带侧栏配色，expertise/achievements 默认可见。
	Modern = register("modern", "Modern", map[string]bool{
		"expertise":    true,
		"achievements": true,
	}, modernMarkup)

	// Onyx：深色页眉，expertise 默认可见、achievements 默认隐藏。
	Onyx = register("onyx", "Onyx", map[string]bool{
		"expertise":    true,
		"achievements": false,
	}, onyxMarkup)
)

const classicMarkup = `
<style>
  .tpl-classic { font-family: Georgia, 'Times New Roman', serif; color: #1c1c1c; }
  .tpl-classic header { border-bottom: 2px solid #1c1c1c; padding-bottom: 12px; margin-bottom: 18px; }
  .tpl-classic h1 { font-size: 26pt; margin: 0; letter-spacing: 1px; }
  .tpl-classic .role { font-size: 12pt; color: #555; margin-top: 4px; }
  .tpl-classic .contact { font-size: 9pt; color: #555; margin-top: 8px; }
  .tpl-classic .contact span + span::before { content: " \2022  "; }
  .tpl-classic section { margin-bottom: 16px; }
  .tpl-classic h2 { font-size: 11pt; text-transform: uppercase; letter-spacing: 2px; border-bottom: 1px solid #ccc; padding-bottom: 3px; }
  .tpl-classic .entry { margin-bottom: 10px; }
  .tpl-classic .entry-head { display: flex; justify-content: space-between; font-size: 10.5pt; }
  .tpl-classic .entry-head .where { font-weight: bold; }
  .tpl-classic .entry-head .when { color: #777; font-size: 9pt; }
  .tpl-classic .entry .what { font-style: italic; font-size: 10pt; color: #444; }
  .tpl-classic ul { margin: 4px 0 0 18px; padding: 0; font-size: 9.5pt; }
  .tpl-classic li { margin-bottom: 2px; }
  .tpl-classic .photo { float: right; width: 76px; height: 76px; border-radius: 50%; object-fit: cover; }
  .tpl-classic .tags { font-size: 9.5pt; }
</style>
<div class="tpl-classic"{{if .Editable}} data-editable="true"{{end}}>
  <header>
    {{if .PhotoURL}}<img class="photo" src="{{safeURL .PhotoURL}}" alt="">{{end}}
    <h1>{{.Data.PersonalInfo.FullName}}</h1>
    <div class="role">{{.Data.PersonalInfo.Title}}</div>
    <div class="contact">
      {{if .Data.PersonalInfo.Email}}<span>{{.Data.PersonalInfo.Email}}</span>{{end}}
      {{if .Data.PersonalInfo.Phone}}<span>{{.Data.PersonalInfo.Phone}}</span>{{end}}
      {{if .Data.PersonalInfo.Location}}<span>{{.Data.PersonalInfo.Location}}</span>{{end}}
      {{if .Data.PersonalInfo.Website}}<span>{{.Data.PersonalInfo.Website}}</span>{{end}}
    </div>
  </header>
  {{if .Show "summary"}}
  <section>
    <h2>Summary</h2>
    <p class="tags">{{.Data.PersonalInfo.Summary}}</p>
  </section>
  {{end}}
  {{if .Show "experience"}}
  <section>
    <h2>Experience</h2>
    {{range .Data.Experience}}{{if .Company}}
    <div class="entry">
      <div class="entry-head">
        <span class="where">{{.Company}}</span>
        <span class="when">{{.StartDate}} &ndash; {{.EndDate}}</span>
      </div>
      <div class="what">{{.Position}}</div>
      {{with lines .Description}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
    {{end}}{{end}}
  </section>
  {{end}}
  {{if .Show "education"}}
  <section>
    <h2>Education</h2>
    {{range .Data.Education}}{{if .School}}
    <div class="entry">
      <div class="entry-head">
        <span class="where">{{.School}}</span>
        <span class="when">{{.StartDate}} &ndash; {{.EndDate}}</span>
      </div>
      <div class="what">{{.Degree}}{{if .Field}}, {{.Field}}{{end}}</div>
      {{with lines .Description}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
    {{end}}{{end}}
  </section>
  {{end}}
  {{if .Show "expertise"}}
  <section>
    <h2>Expertise</h2>
    <p class="tags">{{range $i, $v := .Data.Expertise}}{{if $i}} &middot; {{end}}{{$v}}{{end}}</p>
  </section>
  {{end}}
  {{if .Show "achievements"}}
  <section>
    <h2>Achievements</h2>
    <ul>{{range .Data.Achievements}}{{if .Title}}<li><strong>{{.Title}}</strong>{{if .Description}} &mdash; {{.Description}}{{end}}</li>{{end}}{{end}}</ul>
  </section>
  {{end}}
  {{if .Show "additional"}}
  <section>
    <h2>Additional</h2>
    {{if .Data.Skills}}<p class="tags"><strong>Skills:</strong> {{range $i, $v := .Data.Skills}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
    {{if .Data.Languages}}<p class="tags"><strong>Languages:</strong> {{range $i, $v := .Data.Languages}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
    {{if .Data.Certifications}}<p class="tags"><strong>Certifications:</strong> {{range $i, $v := .Data.Certifications}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
    {{if .Data.Awards}}<p class="tags"><strong>Awards:</strong> {{range $i, $v := .Data.Awards}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
  </section>
  {{end}}
</div>
`

const modernMarkup = `
<style>
  .tpl-modern { font-family: 'Helvetica Neue', Arial, sans-serif; color: #222; }
  .tpl-modern header { background: #205375; color: #fff; padding: 18px 20px; margin: 0 0 16px; display: flex; align-items: center; gap: 16px; }
  .tpl-modern h1 { font-size: 22pt; margin: 0; font-weight: 600; }
  .tpl-modern .role { font-size: 11pt; opacity: 0.85; }
  .tpl-modern .contact { font-size: 8.5pt; opacity: 0.8; margin-top: 6px; }
  .tpl-modern .photo { width: 68px; height: 68px; border-radius: 8px; object-fit: cover; }
  .tpl-modern section { margin-bottom: 14px; }
  .tpl-modern h2 { font-size: 10.5pt; color: #205375; text-transform: uppercase; letter-spacing: 1.5px; margin-bottom: 6px; }
  .tpl-modern .entry { margin-bottom: 9px; }
  .tpl-modern .entry-head { font-size: 10.5pt; font-weight: 600; }
  .tpl-modern .entry-head .when { float: right; font-weight: 400; color: #888; font-size: 9pt; }
  .tpl-modern .what { font-size: 9.5pt; color: #205375; }
  .tpl-modern ul { margin: 3px 0 0 16px; padding: 0; font-size: 9.5pt; }
  .tpl-modern .chips span { display: inline-block; background: #eef3f7; border-radius: 3px; padding: 2px 8px; margin: 0 4px 4px 0; font-size: 9pt; }
</style>
<div class="tpl-modern"{{if .Editable}} data-editable="true"{{end}}>
  <header>
    {{if .PhotoURL}}<img class="photo" src="{{safeURL .PhotoURL}}" alt="">{{end}}
    <div>
      <h1>{{.Data.PersonalInfo.FullName}}</h1>
      <div class="role">{{.Data.PersonalInfo.Title}}</div>
      <div class="contact">{{.Data.PersonalInfo.Email}} {{.Data.PersonalInfo.Phone}} {{.Data.PersonalInfo.Location}} {{.Data.PersonalInfo.Website}}</div>
    </div>
  </header>
  {{if .Show "summary"}}
  <section><h2>Profile</h2><p>{{.Data.PersonalInfo.Summary}}</p></section>
  {{end}}
  {{if .Show "expertise"}}
  <section>
    <h2>Expertise</h2>
    <div class="chips">{{range .Data.Expertise}}<span>{{.}}</span>{{end}}</div>
  </section>
  {{end}}
  {{if .Show "experience"}}
  <section>
    <h2>Experience</h2>
    {{range .Data.Experience}}{{if .Company}}
    <div class="entry">
      <div class="entry-head">{{.Company}}<span class="when">{{.StartDate}} &ndash; {{.EndDate}}</span></div>
      <div class="what">{{.Position}}</div>
      {{with lines .Description}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
    {{end}}{{end}}
  </section>
  {{end}}
  {{if .Show "education"}}
  <section>
    <h2>Education</h2>
    {{range .Data.Education}}{{if .School}}
    <div class="entry">
      <div class="entry-head">{{.School}}<span class="when">{{.StartDate}} &ndash; {{.EndDate}}</span></div>
      <div class="what">{{.Degree}}{{if .Field}}, {{.Field}}{{end}}</div>
    </div>
    {{end}}{{end}}
  </section>
  {{end}}
  {{if .Show "achievements"}}
  <section>
    <h2>Achievements</h2>
    <ul>{{range .Data.Achievements}}{{if .Title}}<li><strong>{{.Title}}</strong>{{if .Description}}: {{.Description}}{{end}}</li>{{end}}{{end}}</ul>
  </section>
  {{end}}
  {{if .Show "additional"}}
  <section>
    <h2>Skills &amp; More</h2>
    <div class="chips">
      {{range .Data.Skills}}<span>{{.}}</span>{{end}}
      {{range .Data.Languages}}<span>{{.}}</span>{{end}}
      {{range .Data.Certifications}}<span>{{.}}</span>{{end}}
      {{range .Data.Awards}}<span>{{.}}</span>{{end}}
    </div>
  </section>
  {{end}}
</div>
`

const onyxMarkup = `
<style>
  .tpl-onyx { font-family: 'Segoe UI', Tahoma, sans-serif; color: #2a2a2a; }
  .tpl-onyx header { background: #16161a; color: #f5f5f5; padding: 20px; margin-bottom: 16px; }
  .tpl-onyx h1 { font-size: 24pt; margin: 0; font-weight: 300; letter-spacing: 2px; text-transform: uppercase; }
  .tpl-onyx .role { font-size: 11pt; color: #c9a227; margin-top: 4px; }
  .tpl-onyx .contact { font-size: 8.5pt; color: #aaa; margin-top: 8px; }
  .tpl-onyx .photo { float: right; width: 72px; height: 72px; object-fit: cover; border: 2px solid #c9a227; }
  .tpl-onyx section { margin-bottom: 14px; }
  .tpl-onyx h2 { font-size: 10.5pt; letter-spacing: 2px; text-transform: uppercase; color: #16161a; border-left: 3px solid #c9a227; padding-left: 8px; }
  .tpl-onyx .entry { margin-bottom: 9px; }
  .tpl-onyx .entry-head { font-size: 10.5pt; font-weight: 600; }
  .tpl-onyx .when { color: #999; font-size: 9pt; margin-left: 8px; }
  .tpl-onyx .what { font-size: 9.5pt; color: #666; }
  .tpl-onyx ul { margin: 3px 0 0 16px; padding: 0; font-size: 9.5pt; }
  .tpl-onyx .tags { font-size: 9.5pt; }
</style>
<div class="tpl-onyx"{{if .Editable}} data-editable="true"{{end}}>
  <header>
    {{if .PhotoURL}}<img class="photo" src="{{safeURL .PhotoURL}}" alt="">{{end}}
    <h1>{{.Data.PersonalInfo.FullName}}</h1>
    <div class="role">{{.Data.PersonalInfo.Title}}</div>
    <div class="contact">{{.Data.PersonalInfo.Email}} &middot; {{.Data.PersonalInfo.Phone}} &middot; {{.Data.PersonalInfo.Location}}</div>
  </header>
  {{if .Show "summary"}}
  <section><h2>About</h2><p class="tags">{{.Data.PersonalInfo.Summary}}</p></section>
  {{end}}
  {{if .Show "experience"}}
  <section>
    <h2>Experience</h2>
    {{range .Data.Experience}}{{if .Company}}
    <div class="entry">
      <div class="entry-head">{{.Company}}<span class="when">{{.StartDate}} &ndash; {{.EndDate}}</span></div>
      <div class="what">{{.Position}}</div>
      {{with lines .Description}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </div>
    {{end}}{{end}}
  </section>
  {{end}}
  {{if .Show "expertise"}}
  <section>
    <h2>Expertise</h2>
    <p class="tags">{{range $i, $v := .Data.Expertise}}{{if $i}} / {{end}}{{$v}}{{end}}</p>
  </section>
  {{end}}
  {{if .Show "education"}}
  <section>
    <h2>Education</h2>
    {{range .Data.Education}}{{if .School}}
    <div class="entry">
      <div class="entry-head">{{.School}}<span class="when">{{.StartDate}} &ndash; {{.EndDate}}</span></div>
      <div class="what">{{.Degree}}{{if .Field}}, {{.Field}}{{end}}</div>
    </div>
    {{end}}{{end}}
  </section>
  {{end}}
  {{if .Show "achievements"}}
  <section>
    <h2>Achievements</h2>
    <ul>{{range .Data.Achievements}}{{if .Title}}<li><strong>{{.Title}}</strong>{{if .Description}} &mdash; {{.Description}}{{end}}</li>{{end}}{{end}}</ul>
  </section>
  {{end}}
  {{if .Show "additional"}}
  <section>
    <h2>Additional</h2>
    {{if .Data.Skills}}<p class="tags"><strong>Skills</strong> {{range $i, $v := .Data.Skills}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
    {{if .Data.Languages}}<p class="tags"><strong>Languages</strong> {{range $i, $v := .Data.Languages}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
    {{if .Data.Certifications}}<p class="tags"><strong>Certifications</strong> {{range $i, $v := .Data.Certifications}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
    {{if .Data.Awards}}<p class="tags"><strong>Awards</strong> {{range $i, $v := .Data.Awards}}{{if $i}}, {{end}}{{$v}}{{end}}</p>{{end}}
  </section>
  {{end}}
</div>
`
