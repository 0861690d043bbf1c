package dashboard

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"canal-denuncies/models"
)

var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{
	"join": func(types []models.ViolenceType) string {
		s := make([]string, len(types))
		for i, t := range types {
			s[i] = string(t)
		}
		return strings.Join(s, ", ")
	},
}).Parse(`<!DOCTYPE html>
<html lang="ca">
<head>
<meta charset="utf-8">
<title>Expedient #{{.Report.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #0f172a; }
h1 { font-size: 1.4rem; margin-bottom: 0; }
h2 { font-size: .75rem; text-transform: uppercase; letter-spacing: .1em; color: #64748b; border-left: 2px solid #f59e0b; padding-left: .5rem; }
.meta { color: #64748b; font-size: .8rem; }
section { margin-top: 1.5rem; }
</style>
</head>
<body onload="window.print()">
<h1>Detall Expedient #{{.Report.ID}}</h1>
<p class="meta">{{.CreatedAt}} · {{.Report.Victim.Entity}} · Estat: {{.Report.Status}}</p>

<section>
<h2>Informació de la Víctima</h2>
<p><strong>{{.Report.Victim.Name}}</strong></p>
<p>Edat: {{.Report.Victim.Age}} · Gènere: {{.Report.Victim.Gender}}</p>
<p>{{.Report.Victim.Category}}</p>
</section>

<section>
<h2>Informant</h2>
{{if .Report.Informant.IsAnonymous}}<p><strong>USUARI ANÒNIM</strong></p>{{else}}<p><strong>{{.Report.Informant.Name}}</strong></p>
<p>{{.Report.Informant.Email}} · {{.Report.Informant.Phone}}</p>{{end}}
<p>{{.Report.Informant.Type}}</p>
</section>

<section>
<h2>Persona denunciada</h2>
<p>{{.Report.AccusedNameOrDefault}} ({{.Report.AccusedRelationOrDefault}})</p>
</section>

<section>
<h2>Detalls dels Fets</h2>
<p>{{.Report.Facts.Description}}</p>
<p>Lloc de l'incident: {{.Report.Facts.Location}}</p>
<p>Data i Hora: {{.Report.Facts.Date}} - {{.Report.Facts.Time}}</p>
<p>Tipus: {{join .Report.Facts.ViolenceType}}</p>
{{with .Report.Facts.Witnesses}}<p>Testimonis: {{.}}</p>{{end}}
</section>
{{with .Report.AIAnalysis}}
<section>
<h2>Anàlisi IA</h2>
<p>Gravetat: {{.Severity}}</p>
<p>{{.Reasoning}}</p>
{{if .ImmediateActions}}<ul>{{range .ImmediateActions}}<li>{{.}}</li>{{end}}</ul>{{end}}
</section>
{{end}}
{{with .Report.Observations}}
<section>
<h2>Observacions</h2>
<p>{{.}}</p>
</section>
{{end}}
</body>
</html>
`))

type printView struct {
	Report    models.Report
	CreatedAt string
}

// Print renders the detail panel of one report as a standalone printable page.
func (d *Dashboard) Print(w io.Writer, id string, loc *time.Location) error {
	r, ok := d.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if loc == nil {
		loc = time.UTC
	}
	view := printView{Report: r, CreatedAt: r.CreatedAt.In(loc).Format("02/01/2006 15:04")}
	if err := printTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render %s: %w", id, err)
	}
	return nil
}
