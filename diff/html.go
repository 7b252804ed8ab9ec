package diff

import (
	"bytes"
	"html/template"
)

var htmlTmpl = template.Must(template.New("changeset").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>ERN diff</title></head>
<body>
<h1>Impact: {{.ImpactLevel}}</h1>
<table border="1">
<tr><th>Type</th><th>Path</th><th>Old</th><th>New</th><th>Critical</th></tr>
{{range .Changes}}<tr><td>{{.Type}}</td><td>{{.Path}}</td><td>{{.Old}}</td><td>{{.New}}</td><td>{{.Criticality}}</td></tr>
{{end}}</table>
</body></html>
`))

// FormatHTML renders a changeset as a standalone HTML table, for the
// thin external viewer collaborator spec.md §1 mentions (diff HTML
// rendering is explicitly out of this core's scope beyond producing
// the markup).
func FormatHTML(cs *Changeset) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, cs); err != nil {
		return "", err
	}
	return buf.String(), nil
}
