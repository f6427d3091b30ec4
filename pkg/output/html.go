package output

import (
	"context"
	"html/template"
	"io"

	"github.com/ccollicutt/logtally/pkg/analyzer"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>logtally report</title>
</head>
<body>
<h1>Log analysis</h1>
{{- if .Metadata.Source}}
<p class="source">Source: {{.Metadata.Source}}</p>
{{- end}}
<table class="counts">
<tr><th>Total lines</th><td>{{.Stats.TotalLines}}</td></tr>
<tr><th>Errors</th><td>{{.Stats.ErrorCount}}</td></tr>
<tr><th>Warnings</th><td>{{.Stats.WarningCount}}</td></tr>
<tr><th>Info</th><td>{{.Stats.InfoCount}}</td></tr>
<tr><th>Time range</th><td>{{with .Stats.TimeRange}}{{.First}} &ndash; {{.Last}}{{else}}none{{end}}</td></tr>
</table>
{{- if not .Quiet}}
<h2>Top errors</h2>
{{- with .Ranked}}
<table class="top-errors">
<tr><th>Count</th><th>Message</th></tr>
{{- range .}}
<tr><td>{{.Count}}</td><td>{{.Message}}</td></tr>
{{- end}}
</table>
{{- else}}
<p>No errors found</p>
{{- end}}
{{- end}}
{{- if .Verbose}}
<p class="meta">Analyzed at {{.Metadata.AnalyzedAt.Format "2006-01-02 15:04:05"}} in {{.Metadata.Duration}}</p>
{{- end}}
</body>
</html>
`))

// HTMLFormatter formats reports as a standalone HTML page.
type HTMLFormatter struct {
	opts FormatOptions
}

// NewHTMLFormatter creates a new HTML formatter with the given options.
func NewHTMLFormatter(opts FormatOptions) *HTMLFormatter {
	return &HTMLFormatter{opts: opts}
}

// Name returns the format name.
func (f *HTMLFormatter) Name() string {
	return "html"
}

// ContentType returns the MIME type of the output.
func (f *HTMLFormatter) ContentType() string {
	return "text/html; charset=utf-8"
}

// Format renders the report as HTML. Messages are escaped by html/template.
func (f *HTMLFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	return reportTemplate.Execute(w, struct {
		*Report
		Ranked  []analyzer.MessageCount
		Verbose bool
		Quiet   bool
	}{
		Report:  report,
		Ranked:  report.Stats.RankedErrors(),
		Verbose: f.opts.Verbose,
		Quiet:   f.opts.Quiet,
	})
}
