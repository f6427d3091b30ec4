package handlers

import (
	"html/template"
	"log"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>logtally</title>
</head>
<body>
<h1>logtally</h1>
<p>Upload a log file or paste log lines. Uploads are limited to {{.MaxUploadMB}} MB.</p>
<form method="post" action="/api/analyze?format=html" enctype="multipart/form-data">
<p><input type="file" name="file"></p>
<p><textarea name="text" rows="12" cols="100" placeholder="2024-01-01T10:00:00 [ERROR] disk full"></textarea></p>
<p><button type="submit">Analyze</button></p>
</form>
</body>
</html>
`))

// PageHandler serves the browser upload form.
type PageHandler struct {
	maxUploadBytes int64
}

// NewPageHandler creates a page handler.
func NewPageHandler(maxUploadBytes int64) *PageHandler {
	return &PageHandler{maxUploadBytes: maxUploadBytes}
}

// Index renders the upload form.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ MaxUploadMB int64 }{MaxUploadMB: h.maxUploadBytes >> 20}
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Printf("rendering index: %v", err)
	}
}
