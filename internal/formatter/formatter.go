package formatter

import (
	"html/template"
	"strings"

	"github.com/mcncl/jsontree/internal/errors"
)

// pageTemplate is a minimal HTML5 document. The fragment is trusted markup
// produced by the renderer and is inserted verbatim.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
{{.Fragment}}
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// Formatter wraps rendered fragments into standalone documents
type Formatter struct {
	tmpl *template.Template
}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{tmpl: page}
}

// Page returns a complete HTML document with the given title whose body is
// fragment. The title is escaped; the fragment is not.
func (f *Formatter) Page(fragment, title string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", errors.NewFormatError("fragment is empty", errors.ErrEmptyInput)
	}

	var b strings.Builder
	err := f.tmpl.Execute(&b, struct {
		Title    string
		Fragment template.HTML
	}{
		Title:    title,
		Fragment: template.HTML(fragment), //nolint:gosec // renderer output escapes all user text
	})
	if err != nil {
		return "", errors.NewFormatError("failed to render page template", err)
	}
	return b.String(), nil
}
