package reflection

import (
	"bytes"
	"os"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

// ErrTemplateMissing means the reflection template file is absent. Fatal
// for a submission and surfaced before any remote call.
var ErrTemplateMissing = errors.New("reflection template not found")

// Renderer produces the document text for a payload. Must be pure given
// identical payload and template content.
type Renderer interface {
	Render(data map[string]string) (string, error)
}

type templateRenderer struct {
	path string
}

// NewTemplateRenderer renders through the text/template file at path. The
// file is re-read on every render so template edits take effect without a
// restart, matching how the template is maintained in production.
func NewTemplateRenderer(path string) Renderer {
	return &templateRenderer{path: path}
}

func (r *templateRenderer) Render(data map[string]string) (string, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrTemplateMissing
		}
		return "", errors.Wrap(err, "reading reflection template")
	}

	tmpl, err := texttmpl.New("reflection").Option("missingkey=zero").Parse(string(raw))
	if err != nil {
		return "", errors.Wrap(err, "parsing reflection template")
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, data); err != nil {
		return "", errors.Wrap(err, "rendering reflection template")
	}
	return buff.String(), nil
}
